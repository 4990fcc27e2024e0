package handler

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// ConsentService defines the consent wizard operations used by the CLI.
type ConsentService interface {
	Reopen()
	Advance()
	Step() int
	SetDataCategory(category model.DataCategory, checked bool) error
	SetPurpose(purpose model.Purpose, checked bool) error
	SetSharing(target model.SharingTarget, checked bool) error
	SetRetention(days model.RetentionDays) error
	SetAcknowledgement(ack model.Acknowledgement, checked bool) error
	Summary() []string
	Commit(ctx context.Context) (model.ConsentRecord, error)
	Current() *model.ConsentRecord
	Withdraw(ctx context.Context) error
}

// Consent handles the consent commands.
type Consent struct {
	consentService ConsentService
	out            output
	logger         *logger.Logger
}

// NewConsent creates a new Consent handler.
func NewConsent(consentService ConsentService, w io.Writer, logger *logger.Logger) *Consent {
	return &Consent{
		consentService: consentService,
		out:            newOutput(w),
		logger:         logger,
	}
}

// GrantFlags are the answers accepted by Grant.
func (h *Consent) GrantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "data",
			Usage: "data categories to share: " + joinValues(model.DataCategories),
		},
		&cli.StringSliceFlag{
			Name:  "purpose",
			Usage: "processing purposes: " + joinValues(model.Purposes),
		},
		&cli.StringSliceFlag{
			Name:  "share",
			Usage: "third parties data may be shared with: " + joinValues(model.SharingTargets),
		},
		&cli.IntFlag{
			Name:  "retention",
			Usage: "retention period in days: 30, 90, 180 or 365",
			Value: int64(model.DefaultRetention),
		},
		&cli.BoolFlag{Name: "accept-privacy", Usage: "accept the privacy policy"},
		&cli.BoolFlag{Name: "accept-terms", Usage: "accept the terms of service"},
		&cli.BoolFlag{Name: "confirm-age", Usage: "confirm you are 16 or older"},
	}
}

// Grant walks the wizard with the answers given as flags and commits them
// from the review step. Answers not given are cleared.
func (h *Consent) Grant(ctx context.Context, c *cli.Command) error {
	categories, err := parseAll(c.StringSlice("data"), model.ParseDataCategory)
	if err != nil {
		return handleError(err)
	}
	purposes, err := parseAll(c.StringSlice("purpose"), model.ParsePurpose)
	if err != nil {
		return handleError(err)
	}
	sharing, err := parseAll(c.StringSlice("share"), model.ParseSharingTarget)
	if err != nil {
		return handleError(err)
	}
	retention, err := model.ParseRetention(int(c.Int("retention")))
	if err != nil {
		return handleError(err)
	}
	acks := map[model.Acknowledgement]bool{
		model.AcknowledgePrivacyPolicy: c.Bool("accept-privacy"),
		model.AcknowledgeTerms:         c.Bool("accept-terms"),
		model.AcknowledgeAge:           c.Bool("confirm-age"),
	}

	w := h.consentService
	w.Reopen()
	for range model.ConsentSteps {
		if w.Step() >= model.ConsentStepReview {
			break
		}
		h.logger.Debug("consent step", "step", w.Step(), "title", model.ConsentStepTitle(w.Step()))

		var err error
		switch w.Step() {
		case model.ConsentStepDataCategories:
			err = setEach(model.DataCategories, categories, w.SetDataCategory)
		case model.ConsentStepPurposes:
			err = setEach(model.Purposes, purposes, w.SetPurpose)
		case model.ConsentStepSharing:
			err = setEach(model.SharingTargets, sharing, w.SetSharing)
		case model.ConsentStepRetention:
			err = w.SetRetention(retention)
		}
		if err != nil {
			return handleError(err)
		}
		w.Advance()
	}

	for _, ack := range model.Acknowledgements {
		if err := w.SetAcknowledgement(ack, acks[ack]); err != nil {
			return handleError(err)
		}
	}

	h.out.printf("%s\n", model.ConsentStepTitle(model.ConsentStepReview))
	for _, line := range w.Summary() {
		h.out.printf("  %s\n", line)
	}

	if _, err := w.Commit(ctx); err != nil {
		return handleError(err)
	}
	h.out.println("Consent saved. You can now create avatars.")
	return nil
}

// Show prints the consent on file.
func (h *Consent) Show(_ context.Context, _ *cli.Command) error {
	record := h.consentService.Current()
	if record == nil {
		h.out.println("No consent on file.")
		return nil
	}

	h.out.printf("Consent granted %s UTC\n", record.CreatedAt.UTC().Format(time.DateTime))
	printLabels(h.out, "Data", record.DataCategories)
	printLabels(h.out, "Purpose", record.Purposes)
	printLabels(h.out, "Shared with", record.Sharing)
	h.out.printf("  Retention: %d days\n", int(record.RetentionDays))
	for _, ack := range model.Acknowledgements {
		h.out.printf("  %s\n", ack.Label())
	}
	return nil
}

// Withdraw removes the consent on file.
func (h *Consent) Withdraw(ctx context.Context, _ *cli.Command) error {
	if h.consentService.Current() == nil {
		h.out.println("No consent on file.")
		return nil
	}
	if err := h.consentService.Withdraw(ctx); err != nil {
		return handleError(err)
	}
	h.out.println("Consent withdrawn. Avatar creation is disabled until consent is granted again.")
	return nil
}

func parseAll[T any](values []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parsed, err := parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// setEach checks every option in selected and unchecks the rest.
func setEach[T comparable](options, selected []T, set func(T, bool) error) error {
	for _, option := range options {
		if err := set(option, slices.Contains(selected, option)); err != nil {
			return err
		}
	}
	return nil
}

type labeled interface {
	~string
	Label() string
}

func printLabels[T labeled](out output, title string, values []T) {
	if len(values) == 0 {
		out.printf("  %s: none\n", title)
		return
	}
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.Label()
	}
	out.printf("  %s: %s\n", title, strings.Join(labels, ", "))
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
