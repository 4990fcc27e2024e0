package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

var _ model.ConsentGate = (*ConsentWizard)(nil)

// ConsentWizard collects consent answers over a fixed sequence of steps and
// commits them as a ConsentRecord from the review step.
type ConsentWizard struct {
	store     model.ConsentStore
	publisher model.EventPublisher
	logger    *logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	step    int
	answers model.ConsentAnswers
	summary []string
	gate    bool
	record  *model.ConsentRecord
}

func NewConsentWizard(
	store model.ConsentStore,
	publisher model.EventPublisher,
	logger *logger.Logger,
) *ConsentWizard {
	return &ConsentWizard{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		step:      model.ConsentStepWelcome,
	}
}

// Load replaces the in-memory record with the persisted one.
func (w *ConsentWizard) Load(ctx context.Context) {
	record := w.store.LoadConsent(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.record = record
}

// Current returns a copy of the committed record, or nil.
func (w *ConsentWizard) Current() *model.ConsentRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.record == nil {
		return nil
	}
	record := *w.record
	record.DataCategories = slices.Clone(record.DataCategories)
	record.Purposes = slices.Clone(record.Purposes)
	record.Sharing = slices.Clone(record.Sharing)
	return &record
}

// HasValidConsent reports whether a valid record is committed.
func (w *ConsentWizard) HasValidConsent() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record != nil && w.record.IsValid()
}

// Step returns the current step, 1-based.
func (w *ConsentWizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func validStep(step int) bool {
	return step >= model.ConsentStepWelcome && step <= model.ConsentSteps
}

// Advance moves to the next step. It is a no-op on the last step.
func (w *ConsentWizard) Advance() {
	w.mu.Lock()
	if !validStep(w.step) || w.step == model.ConsentSteps {
		w.mu.Unlock()
		return
	}
	w.step++
	var events []model.Event
	if w.step == model.ConsentStepReview {
		events = w.enterReviewLocked()
	}
	w.mu.Unlock()

	w.publish(events...)
}

// Retreat moves to the previous step. It is a no-op on the first step.
func (w *ConsentWizard) Retreat() {
	w.mu.Lock()
	if !validStep(w.step) || w.step == model.ConsentStepWelcome {
		w.mu.Unlock()
		return
	}
	w.step--
	events := w.closeGateLocked()
	w.mu.Unlock()

	w.publish(events...)
}

// enterReviewLocked recomputes the summary and gate from live answers.
func (w *ConsentWizard) enterReviewLocked() []model.Event {
	w.summary = summarize(w.answers)
	w.gate = w.answers.GateOpen()
	return []model.Event{{Kind: model.EventConsentGateChanged, GateEnabled: w.gate}}
}

// closeGateLocked disables commit on leaving the review step.
func (w *ConsentWizard) closeGateLocked() []model.Event {
	if !w.gate {
		return nil
	}
	w.gate = false
	return []model.Event{{Kind: model.EventConsentGateChanged, GateEnabled: false}}
}

// answersChangedLocked refreshes the review projection after an edit.
func (w *ConsentWizard) answersChangedLocked() []model.Event {
	if w.step != model.ConsentStepReview {
		return nil
	}
	w.summary = summarize(w.answers)
	gate := w.answers.GateOpen()
	if gate == w.gate {
		return nil
	}
	w.gate = gate
	return []model.Event{{Kind: model.EventConsentGateChanged, GateEnabled: gate}}
}

func (w *ConsentWizard) edit(apply func(a *model.ConsentAnswers)) {
	w.mu.Lock()
	apply(&w.answers)
	events := w.answersChangedLocked()
	w.mu.Unlock()

	w.publish(events...)
}

// SetDataCategory checks or unchecks a data category.
func (w *ConsentWizard) SetDataCategory(category model.DataCategory, checked bool) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: data category %q", model.ErrInvalidChoice, category)
	}
	w.edit(func(a *model.ConsentAnswers) {
		a.DataCategories = toggle(a.DataCategories, model.DataCategories, category, checked)
	})
	return nil
}

// SetPurpose checks or unchecks a processing purpose.
func (w *ConsentWizard) SetPurpose(purpose model.Purpose, checked bool) error {
	if !purpose.IsValid() {
		return fmt.Errorf("%w: purpose %q", model.ErrInvalidChoice, purpose)
	}
	w.edit(func(a *model.ConsentAnswers) {
		a.Purposes = toggle(a.Purposes, model.Purposes, purpose, checked)
	})
	return nil
}

// SetSharing checks or unchecks a third-party sharing target.
func (w *ConsentWizard) SetSharing(target model.SharingTarget, checked bool) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: sharing target %q", model.ErrInvalidChoice, target)
	}
	w.edit(func(a *model.ConsentAnswers) {
		a.Sharing = toggle(a.Sharing, model.SharingTargets, target, checked)
	})
	return nil
}

// SetRetention selects the retention period.
func (w *ConsentWizard) SetRetention(days model.RetentionDays) error {
	if !days.IsValid() {
		return fmt.Errorf("%w: %d days", model.ErrInvalidRetention, days)
	}
	w.edit(func(a *model.ConsentAnswers) {
		a.RetentionDays = days
	})
	return nil
}

// SetAcknowledgement checks or unchecks a mandatory acknowledgement.
func (w *ConsentWizard) SetAcknowledgement(ack model.Acknowledgement, checked bool) error {
	var apply func(a *model.ConsentAnswers)
	switch ack {
	case model.AcknowledgePrivacyPolicy:
		apply = func(a *model.ConsentAnswers) { a.PrivacyPolicyAccepted = checked }
	case model.AcknowledgeTerms:
		apply = func(a *model.ConsentAnswers) { a.TermsAccepted = checked }
	case model.AcknowledgeAge:
		apply = func(a *model.ConsentAnswers) { a.AgeConfirmed = checked }
	default:
		return fmt.Errorf("%w: acknowledgement %q", model.ErrInvalidChoice, ack)
	}
	w.edit(apply)
	return nil
}

// Answers returns a copy of the live answers.
func (w *ConsentWizard) Answers() model.ConsentAnswers {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.answers.Clone()
}

// Summary returns the review projection computed when the review step was
// entered or last edited. It is empty before the review step.
func (w *ConsentWizard) Summary() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != model.ConsentStepReview {
		return nil
	}
	return slices.Clone(w.summary)
}

// GateEnabled reports whether Commit is currently allowed.
func (w *ConsentWizard) GateEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step == model.ConsentStepReview && w.gate
}

// Commit persists the answers as the new consent record, replacing any
// previous one. It fails without effect unless the wizard is on the review
// step with all acknowledgements given.
func (w *ConsentWizard) Commit(ctx context.Context) (model.ConsentRecord, error) {
	w.mu.Lock()
	if w.step != model.ConsentStepReview {
		w.mu.Unlock()
		return model.ConsentRecord{}, model.ErrNotAtReviewStep
	}
	if !w.answers.GateOpen() {
		w.mu.Unlock()
		return model.ConsentRecord{}, model.ErrConsentIncomplete
	}

	record := w.answers.Record(w.now())
	if err := w.store.SaveConsent(ctx, record); err != nil {
		w.mu.Unlock()
		w.logger.Error("failed to persist consent", "error", err)
		return model.ConsentRecord{}, fmt.Errorf("failed to save consent: %w", err)
	}
	stored := record
	w.record = &stored
	w.mu.Unlock()

	w.logger.Info("consent committed", "retention_days", int(record.RetentionDays))
	w.publish(model.Event{Kind: model.EventConsentCompleted, Consent: &record})
	return record, nil
}

// Reopen restarts the wizard at the first step. The committed record stays
// in force until the next Commit and prefills the answers.
func (w *ConsentWizard) Reopen() {
	w.mu.Lock()
	w.step = model.ConsentStepWelcome
	w.summary = nil
	events := w.closeGateLocked()
	if w.record != nil {
		w.answers = model.AnswersFromRecord(*w.record)
	}
	w.mu.Unlock()

	w.publish(events...)
}

// Withdraw deletes the committed record. Without one it does nothing.
func (w *ConsentWizard) Withdraw(ctx context.Context) error {
	w.mu.Lock()
	if w.record == nil {
		w.mu.Unlock()
		return nil
	}
	if err := w.store.DeleteConsent(ctx); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to delete consent: %w", err)
	}
	w.record = nil
	w.mu.Unlock()

	w.logger.Info("consent withdrawn")
	w.publish(model.Event{Kind: model.EventConsentWithdrawn})
	return nil
}

func (w *ConsentWizard) publish(events ...model.Event) {
	for _, event := range events {
		w.publisher.Publish(event)
	}
}

func summarize(a model.ConsentAnswers) []string {
	var lines []string
	for _, c := range a.DataCategories {
		lines = append(lines, "Data: "+c.Label())
	}
	for _, p := range a.Purposes {
		lines = append(lines, "Purpose: "+p.Label())
	}
	for _, s := range a.Sharing {
		lines = append(lines, "Shared with: "+s.Label())
	}
	lines = append(lines, fmt.Sprintf("Retention: %d days", a.Retention()))
	if a.PrivacyPolicyAccepted {
		lines = append(lines, model.AcknowledgePrivacyPolicy.Label())
	}
	if a.TermsAccepted {
		lines = append(lines, model.AcknowledgeTerms.Label())
	}
	if a.AgeConfirmed {
		lines = append(lines, model.AcknowledgeAge.Label())
	}
	return lines
}

// toggle adds or removes v keeping list in display order.
func toggle[T comparable](list, order []T, v T, on bool) []T {
	out := make([]T, 0, len(order))
	for _, item := range order {
		selected := slices.Contains(list, item)
		if item == v {
			selected = on
		}
		if selected {
			out = append(out, item)
		}
	}
	return out
}
