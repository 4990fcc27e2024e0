package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// AvatarService defines avatar lifecycle operations used by the CLI.
type AvatarService interface {
	IsCreationAllowed() bool
	SelectStyle(style model.Style) error
	Create(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error)
	CreateAfterAnalysis(ctx context.Context, params model.CreateAvatarParams) (model.AvatarRecord, error)
	Delete(ctx context.Context, id string) error
	Get(id string) (model.AvatarRecord, bool)
	List() []model.AvatarRecord
	IncrementARSession(ctx context.Context, id string) error
	IncrementConversation(ctx context.Context, id string) error
}

// MediaService stores uploaded videos and hands out opaque references.
type MediaService interface {
	Accept(ctx context.Context, r io.Reader, size int64) (string, error)
	Available(ctx context.Context, ref string) (bool, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Release(ctx context.Context, ref string)
}

// Avatar handles the avatar commands.
type Avatar struct {
	avatarService AvatarService
	mediaService  MediaService
	out           output
	logger        *logger.Logger
}

// NewAvatar creates a new Avatar handler.
func NewAvatar(avatarService AvatarService, mediaService MediaService, w io.Writer, logger *logger.Logger) *Avatar {
	return &Avatar{
		avatarService: avatarService,
		mediaService:  mediaService,
		out:           newOutput(w),
		logger:        logger,
	}
}

// CreateFlags are the options accepted by Create.
func (h *Avatar) CreateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "style",
			Usage:    "avatar style: " + joinValues(model.Styles),
			Required: true,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "display name, defaults to Quantum Self <n>",
		},
		&cli.StringFlag{
			Name:  "video",
			Usage: "path to a video of you (mp4, webm, ogg or mov)",
		},
	}
}

// Create uploads the optional video and creates an avatar. With a video the
// simulated analysis runs first.
func (h *Avatar) Create(ctx context.Context, c *cli.Command) error {
	style, err := model.ParseStyle(c.String("style"))
	if err != nil {
		return handleError(err)
	}
	if err := h.avatarService.SelectStyle(style); err != nil {
		return handleError(err)
	}

	params := model.CreateAvatarParams{Name: c.String("name")}
	path := c.String("video")
	if path == "" {
		record, err := h.avatarService.Create(ctx, params)
		if err != nil {
			return handleError(err)
		}
		h.printCreated(record)
		return nil
	}

	// No video may be stored before consent is on file.
	if !h.avatarService.IsCreationAllowed() {
		return handleError(model.ErrNotAuthorized)
	}
	ref, err := h.upload(ctx, path)
	if err != nil {
		return handleError(err)
	}
	params.MediaRef = ref

	h.out.println("Analyzing video...")
	record, err := h.avatarService.CreateAfterAnalysis(ctx, params)
	if err != nil {
		h.mediaService.Release(ctx, ref)
		return handleError(err)
	}
	h.printCreated(record)
	return nil
}

func (h *Avatar) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", invalidInput(fmt.Sprintf("cannot open video: %v", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video: %w", err)
	}
	if info.IsDir() {
		return "", invalidInput(fmt.Sprintf("%s is a directory", path))
	}

	ref, err := h.mediaService.Accept(ctx, f, info.Size())
	if err != nil {
		return "", err
	}
	h.logger.Debug("video uploaded", "path", path, "media_ref", ref)
	return ref, nil
}

func (h *Avatar) printCreated(record model.AvatarRecord) {
	h.out.printf("Created %s (%s, %d%% match)\n", record.Name, record.Style, record.Match)
	h.out.printf("  id: %s\n", record.ID)
}

// List prints the avatar collection in creation order.
func (h *Avatar) List(_ context.Context, _ *cli.Command) error {
	avatars := h.avatarService.List()
	if len(avatars) == 0 {
		h.out.println("No avatars yet.")
		return nil
	}
	for _, a := range avatars {
		h.out.printf("%s  %-20s %-12s %3d%%  ar:%d talk:%d  %s\n",
			a.ID, a.Name, a.Style, a.Match, a.Stats.ARSessions, a.Stats.Conversations,
			a.CreatedAt.UTC().Format(time.DateOnly))
	}
	return nil
}

// Delete removes an avatar and releases its video. Unknown ids are reported
// but not treated as failures.
func (h *Avatar) Delete(ctx context.Context, c *cli.Command) error {
	id, err := avatarID(c)
	if err != nil {
		return err
	}
	record, ok := h.avatarService.Get(id)
	if err := h.avatarService.Delete(ctx, id); err != nil {
		return handleError(err)
	}
	if !ok {
		h.out.printf("No avatar with id %s.\n", id)
		return nil
	}
	h.mediaService.Release(ctx, record.MediaRef)
	h.out.printf("Deleted %s.\n", record.Name)
	return nil
}

// Show prints one avatar together with the state of its video.
func (h *Avatar) Show(ctx context.Context, c *cli.Command) error {
	id, err := avatarID(c)
	if err != nil {
		return err
	}
	record, ok := h.avatarService.Get(id)
	if !ok {
		h.out.printf("No avatar with id %s.\n", id)
		return nil
	}

	h.out.printf("%s (%s, %d%% match)\n", record.Name, record.Style, record.Match)
	h.out.printf("  id:            %s\n", record.ID)
	h.out.printf("  created:       %s UTC\n", record.CreatedAt.UTC().Format(time.DateTime))
	h.out.printf("  ar sessions:   %d\n", record.Stats.ARSessions)
	h.out.printf("  conversations: %d\n", record.Stats.Conversations)
	h.out.printf("  video:         %s\n", h.videoState(ctx, record.MediaRef))
	return nil
}

func (h *Avatar) videoState(ctx context.Context, ref string) string {
	if ref == "" {
		return "none"
	}
	stored, err := h.mediaService.Available(ctx, ref)
	if err != nil {
		h.logger.Warn("failed to check media", "media_ref", ref, "error", err)
		return "unknown"
	}
	if !stored {
		return "missing"
	}
	return "stored"
}

// Export copies the video an avatar was created from to a local file.
func (h *Avatar) Export(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return invalidInput("an avatar ID and a destination path are required")
	}
	id, dest := c.Args().Get(0), c.Args().Get(1)

	record, ok := h.avatarService.Get(id)
	if !ok {
		return invalidInput(fmt.Sprintf("no avatar with id %s", id))
	}
	if record.MediaRef == "" {
		return invalidInput(fmt.Sprintf("%s was created without a video", record.Name))
	}

	rc, err := h.mediaService.Open(ctx, record.MediaRef)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return invalidInput(fmt.Sprintf("the video of %s is no longer stored", record.Name))
		}
		return handleError(err)
	}
	defer rc.Close()

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return invalidInput(fmt.Sprintf("cannot create %s: %v", dest, err))
	}
	n, err := io.Copy(f, rc)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return handleError(fmt.Errorf("failed to write video: %w", err))
	}

	h.out.printf("Exported the video of %s to %s (%s).\n", record.Name, dest, humanize.IBytes(uint64(n)))
	return nil
}

// AR records an AR viewing of an avatar.
func (h *Avatar) AR(ctx context.Context, c *cli.Command) error {
	return h.interact(ctx, c, h.avatarService.IncrementARSession, "Viewing %s in AR.\n")
}

// Talk records a conversation with an avatar.
func (h *Avatar) Talk(ctx context.Context, c *cli.Command) error {
	return h.interact(ctx, c, h.avatarService.IncrementConversation, "Talking with %s.\n")
}

func (h *Avatar) interact(ctx context.Context, c *cli.Command, increment func(context.Context, string) error, format string) error {
	id, err := avatarID(c)
	if err != nil {
		return err
	}
	record, ok := h.avatarService.Get(id)
	if !ok {
		h.out.printf("No avatar with id %s.\n", id)
		return nil
	}
	if err := increment(ctx, id); err != nil {
		return handleError(err)
	}
	h.out.printf(format, record.Name)
	return nil
}

func avatarID(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", invalidInput("exactly one avatar ID argument is required")
	}
	return c.Args().First(), nil
}

// Styles prints the style catalogue.
func (h *Avatar) Styles(_ context.Context, _ *cli.Command) error {
	for _, example := range model.StyleExamples {
		h.out.printf("%-12s %-20s %s\n", example.Style, example.Name, example.Description)
	}
	return nil
}
