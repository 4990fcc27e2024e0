package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// DefaultMaxMediaSize is the upload size limit when none is configured.
const DefaultMaxMediaSize = 100 << 20

// sniffLen is how many leading bytes are inspected to detect the format.
const sniffLen = 3072

// SupportedVideoTypes lists the accepted upload formats.
var SupportedVideoTypes = []string{
	"video/mp4",
	"video/webm",
	"video/ogg",
	"video/quicktime",
}

// MediaIntake validates uploaded videos and hands them to media storage.
// The returned reference is opaque to the core.
type MediaIntake struct {
	storage model.MediaStorage
	maxSize int64
	logger  *logger.Logger
	newID   func() (uuid.UUID, error)
}

func NewMediaIntake(storage model.MediaStorage, maxSize int64, logger *logger.Logger) *MediaIntake {
	if maxSize <= 0 {
		maxSize = DefaultMaxMediaSize
	}
	return &MediaIntake{
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
		newID:   uuid.NewV7,
	}
}

// Accept checks size and format of r and stores it. size is the declared
// length in bytes.
func (i *MediaIntake) Accept(ctx context.Context, r io.Reader, size int64) (string, error) {
	if size < 0 {
		return "", fmt.Errorf("media size is unknown")
	}
	if size == 0 {
		return "", model.ErrEmptyMedia
	}
	if size > i.maxSize {
		return "", fmt.Errorf("%w: %s exceeds the %s limit",
			model.ErrMediaTooLarge, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(i.maxSize)))
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read media: %w", err)
	}
	if n == 0 {
		return "", model.ErrEmptyMedia
	}
	header = header[:n]

	mtype := detectVideo(header)
	if mtype == nil {
		return "", fmt.Errorf("%w: %s", model.ErrUnsupportedMedia, mimetype.Detect(header).String())
	}

	id, err := i.newID()
	if err != nil {
		return "", fmt.Errorf("failed to generate media key: %w", err)
	}
	key := "videos/" + id.String() + mtype.Extension()

	body := io.MultiReader(bytes.NewReader(header), r)
	if err := i.storage.Upload(ctx, key, body, size, mtype.String()); err != nil {
		return "", fmt.Errorf("failed to store media: %w", err)
	}

	i.logger.Info("media stored", "media_ref", key, "type", mtype.String(), "size", humanize.IBytes(uint64(size)))
	return key, nil
}

// Open returns the stored media for ref.
func (i *MediaIntake) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	rc, err := i.storage.Download(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	return rc, nil
}

// Available reports whether the media behind ref is still stored.
func (i *MediaIntake) Available(ctx context.Context, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	ok, err := i.storage.Exists(ctx, ref)
	if err != nil {
		return false, fmt.Errorf("failed to check media: %w", err)
	}
	return ok, nil
}

// Release deletes the media behind ref. Failures are logged only.
func (i *MediaIntake) Release(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := i.storage.Delete(ctx, ref); err != nil {
		i.logger.Warn("failed to release media", "media_ref", ref, "error", err)
	}
}

// detectVideo returns the detected type when it or one of its parents is
// a supported video format.
func detectVideo(header []byte) *mimetype.MIME {
	detected := mimetype.Detect(header)
	for m := detected; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), SupportedVideoTypes...) {
			return detected
		}
	}
	return nil
}
