package model

import (
	"context"
	"io"
)

// Backend is the durable key-value store. Each key holds one JSON blob that
// Save overwrites as a whole.
type Backend interface {
	// Load returns the blob stored under key or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// MediaStorage keeps uploaded media objects owned by the presentation layer.
type MediaStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ConsentStore persists the committed consent record.
// Loads never fail: absent or malformed data yields nil.
type ConsentStore interface {
	LoadConsent(ctx context.Context) *ConsentRecord
	SaveConsent(ctx context.Context, record ConsentRecord) error
	DeleteConsent(ctx context.Context) error
}

// AvatarStore persists the whole avatar collection.
type AvatarStore interface {
	LoadAvatars(ctx context.Context) []AvatarRecord
	SaveAvatars(ctx context.Context, avatars []AvatarRecord) error
}

// AchievementStore persists the achievement set.
type AchievementStore interface {
	LoadAchievements(ctx context.Context) AchievementSet
	SaveAchievements(ctx context.Context, set AchievementSet) error
}

// PreferenceStore persists display preferences.
type PreferenceStore interface {
	LoadTheme(ctx context.Context) Theme
	SaveTheme(ctx context.Context, theme Theme) error
}

// StateStore persists every record type of a session.
type StateStore interface {
	ConsentStore
	AvatarStore
	AchievementStore
	PreferenceStore
}
