package repository

import (
	"context"

	"github.com/dtroode/quantum-mirror/internal/model"
)

var (
	_ model.ConsentStore     = (*Store)(nil)
	_ model.AvatarStore      = (*Store)(nil)
	_ model.AchievementStore = (*Store)(nil)
	_ model.PreferenceStore  = (*Store)(nil)
	_ model.StateStore       = (*Store)(nil)
)

func (s *Store) LoadConsent(ctx context.Context) *model.ConsentRecord {
	return ConsentKey.Load(ctx, s)
}

func (s *Store) SaveConsent(ctx context.Context, record model.ConsentRecord) error {
	return ConsentKey.Save(ctx, s, &record)
}

func (s *Store) DeleteConsent(ctx context.Context) error {
	return ConsentKey.Delete(ctx, s)
}

func (s *Store) LoadAvatars(ctx context.Context) []model.AvatarRecord {
	return AvatarsKey.Load(ctx, s)
}

func (s *Store) SaveAvatars(ctx context.Context, avatars []model.AvatarRecord) error {
	if avatars == nil {
		avatars = []model.AvatarRecord{}
	}
	return AvatarsKey.Save(ctx, s, avatars)
}

func (s *Store) LoadAchievements(ctx context.Context) model.AchievementSet {
	return AchievementsKey.Load(ctx, s)
}

func (s *Store) SaveAchievements(ctx context.Context, set model.AchievementSet) error {
	return AchievementsKey.Save(ctx, s, set.Normalize())
}

func (s *Store) LoadTheme(ctx context.Context) model.Theme {
	return ThemeKey.Load(ctx, s)
}

func (s *Store) SaveTheme(ctx context.Context, theme model.Theme) error {
	return ThemeKey.Save(ctx, s, theme)
}
