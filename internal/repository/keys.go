package repository

import (
	"errors"
	"fmt"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// Backend keys, one per record type.
const (
	KeyConsent      = "consent"
	KeyAvatars      = "avatars"
	KeyAchievements = "achievements"
	KeyTheme        = "theme"
)

var (
	// ConsentKey holds the committed consent record; nil when absent.
	ConsentKey = NewKey(KeyConsent, func() *model.ConsentRecord { return nil }, normalizeConsent)
	// AvatarsKey holds avatar records in creation order.
	AvatarsKey = NewKey(KeyAvatars, func() []model.AvatarRecord { return []model.AvatarRecord{} }, normalizeAvatars)
	// AchievementsKey holds the unlocked flag of every achievement.
	AchievementsKey = NewKey(KeyAchievements, model.NewAchievementSet, normalizeAchievements)
	// ThemeKey holds the theme preference; empty when unset.
	ThemeKey = NewKey(KeyTheme, func() model.Theme { return "" }, normalizeTheme)
)

func normalizeConsent(record *model.ConsentRecord) (*model.ConsentRecord, error) {
	if record == nil {
		return nil, nil
	}
	if !record.IsValid() {
		return nil, errors.New("consent record lacks mandatory acknowledgements")
	}
	if !record.RetentionDays.IsValid() {
		record.RetentionDays = model.DefaultRetention
	}
	return record, nil
}

func normalizeAvatars(records []model.AvatarRecord) ([]model.AvatarRecord, error) {
	if records == nil {
		return []model.AvatarRecord{}, nil
	}
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if record.ID == "" {
			return nil, errors.New("avatar record without id")
		}
		if _, ok := seen[record.ID]; ok {
			return nil, fmt.Errorf("duplicate avatar id %q", record.ID)
		}
		seen[record.ID] = struct{}{}
	}
	return records, nil
}

func normalizeAchievements(set model.AchievementSet) (model.AchievementSet, error) {
	return set.Normalize(), nil
}

func normalizeTheme(theme model.Theme) (model.Theme, error) {
	if theme != "" && !theme.IsValid() {
		return "", fmt.Errorf("unknown theme %q", theme)
	}
	return theme, nil
}
