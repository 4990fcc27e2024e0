package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// Score weights.
const (
	ScorePerAvatar      = 1000
	ScorePerAchievement = 500
	ScorePerARSession   = 100
	ScorePerLevel       = 1000
)

// multiSelfThreshold is the collection size that unlocks multiSelf.
const multiSelfThreshold = 3

// EvaluateAchievements returns the keys whose unlock predicate holds for the
// given state. Reserved keys are never included.
func EvaluateAchievements(consent *model.ConsentRecord, avatars []model.AvatarRecord) []model.AchievementKey {
	var keys []model.AchievementKey
	if consent != nil && consent.IsValid() {
		keys = append(keys, model.AchievementFirstStep)
	}
	if len(avatars) > 0 {
		keys = append(keys, model.AchievementVideoMaster)
	}
	if len(avatars) >= multiSelfThreshold {
		keys = append(keys, model.AchievementMultiSelf)
	}
	if slices.ContainsFunc(avatars, func(a model.AvatarRecord) bool { return a.Stats.ARSessions > 0 }) {
		keys = append(keys, model.AchievementARExplorer)
	}
	return keys
}

// Score computes the visitor's score from records and unlocked achievements.
func Score(avatars []model.AvatarRecord, achievements model.AchievementSet) int {
	arSessions := 0
	for _, a := range avatars {
		arSessions += a.Stats.ARSessions
	}
	return ScorePerAvatar*len(avatars) + ScorePerAchievement*achievements.UnlockedCount() + ScorePerARSession*arSessions
}

// Level returns the level reached with score.
func Level(score int) int {
	return score/ScorePerLevel + 1
}

// ComputeStats summarizes the visitor's progress.
func ComputeStats(avatars []model.AvatarRecord, achievements model.AchievementSet) model.UserStats {
	stats := model.UserStats{
		Avatars: len(avatars),
		Badges:  achievements.UnlockedCount(),
	}
	for _, a := range avatars {
		stats.ARSessions += a.Stats.ARSessions
		stats.Conversations += a.Stats.Conversations
	}
	stats.Score = Score(avatars, achievements)
	stats.Level = Level(stats.Score)
	return stats
}

// AchievementTracker holds the persisted achievement set and flips flags
// when their predicates become true. Flags never revert.
type AchievementTracker struct {
	store     model.AchievementStore
	publisher model.EventPublisher
	logger    *logger.Logger

	mu  sync.Mutex
	set model.AchievementSet
}

func NewAchievementTracker(
	store model.AchievementStore,
	publisher model.EventPublisher,
	logger *logger.Logger,
) *AchievementTracker {
	return &AchievementTracker{
		store:     store,
		publisher: publisher,
		logger:    logger,
		set:       model.NewAchievementSet(),
	}
}

// Load replaces the in-memory set with the persisted one.
func (t *AchievementTracker) Load(ctx context.Context) {
	set := t.store.LoadAchievements(ctx).Normalize()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.set = set
}

// Set returns a copy of the current set.
func (t *AchievementTracker) Set() model.AchievementSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.Clone()
}

// Refresh evaluates the predicates against the state and unlocks what newly holds.
func (t *AchievementTracker) Refresh(ctx context.Context, consent *model.ConsentRecord, avatars []model.AvatarRecord) ([]model.AchievementKey, error) {
	return t.unlock(ctx, EvaluateAchievements(consent, avatars))
}

// Unlock sets key explicitly. It reports whether the key was newly unlocked.
func (t *AchievementTracker) Unlock(ctx context.Context, key model.AchievementKey) (bool, error) {
	if !key.IsValid() {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidAchievement, key)
	}
	unlocked, err := t.unlock(ctx, []model.AchievementKey{key})
	return len(unlocked) > 0, err
}

// unlock persists the newly true keys before they take effect in memory,
// so a key is only announced once it survives a restart.
func (t *AchievementTracker) unlock(ctx context.Context, keys []model.AchievementKey) ([]model.AchievementKey, error) {
	t.mu.Lock()
	next := t.set.Clone()
	var unlocked []model.AchievementKey
	for _, key := range keys {
		if !next[key] {
			next[key] = true
			unlocked = append(unlocked, key)
		}
	}
	if len(unlocked) == 0 {
		t.mu.Unlock()
		return nil, nil
	}
	if err := t.store.SaveAchievements(ctx, next); err != nil {
		t.mu.Unlock()
		t.logger.Error("failed to persist achievements", "achievements", unlocked, "error", err)
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}
	t.set = next
	t.mu.Unlock()

	for _, key := range unlocked {
		t.logger.Info("achievement unlocked", "achievement", key)
		t.publisher.Publish(model.Event{Kind: model.EventAchievementUnlocked, Achievement: key})
	}
	return unlocked, nil
}
