package service

import (
	"context"
	"fmt"

	"github.com/dtroode/quantum-mirror/internal/events"
	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// Session is the explicit state object of one visitor session. It wires the
// consent wizard, avatar manager and achievement tracker to a shared event
// bus and re-evaluates achievements after every record mutation.
type Session struct {
	Consent      *ConsentWizard
	Avatars      *AvatarManager
	Achievements *AchievementTracker
	Preferences  *Preferences

	bus    *events.Bus
	logger *logger.Logger
}

func NewSession(
	store model.StateStore,
	bus *events.Bus,
	random model.RandomSource,
	logger *logger.Logger,
) *Session {
	consent := NewConsentWizard(store, bus, logger)
	s := &Session{
		Consent:      consent,
		Avatars:      NewAvatarManager(store, consent, bus, random, logger),
		Achievements: NewAchievementTracker(store, bus, logger),
		Preferences:  NewPreferences(store),
		bus:          bus,
		logger:       logger,
	}

	bus.SubscribeKind(s.onRecordsChanged,
		model.EventConsentCompleted,
		model.EventConsentWithdrawn,
		model.EventAvatarCreated,
		model.EventAvatarUpdated,
		model.EventAvatarDeleted,
	)
	return s
}

// Load reads all records from the store and brings achievements up to date.
func (s *Session) Load(ctx context.Context) error {
	s.Consent.Load(ctx)
	s.Avatars.Load(ctx)
	s.Achievements.Load(ctx)

	if _, err := s.Achievements.Refresh(ctx, s.Consent.Current(), s.Avatars.List()); err != nil {
		return fmt.Errorf("failed to refresh achievements: %w", err)
	}
	return nil
}

// Subscribe registers h for every event of the session.
func (s *Session) Subscribe(h events.Handler) {
	s.bus.Subscribe(h)
}

// Stats returns the derived progress of the visitor.
func (s *Session) Stats() model.UserStats {
	return ComputeStats(s.Avatars.List(), s.Achievements.Set())
}

// Leaderboard ranks the visitor among the fixed rivals.
func (s *Session) Leaderboard() []model.LeaderboardEntry {
	return Leaderboard(s.Stats())
}

// UnlockAchievement unlocks a reserved achievement on behalf of an external feature.
func (s *Session) UnlockAchievement(ctx context.Context, key model.AchievementKey) error {
	unlocked, err := s.Achievements.Unlock(ctx, key)
	if unlocked {
		s.publishStats()
	}
	return err
}

func (s *Session) onRecordsChanged(model.Event) {
	// Bus handlers have no context.
	ctx := context.Background()
	if _, err := s.Achievements.Refresh(ctx, s.Consent.Current(), s.Avatars.List()); err != nil {
		s.logger.Error("failed to refresh achievements", "error", err)
	}
	s.publishStats()
}

func (s *Session) publishStats() {
	stats := s.Stats()
	s.bus.Publish(model.Event{Kind: model.EventStatsChanged, Score: stats.Score, Level: stats.Level})
}
