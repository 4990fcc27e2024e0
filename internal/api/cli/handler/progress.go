package handler

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// ProgressService exposes the derived progress of the visitor.
type ProgressService interface {
	Stats() model.UserStats
	Leaderboard() []model.LeaderboardEntry
}

// AchievementReader returns the current achievement set.
type AchievementReader interface {
	Set() model.AchievementSet
}

// Progress handles the achievements, stats and leaderboard commands.
type Progress struct {
	progressService ProgressService
	achievements    AchievementReader
	out             output
}

// NewProgress creates a new Progress handler.
func NewProgress(progressService ProgressService, achievements AchievementReader, w io.Writer) *Progress {
	return &Progress{
		progressService: progressService,
		achievements:    achievements,
		out:             newOutput(w),
	}
}

// Achievements prints every achievement with its unlocked state.
func (h *Progress) Achievements(_ context.Context, _ *cli.Command) error {
	set := h.achievements.Set()
	for _, key := range model.AchievementKeys {
		info := key.Info()
		mark := "  "
		if set[key] {
			mark = "✓ "
		}
		h.out.printf("%s%s %-17s %s\n", mark, info.Icon, info.Name, info.Description)
	}
	h.out.printf("%d of %d unlocked\n", set.UnlockedCount(), len(model.AchievementKeys))
	return nil
}

// Stats prints the visitor's totals, score and level.
func (h *Progress) Stats(_ context.Context, _ *cli.Command) error {
	stats := h.progressService.Stats()
	h.out.printf("Avatars:       %d\n", stats.Avatars)
	h.out.printf("AR sessions:   %d\n", stats.ARSessions)
	h.out.printf("Conversations: %d\n", stats.Conversations)
	h.out.printf("Badges:        %d\n", stats.Badges)
	h.out.printf("Score:         %d\n", stats.Score)
	h.out.printf("Level:         %d\n", stats.Level)
	return nil
}

// Leaderboard prints the ranking.
func (h *Progress) Leaderboard(_ context.Context, _ *cli.Command) error {
	for _, entry := range h.progressService.Leaderboard() {
		marker := " "
		if entry.Current {
			marker = "»"
		}
		h.out.printf("%s %d. %-14s %8d pts  %2d badges  level %d\n",
			marker, entry.Rank, entry.Name, entry.Score, entry.Badges, entry.Level)
	}
	return nil
}
