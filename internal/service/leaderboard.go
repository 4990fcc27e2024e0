package service

import (
	"slices"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// CurrentPlayerName labels the visitor's own leaderboard row.
const CurrentPlayerName = "You"

// Rivals are the fixed leaderboard entries the visitor is ranked against.
var Rivals = []model.LeaderboardEntry{
	{Name: "QuantumKing", Score: 12500, Badges: 12, Level: 25},
	{Name: "NeonDreamer", Score: 9800, Badges: 10, Level: 22},
	{Name: "AR Pioneer", Score: 8700, Badges: 9, Level: 20},
	{Name: "MirrorMaster", Score: 7600, Badges: 8, Level: 18},
}

// Leaderboard ranks the visitor among Rivals by score, highest first.
// Ties keep rivals ahead.
func Leaderboard(stats model.UserStats) []model.LeaderboardEntry {
	entries := append(slices.Clone(Rivals), model.LeaderboardEntry{
		Name:    CurrentPlayerName,
		Score:   stats.Score,
		Badges:  stats.Badges,
		Level:   stats.Level,
		Current: true,
	})
	slices.SortStableFunc(entries, func(a, b model.LeaderboardEntry) int {
		return b.Score - a.Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
