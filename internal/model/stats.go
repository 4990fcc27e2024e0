package model

// UserStats summarizes the visitor's progress. Derived, never persisted.
type UserStats struct {
	Avatars       int
	ARSessions    int
	Conversations int
	Badges        int
	Score         int
	Level         int
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank    int
	Name    string
	Score   int
	Badges  int
	Level   int
	Current bool
}
