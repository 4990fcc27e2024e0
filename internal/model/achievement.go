package model

import "slices"

// AchievementKey identifies an achievement.
type AchievementKey string

const (
	AchievementFirstStep       AchievementKey = "firstStep"
	AchievementVideoMaster     AchievementKey = "videoMaster"
	AchievementMultiSelf       AchievementKey = "multiSelf"
	AchievementARExplorer      AchievementKey = "arExplorer"
	AchievementStyleCollector  AchievementKey = "styleCollector"
	AchievementSocialButterfly AchievementKey = "socialButterfly"
	AchievementQuantumCreator  AchievementKey = "quantumCreator"
	AchievementTimeTraveler    AchievementKey = "timeTraveler"
	AchievementPerfectionist   AchievementKey = "perfectionist"
	AchievementQuantumLegend   AchievementKey = "quantumLegend"
	AchievementBetaPioneer     AchievementKey = "betaPioneer"
	AchievementIdeaContributor AchievementKey = "ideaContributor"
)

// AchievementKeys lists every achievement in display order.
var AchievementKeys = []AchievementKey{
	AchievementFirstStep,
	AchievementVideoMaster,
	AchievementMultiSelf,
	AchievementARExplorer,
	AchievementStyleCollector,
	AchievementSocialButterfly,
	AchievementQuantumCreator,
	AchievementTimeTraveler,
	AchievementPerfectionist,
	AchievementQuantumLegend,
	AchievementBetaPioneer,
	AchievementIdeaContributor,
}

// IsValid reports whether k is a known achievement key.
func (k AchievementKey) IsValid() bool {
	return slices.Contains(AchievementKeys, k)
}

// AchievementInfo is the display metadata of an achievement.
type AchievementInfo struct {
	Name        string
	Icon        string
	Description string
}

var achievementInfo = map[AchievementKey]AchievementInfo{
	AchievementFirstStep:       {Name: "First Step", Icon: "👶", Description: "Complete GDPR consent setup"},
	AchievementVideoMaster:     {Name: "Video Master", Icon: "📹", Description: "Upload your first video"},
	AchievementMultiSelf:       {Name: "Multi-Self", Icon: "👥", Description: "Create 3 or more avatars"},
	AchievementARExplorer:      {Name: "AR Explorer", Icon: "📱", Description: "View an avatar in AR mode"},
	AchievementStyleCollector:  {Name: "Style Collector", Icon: "💎", Description: "Collect all avatar styles"},
	AchievementSocialButterfly: {Name: "Social Butterfly", Icon: "🤝", Description: "Share an avatar with friends"},
	AchievementQuantumCreator:  {Name: "Quantum Creator", Icon: "🎨", Description: "Create 10 avatars"},
	AchievementTimeTraveler:    {Name: "Time Traveler", Icon: "⏳", Description: "Use the app for 30 days"},
	AchievementPerfectionist:   {Name: "Perfectionist", Icon: "⭐", Description: "Complete all achievements"},
	AchievementQuantumLegend:   {Name: "Quantum Legend", Icon: "👑", Description: "Reach maximum level"},
	AchievementBetaPioneer:     {Name: "Beta Pioneer", Icon: "🚀", Description: "Participate in beta testing"},
	AchievementIdeaContributor: {Name: "Idea Contributor", Icon: "💡", Description: "Submit feedback or ideas"},
}

// Info returns the display metadata of the achievement.
func (k AchievementKey) Info() AchievementInfo {
	if info, ok := achievementInfo[k]; ok {
		return info
	}
	return AchievementInfo{Name: "Achievement", Icon: "🏆", Description: "Unlock this achievement"}
}

// AchievementSet maps every achievement key to its unlocked flag.
type AchievementSet map[AchievementKey]bool

// NewAchievementSet returns a set with every key present and locked.
func NewAchievementSet() AchievementSet {
	set := make(AchievementSet, len(AchievementKeys))
	for _, key := range AchievementKeys {
		set[key] = false
	}
	return set
}

// Normalize fills in missing keys as locked and drops unknown ones.
func (s AchievementSet) Normalize() AchievementSet {
	out := NewAchievementSet()
	for key, unlocked := range s {
		if key.IsValid() {
			out[key] = unlocked
		}
	}
	return out
}

// UnlockedCount returns how many achievements are unlocked.
func (s AchievementSet) UnlockedCount() int {
	n := 0
	for _, unlocked := range s {
		if unlocked {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the set.
func (s AchievementSet) Clone() AchievementSet {
	out := make(AchievementSet, len(s))
	for key, unlocked := range s {
		out[key] = unlocked
	}
	return out
}
