package model

import (
	"fmt"
	"slices"
	"time"
)

// Style is the visual theme applied to a generated avatar.
type Style string

const (
	StyleCyberpunk   Style = "cyberpunk"
	StyleNature      Style = "nature"
	StyleRenaissance Style = "renaissance"
	StyleEnergy      Style = "energy"
)

// Styles lists avatar styles in display order.
var Styles = []Style{
	StyleCyberpunk,
	StyleNature,
	StyleRenaissance,
	StyleEnergy,
}

// IsValid reports whether s is a known style.
func (s Style) IsValid() bool {
	return slices.Contains(Styles, s)
}

// ParseStyle constructs a Style from external input.
func ParseStyle(s string) (Style, error) {
	style := Style(s)
	if !style.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStyle, s)
	}
	return style, nil
}

// StyleExample describes a showcase avatar for a style.
type StyleExample struct {
	Style       Style
	Name        string
	Description string
}

// StyleExamples is the static showcase catalogue, one entry per style.
var StyleExamples = []StyleExample{
	{Style: StyleCyberpunk, Name: "CyberpunkSelf", Description: "Neon implants, reflective eyes, future city"},
	{Style: StyleNature, Name: "Nature Spirit", Description: "Vines & leaves, glowing forest aura"},
	{Style: StyleRenaissance, Name: "RenaissancePainter", Description: "Classical studio, brush in hand, natural light"},
	{Style: StyleEnergy, Name: "EnergyForm", Description: "Transparent, crystalline, pulsating light"},
}

const (
	// MinMatch is the lowest match score an avatar can be assigned.
	MinMatch = 70
	// MaxMatch is the highest match score an avatar can be assigned.
	MaxMatch = 99
)

// AvatarStats counts interactions with a single avatar.
type AvatarStats struct {
	ARSessions    int `json:"arSessions"`
	Conversations int `json:"conversations"`
}

// AvatarRecord represents a stored synthetic avatar.
type AvatarRecord struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Style     Style       `json:"style"`
	CreatedAt time.Time   `json:"createdAt"`
	MediaRef  string      `json:"mediaRef,omitempty"`
	Stats     AvatarStats `json:"stats"`
	Match     int         `json:"match"`
}

// CreateAvatarParams contains optional parameters to create an avatar.
// The style always comes from the pending selection.
type CreateAvatarParams struct {
	Name     string
	MediaRef string
}

// RandomSource draws uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}
