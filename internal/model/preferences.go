package model

import (
	"fmt"
	"slices"
)

// Theme is the visitor's display theme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Themes lists the supported themes.
var Themes = []Theme{ThemeDark, ThemeLight}

// IsValid reports whether t is a supported theme.
func (t Theme) IsValid() bool {
	return slices.Contains(Themes, t)
}

// ParseTheme constructs a Theme from external input.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: theme %q", ErrInvalidChoice, s)
	}
	return t, nil
}
