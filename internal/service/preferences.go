package service

import (
	"context"
	"fmt"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// DefaultTheme applies when no theme was chosen.
const DefaultTheme = model.ThemeDark

type Preferences struct {
	store model.PreferenceStore
}

func NewPreferences(store model.PreferenceStore) *Preferences {
	return &Preferences{store: store}
}

// Theme returns the stored theme or DefaultTheme.
func (p *Preferences) Theme(ctx context.Context) model.Theme {
	if theme := p.store.LoadTheme(ctx); theme.IsValid() {
		return theme
	}
	return DefaultTheme
}

func (p *Preferences) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("%w: theme %q", model.ErrInvalidChoice, theme)
	}
	if err := p.store.SaveTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
