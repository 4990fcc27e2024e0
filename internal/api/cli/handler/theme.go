package handler

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// ThemeService reads and stores the display theme.
type ThemeService interface {
	Theme(ctx context.Context) model.Theme
	SetTheme(ctx context.Context, theme model.Theme) error
}

// Theme handles the theme command.
type Theme struct {
	themeService ThemeService
	out          output
}

// NewTheme creates a new Theme handler.
func NewTheme(themeService ThemeService, w io.Writer) *Theme {
	return &Theme{themeService: themeService, out: newOutput(w)}
}

// Handle prints the theme, or sets it when an argument is given.
func (h *Theme) Handle(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		h.out.printf("Theme: %s\n", h.themeService.Theme(ctx))
		return nil
	}
	if c.Args().Len() > 1 {
		return invalidInput("at most one theme argument is accepted")
	}

	theme, err := model.ParseTheme(c.Args().First())
	if err != nil {
		return handleError(err)
	}
	if err := h.themeService.SetTheme(ctx, theme); err != nil {
		return handleError(err)
	}
	h.out.printf("Theme set to %s.\n", theme)
	return nil
}
