package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/api/cli/handler"
	"github.com/dtroode/quantum-mirror/internal/logger"
)

// Logging wraps command actions and logs their execution.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Wrap logs command name, duration and exit status around action.
func (l *Logging) Wrap(name string, action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		start := time.Now()

		l.logger.Debug("command started",
			"command", name,
			"start_time", start.Format(time.RFC3339))

		err := action(ctx, c)

		duration := time.Since(start)
		status := strconv.Itoa(handler.ExitStatus(err))

		l.logger.Info("command completed",
			"command", name,
			"duration_ms", duration.Milliseconds(),
			"status", status)

		if err != nil {
			l.logger.Error("command failed",
				"command", name,
				"error", err.Error(),
				"status", status)
		}

		return err
	}
}
