package handler

import (
	"io"
	"sync"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// Notifier prints the notifications the visitor should see while a command
// runs: unlocked achievements and level ups.
type Notifier struct {
	out output

	mu    sync.Mutex
	level int
}

// NewNotifier creates a Notifier. level is the visitor's level before the
// command runs.
func NewNotifier(w io.Writer, level int) *Notifier {
	return &Notifier{out: newOutput(w), level: level}
}

// Handle has the event handler signature.
func (n *Notifier) Handle(event model.Event) {
	switch event.Kind {
	case model.EventAchievementUnlocked:
		info := event.Achievement.Info()
		n.out.printf("%s Achievement unlocked: %s\n", info.Icon, info.Name)
	case model.EventStatsChanged:
		n.mu.Lock()
		leveledUp := event.Level > n.level
		n.level = max(n.level, event.Level)
		n.mu.Unlock()
		if leveledUp {
			n.out.printf("Level up! You reached level %d.\n", event.Level)
		}
	}
}
