package events

import (
	"sync"

	"github.com/dtroode/quantum-mirror/internal/model"
)

var _ model.EventPublisher = (*Bus)(nil)

// Handler receives published events.
type Handler func(event model.Event)

// Bus delivers events synchronously to subscribers in subscription order.
// Events published from inside a handler are queued and delivered once the
// current event has reached every subscriber, still before the outer
// Publish returns.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler

	queueMu     sync.Mutex
	queue       []model.Event
	dispatching bool
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every event kind.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// SubscribeKind registers h for the listed kinds only.
func (b *Bus) SubscribeKind(h Handler, kinds ...model.EventKind) {
	wanted := make(map[model.EventKind]struct{}, len(kinds))
	for _, kind := range kinds {
		wanted[kind] = struct{}{}
	}
	b.Subscribe(func(event model.Event) {
		if _, ok := wanted[event.Kind]; ok {
			h(event)
		}
	})
}

// Publish delivers event to all current subscribers.
func (b *Bus) Publish(event model.Event) {
	b.queueMu.Lock()
	b.queue = append(b.queue, event)
	if b.dispatching {
		b.queueMu.Unlock()
		return
	}
	b.dispatching = true
	b.queueMu.Unlock()

	for {
		b.queueMu.Lock()
		if len(b.queue) == 0 {
			b.dispatching = false
			b.queueMu.Unlock()
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.queueMu.Unlock()

		b.deliver(next)
	}
}

func (b *Bus) deliver(event model.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// Recorder collects published events, useful for presentation logs and tests.
type Recorder struct {
	mu     sync.Mutex
	events []model.Event
}

// Record appends event. It has the Handler signature.
func (r *Recorder) Record(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

// OfKind returns the recorded events of the given kind.
func (r *Recorder) OfKind(kind model.EventKind) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Event
	for _, event := range r.events {
		if event.Kind == kind {
			out = append(out, event)
		}
	}
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
