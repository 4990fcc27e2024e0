package memory

import (
	"context"
	"sync"

	"github.com/dtroode/quantum-mirror/internal/model"
)

var _ model.Backend = (*Backend)(nil)

// Backend keeps blobs in process memory. Used for tests and throwaway sessions.
type Backend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty Backend.
func New() *Backend {
	return &Backend{
		blobs: make(map[string][]byte),
	}
}

func (b *Backend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	blob, ok := b.blobs[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (b *Backend) Save(_ context.Context, key string, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = append([]byte(nil), blob...)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, key)
	return nil
}

func (b *Backend) Close() error {
	return nil
}
