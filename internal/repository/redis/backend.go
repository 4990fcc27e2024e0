// Package redis provides a Redis-backed durable store.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/dtroode/quantum-mirror/internal/model"
)

var _ model.Backend = (*Backend)(nil)

// Backend stores each key as a Redis string under a namespace prefix.
type Backend struct {
	client rueidis.Client
	prefix string
}

// Open connects to the Redis server at addr.
func Open(addr, prefix string) (*Backend, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client rueidis.Client, prefix string) *Backend {
	return &Backend{
		client: client,
		prefix: prefix,
	}
}

func (b *Backend) key(key string) string {
	return b.prefix + key
}

func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	result := b.client.Do(ctx, b.client.B().Get().Key(b.key(key)).Build())
	if err := result.Error(); err != nil {
		if errors.Is(err, rueidis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	blob, err := result.AsBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return blob, nil
}

func (b *Backend) Save(ctx context.Context, key string, blob []byte) error {
	cmd := b.client.B().Set().Key(b.key(key)).Value(rueidis.BinaryString(blob)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Do(ctx, b.client.B().Del().Key(b.key(key)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Close() error {
	b.client.Close()
	return nil
}
