package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
)

// Store decodes and encodes typed values over a durable Backend.
type Store struct {
	backend model.Backend
	logger  *logger.Logger
}

// NewStore creates Store over backend.
func NewStore(backend model.Backend, logger *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Key is a strongly typed store key with a default value used for absent
// or malformed blobs.
type Key[T any] struct {
	name      string
	empty     func() T
	normalize func(T) (T, error)
}

// NewKey creates a typed key. normalize may be nil; when it returns an error
// the stored value is treated as malformed.
func NewKey[T any](name string, empty func() T, normalize func(T) (T, error)) Key[T] {
	return Key[T]{
		name:      name,
		empty:     empty,
		normalize: normalize,
	}
}

// Name returns the backend key.
func (k Key[T]) Name() string {
	return k.name
}

// Decode parses blob into T. Errors wrap model.ErrMalformedStoredData.
func (k Key[T]) Decode(blob []byte) (T, error) {
	var value T
	if err := sonic.Unmarshal(blob, &value); err != nil {
		return k.empty(), fmt.Errorf("%w: %s: %v", model.ErrMalformedStoredData, k.name, err)
	}
	if k.normalize != nil {
		normalized, err := k.normalize(value)
		if err != nil {
			return k.empty(), fmt.Errorf("%w: %s: %v", model.ErrMalformedStoredData, k.name, err)
		}
		value = normalized
	}
	return value, nil
}

// Load returns the stored value or the key's default. Failures are logged
// and never returned.
func (k Key[T]) Load(ctx context.Context, s *Store) T {
	blob, err := s.backend.Load(ctx, k.name)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("failed to load stored value", "key", k.name, "error", err)
		}
		return k.empty()
	}

	value, err := k.Decode(blob)
	if err != nil {
		s.logger.Warn("discarding malformed stored value", "key", k.name, "error", err)
		return k.empty()
	}
	return value
}

// Save encodes value and overwrites the key.
func (k Key[T]) Save(ctx context.Context, s *Store, value T) error {
	blob, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", k.name, err)
	}
	if err := s.backend.Save(ctx, k.name, blob); err != nil {
		return fmt.Errorf("failed to save %s: %w", k.name, err)
	}
	return nil
}

// Delete removes the key.
func (k Key[T]) Delete(ctx context.Context, s *Store) error {
	if err := s.backend.Delete(ctx, k.name); err != nil {
		return fmt.Errorf("failed to delete %s: %w", k.name, err)
	}
	return nil
}
