package redisstore

// Package redisstore provides a Redis-backed ports.KeyValue, used by
// shared-terminal deployments where credentials must not live on the local
// filesystem.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kinebilan/mobile-core/internal/ports"
)

const defaultPrefix = "kinebilan:"

// Store is a Redis-based key/value store.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.KeyValue = (*Store)(nil)

// New creates a Store with the default key prefix.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client, prefix: defaultPrefix}
}

// NewWithPrefix creates a Store with a custom key prefix, e.g. to namespace
// per device.
func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
