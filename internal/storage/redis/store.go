// Package redis keeps the durable session record under a redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/signpath/signpath-server/internal/model"
)

var _ model.RecordStore = (*Store)(nil)

// Store is a RecordStore backed by a single redis string key.
type Store struct {
	client redis.Cmdable
	key    string
}

// NewStore creates a Store using an existing client.
func NewStore(client redis.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

// NewClientWithURL creates a redis client from a URL such as redis://host:6379/0.
func NewClientWithURL(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return redis.NewClient(opts), nil
}

// Get reads the record.
func (s *Store) Get(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return data, nil
}

// Put writes the record without expiry.
func (s *Store) Put(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// Delete removes the key. Deleting a missing key succeeds.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
