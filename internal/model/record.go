package model

import (
	"context"
	"io"
)

// RecordStore persists the single durable session record.
// Get returns ErrNotFound when no record exists. Delete is idempotent.
type RecordStore interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, payload []byte) error
	Delete(ctx context.Context) error
}

// ObjectStorage is a bucket addressed by object key. The object record store
// keeps the session record as one object in it.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
