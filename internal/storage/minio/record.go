package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/signpath/signpath-server/internal/model"
)

var _ model.RecordStore = (*RecordStore)(nil)

// RecordStore keeps the session record as a single object.
type RecordStore struct {
	storage model.ObjectStorage
	key     string
}

// NewRecordStore creates a RecordStore writing object key in storage.
func NewRecordStore(storage model.ObjectStorage, key string) *RecordStore {
	return &RecordStore{storage: storage, key: key + ".json"}
}

// Get downloads the record object.
func (s *RecordStore) Get(ctx context.Context) ([]byte, error) {
	exists, err := s.storage.Exists(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, s.key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read record object: %w", err)
	}

	return data, nil
}

// Put uploads the record object.
func (s *RecordStore) Put(ctx context.Context, payload []byte) error {
	return s.storage.Upload(ctx, s.key, bytes.NewReader(payload), int64(len(payload)))
}

// Delete removes the record object.
func (s *RecordStore) Delete(ctx context.Context) error {
	return s.storage.Delete(ctx, s.key)
}
