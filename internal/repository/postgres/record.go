package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/signpath/signpath-server/internal/model"
)

// Ensure RecordRepository implements the model.RecordStore interface.
var _ model.RecordStore = (*RecordRepository)(nil)

// DB is the query surface the repository needs; satisfied by *Connection and pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepository keeps the session record as a row keyed by record key.
type RecordRepository struct {
	db  DB
	key string
	now func() time.Time
}

func NewRecordRepository(db DB, key string) *RecordRepository {
	return &RecordRepository{db: db, key: key, now: time.Now}
}

func (r *RecordRepository) Get(ctx context.Context) ([]byte, error) {
	const query = `SELECT payload FROM session_records WHERE record_key = $1`

	var payload []byte
	if err := r.db.QueryRow(ctx, query, r.key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session record: %w", err)
	}

	return payload, nil
}

func (r *RecordRepository) Put(ctx context.Context, payload []byte) error {
	const query = `
        INSERT INTO session_records (record_key, payload, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (record_key) DO UPDATE
        SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
    `

	if _, err := r.db.Exec(ctx, query, r.key, payload, r.now()); err != nil {
		return fmt.Errorf("failed to put session record: %w", err)
	}
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context) error {
	const query = `DELETE FROM session_records WHERE record_key = $1`

	if _, err := r.db.Exec(ctx, query, r.key); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}
