// Package storage selects the backend for the durable session record.
package storage

import (
	"context"
	"fmt"

	"github.com/signpath/signpath-server/internal/config"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/repository/postgres"
	"github.com/signpath/signpath-server/internal/storage/file"
	miniostore "github.com/signpath/signpath-server/internal/storage/minio"
	redisstore "github.com/signpath/signpath-server/internal/storage/redis"
)

// Closer releases whatever connection a backend holds.
type Closer func() error

func noopCloser() error { return nil }

// Open builds the RecordStore named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.RecordStore, Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		logger.Info("Storage: using file backend", "path", cfg.Store.FilePath)
		return file.NewStore(cfg.Store.FilePath), noopCloser, nil

	case config.BackendRedis:
		client, err := redisstore.NewClientWithURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		logger.Info("Storage: using redis backend", "key", cfg.Store.Key)
		return redisstore.NewStore(client, cfg.Store.Key), client.Close, nil

	case config.BackendPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("Storage: using postgres backend", "key", cfg.Store.Key)
		return postgres.NewRecordRepository(conn, cfg.Store.Key), conn.Close, nil

	case config.BackendMinio:
		client, err := miniostore.Dial(ctx, miniostore.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage client: %w", err)
		}
		logger.Info("Storage: using object storage backend",
			"bucket", cfg.Storage.Bucket,
			"key", cfg.Store.Key)
		return miniostore.NewRecordStore(client, cfg.Store.Key), noopCloser, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
