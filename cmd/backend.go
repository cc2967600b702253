package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/database/postgres"
	"github.com/kozaktomas/inspection-report/internal/storage"
)

// openFindingStore connects to PostgreSQL, applies pending migrations and
// registers the finding repository as the database backend.
func openFindingStore(ctx context.Context, cfg *config.Config) (*postgres.Pool, *postgres.FindingRepository, error) {
	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	repo := postgres.NewFindingRepository(pool)
	database.RegisterPostgresBackend(
		func() database.FindingReader { return repo },
		func() database.FindingWriter { return repo },
	)
	return pool, repo, nil
}

// newPhotoStore builds the photo store: the local directory always, plus the
// HTTP object store when PHOTO_STORAGE_URL is set.
func newPhotoStore(cfg *config.StorageConfig) (*storage.Router, error) {
	local, err := storage.NewDirStore(cfg.Dir)
	if err != nil {
		return nil, err
	}

	var remote storage.Store
	if cfg.URL != "" {
		httpStore, err := storage.NewHTTPStore(cfg.URL, cfg.Token, nil)
		if err != nil {
			return nil, err
		}
		remote = httpStore
	}
	return storage.NewRouter(remote, local), nil
}
