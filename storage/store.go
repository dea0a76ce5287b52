// Package storage keep snapshots of the repositories fetched for an organisation,
// so evaluation can run without calling github again.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/model"
)

type RepositoryStore interface {
	// SaveRepositories replace the snapshot of the organisation
	SaveRepositories(ctx context.Context, organisation string, repos []model.RepositoryMetaData) error
	// LoadRepositories return model.ErrNoRepositories when nothing was saved for the organisation
	LoadRepositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error)
	Close() error
}

// NewRepositoryStore create the store selected in the storage configuration
func NewRepositoryStore(cfg config.StorageConfig) (RepositoryStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "json":
		return NewFileStore(cfg.DataDirectory), nil
	case "sqlite":
		return NewSQLiteStore(filepath.Join(cfg.DataDirectory, cfg.DatabaseFile))
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q (expected json or sqlite)", model.ErrInvalidConfig, cfg.Backend)
	}
}
