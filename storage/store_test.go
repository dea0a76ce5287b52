package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepositories() []model.RepositoryMetaData {
	return []model.RepositoryMetaData{
		{
			ID:              1,
			Name:            "api",
			Owner:           "test-org",
			HTMLURL:         "https://github.com/test-org/api",
			Size:            4096,
			PushedAt:        time.Date(2024, 3, 12, 8, 30, 0, 0, time.UTC),
			PrimaryLanguage: "Java",
			Languages:       model.LinguisticData{"Java": 1000, "Shell": 20},
		},
		{
			ID:       2,
			Name:     "docs",
			Owner:    "test-org",
			Archived: true,
			Fork:     true,
		},
	}
}

func newStores(t *testing.T) map[string]RepositoryStore {
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "sqlite", "test.db"))
	require.NoError(t, err)

	return map[string]RepositoryStore{
		"json":   NewFileStore(filepath.Join(dir, "json")),
		"sqlite": sqliteStore,
	}
}

// TestSaveAndLoadRepositories test SaveRepositories then LoadRepositories on every backend
func TestSaveAndLoadRepositories(t *testing.T) {
	tests := []struct {
		name     string
		repos    []model.RepositoryMetaData
		expected []model.RepositoryMetaData
	}{
		{
			name:     "Repositories with and without languages",
			repos:    testRepositories(),
			expected: testRepositories(),
		},
		{
			name:     "Empty snapshot",
			repos:    nil,
			expected: []model.RepositoryMetaData{},
		},
	}

	for _, tt := range tests {
		for name, store := range newStores(t) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				defer store.Close()
				ctx := context.Background()

				require.NoError(t, store.SaveRepositories(ctx, "test-org", tt.repos))

				loaded, err := store.LoadRepositories(ctx, "test-org")

				require.NoError(t, err)
				assert.Equal(t, tt.expected, loaded)
			})
		}
	}
}

func TestSaveRepositoriesReplaceSnapshot(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			ctx := context.Background()

			require.NoError(t, store.SaveRepositories(ctx, "test-org", testRepositories()))

			updated := testRepositories()[:1]
			updated[0].Languages = model.LinguisticData{"Kotlin": 5}
			require.NoError(t, store.SaveRepositories(ctx, "test-org", updated))

			loaded, err := store.LoadRepositories(ctx, "test-org")

			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, model.LinguisticData{"Kotlin": 5}, loaded[0].Languages)
		})
	}
}

func TestLoadRepositoriesUnknownOrganisation(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			_, err := store.LoadRepositories(context.Background(), "unknown")

			assert.ErrorIs(t, err, model.ErrNoRepositories)
		})
	}
}

func TestFileStoreInvalidSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test-org"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test-org", metadataFileName), []byte("{not json"), 0o644))

	_, err := NewFileStore(dir).LoadRepositories(context.Background(), "test-org")

	assert.ErrorIs(t, err, model.ErrInvalidData)
}

func TestNewRepositoryStore(t *testing.T) {
	cfg := config.GetDefault().Storage
	cfg.DataDirectory = t.TempDir()

	store, err := NewRepositoryStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	cfg.Backend = "sqlite"
	store, err = NewRepositoryStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, store.Close())

	cfg.Backend = "mongodb"
	_, err = NewRepositoryStore(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}
