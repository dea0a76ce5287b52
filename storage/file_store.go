package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Scalingo/sclng-language-stats/model"
	log "github.com/sirupsen/logrus"
)

const metadataFileName = "repos-metadata.json"

// FileStore write one json file per organisation: <directory>/<organisation>/repos-metadata.json
type FileStore struct {
	directory string
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{directory: directory}
}

func (s *FileStore) path(organisation string) string {
	return filepath.Join(s.directory, organisation, metadataFileName)
}

func (s *FileStore) SaveRepositories(_ context.Context, organisation string, repos []model.RepositoryMetaData) error {
	path := s.path(organisation)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create data directory: %w", err)
	}

	// an empty snapshot is written as [] and not null
	if repos == nil {
		repos = []model.RepositoryMetaData{}
	}

	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode repositories: %w", err)
	}

	// replaced through a temporary file so readers never see a partial snapshot
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("unable to write repositories: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("unable to replace repositories snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"path":         path,
		"repositories": len(repos),
	}).Info("repositories snapshot saved")

	return nil
}

func (s *FileStore) LoadRepositories(_ context.Context, organisation string) ([]model.RepositoryMetaData, error) {
	path := s.path(organisation)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrNoRepositories, path)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to read repositories: %w", err)
	}

	var repos []model.RepositoryMetaData
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("%w: unable to decode %s: %v", model.ErrInvalidData, path, err)
	}

	if repos == nil {
		repos = []model.RepositoryMetaData{}
	}

	log.WithFields(log.Fields{
		"path":         path,
		"repositories": len(repos),
	}).Debug("repositories snapshot loaded")

	return repos, nil
}

func (s *FileStore) Close() error {
	return nil
}
