package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Scalingo/sclng-language-stats/model"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// SQLiteStore keep the snapshots of all organisations in a single sqlite database
type SQLiteStore struct {
	conn *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organisations (
		organisation TEXT PRIMARY KEY,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS repositories (
		organisation TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		html_url TEXT,
		size INTEGER DEFAULT 0,
		fork BOOLEAN DEFAULT 0,
		archived BOOLEAN DEFAULT 0,
		disabled BOOLEAN DEFAULT 0,
		is_template BOOLEAN DEFAULT 0,
		pushed_at DATETIME,
		primary_language TEXT,
		has_languages BOOLEAN DEFAULT 0,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (organisation, id)
	);

	CREATE TABLE IF NOT EXISTS repository_languages (
		organisation TEXT NOT NULL,
		repository_id INTEGER NOT NULL,
		language TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		PRIMARY KEY (organisation, repository_id, language),
		FOREIGN KEY (organisation, repository_id) REFERENCES repositories(organisation, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_repositories_name ON repositories(organisation, name);
	`

	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveRepositories(ctx context.Context, organisation string, repos []model.RepositoryMetaData) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM repository_languages WHERE organisation = ?`, organisation); err != nil {
		return fmt.Errorf("unable to clear previous languages: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM repositories WHERE organisation = ?`, organisation); err != nil {
		return fmt.Errorf("unable to clear previous snapshot: %w", err)
	}

	// the organisation row mark the snapshot as saved, even when it holds no repository
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO organisations (organisation, fetched_at) VALUES (?, CURRENT_TIMESTAMP)`, organisation,
	); err != nil {
		return fmt.Errorf("unable to save organisation: %w", err)
	}

	for _, r := range repos {
		var pushedAt *time.Time
		if !r.PushedAt.IsZero() {
			pushedAt = &r.PushedAt
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO repositories (organisation, id, name, owner, html_url, size, fork, archived, disabled, is_template, pushed_at, primary_language, has_languages)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			organisation, r.ID, r.Name, r.Owner, r.HTMLURL, r.Size, r.Fork, r.Archived, r.Disabled, r.IsTemplate, pushedAt, r.PrimaryLanguage, r.Languages != nil,
		)
		if err != nil {
			return fmt.Errorf("unable to save repository %s: %w", r.FullName(), err)
		}

		for _, language := range r.Languages.Languages() {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO repository_languages (organisation, repository_id, language, bytes) VALUES (?, ?, ?, ?)`,
				organisation, r.ID, language, r.Languages[language],
			)
			if err != nil {
				return fmt.Errorf("unable to save languages of %s: %w", r.FullName(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit snapshot: %w", err)
	}

	log.WithFields(log.Fields{
		"organisation": organisation,
		"repositories": len(repos),
	}).Info("repositories snapshot saved")

	return nil
}

func (s *SQLiteStore) LoadRepositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error) {
	var fetchedAt sql.NullTime

	err := s.conn.QueryRowContext(ctx, `SELECT fetched_at FROM organisations WHERE organisation = ?`, organisation).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: organisation %s", model.ErrNoRepositories, organisation)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to query organisation: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, owner, html_url, size, fork, archived, disabled, is_template, pushed_at, primary_language, has_languages
		FROM repositories
		WHERE organisation = ?
		ORDER BY name, id`, organisation)
	if err != nil {
		return nil, fmt.Errorf("unable to query repositories: %w", err)
	}
	defer rows.Close()

	repos := make([]model.RepositoryMetaData, 0)
	indexByID := make(map[int64]int)

	for rows.Next() {
		var r model.RepositoryMetaData
		var pushedAt sql.NullTime
		var htmlURL, primaryLanguage sql.NullString
		var hasLanguages bool

		if err := rows.Scan(&r.ID, &r.Name, &r.Owner, &htmlURL, &r.Size, &r.Fork, &r.Archived, &r.Disabled, &r.IsTemplate, &pushedAt, &primaryLanguage, &hasLanguages); err != nil {
			return nil, fmt.Errorf("unable to read repository: %w", err)
		}

		r.HTMLURL = htmlURL.String
		r.PrimaryLanguage = primaryLanguage.String
		if pushedAt.Valid {
			r.PushedAt = pushedAt.Time.UTC()
		}

		if hasLanguages {
			r.Languages = model.LinguisticData{}
		}

		indexByID[r.ID] = len(repos)
		repos = append(repos, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read repositories: %w", err)
	}

	log.WithFields(log.Fields{
		"organisation": organisation,
		"repositories": len(repos),
		"fetchedAt":    fetchedAt.Time,
	}).Debug("repositories snapshot loaded")

	if err := s.loadLanguages(ctx, organisation, repos, indexByID); err != nil {
		return nil, err
	}

	return repos, nil
}

func (s *SQLiteStore) loadLanguages(ctx context.Context, organisation string, repos []model.RepositoryMetaData, indexByID map[int64]int) error {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT repository_id, language, bytes FROM repository_languages WHERE organisation = ?`, organisation)
	if err != nil {
		return fmt.Errorf("unable to query languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var repositoryID int64
		var language string
		var bytes int

		if err := rows.Scan(&repositoryID, &language, &bytes); err != nil {
			return fmt.Errorf("unable to read language: %w", err)
		}

		i, found := indexByID[repositoryID]
		if !found {
			continue
		}

		if repos[i].Languages == nil {
			repos[i].Languages = model.LinguisticData{}
		}

		repos[i].Languages[language] = bytes
	}

	return rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
