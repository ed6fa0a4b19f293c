// Package sqlite provides the SQLite-backed run history store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore records run summaries in a local SQLite database so that
// `fitsync history` works without touching either external API.
type RunStore struct {
	db   *sql.DB
	path string
}

// NewRunStore opens (or creates) the run store at the given data directory.
// If dataDir is empty, defaults to ~/.fitsync/data/history.db.
func NewRunStore(dataDir string) (*RunStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fitsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &RunStore{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.path
}

// Record implements driven.RunStore.
func (s *RunStore) Record(ctx context.Context, summary *domain.RunSummary) error {
	if summary == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, started_at, finished_at, created, updated, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, summary.ID, string(summary.Kind),
		summary.StartedAt.UTC().Format(time.RFC3339),
		summary.FinishedAt.UTC().Format(time.RFC3339),
		summary.Created, summary.Updated, summary.Skipped)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, failure := range summary.Failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_failures (run_id, entry_key, error) VALUES (?, ?, ?)
		`, summary.ID, failure.Key, failure.Error)
		if err != nil {
			return fmt.Errorf("insert run failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent implements driven.RunStore.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, started_at, finished_at, created, updated, skipped
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary
	for rows.Next() {
		var (
			summary            domain.RunSummary
			kind               string
			startedAt, endedAt string
		)
		if err := rows.Scan(&summary.ID, &kind, &startedAt, &endedAt,
			&summary.Created, &summary.Updated, &summary.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		summary.Kind = domain.Kind(kind)
		if summary.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if summary.FinishedAt, err = time.Parse(time.RFC3339, endedAt); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range summaries {
		if summaries[i].Failures, err = s.failures(ctx, summaries[i].ID); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}

// failures loads the per-entry failures recorded for one run.
func (s *RunStore) failures(ctx context.Context, runID string) ([]domain.EntryFailure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_key, error FROM run_failures WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run failures: %w", err)
	}
	defer rows.Close()

	var failures []domain.EntryFailure
	for rows.Next() {
		var failure domain.EntryFailure
		if err := rows.Scan(&failure.Key, &failure.Error); err != nil {
			return nil, fmt.Errorf("scanning run failure: %w", err)
		}
		failures = append(failures, failure)
	}
	return failures, rows.Err()
}

// migrate runs all pending migrations.
func (s *RunStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
