// Package sqlite persists the node-id to page-id mapping in a local
// SQLite database, the association that makes migration re-runs
// reconcile instead of duplicate.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/wikiport-cli/internal/adapters/driven/mapping/sqlite/migrations"
	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MappingStore = (*Store)(nil)

// Store is a SQLite-backed mapping store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a mapping store at the specified data directory.
// If dataDir is empty, defaults to ~/.wikiport/data/mappings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wikiport", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mappings.db")

	// WAL mode for better concurrency between overlapping CLI runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the page id recorded for a node id.
func (s *Store) Get(ctx context.Context, nodeID string) (string, error) {
	var pageID string
	row := s.db.QueryRowContext(ctx, "SELECT page_id FROM page_mappings WHERE node_id = ?", nodeID)
	if err := row.Scan(&pageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("querying mapping: %w", err)
	}
	return pageID, nil
}

// Put records or replaces the mapping for a node id.
func (s *Store) Put(ctx context.Context, nodeID, pageID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO page_mappings (node_id, page_id, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(node_id) DO UPDATE SET
			page_id = excluded.page_id,
			updated_at = CURRENT_TIMESTAMP
	`, nodeID, pageID)
	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}
	return nil
}

// Delete removes the mapping for a node id.
func (s *Store) Delete(ctx context.Context, nodeID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM page_mappings WHERE node_id = ?", nodeID); err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}
	return nil
}

// List returns all mappings keyed by node id.
func (s *Store) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT node_id, page_id FROM page_mappings")
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var nodeID, pageID string
		if err := rows.Scan(&nodeID, &pageID); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		out[nodeID] = pageID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}
	return out, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
