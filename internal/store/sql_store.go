package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mkazlouski/adwatch/internal/logging"
)

// dialect carries the statements that differ between the supported drivers:
// placeholder style, autoincrement DDL, and the insert-if-absent form.
type dialect struct {
	schema       string
	insertTarget string
	// returningID is true when insertTarget yields the new id via RETURNING
	// instead of LastInsertId (lib/pq does not implement LastInsertId).
	returningID bool
	listTargets  string
	removeTarget string
	markSeen     string
}

var dialects = map[string]dialect{
	"sqlite3": {
		schema: `
	CREATE TABLE IF NOT EXISTS targets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS seen_ads (
		ad_id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		first_seen_ts INTEGER NOT NULL
	);`,
		insertTarget: `INSERT INTO targets (url) VALUES (?)`,
		listTargets:  `SELECT id, url FROM targets ORDER BY id`,
		removeTarget: `DELETE FROM targets WHERE id = ?`,
		markSeen:     `INSERT OR IGNORE INTO seen_ads (ad_id, url, first_seen_ts) VALUES (?, ?, ?)`,
	},
	"postgres": {
		schema: `
	CREATE TABLE IF NOT EXISTS targets (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS seen_ads (
		ad_id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		first_seen_ts BIGINT NOT NULL
	);`,
		insertTarget: `INSERT INTO targets (url) VALUES ($1) RETURNING id`,
		returningID:  true,
		listTargets:  `SELECT id, url FROM targets ORDER BY id`,
		removeTarget: `DELETE FROM targets WHERE id = $1`,
		markSeen:     `INSERT INTO seen_ads (ad_id, url, first_seen_ts) VALUES ($1, $2, $3) ON CONFLICT (ad_id) DO NOTHING`,
	},
}

// SQLStore persists targets and seen listings to a SQL database.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  logging.Logger
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens a store using the given driver ("sqlite3" or "postgres")
// and DSN, and bootstraps the schema.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	logger := logging.Get().Named("store")
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	s := &SQLStore{db: db, dialect: d, logger: logger}

	if err := s.ensureSchema(); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	s.logger.Info("Store initialized successfully.", "driver", driver)
	return s, nil
}

// ensureSchema creates the targets and seen_ads tables if they don't already exist.
func (s *SQLStore) ensureSchema() error {
	if _, err := s.db.Exec(s.dialect.schema); err != nil {
		return fmt.Errorf("failed to execute schema creation query: %w", err)
	}
	return nil
}

// AddTarget inserts a search URL and returns its assigned id.
func (s *SQLStore) AddTarget(ctx context.Context, url string) (int64, error) {
	if s.dialect.returningID {
		var id int64
		if err := s.db.QueryRowContext(ctx, s.dialect.insertTarget, url).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert target: %w", err)
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, s.dialect.insertTarget, url)
	if err != nil {
		return 0, fmt.Errorf("failed to insert target: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted target id: %w", err)
	}
	return id, nil
}

// ListTargets returns all targets ordered by id ascending.
func (s *SQLStore) ListTargets(ctx context.Context) ([]Target, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.listTargets)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.URL); err != nil {
			return nil, fmt.Errorf("failed to scan target row: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate target rows: %w", err)
	}
	return targets, nil
}

// RemoveTarget deletes a target by id. Returns ErrTargetNotFound if no row
// matched, so callers can tell a no-op from a removal.
func (s *SQLStore) RemoveTarget(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.removeTarget, id)
	if err != nil {
		return fmt.Errorf("failed to delete target %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// MarkSeen records a listing id via insert-if-absent. The primary key on
// ad_id makes the check-then-mark atomic: two concurrent pollers discovering
// the same listing cannot both get a nil error.
func (s *SQLStore) MarkSeen(ctx context.Context, listingID, link string, firstSeen time.Time) error {
	res, err := s.db.ExecContext(ctx, s.dialect.markSeen, listingID, link, firstSeen.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert seen record for %s: %w", listingID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrAlreadySeen
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		s.logger.Info("Closing store database connection...")
		return s.db.Close()
	}
	return nil
}
