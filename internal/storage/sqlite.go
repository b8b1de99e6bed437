package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if necessary) a record store at dbPath.
// Use ":memory:" for an ephemeral store in tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS records (
		user_id    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, kind, id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_user_kind ON records(user_id, kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// putRecord inserts or replaces one record.
func (s *SQLiteStore) putRecord(ctx context.Context, userID, kind, id string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (user_id, kind, id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, kind, id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		userID, kind, id, string(payload), now, now)
	if err != nil {
		return fmt.Errorf("failed to save %s record %s: %w", kind, id, err)
	}
	return nil
}

// getRecord loads one record's payload into dest.
func (s *SQLiteStore) getRecord(ctx context.Context, userID, kind, id string, dest any) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE user_id = ? AND kind = ? AND id = ?`,
		userID, kind, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s record %s: %w", kind, id, err)
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s record %s: %w", kind, id, err)
	}
	return nil
}

// listRecords loads every payload of a kind, ordered by creation time.
func (s *SQLiteStore) listRecords(ctx context.Context, userID, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM records WHERE user_id = ? AND kind = ? ORDER BY created_at, id`,
		userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var payloads []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		payloads = append(payloads, payload)
	}
	return payloads, rows.Err()
}

// deleteRecord removes one record; missing records report ErrNotFound.
func (s *SQLiteStore) deleteRecord(ctx context.Context, userID, kind, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE user_id = ? AND kind = ? AND id = ?`,
		userID, kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record %s: %w", kind, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
