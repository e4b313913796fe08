package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite-backed implementation of the SnapshotStore port. Blobs are stored
// opaquely under string keys; whatever was put in comes back out unchanged.
type SqliteSnapshotStore struct {
	DB *sql.DB
}

func NewSqliteSnapshotStore(db *sql.DB) *SqliteSnapshotStore {
	return &SqliteSnapshotStore{DB: db}
}

// InitSchema creates the snapshot table if it does not exist.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		blob BLOB NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("init schema: create snapshots table: %w", err)
	}

	return nil
}

// Get returns the blob stored under key, or (nil, nil) when absent.
func (s *SqliteSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.DB == nil {
		return nil, errors.New("snapshot store: DB is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("get snapshot: key must not be empty")
	}

	query := `
	SELECT blob
	FROM snapshots
	WHERE key = ?;
	`
	var blob []byte
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", key, err)
	}

	return blob, nil
}

// Set stores blob under key, replacing any previous value.
func (s *SqliteSnapshotStore) Set(ctx context.Context, key string, blob []byte) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("set snapshot: key must not be empty")
	}

	query := `
	INSERT OR REPLACE INTO snapshots (
		key,
		blob
	)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, key, blob); err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}

	return nil
}

// Remove deletes the blob under key; removing an absent key is not an error.
func (s *SqliteSnapshotStore) Remove(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}

	query := `
	DELETE FROM snapshots
	WHERE key = ?;
	`
	if _, err := s.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("remove snapshot %q: %w", key, err)
	}

	return nil
}

// Clear deletes every stored blob.
func (s *SqliteSnapshotStore) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM snapshots;`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	return nil
}
