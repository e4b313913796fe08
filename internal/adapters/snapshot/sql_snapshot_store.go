package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLSnapshotStore is the Postgres flavor of the snapshot store, for
// deployments where the planning snapshot must outlive the host running
// the session.
type SQLSnapshotStore struct {
	DB *sql.DB
}

func NewSQLSnapshotStore(db *sql.DB) *SQLSnapshotStore {
	return &SQLSnapshotStore{DB: db}
}

// InitSQLSchema creates the snapshot table on Postgres.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		blob BYTEA NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("init schema: create snapshots table: %w", err)
	}

	return nil
}

// Get returns the blob stored under key, or (nil, nil) when absent.
func (s *SQLSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.DB == nil {
		return nil, errors.New("snapshot store: DB is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("get snapshot: key must not be empty")
	}

	query := `
	SELECT blob
	FROM snapshots
	WHERE key = $1;
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
func (s *SQLSnapshotStore) Set(ctx context.Context, key string, blob []byte) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("set snapshot: key must not be empty")
	}

	query := `
	INSERT INTO snapshots (key, blob)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob;
	`
	if _, err := s.DB.ExecContext(ctx, query, key, blob); err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}

	return nil
}

// Remove deletes the blob under key; removing an absent key is not an error.
func (s *SQLSnapshotStore) Remove(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}

	query := `
	DELETE FROM snapshots
	WHERE key = $1;
	`
	if _, err := s.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("remove snapshot %q: %w", key, err)
	}

	return nil
}

// Clear deletes every stored blob.
func (s *SQLSnapshotStore) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM snapshots;`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	return nil
}
