package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/inamate/sketchpad/internal/typeid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id         TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    version    INTEGER NOT NULL,
    checksum   TEXT NOT NULL,
    data       BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (session_id, version)
)`

// SQLite stores snapshots in a single database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, sessionID string, data []byte) (*Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE session_id = ?`,
		sessionID,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("next version: %w", err)
	}

	snap := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		SessionID: sessionID,
		Version:   version,
		Checksum:  Checksum(data),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Data:      data,
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO snapshots (id, session_id, version, checksum, data, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, snap.ID, snap.SessionID, snap.Version, snap.Checksum, snap.Data, snap.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (s *SQLite) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, session_id, version, checksum, data, created_at
        FROM snapshots
        WHERE session_id = ?
        ORDER BY version DESC
        LIMIT 1
    `, sessionID)

	var (
		snap    Snapshot
		created int64
	)
	if err := row.Scan(&snap.ID, &snap.SessionID, &snap.Version, &snap.Checksum, &snap.Data, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	snap.CreatedAt = time.UnixMilli(created).UTC()

	if err := verify(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
