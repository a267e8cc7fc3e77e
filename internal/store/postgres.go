package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/sketchpad/internal/typeid"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id         TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    version    INTEGER NOT NULL,
    checksum   TEXT NOT NULL,
    data       BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (session_id, version)
)`

// Postgres stores snapshots in PostgreSQL through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and applies the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Save(ctx context.Context, sessionID string, data []byte) (*Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE session_id = $1`,
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
		Data:      data,
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO snapshots (id, session_id, version, checksum, data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, snap.ID, snap.SessionID, snap.Version, snap.Checksum, snap.Data).Scan(&snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (p *Postgres) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	var snap Snapshot
	err := p.pool.QueryRow(ctx, `
        SELECT id, session_id, version, checksum, data, created_at
        FROM snapshots
        WHERE session_id = $1
        ORDER BY version DESC
        LIMIT 1
    `, sessionID).Scan(&snap.ID, &snap.SessionID, &snap.Version, &snap.Checksum, &snap.Data, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}

	if err := verify(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
