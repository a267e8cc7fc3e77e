// Package store persists drawing snapshots. Every save appends a new
// version; readers only ever need the latest one.
package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrCorrupt  = errors.New("snapshot checksum mismatch")
)

// Snapshot is one saved version of a session's drawing.
type Snapshot struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Version   int       `json:"version"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"createdAt"`
	Data      []byte    `json:"-"`
}

// Store is implemented by the snapshot backends.
type Store interface {
	// Save appends data as the next version for sessionID.
	Save(ctx context.Context, sessionID string, data []byte) (*Snapshot, error)
	// Latest returns the highest version for sessionID, or ErrNotFound.
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)
	Close() error
}

// Checksum returns the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// verify checks that the snapshot data still matches its recorded checksum.
func verify(s *Snapshot) error {
	want, err := hex.DecodeString(s.Checksum)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, s.ID, err)
	}
	got := blake2b.Sum256(s.Data)
	if !bytes.Equal(want, got[:]) {
		return fmt.Errorf("%w: %s", ErrCorrupt, s.ID)
	}
	return nil
}
