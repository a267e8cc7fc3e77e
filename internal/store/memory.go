package store

import (
	"context"
	"sync"
	"time"

	"github.com/inamate/sketchpad/internal/typeid"
)

// Memory keeps snapshots in process. It backs the "none" driver and tests.
type Memory struct {
	mu    sync.Mutex
	snaps map[string][]*Snapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: make(map[string][]*Snapshot)}
}

func (m *Memory) Save(_ context.Context, sessionID string, data []byte) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		SessionID: sessionID,
		Version:   len(m.snaps[sessionID]) + 1,
		Checksum:  Checksum(data),
		CreatedAt: time.Now().UTC(),
		Data:      append([]byte(nil), data...),
	}
	m.snaps[sessionID] = append(m.snaps[sessionID], s)

	out := *s
	return &out, nil
}

func (m *Memory) Latest(_ context.Context, sessionID string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.snaps[sessionID]
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	out := *list[len(list)-1]
	if err := verify(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Memory) Close() error { return nil }
