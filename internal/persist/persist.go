// Package persist stores per-session client state snapshots (cart, wishlist,
// selected currency, login flag) so they survive process restarts, each under
// its own fixed name within a session namespace.
package persist

import (
	"context"
	"sync"
)

// SnapshotStore is the persistence surface the client-state stores write to.
// Load returns (nil, nil) when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, session, name string, data []byte) error
	Load(ctx context.Context, session, name string) ([]byte, error)
	Delete(ctx context.Context, session, name string) error
}

// MemoryStore keeps snapshots in process memory. It is the default backend in
// development and the backend of choice in tests.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

// NewMemoryStore builds an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: map[string][]byte{}}
}

func (m *MemoryStore) Save(_ context.Context, session, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.snapshots[session+"/"+name] = buf
	return nil
}

func (m *MemoryStore) Load(_ context.Context, session, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.snapshots[session+"/"+name]
	if !ok {
		return nil, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (m *MemoryStore) Delete(_ context.Context, session, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, session+"/"+name)
	return nil
}
