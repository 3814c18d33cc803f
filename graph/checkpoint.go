package graph

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Checkpoint is a durable snapshot of a workflow thread: the full state plus
// the name of the next node to run. One is written immediately before every
// interruption point, keyed by thread ID.
//
// Resuming from a checkpoint with patched input fields is behaviorally
// equivalent to having had that input available from the start of the next
// node's execution.
type Checkpoint[S any] struct {
	Thread  string    `json:"thread"`
	Next    string    `json:"next"`
	Step    int       `json:"step"`
	State   S         `json:"state"`
	SavedAt time.Time `json:"savedAt"`
}

// Saver persists checkpoints keyed by thread ID. Put overwrites any existing
// checkpoint for the thread (read-modify-write of the full snapshot). Get
// returns ErrNotFound when the thread has no checkpoint.
type Saver[S any] interface {
	Put(ctx context.Context, cp Checkpoint[S]) error
	Get(ctx context.Context, threadID string) (Checkpoint[S], error)
	Delete(ctx context.Context, threadID string) error
	List(ctx context.Context) ([]string, error)
}

// MemorySaver is an in-process Saver backed by a map. It is the default
// choice for tests and examples; anything that must survive the process
// belongs in the checkpoint package's file or Postgres savers.
type MemorySaver[S any] struct {
	mu          sync.RWMutex
	checkpoints map[string]Checkpoint[S]
}

// NewMemorySaver creates an empty in-memory checkpoint saver.
func NewMemorySaver[S any]() *MemorySaver[S] {
	return &MemorySaver[S]{
		checkpoints: make(map[string]Checkpoint[S]),
	}
}

// Put stores or replaces the checkpoint for its thread.
func (m *MemorySaver[S]) Put(ctx context.Context, cp Checkpoint[S]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[cp.Thread] = cp
	return nil
}

// Get returns the checkpoint for a thread, or ErrNotFound.
func (m *MemorySaver[S]) Get(ctx context.Context, threadID string) (Checkpoint[S], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.checkpoints[threadID]
	if !ok {
		return Checkpoint[S]{}, ErrNotFound
	}
	return cp, nil
}

// Delete removes a thread's checkpoint. Deleting a missing thread is not an
// error.
func (m *MemorySaver[S]) Delete(ctx context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkpoints, threadID)
	return nil
}

// List returns the thread IDs with stored checkpoints, sorted.
func (m *MemorySaver[S]) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.checkpoints))
	for id := range m.checkpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
