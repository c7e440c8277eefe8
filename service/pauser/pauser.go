package pauser

import (
	"context"
	"sync"

	"lendpool/core"
)

// entry flag value of scope before a change
type entry struct {
	scope string
	prev  bool
}

// journal of flag changes, shared by the pausers to implement core.Reverter
type journal struct {
	mu      sync.Mutex
	entries []entry
}

func (j *journal) record(scope string, prev bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry{scope: scope, prev: prev})
}

func (j *journal) Snapshot() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// since pops the entries after id, newest first
func (j *journal) since(id int) []entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	var entries []entry
	for i := len(j.entries) - 1; i >= id; i-- {
		entries = append(entries, j.entries[i])
	}

	j.entries = j.entries[:id]
	return entries
}

func (j *journal) Commit() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

type memory struct {
	journal
	mu     sync.RWMutex
	paused map[string]bool
}

// Memory pause flags held in process
func Memory() core.Pauser {
	return &memory{paused: map[string]bool{}}
}

func (m *memory) Paused(_ context.Context, scope string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused[scope], nil
}

func (m *memory) SetPaused(_ context.Context, scope string, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(scope, m.paused[scope])
	m.paused[scope] = paused
	return nil
}

func (m *memory) RevertToSnapshot(id int) {
	entries := m.since(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.paused[e.scope] = e.prev
	}
}
