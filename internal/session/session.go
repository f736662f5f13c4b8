// Package session owns the identity of the current ingestion scope.
// Documents and chunks are tagged with the session id that was current
// when they were created.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

type Manager struct {
	mu        sync.RWMutex
	id        string
	startedAt time.Time
}

func NewManager() *Manager {
	return &Manager{
		id:        newID(),
		startedAt: time.Now(),
	}
}

func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

func (m *Manager) StartedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startedAt
}

// Reset rotates the session id and returns the new one. Documents created
// under the old id stay in the catalog but drop out of the session view.
func (m *Manager) Reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = newID()
	m.startedAt = time.Now()
	return m.id
}

func newID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
