package session

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend for tests and single-node
// deployments without a session database.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]map[string]string)}
}

// Get returns the value for a key, or "" when the session or key is absent.
func (m *MemoryBackend) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID][key], nil
}

// Set stores a value under a key, creating the session as needed.
func (m *MemoryBackend) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.sessions[sessionID]
	if !ok {
		kv = make(map[string]string)
		m.sessions[sessionID] = kv
	}
	kv[key] = value
	return nil
}

// Delete removes the given keys from the session.
func (m *MemoryBackend) Delete(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(kv, k)
	}
	return nil
}

// Clear removes all keys of the session.
func (m *MemoryBackend) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
