package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with process-local storage. Suitable for
// tests and single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]map[string]struct{}),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *sess
	m.sessions[sess.ID] = &cp

	userID := sess.UserID.String()
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[string]struct{})
	}
	m.byUser[userID][sess.ID] = struct{}{}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(id, userID)
	return nil
}

// UserSessions implements Store. Returns live sessions only; expired
// records and dangling set entries are pruned on the way through.
func (m *MemoryStore) UserSessions(ctx context.Context, userID string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byUser[userID]
	sessions := make([]*Session, 0, len(ids))
	for id := range ids {
		sess, ok := m.sessions[id]
		if !ok {
			delete(ids, id)
			continue
		}
		if sess.IsExpired() {
			m.remove(id, userID)
			continue
		}
		cp := *sess
		sessions = append(sessions, &cp)
	}
	return sessions, nil
}

// DeleteExpired implements Store.
func (m *MemoryStore) DeleteExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	count := 0
	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			m.remove(id, sess.UserID.String())
			count++
		}
	}

	// Repair dangling set entries whose records are gone.
	for userID, ids := range m.byUser {
		for id := range ids {
			if _, ok := m.sessions[id]; !ok {
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			delete(m.byUser, userID)
		}
	}

	return count, nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// remove deletes the record and set membership; callers hold the lock.
func (m *MemoryStore) remove(id string, userID string) {
	delete(m.sessions, id)
	if ids, ok := m.byUser[userID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(m.byUser, userID)
		}
	}
}
