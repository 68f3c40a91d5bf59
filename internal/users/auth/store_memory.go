// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

// MemorySessionStore is a process-local [SessionStore], used when Redis is not
// configured. Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore constructs an empty [MemorySessionStore].
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]Session{}, now: time.Now}
}

func (store *MemorySessionStore) Create(_ context.Context, session *Session, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.now()
	for id, s := range store.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(store.sessions, id)
		}
	}

	stored := *session
	stored.ExpiresAt = now.Add(ttl)
	store.sessions[session.ID] = stored
	return nil
}

func (store *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.sessions[id]
	if !ok || !store.now().Before(session.ExpiresAt) {
		return nil, apperr.NotFound("Session")
	}
	return &session, nil
}

func (store *MemorySessionStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, id)
	return nil
}
