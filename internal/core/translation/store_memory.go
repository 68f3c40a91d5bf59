// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryJobStore is a process-local [JobStore], used when Redis is not configured.
type MemoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryJobStore constructs an empty [MemoryJobStore].
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: map[string]memoryEntry{}, now: time.Now}
}

func (store *MemoryJobStore) Save(_ context.Context, job *Job, ttl time.Duration) error {
	// Stored encoded so callers never share the job's slices with the store.
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.evictExpired()
	store.jobs[job.ID] = memoryEntry{payload: payload, expiresAt: store.now().Add(ttl)}
	return nil
}

func (store *MemoryJobStore) Get(_ context.Context, id string) (*Job, error) {
	store.mu.Lock()
	entry, ok := store.jobs[id]
	store.mu.Unlock()

	return store.decode(entry, ok)
}

func (store *MemoryJobStore) Take(_ context.Context, id string) (*Job, error) {
	store.mu.Lock()
	entry, ok := store.jobs[id]
	delete(store.jobs, id)
	store.mu.Unlock()

	return store.decode(entry, ok)
}

func (store *MemoryJobStore) decode(entry memoryEntry, ok bool) (*Job, error) {
	if !ok || !store.now().Before(entry.expiresAt) {
		return nil, apperr.NotFound("Translation job")
	}

	var job Job
	if err := json.Unmarshal(entry.payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// evictExpired drops expired entries. Callers hold mu.
func (store *MemoryJobStore) evictExpired() {
	now := store.now()
	for id, entry := range store.jobs {
		if !now.Before(entry.expiresAt) {
			delete(store.jobs, id)
		}
	}
}
