// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package brochure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/pipemill/internal/core/group"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

// MemoryRepository is an in-process [Repository] used by tests and local tooling.
// Rows are copied on the way in and out, so callers never share state with it.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*Brochure
	now  func() time.Time
}

// NewMemoryRepository returns an empty store seeded with rows.
func NewMemoryRepository(rows ...*Brochure) *MemoryRepository {
	repository := &MemoryRepository{rows: make(map[string]*Brochure), now: time.Now}
	for _, row := range rows {
		repository.rows[row.ID] = row.Clone()
	}
	return repository
}

// WithinTx restores the previous contents when fn fails. Writes are not isolated
// from concurrent callers.
func (repository *MemoryRepository) WithinTx(ctx context.Context, fn func(context.Context, group.Store[*Brochure]) error) error {
	repository.mu.Lock()
	snapshot := make(map[string]*Brochure, len(repository.rows))
	for id, row := range repository.rows {
		snapshot[id] = row.Clone()
	}
	repository.mu.Unlock()

	if err := fn(ctx, repository); err != nil {
		repository.mu.Lock()
		repository.rows = snapshot
		repository.mu.Unlock()
		return err
	}
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Brochure, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row, ok := repository.rows[id]
	if !ok {
		return nil, apperr.NotFound("Brochure")
	}
	return row.Clone(), nil
}

func (repository *MemoryRepository) FindByGroupAndLanguage(_ context.Context, groupID string, lang i18n.Lang) (*Brochure, bool, error) {
	rows := repository.snapshot(func(b *Brochure) bool {
		return b.TranslationGroup == groupID && b.Language == lang
	})
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (repository *MemoryRepository) ListByGroup(_ context.Context, groupID string) ([]*Brochure, error) {
	return repository.snapshot(func(b *Brochure) bool { return b.TranslationGroup == groupID }), nil
}

func (repository *MemoryRepository) ListAll(_ context.Context) ([]*Brochure, error) {
	return repository.snapshot(func(*Brochure) bool { return true }), nil
}

func (repository *MemoryRepository) ListPublished(_ context.Context) ([]*Brochure, error) {
	return repository.snapshot((*Brochure).IsPublished), nil
}

func (repository *MemoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Brochure, int, error) {
	query := strings.ToLower(filter.Query)
	matched := repository.snapshot(func(b *Brochure) bool {
		return (filter.Language == "" || b.Language == filter.Language) &&
			(filter.Category == "" || b.Category == filter.Category) &&
			(filter.Status == "" || b.Status == filter.Status) &&
			(filter.Group == "" || b.TranslationGroup == filter.Group) &&
			(query == "" || strings.Contains(strings.ToLower(b.Name), query))
	})

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *MemoryRepository) Create(_ context.Context, brochure *Brochure) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if brochure.ID == "" {
		brochure.ID = uuid.New()
	}
	if _, exists := repository.rows[brochure.ID]; exists {
		return apperr.Conflict("A record with the same unique value already exists")
	}

	brochure.CreatedAt = repository.now()
	brochure.UpdatedAt = brochure.CreatedAt
	repository.rows[brochure.ID] = brochure.Clone()
	return nil
}

func (repository *MemoryRepository) Update(_ context.Context, brochure *Brochure) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.rows[brochure.ID]; !ok {
		return apperr.NotFound("Brochure")
	}
	brochure.UpdatedAt = repository.now()
	repository.rows[brochure.ID] = brochure.Clone()
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.rows[id]; !ok {
		return apperr.NotFound("Brochure")
	}
	delete(repository.rows, id)
	return nil
}

// snapshot returns copies of the rows matching keep, ordered by creation time then id.
func (repository *MemoryRepository) snapshot(keep func(*Brochure) bool) []*Brochure {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var out []*Brochure
	for _, row := range repository.rows {
		if keep(row) {
			out = append(out, row.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
