// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/core/group"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

// # Fixtures

// item is a minimal grouped row: one localized field (name) and two shared ones.
type item struct {
	ID        string
	Language  i18n.Lang
	Group     string
	Name      string
	Category  string
	Active    bool
	CreatedAt time.Time
}

func (i *item) RowID() string                   { return i.ID }
func (i *item) Lang() i18n.Lang                 { return i.Language }
func (i *item) GroupID() string                 { return i.Group }
func (i *item) SetGroupID(id string)            { i.Group = id }
func (i *item) Created() time.Time              { return i.CreatedAt }
func (i *item) SimilarityKey() (string, string) { return i.Name, i.Category }

func (i *item) Clone() *item {
	c := *i
	return &c
}

func (i *item) Sibling(lang i18n.Lang) *item {
	return &item{Language: lang, Category: i.Category, Active: i.Active}
}

func (i *item) ApplyShared(src *item) bool {
	changed := i.Category != src.Category || i.Active != src.Active
	i.Category, i.Active = src.Category, src.Active
	return changed
}

func (i *item) ApplyLocalized(fields i18n.Fields) bool {
	name, ok := fields["name"]
	if !ok || name == i.Name {
		return false
	}
	i.Name = name
	return true
}

// memStore is an in-memory group.Store that can fail on demand.
type memStore struct {
	rows    map[string]*item
	seq     int
	clock   time.Time
	updates int
	creates int

	// failCreateAt makes the n-th Create (1-based) fail.
	failCreateAt int
}

func newMemStore(rows ...*item) *memStore {
	s := &memStore{rows: map[string]*item{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, r := range rows {
		s.rows[r.ID] = r.Clone()
	}
	return s
}

func (s *memStore) FindByID(_ context.Context, id string) (*item, error) {
	r, ok := s.rows[id]
	if !ok {
		return nil, apperr.NotFound("Item")
	}
	return r.Clone(), nil
}

func (s *memStore) FindByGroupAndLanguage(_ context.Context, groupID string, lang i18n.Lang) (*item, bool, error) {
	for _, r := range s.sorted() {
		if r.Group == groupID && r.Language == lang {
			return r.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (s *memStore) ListByGroup(_ context.Context, groupID string) ([]*item, error) {
	var out []*item
	for _, r := range s.sorted() {
		if r.Group == groupID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *memStore) ListAll(_ context.Context) ([]*item, error) {
	var out []*item
	for _, r := range s.sorted() {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, row *item) error {
	s.creates++
	if s.failCreateAt != 0 && s.creates == s.failCreateAt {
		return errors.New("disk full")
	}
	s.seq++
	row.ID = fmt.Sprintf("row-%02d", s.seq)
	s.clock = s.clock.Add(time.Second)
	row.CreatedAt = s.clock
	s.rows[row.ID] = row.Clone()
	return nil
}

func (s *memStore) Update(_ context.Context, row *item) error {
	if _, ok := s.rows[row.ID]; !ok {
		return apperr.NotFound("Item")
	}
	s.updates++
	s.rows[row.ID] = row.Clone()
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

func (s *memStore) sorted() []*item {
	out := make([]*item, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// txStore wraps memStore with an all-or-nothing WithinTx.
type txStore struct {
	*memStore
	txCount int
}

func (s *txStore) WithinTx(ctx context.Context, fn func(context.Context, group.Store[*item]) error) error {
	s.txCount++
	snapshot := map[string]*item{}
	for id, r := range s.rows {
		snapshot[id] = r.Clone()
	}
	if err := fn(ctx, s.memStore); err != nil {
		s.rows = snapshot
		return err
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// # Save

/*
TestSave_CreatesGroup covers the water-pipes scenario: en and mk rows are created
in one group with the shared category, and the blank de variant is skipped.
*/
func TestSave_CreatesGroup(t *testing.T) {
	store := newMemStore()
	manager := group.NewManager[*item](store, "name", discardLogger())

	primary := &item{Language: i18n.EN, Category: "Water-supply systems", Active: true}
	result, err := manager.Save(context.Background(), primary, map[i18n.Lang]i18n.Fields{
		i18n.EN: {"name": "Water Pipes"},
		i18n.MK: {"name": "Водни цевки"},
		i18n.DE: {"name": ""},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.GroupID)
	assert.Equal(t, []i18n.Lang{i18n.DE}, result.Skipped)
	assert.Len(t, result.Created, 1)

	rows, err := manager.List(context.Background(), result.GroupID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	names := map[i18n.Lang]string{}
	for _, row := range rows {
		assert.Equal(t, result.GroupID, row.Group)
		assert.Equal(t, "Water-supply systems", row.Category)
		names[row.Language] = row.Name
	}
	assert.Equal(t, map[i18n.Lang]string{i18n.EN: "Water Pipes", i18n.MK: "Водни цевки"}, names)

	// Ordered by language code.
	assert.Equal(t, i18n.EN, rows[0].Language)
	assert.Equal(t, i18n.MK, rows[1].Language)
}

/*
TestSave_UpdatesSiblingsAndSyncsSharedFields verifies an existing sibling is updated
in place and a sibling not named in the edit still receives the shared fields.
*/
func TestSave_UpdatesSiblingsAndSyncsSharedFields(t *testing.T) {
	store := newMemStore(
		&item{ID: "en-1", Language: i18n.EN, Group: "g1", Name: "Pipes", Category: "Old"},
		&item{ID: "mk-1", Language: i18n.MK, Group: "g1", Name: "Цевки", Category: "Old"},
		&item{ID: "de-1", Language: i18n.DE, Group: "g1", Name: "Rohre", Category: "Old"},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	primary, _ := store.FindByID(context.Background(), "en-1")
	primary.Category = "New"
	primary.Active = true

	result, err := manager.Save(context.Background(), primary, map[i18n.Lang]i18n.Fields{
		i18n.MK: {"name": "Нови цевки"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Len(t, result.Updated, 2)
	assert.Len(t, store.rows, 3, "no new rows when siblings exist")

	assert.Equal(t, "Нови цевки", store.rows["mk-1"].Name)
	assert.Equal(t, "Rohre", store.rows["de-1"].Name)
	for _, id := range []string{"en-1", "mk-1", "de-1"} {
		assert.Equal(t, "New", store.rows[id].Category, id)
		assert.True(t, store.rows[id].Active, id)
	}
}

/*
TestSave_RejectsUnsupportedLanguage fails before any write.
*/
func TestSave_RejectsUnsupportedLanguage(t *testing.T) {
	store := newMemStore()
	manager := group.NewManager[*item](store, "name", discardLogger())

	_, err := manager.Save(context.Background(), &item{Language: i18n.EN, Name: "Pipes"}, map[i18n.Lang]i18n.Fields{
		i18n.FR: {"name": "Tuyaux"},
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Empty(t, store.rows)
}

/*
TestSave_CompensatesOnFailure verifies that without a transactional store, a failed
save deletes the rows it created and restores the rows it updated.
*/
func TestSave_CompensatesOnFailure(t *testing.T) {
	store := newMemStore(
		&item{ID: "en-1", Language: i18n.EN, Group: "", Name: "Pipes", Category: "Old"},
	)
	store.seq = 10
	store.failCreateAt = 2 // mk succeeds, de fails
	manager := group.NewManager[*item](store, "name", discardLogger())

	primary, _ := store.FindByID(context.Background(), "en-1")
	primary.Category = "New"

	_, err := manager.Save(context.Background(), primary, map[i18n.Lang]i18n.Fields{
		i18n.MK: {"name": "Цевки"},
		i18n.DE: {"name": "Rohre"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	require.Len(t, store.rows, 1, "created rows removed")
	assert.Equal(t, "Old", store.rows["en-1"].Category, "primary restored")
	assert.Empty(t, store.rows["en-1"].Group, "primary group restored")
}

/*
TestSave_TransactionalStore verifies the whole save runs in one transaction and a
failure leaves nothing behind.
*/
func TestSave_TransactionalStore(t *testing.T) {
	inner := newMemStore()
	inner.failCreateAt = 2
	store := &txStore{memStore: inner}
	manager := group.NewManager[*item](store, "name", discardLogger())

	_, err := manager.Save(context.Background(), &item{Language: i18n.EN, Name: "Pipes"}, map[i18n.Lang]i18n.Fields{
		i18n.MK: {"name": "Цевки"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, store.txCount)
	assert.Empty(t, inner.rows)

	inner.failCreateAt = 0
	result, err := manager.Save(context.Background(), &item{Language: i18n.EN, Name: "Pipes"}, map[i18n.Lang]i18n.Fields{
		i18n.MK: {"name": "Цевки"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.txCount)
	assert.Len(t, inner.rows, 2)
	assert.Equal(t, result.GroupID, inner.rows[result.Primary.ID].Group)
}

/*
TestFindSibling_EmptyGroup never matches rows without a group.
*/
func TestFindSibling_EmptyGroup(t *testing.T) {
	store := newMemStore(&item{ID: "a", Language: i18n.MK})
	manager := group.NewManager[*item](store, "name", discardLogger())

	_, found, err := manager.FindSibling(context.Background(), "", i18n.MK)
	require.NoError(t, err)
	assert.False(t, found)
}
