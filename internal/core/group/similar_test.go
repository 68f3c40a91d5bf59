// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/core/group"
	"github.com/taibuivan/pipemill/internal/i18n"
)

func at(minute int) time.Time {
	return time.Date(2024, 5, 1, 10, minute, 0, 0, time.UTC)
}

/*
TestGroupSimilar_Idempotent runs the repair twice; the second run writes nothing.
*/
func TestGroupSimilar_Idempotent(t *testing.T) {
	store := newMemStore(
		&item{ID: "a", Language: i18n.EN, Name: "HDPE Pipes", Category: "Water", CreatedAt: at(1)},
		&item{ID: "b", Language: i18n.MK, Name: "HDPE Pipes", Category: "Water", CreatedAt: at(2)},
		&item{ID: "c", Language: i18n.DE, Name: "HDPE Pipes", Category: "Water", CreatedAt: at(3)},
		&item{ID: "d", Language: i18n.EN, Name: "PVC Fittings", Category: "Sewage", CreatedAt: at(4)},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	first, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Buckets)
	assert.Equal(t, 1, first.Minted)
	assert.Equal(t, 3, first.Updated)

	groupID := store.rows["a"].Group
	assert.NotEmpty(t, groupID)
	assert.Equal(t, groupID, store.rows["b"].Group)
	assert.Equal(t, groupID, store.rows["c"].Group)
	assert.Empty(t, store.rows["d"].Group, "singleton buckets stay ungrouped")

	writes := store.updates
	second, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Zero(t, second.Minted)
	assert.Equal(t, writes, store.updates)
}

/*
TestGroupSimilar_IdempotentAcrossBuckets frees a slot in a later bucket that an
earlier bucket needed; the same run must fill it so a rerun writes nothing.
*/
func TestGroupSimilar_IdempotentAcrossBuckets(t *testing.T) {
	store := newMemStore(
		&item{ID: "y1", Language: i18n.MK, Name: "Y", Category: "Water", Group: "P", CreatedAt: at(1)},
		&item{ID: "x1", Language: i18n.EN, Name: "X", Category: "Water", Group: "P", CreatedAt: at(2)},
		&item{ID: "x2", Language: i18n.MK, Name: "X", Category: "Water", Group: "Q", CreatedAt: at(3)},
		&item{ID: "x3", Language: i18n.DE, Name: "X", Category: "Water", Group: "Q", CreatedAt: at(4)},
		&item{ID: "y2", Language: i18n.EN, Name: "Y", Category: "Water", CreatedAt: at(5)},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	first, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Buckets)
	assert.Equal(t, 2, first.Updated)
	assert.Zero(t, first.Conflicts)

	assert.Equal(t, "Q", store.rows["x1"].Group)
	assert.Equal(t, "P", store.rows["y2"].Group)
	assert.Equal(t, "P", store.rows["y1"].Group)

	writes := store.updates
	second, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Zero(t, second.Conflicts)
	assert.Equal(t, writes, store.updates)
}

/*
TestGroupSimilar_PrefersExistingGroup reuses the id already present in the bucket.
*/
func TestGroupSimilar_PrefersExistingGroup(t *testing.T) {
	store := newMemStore(
		&item{ID: "a", Language: i18n.EN, Name: "Pipes", Category: "Water", CreatedAt: at(1)},
		&item{ID: "b", Language: i18n.MK, Name: "Pipes", Category: "Water", Group: "legacy", CreatedAt: at(2)},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	report, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Minted)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, "legacy", store.rows["a"].Group)
}

/*
TestGroupSimilar_NormalizesKey buckets names differing only in case and whitespace.
*/
func TestGroupSimilar_NormalizesKey(t *testing.T) {
	store := newMemStore(
		&item{ID: "a", Language: i18n.EN, Name: "Water Pipes ", Category: "water-supply", CreatedAt: at(1)},
		&item{ID: "b", Language: i18n.MK, Name: "water  pipes", Category: "Water-Supply", CreatedAt: at(2)},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	_, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, store.rows["a"].Group)
	assert.Equal(t, store.rows["a"].Group, store.rows["b"].Group)
}

/*
TestGroupSimilar_OneRowPerLanguage keeps the earliest row of a language and refuses
to give a group a second row of one language.
*/
func TestGroupSimilar_OneRowPerLanguage(t *testing.T) {
	store := newMemStore(
		&item{ID: "a", Language: i18n.EN, Name: "Pipes", Category: "Water", CreatedAt: at(1)},
		&item{ID: "b", Language: i18n.EN, Name: "Pipes", Category: "Water", CreatedAt: at(2)},
		&item{ID: "c", Language: i18n.MK, Name: "Pipes", Category: "Water", CreatedAt: at(3)},

		// Group g2 already has an mk row, so e must not join it.
		&item{ID: "d", Language: i18n.EN, Name: "Fittings", Category: "Water", Group: "g2", CreatedAt: at(4)},
		&item{ID: "x", Language: i18n.MK, Name: "Спојки", Category: "Water", Group: "g2", CreatedAt: at(5)},
		&item{ID: "e", Language: i18n.MK, Name: "Fittings", Category: "Water", CreatedAt: at(6)},
	)
	manager := group.NewManager[*item](store, "name", discardLogger())

	report, err := manager.GroupSimilar(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, store.rows["a"].Group)
	assert.Equal(t, store.rows["a"].Group, store.rows["c"].Group)
	assert.Empty(t, store.rows["b"].Group, "later duplicate language stays out")

	assert.Empty(t, store.rows["e"].Group)
	assert.Equal(t, 1, report.Conflicts)
}

/*
TestSimilarityKey covers normalization and blank names.
*/
func TestSimilarityKey(t *testing.T) {
	assert.Equal(t, group.SimilarityKey("  Водни  Цевки ", "A"), group.SimilarityKey("водни цевки", "a"))
	assert.NotEqual(t, group.SimilarityKey("Pipes", "A"), group.SimilarityKey("Pipes", "B"))
	assert.Empty(t, group.SimilarityKey("   ", "A"))
}
