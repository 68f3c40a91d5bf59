// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package group manages translation groups: one logical content item stored as
several independently keyed rows, one per language, sharing a group id.

The [Manager] is generic over the row type so any entity stored per language
(brochures today) can reuse the same save and repair workflow.

Invariants maintained by the workflow (the storage layer does not enforce them):

  - At most one row per language per group.
  - Shared fields (category, status, active flag, sort order, shared assets) are
    identical across every row of a group.
*/
package group

import (
	"context"
	"time"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

// # Row Contract

// Row is a per-language record that can belong to a translation group.
//
// R is the concrete row type itself (usually a pointer), so that methods such as
// Sibling can return the caller's own type.
type Row[R any] interface {
	RowID() string
	Lang() i18n.Lang
	GroupID() string
	SetGroupID(id string)
	Created() time.Time

	// Sibling returns a new, unsaved row for lang carrying the receiver's shared fields.
	Sibling(lang i18n.Lang) R

	// ApplyShared copies the shared fields of src onto the receiver.
	// It reports whether anything changed.
	ApplyShared(src R) bool

	// ApplyLocalized overwrites the receiver's localized fields with the non-blank
	// values of fields. It reports whether anything changed.
	ApplyLocalized(fields i18n.Fields) bool

	// SimilarityKey returns the raw (name, category) pair used by [Manager.GroupSimilar].
	SimilarityKey() (name, category string)

	// Clone returns a deep copy used to restore the row after a failed save.
	Clone() R
}

// # Storage Contract

// Store is the persistence a [Manager] needs.
type Store[R any] interface {

	// FindByID returns one row or an apperr NOT_FOUND error.
	FindByID(ctx context.Context, id string) (R, error)

	/*
		FindByGroupAndLanguage looks up the row of a group in one language.

		Returns:
		  - R, true: the row exists
		  - zero, false: no such row
		  - error: storage failures only
	*/
	FindByGroupAndLanguage(ctx context.Context, groupID string, lang i18n.Lang) (R, bool, error)

	// ListByGroup returns every row sharing groupID, in any order.
	ListByGroup(ctx context.Context, groupID string) ([]R, error)

	// ListAll returns every row, grouped or not.
	ListAll(ctx context.Context) ([]R, error)

	// Create persists a new row and assigns its id.
	Create(ctx context.Context, row R) error

	// Update persists every column of an existing row.
	Update(ctx context.Context, row R) error

	// Delete removes one row. Siblings are untouched.
	Delete(ctx context.Context, id string) error
}

// Transactor is implemented by stores that can run several writes atomically.
// When the store passed to [NewManager] implements it, [Manager.Save] commits all
// rows or none.
type Transactor[R any] interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store[R]) error) error
}

// # Results

// SaveResult describes what a group save wrote.
type SaveResult[R any] struct {
	GroupID string `json:"translation_group"`
	Primary R      `json:"primary"`

	// Created and Updated exclude the primary row.
	Created []R `json:"created"`
	Updated []R `json:"updated"`

	// Skipped lists languages whose submitted name was blank.
	Skipped []i18n.Lang `json:"skipped"`
}

// Report summarizes a [Manager.GroupSimilar] run.
type Report struct {
	Scanned   int `json:"scanned"`
	Buckets   int `json:"buckets"`
	Minted    int `json:"minted"`
	Updated   int `json:"updated"`
	Conflicts int `json:"conflicts"`
}

// NewGroupID mints a translation group id: a UUIDv7, so time-ordered with a random tail.
func NewGroupID() string {
	return uuid.New()
}
