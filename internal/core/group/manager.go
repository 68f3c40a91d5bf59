// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

// # Manager

// Manager implements the translation group workflow on top of a [Store].
type Manager[R Row[R]] struct {
	store     Store[R]
	nameField string
	logger    *slog.Logger
	newID     func() string
}

// NewManager constructs a [Manager].
//
// nameField names the localized field whose presence decides whether a language
// variant exists ("name" for brochures); variants with a blank value are skipped.
func NewManager[R Row[R]](store Store[R], nameField string, logger *slog.Logger) *Manager[R] {
	return &Manager[R]{
		store:     store,
		nameField: nameField,
		logger:    logger,
		newID:     NewGroupID,
	}
}

// FindSibling looks up the row of groupID in lang. An empty groupID has no siblings.
func (manager *Manager[R]) FindSibling(ctx context.Context, groupID string, lang i18n.Lang) (R, bool, error) {
	if groupID == "" {
		var zero R
		return zero, false, nil
	}
	return manager.store.FindByGroupAndLanguage(ctx, groupID, lang)
}

// List returns the rows of a group ordered by language code, then creation time,
// then id, so repeated calls always yield the same order.
func (manager *Manager[R]) List(ctx context.Context, groupID string) ([]R, error) {
	rows, err := manager.store.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	SortRows(rows)
	return rows, nil
}

// SortRows orders rows by language code, creation time and id.
func SortRows[R Row[R]](rows []R) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Lang() != b.Lang() {
			return a.Lang() < b.Lang()
		}
		if !a.Created().Equal(b.Created()) {
			return a.Created().Before(b.Created())
		}
		return a.RowID() < b.RowID()
	})
}

// # Group Save

/*
Save persists an edited primary row and its language variants as one group.

The primary row (normally the default-language row) is the source of truth for
shared fields and is written first. A primary without an id is created; one
without a group id gets a freshly minted group. Then, for every language in
variants other than the primary's:

  - blank name: skipped, no placeholder row
  - existing sibling: localized and shared fields updated
  - no sibling: a new row is cloned from the primary and joined to the group

Finally any other rows already in the group receive the primary's shared fields.

Failure semantics:
  - store implements [Transactor]: every write commits or none does
  - otherwise rows created by this call are deleted and updated rows restored,
    best effort, before the original error is returned
*/
func (manager *Manager[R]) Save(ctx context.Context, primary R, variants map[i18n.Lang]i18n.Fields) (SaveResult[R], error) {
	if err := checkVariantLanguages(variants); err != nil {
		return SaveResult[R]{}, err
	}

	if tx, ok := manager.store.(Transactor[R]); ok {
		var result SaveResult[R]
		err := tx.WithinTx(ctx, func(ctx context.Context, store Store[R]) error {
			var saveErr error
			result, saveErr = manager.save(ctx, store, primary, variants, nil)
			return saveErr
		})
		if err != nil {
			return SaveResult[R]{}, err
		}
		manager.logSaved(ctx, result)
		return result, nil
	}

	log := &journal[R]{}
	result, err := manager.save(ctx, manager.store, primary, variants, log)
	if err != nil {
		manager.compensate(ctx, log)
		return SaveResult[R]{}, err
	}

	manager.logSaved(ctx, result)
	return result, nil
}

func (manager *Manager[R]) save(ctx context.Context, store Store[R], primary R, variants map[i18n.Lang]i18n.Fields, log *journal[R]) (SaveResult[R], error) {

	// 1. Default-language row first
	if primary.GroupID() == "" {
		primary.SetGroupID(manager.newID())
	}
	groupID := primary.GroupID()

	if own, ok := variants[primary.Lang()]; ok {
		primary.ApplyLocalized(own)
	}

	if primary.RowID() == "" {
		if err := store.Create(ctx, primary); err != nil {
			return SaveResult[R]{}, err
		}
		log.created(primary)
	} else {
		if log != nil {
			before, err := store.FindByID(ctx, primary.RowID())
			if err != nil {
				return SaveResult[R]{}, err
			}
			log.updated(before)
		}
		if err := store.Update(ctx, primary); err != nil {
			return SaveResult[R]{}, err
		}
	}

	result := SaveResult[R]{GroupID: groupID, Primary: primary}
	touched := map[string]bool{primary.RowID(): true}

	// 2. Named language variants
	for _, lang := range variantLanguages(variants) {
		if lang == primary.Lang() {
			continue
		}

		fields := variants[lang]
		if i18n.GetField(i18n.Translations{lang: fields}, lang, manager.nameField) == "" {
			result.Skipped = append(result.Skipped, lang)
			continue
		}

		sibling, found, err := store.FindByGroupAndLanguage(ctx, groupID, lang)
		if err != nil {
			return SaveResult[R]{}, err
		}

		if !found {
			row := primary.Sibling(lang)
			row.ApplyLocalized(fields)
			row.SetGroupID(groupID)
			if err := store.Create(ctx, row); err != nil {
				return SaveResult[R]{}, fmt.Errorf("create %s row: %w", lang, err)
			}
			log.created(row)
			result.Created = append(result.Created, row)
			touched[row.RowID()] = true
			continue
		}

		touched[sibling.RowID()] = true
		before := sibling.Clone()
		localized := sibling.ApplyLocalized(fields)
		shared := sibling.ApplyShared(primary)
		if !localized && !shared {
			continue
		}
		if err := store.Update(ctx, sibling); err != nil {
			return SaveResult[R]{}, fmt.Errorf("update %s row: %w", lang, err)
		}
		log.updated(before)
		result.Updated = append(result.Updated, sibling)
	}

	// 3. Group-wide shared fields on siblings not named in this edit
	rows, err := store.ListByGroup(ctx, groupID)
	if err != nil {
		return SaveResult[R]{}, err
	}
	SortRows(rows)

	for _, row := range rows {
		if touched[row.RowID()] {
			continue
		}
		before := row.Clone()
		if !row.ApplyShared(primary) {
			continue
		}
		if err := store.Update(ctx, row); err != nil {
			return SaveResult[R]{}, fmt.Errorf("sync %s row: %w", row.Lang(), err)
		}
		log.updated(before)
		result.Updated = append(result.Updated, row)
	}

	return result, nil
}

func (manager *Manager[R]) logSaved(ctx context.Context, result SaveResult[R]) {
	manager.logger.InfoContext(ctx, "translation_group_saved",
		slog.String("translation_group", result.GroupID),
		slog.Int("created", len(result.Created)),
		slog.Int("updated", len(result.Updated)),
		slog.Int("skipped", len(result.Skipped)),
	)
}

// # Compensation

// journal records the writes of a non-transactional save. A nil journal records nothing.
type journal[R Row[R]] struct {
	createdRows []R
	beforeRows  []R
}

func (j *journal[R]) created(row R) {
	if j != nil {
		j.createdRows = append(j.createdRows, row)
	}
}

func (j *journal[R]) updated(before R) {
	if j != nil {
		j.beforeRows = append(j.beforeRows, before)
	}
}

// compensate undoes a failed save in reverse order. It runs even when ctx has been
// cancelled, since the request failing is usually why it runs.
func (manager *Manager[R]) compensate(ctx context.Context, log *journal[R]) {
	ctx = context.WithoutCancel(ctx)

	for i := len(log.createdRows) - 1; i >= 0; i-- {
		row := log.createdRows[i]
		if err := manager.store.Delete(ctx, row.RowID()); err != nil {
			manager.logger.ErrorContext(ctx, "translation_group_compensation_failed",
				slog.String("action", "delete"),
				slog.String("id", row.RowID()),
				slog.Any("error", err),
			)
		}
	}

	for i := len(log.beforeRows) - 1; i >= 0; i-- {
		row := log.beforeRows[i]
		if err := manager.store.Update(ctx, row); err != nil {
			manager.logger.ErrorContext(ctx, "translation_group_compensation_failed",
				slog.String("action", "restore"),
				slog.String("id", row.RowID()),
				slog.Any("error", err),
			)
		}
	}

	manager.logger.WarnContext(ctx, "translation_group_save_compensated",
		slog.Int("deleted", len(log.createdRows)),
		slog.Int("restored", len(log.beforeRows)),
	)
}

// # Helpers

func checkVariantLanguages(variants map[i18n.Lang]i18n.Fields) error {
	var details []apperr.FieldError
	for lang := range variants {
		if !i18n.IsSupported(lang) {
			details = append(details, apperr.FieldError{
				Field:   "translations." + string(lang),
				Message: "Unsupported language code",
			})
		}
	}
	if len(details) > 0 {
		sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
		return apperr.ValidationError("Invalid translations", details...)
	}
	return nil
}

// variantLanguages returns the languages of variants in registry order.
func variantLanguages(variants map[i18n.Lang]i18n.Fields) []i18n.Lang {
	var out []i18n.Lang
	for _, lang := range i18n.Supported() {
		if _, ok := variants[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}
