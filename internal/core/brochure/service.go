// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package brochure

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/taibuivan/pipemill/internal/core/group"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/validate"
)

// Validation field names outside the translations map.
const (
	fieldLanguage  = "language"
	fieldCategory  = "category"
	fieldImageURL  = "image_url"
	fieldStatus    = "status"
	fieldSortOrder = "sort_order"

	maxNameLen     = 200
	maxCategoryLen = 200
	maxSortOrder   = 100_000
)

// # Inputs

// GroupInput is a multi-language save of one brochure. Translations carry the
// per-language name, description and pdf_url; the rest is shared by the group.
type GroupInput struct {
	// ID selects the existing English row to edit. Empty creates a new group.
	ID           string            `json:"id,omitempty"`
	Translations i18n.Translations `json:"translations"`
	Category     string            `json:"category"`
	ImageURL     string            `json:"image_url"`
	Status       Status            `json:"status"`
	Active       bool              `json:"active"`
	SortOrder    int               `json:"sort_order"`
}

// Patch edits a single row. Nil fields are left unchanged.
type Patch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PDFURL      *string `json:"pdf_url"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Status      *Status `json:"status"`
	Active      *bool   `json:"active"`
	SortOrder   *int    `json:"sort_order"`
}

func (patch Patch) apply(b *Brochure) {
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.PDFURL != nil {
		b.PDFURL = *patch.PDFURL
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		b.ImageURL = *patch.ImageURL
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Active != nil {
		b.Active = *patch.Active
	}
	if patch.SortOrder != nil {
		b.SortOrder = *patch.SortOrder
	}
}

// GroupView is one translation group as shown in the editor's language tabs.
type GroupView struct {
	GroupID  string                               `json:"translation_group"`
	Rows     []*Brochure                          `json:"rows"`
	Coverage map[i18n.Lang]map[string]i18n.Status `json:"coverage"`
}

// # Service

// Service implements brochure use cases on top of a [Repository] and the
// translation group workflow.
type Service struct {
	repo   Repository
	groups *group.Manager[*Brochure]
	logger *slog.Logger
}

// NewService constructs a brochure [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		groups: group.NewManager[*Brochure](repo, FieldName, logger),
		logger: logger,
	}
}

// # Public Reads

/*
ListPublic returns the brochures shown on the public site in lang.

Each translation group contributes one row: its row in lang when published,
otherwise its English row. Groups with neither are left out. Ungrouped rows
behave as groups of one.

Parameters:
  - lang: i18n.Lang (negotiated display language)
  - category: string (optional exact category filter)

Returns:
  - []*Brochure: ordered by sort order, then name
  - error: storage failures only
*/
func (service *Service) ListPublic(ctx context.Context, lang i18n.Lang, category string) ([]*Brochure, error) {
	rows, err := service.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	chosen := make(map[string]*Brochure)
	for _, row := range rows {
		if category != "" && row.Category != category {
			continue
		}

		rank := languageRank(row.Language, lang)
		if rank < 0 {
			continue
		}

		key := row.TranslationGroup
		if key == "" {
			key = "row:" + row.ID
		}
		if current, ok := chosen[key]; ok && languageRank(current.Language, lang) <= rank {
			continue
		}
		chosen[key] = row
	}

	out := make([]*Brochure, 0, len(chosen))
	for _, row := range chosen {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// languageRank orders candidate rows for a reader of lang: 0 exact, 1 default, -1 unusable.
func languageRank(rowLang, lang i18n.Lang) int {
	switch rowLang {
	case lang:
		return 0
	case i18n.Default:
		return 1
	}
	return -1
}

// GetPublic returns a published row, switched to its sibling in lang when one is published.
func (service *Service) GetPublic(ctx context.Context, id string, lang i18n.Lang) (*Brochure, error) {
	row, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.IsPublished() {
		return nil, apperr.NotFound("Brochure")
	}

	if row.Language != lang {
		sibling, found, err := service.groups.FindSibling(ctx, row.TranslationGroup, lang)
		if err != nil {
			return nil, err
		}
		if found && sibling.IsPublished() {
			return sibling, nil
		}
	}
	return row, nil
}

// # Admin Reads

func (service *Service) Get(ctx context.Context, id string) (*Brochure, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Brochure, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

// Group returns every row of a translation group with per-language completeness.
func (service *Service) Group(ctx context.Context, groupID string) (*GroupView, error) {
	rows, err := service.groups.List(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("Translation group")
	}

	translations := i18n.Translations{}
	for _, row := range rows {
		translations[row.Language] = i18n.Fields{
			FieldName:        row.Name,
			FieldDescription: row.Description,
			FieldPDFURL:      row.PDFURL,
		}
	}

	return &GroupView{
		GroupID:  groupID,
		Rows:     rows,
		Coverage: i18n.Report(translations, LocalizedFields...),
	}, nil
}

// # Writes

/*
SaveGroup creates or edits a brochure in several languages at once.

The English row is written first and is the source of the shared fields. Other
languages with a name get their row updated or created; languages with a blank
name are skipped. A blank English name blocks the save.

Returns:
  - group.SaveResult: the group id and the rows written
  - error: VALIDATION_ERROR, NOT_FOUND, or the storage failure that aborted the save
*/
func (service *Service) SaveGroup(ctx context.Context, input GroupInput) (group.SaveResult[*Brochure], error) {
	if input.Status == "" {
		input.Status = StatusActive
	}

	validator := &validate.Validator{}
	validator.OneOf(fieldStatus, string(input.Status), Statuses...).
		MaxLen(fieldCategory, input.Category, maxCategoryLen).
		AssetURL(fieldImageURL, input.ImageURL).
		Range(fieldSortOrder, input.SortOrder, 0, maxSortOrder)

	if err := i18n.Validate(input.Translations, LocalizedFields...); err != nil {
		validator.Append(apperr.As(err).Details...)
	}
	validator.Append(i18n.Missing(input.Translations, FieldName)...)

	for _, lang := range input.Translations.Languages() {
		validator.MaxLen(i18n.FieldPath(lang, FieldName), input.Translations[lang][FieldName], maxNameLen).
			AssetURL(i18n.FieldPath(lang, FieldPDFURL), input.Translations[lang][FieldPDFURL])
	}

	if err := validator.Err(); err != nil {
		return group.SaveResult[*Brochure]{}, err
	}

	primary := &Brochure{Language: i18n.Default}
	if input.ID != "" {
		existing, err := service.repo.FindByID(ctx, input.ID)
		if err != nil {
			return group.SaveResult[*Brochure]{}, err
		}
		if existing.Language != i18n.Default {
			return group.SaveResult[*Brochure]{}, apperr.Precondition("NOT_DEFAULT_LANGUAGE", "Group edits start from the English row")
		}
		primary = existing
	}

	primary.Category = input.Category
	primary.ImageURL = input.ImageURL
	primary.Status = input.Status
	primary.Active = input.Active
	primary.SortOrder = input.SortOrder

	result, err := service.groups.Save(ctx, primary, input.Translations)
	if err != nil {
		return group.SaveResult[*Brochure]{}, err
	}

	service.logger.InfoContext(ctx, "brochure_group_saved",
		slog.String("brochure_id", result.Primary.ID),
		slog.String("translation_group", result.GroupID),
	)
	return result, nil
}

/*
Update edits one row.

Shared fields stay identical across a group: editing the English row pushes
them to every sibling, while a sibling edit takes them from the English row.
*/
func (service *Service) Update(ctx context.Context, id string, patch Patch) (*Brochure, error) {
	row, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.apply(row)
	if err := validateRow(row); err != nil {
		return nil, err
	}

	switch {
	case row.TranslationGroup == "":
		err = service.repo.Update(ctx, row)

	case row.Language == i18n.Default:
		var result group.SaveResult[*Brochure]
		result, err = service.groups.Save(ctx, row, nil)
		row = result.Primary

	default:
		err = service.repo.WithinTx(ctx, func(ctx context.Context, store group.Store[*Brochure]) error {
			if err := alignWithGroup(ctx, store, row); err != nil {
				return err
			}
			return store.Update(ctx, row)
		})
	}
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "brochure_updated", slog.String("brochure_id", row.ID))
	return row, nil
}

// Delete removes one row. Its siblings stay in the group.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "brochure_deleted", slog.String("brochure_id", id))
	return nil
}

// GroupSimilar links legacy rows describing the same brochure. See [group.Manager.GroupSimilar].
func (service *Service) GroupSimilar(ctx context.Context) (group.Report, error) {
	return service.groups.GroupSimilar(ctx)
}

/*
CreateDraft persists a reviewed translation draft as a new row.

The draft joins the source row's translation group; a source without a group
gets one minted first. Shared fields come from the group's English row so the
group stays consistent; the draft keeps its own status until published. When the
source row no longer exists, the draft is stored on its own.

Returns:
  - *Brochure: the stored row
  - error: VALIDATION_ERROR, CONFLICT when the group already has this language
*/
func (service *Service) CreateDraft(ctx context.Context, draft *Brochure, sourceID string) (*Brochure, error) {
	draft.ID = ""
	if draft.Status == "" {
		draft.Status = StatusDraft
	}
	if err := validateRow(draft); err != nil {
		return nil, err
	}
	if !i18n.IsSupported(draft.Language) {
		return nil, validate.RequiredError(fieldLanguage, "Unsupported language code")
	}

	err := service.repo.WithinTx(ctx, func(ctx context.Context, store group.Store[*Brochure]) error {
		draft.TranslationGroup = ""

		source, err := store.FindByID(ctx, sourceID)
		if isNotFound(err) {
			return store.Create(ctx, draft)
		}
		if err != nil {
			return err
		}

		if source.Language == draft.Language {
			return validate.RequiredError(fieldLanguage, "Must differ from the source language")
		}

		if source.TranslationGroup == "" {
			source.SetGroupID(group.NewGroupID())
			if err := store.Update(ctx, source); err != nil {
				return err
			}
		}

		_, exists, err := store.FindByGroupAndLanguage(ctx, source.TranslationGroup, draft.Language)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("The translation group already has a brochure in this language")
		}

		draft.TranslationGroup = source.TranslationGroup
		if err := alignWithGroup(ctx, store, draft); err != nil {
			return err
		}
		return store.Create(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "brochure_draft_created",
		slog.String("brochure_id", draft.ID),
		slog.String("source_id", sourceID),
		slog.String("translation_group", draft.TranslationGroup),
	)
	return draft, nil
}

// # Helpers

// alignWithGroup copies the shared fields of the group's English row onto row.
func alignWithGroup(ctx context.Context, store group.Store[*Brochure], row *Brochure) error {
	primary, found, err := store.FindByGroupAndLanguage(ctx, row.TranslationGroup, i18n.Default)
	if err != nil {
		return err
	}
	if found && primary.ID != row.ID {
		row.ApplyShared(primary)
	}
	return nil
}

func validateRow(b *Brochure) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, b.Name).MaxLen(FieldName, b.Name, maxNameLen).
		OneOf(fieldStatus, string(b.Status), Statuses...).
		MaxLen(fieldCategory, b.Category, maxCategoryLen).
		AssetURL(FieldPDFURL, b.PDFURL).
		AssetURL(fieldImageURL, b.ImageURL).
		Range(fieldSortOrder, b.SortOrder, 0, maxSortOrder)

	return validator.Err()
}

func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.HTTPStatus == http.StatusNotFound
}
