// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

const (
	fieldTitle     = "title"
	fieldLanguage  = "language"
	fieldCategory  = "category"
	fieldFileURL   = "file_url"
	fieldSortOrder = "sort_order"
)

type Input struct {
	Title     string    `json:"title"`
	Language  i18n.Lang `json:"language"`
	Category  string    `json:"category"`
	FileURL   string    `json:"file_url"`
	Active    *bool     `json:"active"`
	SortOrder int       `json:"sort_order"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListPublic returns active documents. Unlike content pages, the library is
// filtered by the document's own language, never by the reader's.
func (service *Service) ListPublic(ctx context.Context, filter Filter) ([]*Document, error) {
	filter.ActiveOnly = true
	return service.repo.List(ctx, filter)
}

func (service *Service) List(ctx context.Context, filter Filter) ([]*Document, error) {
	return service.repo.List(ctx, filter)
}

func (service *Service) Get(ctx context.Context, id string) (*Document, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) Create(ctx context.Context, input Input) (*Document, error) {
	d := &Document{ID: uuid.New(), Active: true}
	if err := input.apply(d); err != nil {
		return nil, err
	}
	if err := service.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "document_created",
		slog.String("document_id", d.ID),
		slog.String("language", string(d.Language)),
	)
	return d, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Document, error) {
	d, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(d); err != nil {
		return nil, err
	}
	if err := service.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "document_updated", slog.String("document_id", d.ID))
	return d, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "document_deleted", slog.String("document_id", id))
	return nil
}

func (input Input) apply(d *Document) error {
	if input.Language == "" {
		input.Language = i18n.Default
	}
	if lang, ok := i18n.ParseLang(string(input.Language)); ok {
		input.Language = lang
	}

	validator := &validate.Validator{}
	validator.Required(fieldTitle, input.Title).MaxLen(fieldTitle, input.Title, 300).
		Custom(fieldLanguage, !i18n.IsDisplayTag(input.Language), "Unknown language code").
		MaxLen(fieldCategory, input.Category, 200).
		Required(fieldFileURL, input.FileURL).AssetURL(fieldFileURL, input.FileURL).
		Range(fieldSortOrder, input.SortOrder, 0, 100_000)

	if err := validator.Err(); err != nil {
		return err
	}

	d.Title = input.Title
	d.Language = input.Language
	d.Category = input.Category
	d.FileURL = input.FileURL
	if input.Active != nil {
		d.Active = *input.Active
	}
	d.SortOrder = input.SortOrder
	return nil
}
