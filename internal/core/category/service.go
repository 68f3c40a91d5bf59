// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/slice"
	"github.com/taibuivan/pipemill/pkg/slug"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

const (
	fieldSlug      = "slug"
	fieldSortOrder = "sort_order"

	maxNameLen = 200
)

// Input is the editor's representation of a category. Name is a legacy bare
// value that only seeds a blank English translation.
type Input struct {
	Slug         string            `json:"slug"`
	Name         string            `json:"name"`
	Translations i18n.Translations `json:"translations"`
	SortOrder    int               `json:"sort_order"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListPublic returns every category resolved into lang.
func (service *Service) ListPublic(ctx context.Context, lang i18n.Lang) ([]View, error) {
	categories, err := service.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return slice.Map(categories, func(c *Category) View { return c.Localize(lang) }), nil
}

func (service *Service) List(ctx context.Context) ([]*Category, error) {
	return service.repo.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (*Category, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) Create(ctx context.Context, input Input) (*Category, error) {
	c := &Category{ID: uuid.New()}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := service.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_created", slog.String("category_id", c.ID), slog.String("slug", c.Slug))
	return c, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Category, error) {
	c, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := service.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "category_updated", slog.String("category_id", c.ID))
	return c, nil
}

// Delete removes a category. Brochures keep their category text.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "category_deleted", slog.String("category_id", id))
	return nil
}

func (input Input) apply(c *Category) error {
	legacy := i18n.Fields{FieldName: input.Name}
	if len(c.Translations) == 0 && legacy[FieldName] == "" {
		legacy[FieldName] = c.Name
	}

	validator := &validate.Validator{}
	translations, base, err := i18n.Prepare(input.Translations, legacy, []string{FieldName}, FieldName)
	if err != nil {
		validator.Append(apperr.As(err).Details...)
	}
	for _, lang := range input.Translations.Languages() {
		validator.MaxLen(i18n.FieldPath(lang, FieldName), input.Translations[lang][FieldName], maxNameLen)
	}

	categorySlug := input.Slug
	if categorySlug == "" {
		categorySlug = slug.From(base[FieldName])
	}
	if categorySlug == "" && base[FieldName] != "" {
		categorySlug = "category-" + c.ID
	}
	if categorySlug != "" {
		validator.Slug(fieldSlug, categorySlug)
	}
	validator.Range(fieldSortOrder, input.SortOrder, 0, 100_000)

	if err := validator.Err(); err != nil {
		return err
	}

	c.Slug = categorySlug
	c.Name = base[FieldName]
	c.Translations = translations
	c.SortOrder = input.SortOrder
	return nil
}
