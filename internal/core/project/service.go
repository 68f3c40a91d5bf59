// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

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
	fieldYear      = "year"
	fieldImageURL  = "image_url"
	fieldGallery   = "gallery"
	fieldStatus    = "status"
	fieldSortOrder = "sort_order"

	maxTitleLen  = 300
	maxSlugLen   = 200
	maxGallery   = 50
	minYear      = 1950
	maxYear      = 2100
	maxSortOrder = 100_000
)

// Input is the editor's full representation of a project.
//
// Title, Description and Location are accepted from legacy clients and only
// seed a blank English translation; the stored values are always derived from
// the English translation.
type Input struct {
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Location     string            `json:"location"`
	Year         *int              `json:"year"`
	ImageURL     string            `json:"image_url"`
	Gallery      []string          `json:"gallery"`
	Translations i18n.Translations `json:"translations"`
	Status       Status            `json:"status"`
	Active       *bool             `json:"active"`
	SortOrder    int               `json:"sort_order"`
}

// Service implements project use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a project [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Public Reads

// ListPublic returns the published projects resolved into lang.
func (service *Service) ListPublic(ctx context.Context, lang i18n.Lang) ([]View, error) {
	projects, err := service.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	return slice.Map(projects, func(p *Project) View { return p.Localize(lang) }), nil
}

/*
GetPublic fetches one published project by UUID or slug, resolved into lang.

Returns:
  - View: the localized project
  - error: NOT_FOUND when unknown or unpublished
*/
func (service *Service) GetPublic(ctx context.Context, identifier string, lang i18n.Lang) (View, error) {
	p, err := service.Get(ctx, identifier)
	if err != nil {
		return View{}, err
	}
	if !p.IsPublished() {
		return View{}, apperr.NotFound("Project")
	}
	return p.Localize(lang), nil
}

// # Admin

func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

// Get resolves identifier as a primary key when it is a UUID, otherwise as a slug.
func (service *Service) Get(ctx context.Context, identifier string) (*Project, error) {
	if uuid.IsValid(identifier) {
		return service.repo.FindByID(ctx, identifier)
	}
	return service.repo.FindBySlug(ctx, identifier)
}

/*
Create validates input and stores a new project.

Returns:
  - *Project: the stored project
  - error: VALIDATION_ERROR listing every failure, CONFLICT on a duplicate slug
*/
func (service *Service) Create(ctx context.Context, input Input) (*Project, error) {
	p := &Project{ID: uuid.New(), Active: true}
	if err := input.apply(p); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "project_created",
		slog.String("project_id", p.ID),
		slog.String("slug", p.Slug),
	)
	return p, nil
}

// Update replaces every editable field of an existing project.
func (service *Service) Update(ctx context.Context, id string, input Input) (*Project, error) {
	p, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(p); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "project_updated", slog.String("project_id", p.ID))
	return p, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "project_deleted", slog.String("project_id", id))
	return nil
}

// # Helpers

// apply validates input and writes it onto p. p is left untouched on failure.
func (input Input) apply(p *Project) error {
	if input.Status == "" {
		input.Status = StatusActive
	}

	legacy := i18n.Fields{
		FieldTitle:       input.Title,
		FieldDescription: input.Description,
		FieldLocation:    input.Location,
	}

	// A record stored before translations existed seeds its own English entry.
	if len(p.Translations) == 0 {
		for _, field := range TranslatedFields {
			legacy[field] = firstNonBlank(legacy[field], p.BaseField(field))
		}
	}

	validator := &validate.Validator{}
	translations, base, err := i18n.Prepare(input.Translations, legacy, RequiredFields, TranslatedFields...)
	if err != nil {
		validator.Append(apperr.As(err).Details...)
	}
	for _, lang := range input.Translations.Languages() {
		validator.MaxLen(i18n.FieldPath(lang, FieldTitle), input.Translations[lang][FieldTitle], maxTitleLen)
	}

	projectSlug := input.Slug
	if projectSlug == "" {
		projectSlug = slug.From(base[FieldTitle])
	}
	if projectSlug == "" && base[FieldTitle] != "" {
		projectSlug = "project-" + p.ID
	}
	if projectSlug != "" {
		validator.Slug(fieldSlug, projectSlug).MaxLen(fieldSlug, projectSlug, maxSlugLen)
	}

	if input.Year != nil {
		validator.Range(fieldYear, *input.Year, minYear, maxYear)
	}
	validator.AssetURL(fieldImageURL, input.ImageURL).
		Custom(fieldGallery, len(input.Gallery) > maxGallery, "Too many gallery images").
		OneOf(fieldStatus, string(input.Status), Statuses...).
		Range(fieldSortOrder, input.SortOrder, 0, maxSortOrder)
	for _, url := range input.Gallery {
		validator.AssetURL(fieldGallery, url)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	p.Slug = projectSlug
	p.Title = base[FieldTitle]
	p.Description = base[FieldDescription]
	p.Location = base[FieldLocation]
	p.Translations = translations
	p.Year = input.Year
	p.ImageURL = input.ImageURL
	p.Gallery = input.Gallery
	p.Status = input.Status
	if input.Active != nil {
		p.Active = *input.Active
	}
	p.SortOrder = input.SortOrder
	return nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
