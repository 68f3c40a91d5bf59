// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package position

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/slice"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

const (
	fieldLocation       = "location"
	fieldEmploymentType = "employment_type"
	fieldSortOrder      = "sort_order"

	maxTitleLen    = 300
	maxLocationLen = 200
)

// Input is the editor's representation of a position.
type Input struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Requirements   string            `json:"requirements"`
	Location       string            `json:"location"`
	EmploymentType EmploymentType    `json:"employment_type"`
	Translations   i18n.Translations `json:"translations"`
	Active         *bool             `json:"active"`
	SortOrder      int               `json:"sort_order"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Public Reads

func (service *Service) ListPublic(ctx context.Context, lang i18n.Lang) ([]View, error) {
	positions, err := service.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	return slice.Map(positions, func(p *Position) View { return p.Localize(lang) }), nil
}

// GetPublic returns an open position; closed positions are reported as not found.
func (service *Service) GetPublic(ctx context.Context, id string, lang i18n.Lang) (View, error) {
	p, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	if !p.Active {
		return View{}, apperr.NotFound("Position")
	}
	return p.Localize(lang), nil
}

// # Admin

func (service *Service) List(ctx context.Context) ([]*Position, error) {
	return service.repo.List(ctx, false)
}

func (service *Service) Get(ctx context.Context, id string) (*Position, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) Create(ctx context.Context, input Input) (*Position, error) {
	p := &Position{ID: uuid.New(), Active: true}
	if err := input.apply(p); err != nil {
		return nil, err
	}
	if err := service.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "position_created", slog.String("position_id", p.ID))
	return p, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Position, error) {
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

	service.logger.InfoContext(ctx, "position_updated", slog.String("position_id", p.ID))
	return p, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "position_deleted", slog.String("position_id", id))
	return nil
}

func (input Input) apply(p *Position) error {
	if input.EmploymentType == "" {
		input.EmploymentType = EmploymentFullTime
	}

	legacy := i18n.Fields{
		FieldTitle:        input.Title,
		FieldDescription:  input.Description,
		FieldRequirements: input.Requirements,
	}
	if len(p.Translations) == 0 {
		for _, field := range TranslatedFields {
			if legacy[field] == "" {
				legacy[field] = p.BaseField(field)
			}
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
	validator.MaxLen(fieldLocation, input.Location, maxLocationLen).
		OneOf(fieldEmploymentType, string(input.EmploymentType), EmploymentTypes...).
		Range(fieldSortOrder, input.SortOrder, 0, 100_000)

	if err := validator.Err(); err != nil {
		return err
	}

	p.Title = base[FieldTitle]
	p.Description = base[FieldDescription]
	p.Requirements = base[FieldRequirements]
	p.Location = input.Location
	p.EmploymentType = input.EmploymentType
	p.Translations = translations
	if input.Active != nil {
		p.Active = *input.Active
	}
	p.SortOrder = input.SortOrder
	return nil
}
