// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

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
	fieldName      = "name"
	fieldPhotoURL  = "photo_url"
	fieldEmail     = "email"
	fieldSortOrder = "sort_order"

	maxNameLen = 200
	maxRoleLen = 200
)

// Input is the editor's representation of a team member.
type Input struct {
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Bio          string            `json:"bio"`
	PhotoURL     string            `json:"photo_url"`
	Email        string            `json:"email"`
	Translations i18n.Translations `json:"translations"`
	Active       *bool             `json:"active"`
	SortOrder    int               `json:"sort_order"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListPublic returns the active members resolved into lang.
func (service *Service) ListPublic(ctx context.Context, lang i18n.Lang) ([]View, error) {
	members, err := service.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	return slice.Map(members, func(m *Member) View { return m.Localize(lang) }), nil
}

func (service *Service) List(ctx context.Context) ([]*Member, error) {
	return service.repo.List(ctx, false)
}

func (service *Service) Get(ctx context.Context, id string) (*Member, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) Create(ctx context.Context, input Input) (*Member, error) {
	m := &Member{ID: uuid.New(), Active: true}
	if err := input.apply(m); err != nil {
		return nil, err
	}
	if err := service.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "team_member_created", slog.String("member_id", m.ID))
	return m, nil
}

func (service *Service) Update(ctx context.Context, id string, input Input) (*Member, error) {
	m, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(m); err != nil {
		return nil, err
	}
	if err := service.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "team_member_updated", slog.String("member_id", m.ID))
	return m, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.WarnContext(ctx, "team_member_deleted", slog.String("member_id", id))
	return nil
}

func (input Input) apply(m *Member) error {
	legacy := i18n.Fields{FieldRole: input.Role, FieldBio: input.Bio}
	if len(m.Translations) == 0 {
		for _, field := range TranslatedFields {
			if legacy[field] == "" {
				legacy[field] = m.BaseField(field)
			}
		}
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, input.Name).MaxLen(fieldName, input.Name, maxNameLen)

	translations, base, err := i18n.Prepare(input.Translations, legacy, []string{FieldRole}, TranslatedFields...)
	if err != nil {
		validator.Append(apperr.As(err).Details...)
	}
	for _, lang := range input.Translations.Languages() {
		validator.MaxLen(i18n.FieldPath(lang, FieldRole), input.Translations[lang][FieldRole], maxRoleLen)
	}

	validator.AssetURL(fieldPhotoURL, input.PhotoURL).
		Range(fieldSortOrder, input.SortOrder, 0, 100_000)
	if input.Email != "" {
		validator.Email(fieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	m.Name = input.Name
	m.Role = base[FieldRole]
	m.Bio = base[FieldBio]
	m.PhotoURL = input.PhotoURL
	m.Email = input.Email
	m.Translations = translations
	if input.Active != nil {
		m.Active = *input.Active
	}
	m.SortOrder = input.SortOrder
	return nil
}
