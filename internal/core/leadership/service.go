// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leadership

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/validate"
)

// Input replaces the leadership message. The bare fields only seed a blank
// English translation.
type Input struct {
	Message      string            `json:"message"`
	AuthorName   string            `json:"author_name"`
	AuthorTitle  string            `json:"author_title"`
	PhotoURL     string            `json:"photo_url"`
	Translations i18n.Translations `json:"translations"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetPublic returns the message resolved into lang.
func (service *Service) GetPublic(ctx context.Context, lang i18n.Lang) (View, error) {
	m, err := service.repo.Get(ctx)
	if err != nil {
		return View{}, err
	}
	return m.Localize(lang), nil
}

func (service *Service) Get(ctx context.Context) (*Message, error) {
	return service.repo.Get(ctx)
}

/*
Save creates or replaces the leadership message.

Returns:
  - *Message: the stored message
  - error: VALIDATION_ERROR when the English message or author is blank
*/
func (service *Service) Save(ctx context.Context, input Input) (*Message, error) {
	legacy := i18n.Fields{
		FieldMessage:     input.Message,
		FieldAuthorName:  input.AuthorName,
		FieldAuthorTitle: input.AuthorTitle,
	}

	validator := &validate.Validator{}
	translations, base, err := i18n.Prepare(input.Translations, legacy, RequiredFields, TranslatedFields...)
	if err != nil {
		validator.Append(apperr.As(err).Details...)
	}
	validator.AssetURL("photo_url", input.PhotoURL)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	m := &Message{
		ID:           MessageID,
		Message:      base[FieldMessage],
		AuthorName:   base[FieldAuthorName],
		AuthorTitle:  base[FieldAuthorTitle],
		PhotoURL:     input.PhotoURL,
		Translations: translations,
	}
	if err := service.repo.Upsert(ctx, m); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "leadership_message_saved")
	return m, nil
}
