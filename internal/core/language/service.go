// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/pkg/slice"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListLanguages returns the catalogue in registry order, English first.
func (service *Service) ListLanguages(ctx context.Context, filter Filter) ([]*Language, error) {
	langs, err := service.repo.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Translatable == nil {
		return langs, nil
	}

	return slice.Filter(langs, func(lang *Language) bool {
		return lang.Translatable == *filter.Translatable
	}), nil
}

func (service *Service) GetLanguage(ctx context.Context, code string) (*Language, error) {
	lang, _ := i18n.ParseLang(code)
	return service.repo.GetLanguageByCode(ctx, lang)
}
