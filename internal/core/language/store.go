// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	"context"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

// Repository defines the data access contract.
type Repository interface {
	ListLanguages(ctx context.Context) ([]*Language, error)
	GetLanguageByCode(ctx context.Context, code i18n.Lang) (*Language, error)
}

// RegistryRepository serves the catalogue compiled into [i18n]. The language set
// drives validation everywhere, so it lives in code rather than in a table.
type RegistryRepository struct{}

func NewRegistryRepository() *RegistryRepository {
	return &RegistryRepository{}
}

func (repository *RegistryRepository) ListLanguages(_ context.Context) ([]*Language, error) {
	entries := i18n.Languages()
	out := make([]*Language, 0, len(entries))
	for _, entry := range entries {
		out = append(out, fromRegistry(entry))
	}
	return out, nil
}

func (repository *RegistryRepository) GetLanguageByCode(_ context.Context, code i18n.Lang) (*Language, error) {
	entry, ok := i18n.Lookup(code)
	if !ok {
		return nil, apperr.NotFound("Language")
	}
	return fromRegistry(entry), nil
}
