// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/core/document"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

type fakeRepo struct {
	rows []*document.Document
}

func (r *fakeRepo) List(_ context.Context, filter document.Filter) ([]*document.Document, error) {
	var out []*document.Document
	for _, d := range r.rows {
		if filter.ActiveOnly && !d.Active {
			continue
		}
		if filter.Language != "" && d.Language != filter.Language {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*document.Document, error) {
	for _, d := range r.rows {
		if d.ID == id {
			c := *d
			return &c, nil
		}
	}
	return nil, apperr.NotFound("Document")
}

func (r *fakeRepo) Create(_ context.Context, d *document.Document) error {
	c := *d
	r.rows = append(r.rows, &c)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, d *document.Document) error {
	for i, existing := range r.rows {
		if existing.ID == d.ID {
			c := *d
			r.rows[i] = &c
			return nil
		}
	}
	return apperr.NotFound("Document")
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	return nil
}

/*
TestCreate_LanguageTags accepts display-only languages and rejects unknown codes.
*/
func TestCreate_LanguageTags(t *testing.T) {
	tests := []struct {
		name     string
		language i18n.Lang
		want     i18n.Lang
		wantErr  bool
	}{
		{"default", "", i18n.EN, false},
		{"translatable", "mk", i18n.MK, false},
		{"display only", "HR", i18n.HR, false},
		{"albanian", "al", i18n.AL, false},
		{"unknown", "ja", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := document.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil)))

			d, err := service.Create(context.Background(), document.Input{
				Title:    "ISO 9001 certificate",
				Language: tt.language,
				FileURL:  "/uploads/iso-9001.pdf",
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "language", apperr.As(err).Details[0].Field)
				assert.Empty(t, repo.rows)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Language)
		})
	}
}

/*
TestListPublic_HidesInactive filters by the document's own language.
*/
func TestListPublic_HidesInactive(t *testing.T) {
	repo := &fakeRepo{rows: []*document.Document{
		{ID: "1", Title: "Declaration", Language: i18n.SR, Active: true},
		{ID: "2", Title: "Old declaration", Language: i18n.SR, Active: false},
		{ID: "3", Title: "Certificate", Language: i18n.EN, Active: true},
	}}
	service := document.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	documents, err := service.ListPublic(context.Background(), document.Filter{Language: i18n.SR})
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "1", documents[0].ID)
}
