// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/core/brochure"
	"github.com/taibuivan/pipemill/internal/core/translation"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/llm"
	"github.com/taibuivan/pipemill/internal/platform/pdf"
	"github.com/taibuivan/pipemill/internal/platform/storage"
)

// # Fakes

type fakeFiles struct {
	files map[string]string
}

func (f *fakeFiles) Open(_ context.Context, url string) (io.ReadCloser, int64, error) {
	if strings.HasPrefix(url, "https://") {
		return nil, 0, storage.ErrExternal
	}
	content, ok := f.files[url]
	if !ok {
		return nil, 0, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
}

// fakeExtractor returns the file content as its text.
type fakeExtractor struct {
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, data []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return string(data), nil
}

type fakeModel struct {
	textErr     error
	metadata    llm.Metadata
	metadataErr error
	textCalls   int
	metaCalls   int
	cancelled   bool
}

func (f *fakeModel) TranslateText(ctx context.Context, text string, _, target i18n.Lang) (string, error) {
	f.textCalls++
	f.cancelled = ctx.Err() != nil
	if f.textErr != nil {
		return "", f.textErr
	}
	return "[" + string(target) + "] " + text, nil
}

func (f *fakeModel) TranslateMetadata(_ context.Context, _ llm.Metadata, _, _ i18n.Lang) (llm.Metadata, error) {
	f.metaCalls++
	if f.metadataErr != nil {
		return llm.Metadata{}, f.metadataErr
	}
	return f.metadata, nil
}

type fixture struct {
	service   *translation.Service
	repo      *brochure.MemoryRepository
	extractor *fakeExtractor
	model     *fakeModel
}

func newFixture(rows ...*brochure.Brochure) *fixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repo := brochure.NewMemoryRepository(rows...)
	files := &fakeFiles{files: map[string]string{"/uploads/pipes.pdf": "PE pipes  for water\nsupply"}}
	extractor := &fakeExtractor{}
	model := &fakeModel{metadata: llm.Metadata{Name: "Водни цевки", Description: "ПЕ цевки", Category: "Водоснабдување"}}

	service := translation.NewService(
		brochure.NewService(repo, logger), files, extractor, model,
		translation.NewMemoryJobStore(),
		translation.Settings{ModelTimeout: time.Minute, JobTTL: time.Hour},
		logger,
	)
	return &fixture{service: service, repo: repo, extractor: extractor, model: model}
}

func source() *brochure.Brochure {
	return &brochure.Brochure{
		ID:          "b-en",
		Language:    i18n.EN,
		Name:        "Water Pipes",
		Description: "PE pipes",
		Category:    "Water-supply systems",
		PDFURL:      "/uploads/pipes.pdf",
		ImageURL:    "/uploads/pipes.png",
		Status:      brochure.StatusActive,
		Active:      true,
		SortOrder:   3,
	}
}

func start(t *testing.T, f *fixture) *translation.Job {
	t.Helper()
	job, err := f.service.Start(context.Background(), translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.MK})
	require.NoError(t, err)
	return job
}

// # State Machine

/*
TestState_CanTransition walks the lifecycle and rejects shortcuts.
*/
func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to translation.State
		allowed  bool
	}{
		{translation.StateSelectTarget, translation.StateExtracting, true},
		{translation.StateExtracting, translation.StateTranslating, true},
		{translation.StateTranslating, translation.StateReviewReady, true},
		{translation.StateReviewReady, translation.StateCreated, true},
		{translation.StateReviewReady, translation.StateCancelled, true},
		{translation.StateExtracting, translation.StateFailed, true},
		{translation.StateSelectTarget, translation.StateReviewReady, false},
		{translation.StateReviewReady, translation.StateFailed, false},
		{translation.StateCreated, translation.StateCancelled, false},
		{translation.StateCancelled, translation.StateCreated, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}

	assert.True(t, translation.StateCreated.Terminal())
	assert.True(t, translation.StateFailed.Terminal())
	assert.False(t, translation.StateReviewReady.Terminal())
}

// # Start

/*
TestStart_ReviewReady checks the result, the suggested draft and that nothing
was written to the brochure table.
*/
func TestStart_ReviewReady(t *testing.T) {
	f := newFixture(source())

	job := start(t, f)

	assert.Equal(t, translation.StateReviewReady, job.State)
	assert.Empty(t, job.Warnings)
	require.NotNil(t, job.Result)
	assert.Equal(t, i18n.EN, job.Result.SourceLanguage)
	assert.Equal(t, i18n.MK, job.Result.TargetLanguage)
	assert.Equal(t, "[mk] PE pipes  for water\nsupply", job.Result.TranslatedText)
	assert.Equal(t, 5, job.Result.WordCount)

	draft := job.Suggested
	require.NotNil(t, draft)
	assert.Equal(t, i18n.MK, draft.Language)
	assert.Equal(t, "Водни цевки", draft.Name)
	assert.Equal(t, brochure.StatusDraft, draft.Status)
	assert.False(t, draft.Active)
	assert.Equal(t, "/uploads/pipes.png", draft.ImageURL)
	assert.Empty(t, draft.PDFURL)
	require.NotNil(t, draft.TranslationMetadata)
	assert.Equal(t, "b-en", draft.TranslationMetadata.OriginalBrochureID)
	assert.Equal(t, 5, draft.TranslationMetadata.WordCount)

	rows, err := f.repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1, "a job never writes brochures")
}

/*
TestStart_WordCount splits the original text on any run of whitespace.
*/
func TestStart_WordCount(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := translation.NewService(
		brochure.NewService(brochure.NewMemoryRepository(source()), logger),
		&fakeFiles{files: map[string]string{"/uploads/pipes.pdf": "a b  c"}},
		&fakeExtractor{}, &fakeModel{metadata: llm.Metadata{Name: "a", Description: "b", Category: "c"}},
		translation.NewMemoryJobStore(), translation.Settings{}, logger,
	)

	job, err := service.Start(context.Background(), translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.DE})
	require.NoError(t, err)
	assert.Equal(t, 3, job.Result.WordCount)
}

/*
TestStart_MetadataDegrades keeps the original metadata when the model's answer
is malformed, while the body translation still succeeds.
*/
func TestStart_MetadataDegrades(t *testing.T) {
	tests := []struct {
		name string
		meta llm.Metadata
		err  error
	}{
		{"malformed_json", llm.Metadata{}, llm.ErrMalformedMetadata},
		{"call_failed", llm.Metadata{}, errors.New("llm: 500 Internal Server Error")},
		{"blank_name", llm.Metadata{Name: " ", Description: "x", Category: "y"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(source())
			f.model.metadata = tt.meta
			f.model.metadataErr = tt.err

			job := start(t, f)

			assert.Equal(t, translation.StateReviewReady, job.State)
			assert.Equal(t, []string{translation.WarningMetadataKept}, job.Warnings)
			assert.Equal(t, "Water Pipes", job.Suggested.Name)
			assert.Equal(t, "PE pipes", job.Suggested.Description)
			assert.Equal(t, "Water-supply systems", job.Suggested.Category)
			assert.Equal(t, "[mk] PE pipes  for water\nsupply", job.Result.TranslatedText)
		})
	}
}

/*
TestStart_Preconditions rejects requests before any extraction or model call.
*/
func TestStart_Preconditions(t *testing.T) {
	noPDF := source()
	noPDF.ID, noPDF.PDFURL = "b-nopdf", ""
	external := source()
	external.ID, external.PDFURL = "b-ext", "https://cdn.example.com/pipes.pdf"
	missing := source()
	missing.ID, missing.PDFURL = "b-missing", "/uploads/gone.pdf"

	tests := []struct {
		name  string
		input translation.StartInput
		code  string
	}{
		{"no_target", translation.StartInput{BrochureID: "b-en"}, "VALIDATION_ERROR"},
		{"display_only_target", translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.FR}, "VALIDATION_ERROR"},
		{"same_language", translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.EN}, "VALIDATION_ERROR"},
		{"unknown_brochure", translation.StartInput{BrochureID: "nope", TargetLanguage: i18n.MK}, "NOT_FOUND"},
		{"no_pdf", translation.StartInput{BrochureID: "b-nopdf", TargetLanguage: i18n.MK}, "NO_PDF"},
		{"external_pdf", translation.StartInput{BrochureID: "b-ext", TargetLanguage: i18n.MK}, "EXTERNAL_PDF"},
		{"missing_file", translation.StartInput{BrochureID: "b-missing", TargetLanguage: i18n.MK}, "PDF_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(source(), noPDF, external, missing)

			job, err := f.service.Start(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, job)
			assert.Equal(t, tt.code, apperr.As(err).Code)
			assert.Zero(t, f.extractor.calls)
			assert.Zero(t, f.model.textCalls)
		})
	}
}

/*
TestStart_DependencyFailures are terminal: no job is returned or kept.
*/
func TestStart_DependencyFailures(t *testing.T) {
	t.Run("extraction", func(t *testing.T) {
		f := newFixture(source())
		f.extractor.err = pdf.ErrUnreadable

		_, err := f.service.Start(context.Background(), translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.MK})
		require.Error(t, err)
		assert.Equal(t, "BAD_GATEWAY", apperr.As(err).Code)
		assert.Zero(t, f.model.textCalls)
	})

	t.Run("no_text", func(t *testing.T) {
		f := newFixture(source())
		f.extractor.err = pdf.ErrNoText

		_, err := f.service.Start(context.Background(), translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.MK})
		assert.Equal(t, "NO_TEXT", apperr.As(err).Code)
	})

	t.Run("text_translation", func(t *testing.T) {
		f := newFixture(source())
		f.model.textErr = errors.New("llm: 503 Service Unavailable")

		_, err := f.service.Start(context.Background(), translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.MK})
		require.Error(t, err)
		ae := apperr.As(err)
		assert.Equal(t, "BAD_GATEWAY", ae.Code)
		assert.Equal(t, "Translation failed", ae.Message)
		assert.ErrorContains(t, ae.Cause, "503")
		assert.Zero(t, f.model.metaCalls, "no metadata call after a failed text call")
	})
}

/*
TestStart_ModelCallsIgnoreRequestCancellation verifies model calls run on a
context detached from the request.
*/
func TestStart_ModelCallsIgnoreRequestCancellation(t *testing.T) {
	f := newFixture(source())
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel as soon as extraction is done, before the model is called.
	wrapped := &cancellingExtractor{inner: f.extractor, cancel: cancel}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := translation.NewService(
		brochure.NewService(f.repo, logger),
		&fakeFiles{files: map[string]string{"/uploads/pipes.pdf": "text"}}, wrapped, f.model,
		translation.NewMemoryJobStore(), translation.Settings{ModelTimeout: time.Minute, JobTTL: time.Hour}, logger,
	)

	_, err := service.Start(ctx, translation.StartInput{BrochureID: "b-en", TargetLanguage: i18n.MK})
	require.NoError(t, err)
	assert.Equal(t, 1, f.model.textCalls)
	assert.False(t, f.model.cancelled)
}

type cancellingExtractor struct {
	inner  translation.Extractor
	cancel context.CancelFunc
}

func (c *cancellingExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	text, err := c.inner.Extract(ctx, data)
	c.cancel()
	return text, err
}

// # Review

/*
TestCreate_JoinsSourceGroup stores the edited draft in the source's group and
consumes the job.
*/
func TestCreate_JoinsSourceGroup(t *testing.T) {
	f := newFixture(source())
	ctx := context.Background()
	job := start(t, f)

	edited := *job.Suggested
	edited.Name = "Цевки за вода"
	edited.Language = i18n.DE // ignored: the job decides the language

	row, err := f.service.Create(ctx, job.ID, &edited)
	require.NoError(t, err)
	assert.Equal(t, i18n.MK, row.Language)
	assert.Equal(t, "Цевки за вода", row.Name)
	assert.Equal(t, brochure.StatusDraft, row.Status)
	assert.Equal(t, "Water-supply systems", row.Category, "shared fields come from the English row")
	require.NotNil(t, row.TranslationMetadata)
	assert.Equal(t, "b-en", row.TranslationMetadata.OriginalBrochureID)

	src, err := f.repo.FindByID(ctx, "b-en")
	require.NoError(t, err)
	assert.NotEmpty(t, src.TranslationGroup)
	assert.Equal(t, src.TranslationGroup, row.TranslationGroup)

	_, err = f.service.Get(ctx, job.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = f.service.Create(ctx, job.ID, nil)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code, "one job yields one row")
}

/*
TestCreate_SourceDeleted stores the draft on its own.
*/
func TestCreate_SourceDeleted(t *testing.T) {
	f := newFixture(source())
	ctx := context.Background()
	job := start(t, f)

	require.NoError(t, f.repo.Delete(ctx, "b-en"))

	row, err := f.service.Create(ctx, job.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, row.TranslationGroup)
	assert.Equal(t, "Водни цевки", row.Name)
}

/*
TestCreate_ConcurrentCallsStoreOneRow races two creates on a job whose source is
gone; only one may store a row.
*/
func TestCreate_ConcurrentCallsStoreOneRow(t *testing.T) {
	f := newFixture(source())
	ctx := context.Background()
	job := start(t, f)

	require.NoError(t, f.repo.Delete(ctx, "b-en"))

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(ctx, job.ID, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	}
	assert.Equal(t, 1, succeeded)

	rows, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

/*
TestCreate_FailedSaveKeepsJob puts the job back when the row is rejected, so the
editor can fix the draft and retry.
*/
func TestCreate_FailedSaveKeepsJob(t *testing.T) {
	f := newFixture(source())
	ctx := context.Background()
	job := start(t, f)

	invalid := *job.Suggested
	invalid.Name = ""

	_, err := f.service.Create(ctx, job.ID, &invalid)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	kept, err := f.service.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, translation.StateReviewReady, kept.State)

	row, err := f.service.Create(ctx, job.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, i18n.MK, row.Language)
}

/*
TestCancel discards the job without touching brochures.
*/
func TestCancel(t *testing.T) {
	f := newFixture(source())
	ctx := context.Background()
	job := start(t, f)

	require.NoError(t, f.service.Cancel(ctx, job.ID))

	_, err := f.service.Get(ctx, job.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	rows, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, rows[0].TranslationGroup)
}
