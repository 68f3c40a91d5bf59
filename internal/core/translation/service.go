// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pipemill/internal/core/brochure"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/llm"
	"github.com/taibuivan/pipemill/internal/platform/pdf"
	"github.com/taibuivan/pipemill/internal/platform/storage"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

const (
	fieldBrochureID     = "brochure_id"
	fieldTargetLanguage = "target_language"

	// WarningMetadataKept is attached to a job whose metadata could not be translated.
	WarningMetadataKept = "The name, description and category could not be translated; the originals were kept"
)

// # Collaborators

// Brochures reads source rows and stores accepted drafts.
type Brochures interface {
	Get(ctx context.Context, id string) (*brochure.Brochure, error)
	CreateDraft(ctx context.Context, draft *brochure.Brochure, sourceID string) (*brochure.Brochure, error)
}

// Files opens stored PDFs. See [storage.Local.Open].
type Files interface {
	Open(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// Extractor turns PDF bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Model translates document text and brochure metadata.
type Model interface {
	TranslateText(ctx context.Context, text string, source, target i18n.Lang) (string, error)
	TranslateMetadata(ctx context.Context, metadata llm.Metadata, source, target i18n.Lang) (llm.Metadata, error)
}

// Settings tunes a [Service].
type Settings struct {
	// ModelTimeout bounds each language model call.
	ModelTimeout time.Duration

	// JobTTL is how long a finished job waits for the editor's decision.
	JobTTL time.Duration
}

// StartInput selects the brochure to translate and the target language.
type StartInput struct {
	BrochureID     string    `json:"brochure_id"`
	TargetLanguage i18n.Lang `json:"target_language"`
}

// # Service

// Service runs translation jobs.
type Service struct {
	brochures Brochures
	files     Files
	extractor Extractor
	model     Model
	jobs      JobStore
	settings  Settings
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a translation [Service].
func NewService(brochures Brochures, files Files, extractor Extractor, model Model, jobs JobStore, settings Settings, logger *slog.Logger) *Service {
	return &Service{
		brochures: brochures,
		files:     files,
		extractor: extractor,
		model:     model,
		jobs:      jobs,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

/*
Start translates a brochure's PDF and returns a job ready for review.

Preconditions are checked before any work: a supported target language that
differs from the source row's, a PDF on the row, and the PDF hosted locally.
Extraction and the text translation are terminal on failure, and a failed job
is not kept. The metadata translation may fail without failing the job: the
original values are kept and a warning is attached.

Returns:
  - *Job: in REVIEW_READY, stored until the editor creates or cancels it
  - error: VALIDATION_ERROR, NOT_FOUND, a 422 precondition code, or BAD_GATEWAY
*/
func (service *Service) Start(ctx context.Context, input StartInput) (*Job, error) {
	validator := &validate.Validator{}
	validator.Required(fieldBrochureID, input.BrochureID).
		Required(fieldTargetLanguage, string(input.TargetLanguage))
	if input.TargetLanguage != "" && !i18n.IsSupported(input.TargetLanguage) {
		validator.Append(apperr.FieldError{Field: fieldTargetLanguage, Message: "Translation is not available for this language"})
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	source, err := service.brochures.Get(ctx, input.BrochureID)
	if err != nil {
		return nil, err
	}
	if source.Language == input.TargetLanguage {
		return nil, validate.RequiredError(fieldTargetLanguage, "Must differ from the brochure's language")
	}
	if strings.TrimSpace(source.PDFURL) == "" {
		return nil, apperr.Precondition("NO_PDF", "The brochure has no PDF to translate")
	}

	now := service.now()
	job := &Job{
		ID:             uuid.New(),
		BrochureID:     source.ID,
		SourceLanguage: source.Language,
		TargetLanguage: input.TargetLanguage,
		State:          StateSelectTarget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	logger := service.logger.With(slog.String("job_id", job.ID), slog.String("brochure_id", source.ID))

	// ## Extracting
	if err := job.advance(StateExtracting, service.now()); err != nil {
		return nil, apperr.Internal(err)
	}
	text, err := service.extract(ctx, source.PDFURL)
	if err != nil {
		return nil, service.fail(ctx, logger, job, err)
	}

	// ## Translating
	if err := job.advance(StateTranslating, service.now()); err != nil {
		return nil, apperr.Internal(err)
	}
	translated, err := service.translateText(ctx, text, job.SourceLanguage, job.TargetLanguage)
	if err != nil {
		return nil, service.fail(ctx, logger, job, apperr.BadGateway("Translation failed", err))
	}

	original := llm.Metadata{Name: source.Name, Description: source.Description, Category: source.Category}
	metadata, err := service.translateMetadata(ctx, original, job.SourceLanguage, job.TargetLanguage)
	if err != nil {
		logger.WarnContext(ctx, "translation_metadata_degraded", slog.String("error", err.Error()))
		metadata = original
		job.Warnings = append(job.Warnings, WarningMetadataKept)
	}

	// ## Review Ready
	if err := job.advance(StateReviewReady, service.now()); err != nil {
		return nil, apperr.Internal(err)
	}

	wordCount := len(strings.Fields(text))
	job.Result = &Result{
		SourceLanguage: job.SourceLanguage,
		TargetLanguage: job.TargetLanguage,
		OriginalText:   text,
		TranslatedText: translated,
		WordCount:      wordCount,
	}
	job.Suggested = &Draft{
		Language:    job.TargetLanguage,
		Name:        metadata.Name,
		Description: metadata.Description,
		Category:    metadata.Category,
		ImageURL:    source.ImageURL,
		Status:      brochure.StatusDraft,
		Active:      false,
		SortOrder:   source.SortOrder,
		TranslationMetadata: &brochure.Metadata{
			SourceLanguage:     job.SourceLanguage,
			OriginalBrochureID: source.ID,
			WordCount:          wordCount,
			TranslatedAt:       job.UpdatedAt,
		},
	}

	if err := service.jobs.Save(ctx, job, service.settings.JobTTL); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "translation_job_ready",
		slog.String("target_language", string(job.TargetLanguage)),
		slog.Int("word_count", wordCount),
		slog.Int("warnings", len(job.Warnings)),
	)
	return job, nil
}

// Get returns a job awaiting review.
func (service *Service) Get(ctx context.Context, id string) (*Job, error) {
	return service.jobs.Get(ctx, id)
}

// Cancel discards a job. Nothing else is touched.
func (service *Service) Cancel(ctx context.Context, id string) error {
	job, err := service.jobs.Take(ctx, id)
	if err != nil {
		return err
	}
	if err := job.advance(StateCancelled, service.now()); err != nil {
		return apperr.Conflict("The translation job can no longer be cancelled")
	}

	service.logger.InfoContext(ctx, "translation_job_cancelled", slog.String("job_id", id))
	return nil
}

/*
Create stores the reviewed draft of a job as a new brochure row.

The editor may have changed the suggested text; a nil draft stores the
suggestion as is. The language and translation metadata always come from the
job. The row joins the source brochure's translation group, or stands alone
when the source no longer exists. The job is taken out of the store before the
row is written, so one job yields at most one row; a concurrent or repeated call
finds no job. If the row cannot be stored the job is put back for another try.

Returns:
  - *brochure.Brochure: the stored row
  - error: NOT_FOUND for an unknown, expired or already used job, or the brochure save failure
*/
func (service *Service) Create(ctx context.Context, id string, draft *Draft) (*brochure.Brochure, error) {
	job, err := service.jobs.Take(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Suggested == nil {
		return nil, apperr.Internal(fmt.Errorf("translation: job %s has no suggestion", id))
	}
	pending := *job
	if err := job.advance(StateCreated, service.now()); err != nil {
		return nil, apperr.Conflict("The translation job has already been used")
	}

	chosen := *job.Suggested
	if draft != nil {
		chosen = *draft
		chosen.Language = job.TargetLanguage
		chosen.TranslationMetadata = job.Suggested.TranslationMetadata
		if chosen.Status == "" {
			chosen.Status = brochure.StatusDraft
		}
	}

	row, err := service.brochures.CreateDraft(ctx, chosen.Brochure(), job.BrochureID)
	if err != nil {
		if saveErr := service.jobs.Save(ctx, &pending, service.settings.JobTTL); saveErr != nil {
			service.logger.WarnContext(ctx, "translation_job_restore_failed",
				slog.String("job_id", id),
				slog.String("error", saveErr.Error()),
			)
		}
		return nil, err
	}

	service.logger.InfoContext(ctx, "translation_job_created",
		slog.String("job_id", id),
		slog.String("brochure_id", row.ID),
		slog.String("translation_group", row.TranslationGroup),
	)
	return row, nil
}

// # Pipeline Steps

// extract reads a locally stored PDF and returns its text.
func (service *Service) extract(ctx context.Context, url string) (string, error) {
	file, _, err := service.files.Open(ctx, url)
	switch {
	case errors.Is(err, storage.ErrExternal):
		return "", apperr.Precondition("EXTERNAL_PDF", "Only uploaded PDFs can be translated; externally hosted files are not supported")
	case errors.Is(err, storage.ErrNotFound):
		return "", apperr.Precondition("PDF_NOT_FOUND", "The brochure's PDF file is missing")
	case errors.Is(err, storage.ErrInvalidPath):
		return "", apperr.Precondition("UNSUPPORTED_PDF_URL", "The brochure's PDF link does not point to an uploaded file")
	case err != nil:
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("translation: read pdf: %w", err)
	}

	text, err := service.extractor.Extract(ctx, data)
	switch {
	case errors.Is(err, pdf.ErrNoText):
		return "", apperr.Precondition("NO_TEXT", "The PDF contains no extractable text")
	case err != nil:
		return "", apperr.BadGateway("Translation failed: the PDF could not be read", err)
	}

	if len(text) > constants.MaxTranslationChars {
		return "", apperr.Precondition("PDF_TOO_LONG", fmt.Sprintf("The PDF text exceeds %d characters", constants.MaxTranslationChars))
	}
	return text, nil
}

// translateText calls the model detached from the request's cancellation.
func (service *Service) translateText(ctx context.Context, text string, source, target i18n.Lang) (string, error) {
	callCtx, cancel := service.modelContext(ctx)
	defer cancel()

	translated, err := service.model.TranslateText(callCtx, text, source, target)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", llm.ErrEmptyResponse
	}
	return translated, nil
}

// translateMetadata fails when any translated value is blank while the original was not.
func (service *Service) translateMetadata(ctx context.Context, original llm.Metadata, source, target i18n.Lang) (llm.Metadata, error) {
	callCtx, cancel := service.modelContext(ctx)
	defer cancel()

	metadata, err := service.model.TranslateMetadata(callCtx, original, source, target)
	if err != nil {
		return llm.Metadata{}, err
	}
	if lost(original.Name, metadata.Name) || lost(original.Description, metadata.Description) || lost(original.Category, metadata.Category) {
		return llm.Metadata{}, fmt.Errorf("%w: blank value", llm.ErrMalformedMetadata)
	}
	return metadata, nil
}

func (service *Service) modelContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if service.settings.ModelTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, service.settings.ModelTimeout)
}

// fail marks the job failed, logs the cause and returns err unchanged.
func (service *Service) fail(ctx context.Context, logger *slog.Logger, job *Job, err error) error {
	from := job.State
	_ = job.advance(StateFailed, service.now())

	logger.ErrorContext(ctx, "translation_job_failed",
		slog.String("state", string(from)),
		slog.String("error", errorCause(err)),
	)
	return err
}

func errorCause(err error) string {
	if appErr := apperr.As(err); appErr != nil && appErr.Cause != nil {
		return appErr.Message + ": " + appErr.Cause.Error()
	}
	return err.Error()
}

func lost(original, translated string) bool {
	return strings.TrimSpace(original) != "" && strings.TrimSpace(translated) == ""
}
