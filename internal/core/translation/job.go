// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package translation drafts a brochure in a new language from its PDF.

An editor picks a target language for an existing brochure. The PDF is read
from local storage, its text extracted and sent to a language model together
with the brochure's name, description and category. The outcome is a job
holding the translated text and a suggested draft row; nothing reaches the
brochure table until the editor explicitly creates the draft.

# Job Lifecycle

	SELECT_TARGET → EXTRACTING → TRANSLATING → REVIEW_READY → CREATED
	                                                        → CANCELLED

Any working state may end in FAILED. Failed and finished jobs are not kept.
*/
package translation

import (
	"fmt"
	"time"

	"github.com/taibuivan/pipemill/internal/core/brochure"
	"github.com/taibuivan/pipemill/internal/i18n"
)

// State is the position of a job in its lifecycle.
type State string

const (
	StateSelectTarget State = "SELECT_TARGET"
	StateExtracting   State = "EXTRACTING"
	StateTranslating  State = "TRANSLATING"
	StateReviewReady  State = "REVIEW_READY"
	StateCreated      State = "CREATED"
	StateCancelled    State = "CANCELLED"
	StateFailed       State = "FAILED"
)

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateSelectTarget: {StateExtracting, StateFailed},
	StateExtracting:   {StateTranslating, StateFailed},
	StateTranslating:  {StateReviewReady, StateFailed},
	StateReviewReady:  {StateCreated, StateCancelled},
}

// CanTransition reports whether a job in s may move to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Result is the text produced by a job.
type Result struct {
	SourceLanguage i18n.Lang `json:"source_language"`
	TargetLanguage i18n.Lang `json:"target_language"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	WordCount      int       `json:"word_count"`
}

// Draft is the editable brochure row suggested by a job.
type Draft struct {
	Language            i18n.Lang          `json:"language"`
	Name                string             `json:"name"`
	Description         string             `json:"description"`
	Category            string             `json:"category"`
	PDFURL              string             `json:"pdf_url"`
	ImageURL            string             `json:"image_url"`
	Status              brochure.Status    `json:"status"`
	Active              bool               `json:"active"`
	SortOrder           int                `json:"sort_order"`
	TranslationMetadata *brochure.Metadata `json:"translation_metadata,omitempty"`
}

// Brochure converts the draft into an unsaved row.
func (d Draft) Brochure() *brochure.Brochure {
	return &brochure.Brochure{
		Language:            d.Language,
		Name:                d.Name,
		Description:         d.Description,
		Category:            d.Category,
		PDFURL:              d.PDFURL,
		ImageURL:            d.ImageURL,
		Status:              d.Status,
		Active:              d.Active,
		SortOrder:           d.SortOrder,
		TranslationMetadata: d.TranslationMetadata,
	}
}

// Job is one translation run awaiting the editor's decision.
type Job struct {
	ID             string    `json:"id"`
	BrochureID     string    `json:"brochure_id"`
	SourceLanguage i18n.Lang `json:"source_language"`
	TargetLanguage i18n.Lang `json:"target_language"`
	State          State     `json:"state"`
	Result         *Result   `json:"result,omitempty"`
	Suggested      *Draft    `json:"suggested,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// advance moves the job to next, refusing transitions the lifecycle does not allow.
func (job *Job) advance(next State, now time.Time) error {
	if !job.State.CanTransition(next) {
		return fmt.Errorf("translation: invalid transition %s -> %s", job.State, next)
	}
	job.State = next
	job.UpdatedAt = now
	return nil
}
