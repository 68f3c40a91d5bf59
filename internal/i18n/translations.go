// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
)

// Fields maps a field name to its value in one language.
type Fields map[string]string

// Translations maps a language code to that language's field values.
//
// A present key does not imply a non-empty value.
type Translations map[Lang]Fields

// Status classifies one (language, field) cell for editor feedback.
type Status string

const (
	// StatusComplete means a non-blank value is present.
	StatusComplete Status = "complete"

	// StatusMissing means the default language has no value. Blocks save.
	StatusMissing Status = "missing"

	// StatusEmpty means a non-default language has no value. Reads fall back.
	StatusEmpty Status = "empty"
)

// # Field Model

// SetField returns a copy of t with t[lang][field] = value.
//
// t itself is never modified; every other (language, field) pair in the result
// holds exactly the value it held in t.
func SetField(t Translations, lang Lang, field, value string) Translations {
	out := t.Clone()
	if out == nil {
		out = Translations{}
	}

	fields, ok := out[lang]
	if !ok || fields == nil {
		fields = Fields{}
		out[lang] = fields
	}
	fields[field] = value

	return out
}

// GetField returns t[lang][field] when it is present and not blank, otherwise "".
// The value is returned verbatim.
func GetField(t Translations, lang Lang, field string) string {
	value, ok := t[lang][field]
	if !ok || isBlank(value) {
		return ""
	}
	return value
}

// StatusOf reports the completeness of t[lang][field].
func StatusOf(t Translations, lang Lang, field string) Status {
	if GetField(t, lang, field) != "" {
		return StatusComplete
	}
	if lang == Default {
		return StatusMissing
	}
	return StatusEmpty
}

// Clone returns a deep copy of t. A nil map clones to nil.
func (t Translations) Clone() Translations {
	if t == nil {
		return nil
	}
	out := make(Translations, len(t))
	for lang, fields := range t {
		if fields == nil {
			out[lang] = nil
			continue
		}
		copied := make(Fields, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out[lang] = copied
	}
	return out
}

// OrEmpty returns t, or an empty map when t is nil, so the stored JSON is {} not null.
func (t Translations) OrEmpty() Translations {
	if t == nil {
		return Translations{}
	}
	return t
}

// Languages returns the languages present in t, sorted.
func (t Translations) Languages() []Lang {
	out := make([]Lang, 0, len(t))
	for lang := range t {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// # Default-language Mirror

// Base derives the bare field values from the default language. Entities assign
// the result to their bare columns on every save, so the two cannot diverge.
func Base(t Translations, fields ...string) Fields {
	out := make(Fields, len(fields))
	for _, f := range fields {
		out[f] = t[Default][f]
	}
	return out
}

// Normalize seeds blank default-language values from legacy bare values.
//
// Records created before translations existed carry only bare columns; this lets
// them pass the default-language check without an editor retyping the text.
func Normalize(t Translations, base Fields, fields ...string) Translations {
	out := t.Clone()
	for _, f := range fields {
		if GetField(out, Default, f) == "" && !isBlank(base[f]) {
			out = SetField(out, Default, f, base[f])
		}
	}
	return out
}

/*
Prepare runs the save pipeline of a record with embedded translations.

Legacy bare values seed blank default-language entries, the map shape is
validated against fields, and every required field must be present in the
default language. The returned bare values are derived from the default
language, so callers assign them instead of storing what the client sent.

Returns:
  - Translations: the normalized map to store
  - Fields: the bare values derived from it
  - error: one VALIDATION_ERROR carrying every shape and completeness failure
*/
func Prepare(t Translations, base Fields, required []string, fields ...string) (Translations, Fields, error) {
	t = Normalize(t, base, fields...).OrEmpty()

	var details []apperr.FieldError
	if err := Validate(t, fields...); err != nil {
		if appErr := apperr.As(err); appErr != nil {
			details = append(details, appErr.Details...)
		}
	}
	details = append(details, Missing(t, required...)...)

	if len(details) > 0 {
		return nil, nil, apperr.ValidationError("Validation failed", details...)
	}
	return t, Base(t, fields...), nil
}

// # Completeness

// Missing returns one field error per required field whose default-language value
// is blank. Non-default languages never produce an error.
func Missing(t Translations, required ...string) []apperr.FieldError {
	var details []apperr.FieldError
	for _, f := range required {
		if StatusOf(t, Default, f) == StatusMissing {
			details = append(details, apperr.FieldError{
				Field:   FieldPath(Default, f),
				Message: "Required in the default language",
			})
		}
	}
	return details
}

// Check returns a VALIDATION_ERROR when any required default-language value is blank.
func Check(t Translations, required ...string) error {
	if details := Missing(t, required...); len(details) > 0 {
		return apperr.ValidationError("Validation failed", details...)
	}
	return nil
}

// Report returns the status of every (language, field) pair for the supported
// languages, as shown by the admin language tabs.
func Report(t Translations, fields ...string) map[Lang]map[string]Status {
	out := make(map[Lang]map[string]Status)
	for _, lang := range Supported() {
		row := make(map[string]Status, len(fields))
		for _, f := range fields {
			row[f] = StatusOf(t, lang, f)
		}
		out[lang] = row
	}
	return out
}

// FieldPath is the validation detail key for a translated field.
func FieldPath(lang Lang, field string) string {
	return fmt.Sprintf("translations.%s.%s", lang, field)
}

// # Storage Boundary

const (
	maxFieldNameLen = 64
	maxValueLen     = 20000
)

var shape = newShapeValidator()

func newShapeValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("translatable", func(fl validator.FieldLevel) bool {
		return IsSupported(Lang(fl.Field().String()))
	})
	return v
}

// Validate enforces the stored shape of t: only translatable language codes,
// non-empty field names from allowed (when given), bounded value sizes.
func Validate(t Translations, allowed ...string) error {
	var details []apperr.FieldError

	for _, lang := range t.Languages() {
		if err := shape.Var(string(lang), "required,translatable"); err != nil {
			details = append(details, apperr.FieldError{
				Field:   "translations." + string(lang),
				Message: "Unsupported language code",
			})
			continue
		}

		rule := fmt.Sprintf("dive,keys,required,max=%d,endkeys,max=%d", maxFieldNameLen, maxValueLen)
		if err := shape.Var(map[string]string(t[lang]), rule); err != nil {
			details = append(details, fieldErrors(lang, err)...)
		}

		if len(allowed) > 0 {
			for name := range t[lang] {
				if !contains(allowed, name) {
					details = append(details, apperr.FieldError{
						Field:   FieldPath(lang, name),
						Message: "Unknown field",
					})
				}
			}
		}
	}

	if len(details) > 0 {
		sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
		return apperr.ValidationError("Invalid translations", details...)
	}
	return nil
}

// fieldErrors converts validator failures for one language into field errors.
func fieldErrors(lang Lang, err error) []apperr.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperr.FieldError{{Field: "translations." + string(lang), Message: err.Error()}}
	}

	out := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		message := "Invalid value"
		switch fe.Tag() {
		case "required":
			message = "Field name must not be empty"
		case "max":
			message = "Value is too long"
		}
		out = append(out, apperr.FieldError{
			Field:   "translations." + string(lang) + fieldSuffix(fe.Field()),
			Message: message,
		})
	}
	return out
}

// fieldSuffix turns the validator's "[title]" map index into ".title".
func fieldSuffix(name string) string {
	start := strings.LastIndex(name, "[")
	if start < 0 || !strings.HasSuffix(name, "]") {
		return ""
	}
	return "." + name[start+1:len(name)-1]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// # Database Codec

// Value encodes t as JSON for a JSONB column. A nil map is stored as {}.
func (t Translations) Value() (driver.Value, error) {
	return json.Marshal(t.OrEmpty())
}

// Scan decodes a JSONB column into t. NULL yields an empty map.
func (t *Translations) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Translations{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("i18n: cannot scan %T into Translations", src)
	}

	out := Translations{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("i18n: decode translations: %w", err)
	}
	*t = out
	return nil
}
