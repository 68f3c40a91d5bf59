// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/ctxutil"
)

// # Content Language

// Language negotiates the content language for public reads.
//
// # Resolution Order
//  1. `?lang=` query parameter, when it names a translatable language.
//  2. The language cookie set by the site's language switcher.
//  3. The Accept-Language header, matched against the translatable languages.
//  4. [i18n.Default].
//
// The result is stored in the context ([ctxutil.GetLang]) and echoed in the
// Content-Language response header.
func Language() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			lang := negotiateLanguage(request)

			writer.Header().Set(constants.HeaderContentLang, string(lang))
			writer.Header().Add("Vary", constants.HeaderAcceptLanguage)

			ctx := ctxutil.WithLang(request.Context(), lang)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func negotiateLanguage(request *http.Request) i18n.Lang {
	if raw := request.URL.Query().Get(constants.LanguageQueryParam); raw != "" {
		if lang, ok := i18n.ParseLang(raw); ok && i18n.IsSupported(lang) {
			return lang
		}
	}

	if cookie, err := request.Cookie(constants.LanguageCookieName); err == nil {
		if lang, ok := i18n.ParseLang(cookie.Value); ok && i18n.IsSupported(lang) {
			return lang
		}
	}

	return i18n.Match(request.Header.Get(constants.HeaderAcceptLanguage))
}
