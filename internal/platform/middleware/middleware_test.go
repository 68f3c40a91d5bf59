// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/ctxutil"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	"github.com/taibuivan/pipemill/internal/platform/sec"
)

/*
TestLanguage_Negotiation covers query, cookie, header and default resolution.
*/
func TestLanguage_Negotiation(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		cookie string
		header string
		want   i18n.Lang
	}{
		{"default", "/", "", "", i18n.EN},
		{"query_wins", "/?lang=mk", "de", "de", i18n.MK},
		{"query_display_only_ignored", "/?lang=fr", "", "de", i18n.DE},
		{"cookie_before_header", "/", "de", "mk", i18n.DE},
		{"bad_cookie_falls_to_header", "/", "xx", "mk-MK", i18n.MK},
		{"header_unmatched", "/", "", "ja", i18n.EN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got i18n.Lang
			handler := middleware.Language()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ctxutil.GetLang(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.LanguageCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, string(tt.want), rec.Header().Get("Content-Language"))
		})
	}
}

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (v stubVerifier) VerifyToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

/*
TestAuthenticate_RequireRole checks anonymous, malformed, editor and admin access.
*/
func TestAuthenticate_RequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name     string
		header   string
		role     string
		required sec.UserRole
		status   int
	}{
		{"anonymous", "", "editor", sec.RoleEditor, http.StatusUnauthorized},
		{"malformed", "Token good", "editor", sec.RoleEditor, http.StatusUnauthorized},
		{"invalid", "Bearer bad", "editor", sec.RoleEditor, http.StatusUnauthorized},
		{"editor_ok", "Bearer good", "editor", sec.RoleEditor, http.StatusOK},
		{"editor_forbidden", "Bearer good", "editor", sec.RoleAdmin, http.StatusForbidden},
		{"admin_over_editor", "Bearer good", "admin", sec.RoleEditor, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1", Role: tt.role, SessionID: "s1"}}
			handler := middleware.Authenticate(verifier)(middleware.RequireRole(tt.required)(ok))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

/*
TestAuthenticate_Cookie accepts the session cookie when no header is sent.
*/
func TestAuthenticate_Cookie(t *testing.T) {
	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1", Role: "editor", SessionID: "s1"}}
	handler := middleware.Authenticate(verifier)(middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "good"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type corsConfig struct{ dev bool }

func (c corsConfig) IsDevelopment() bool { return c.dev }

/*
TestCORS_Origins checks suffix, explicit and rejected origins in production.
*/
func TestCORS_Origins(t *testing.T) {
	handler := middleware.CORS(corsConfig{}, "pipemill.mk", "https://preview.example.com, ")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://admin.pipemill.mk", true},
		{"https://preview.example.com", true},
		{"https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRateLimit_RejectsWithAppError exhausts one client's burst and checks the 429
uses the standard error envelope.
*/
func TestRateLimit_RejectsWithAppError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var limited *httptest.ResponseRecorder
	for i := 0; i < 10*constants.DefaultRateLimitBurst && limited == nil; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderXRealIP, "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = rec
		}
	}

	if assert.NotNil(t, limited, "burst never exhausted") {
		assert.Contains(t, limited.Body.String(), `"RATE_LIMITED"`)
		assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	}
}
