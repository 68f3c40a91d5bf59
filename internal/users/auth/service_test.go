// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/middleware"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

type fakeUsers struct {
	users   []*auth.User
	touched []string
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUsers) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id string, _ time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

func newService(t *testing.T) (*auth.Service, *fakeUsers, *auth.MemorySessionStore) {
	t.Helper()

	hash, err := sec.HashPassword("correct-horse")
	require.NoError(t, err)

	users := &fakeUsers{users: []*auth.User{
		{ID: "u1", Username: "ana", Email: "ana@pipemill.mk", PasswordHash: hash, Role: sec.RoleEditor, Active: true},
		{ID: "u2", Username: "old", Email: "old@pipemill.mk", PasswordHash: hash, Role: sec.RoleAdmin, Active: false},
	}}
	sessions := auth.NewMemorySessionStore()
	tokens, err := sec.NewTokenService("test-secret", constants.AuthIssuer)
	require.NoError(t, err)

	service := auth.NewService(users, sessions, tokens, time.Hour, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	return service, users, sessions
}

/*
TestLogin_Succeeds accepts a username or an email in any case.
*/
func TestLogin_Succeeds(t *testing.T) {
	for _, login := range []string{"ana", "ANA@pipemill.mk", "  ana "} {
		t.Run(login, func(t *testing.T) {
			service, users, _ := newService(t)

			session, err := service.Login(context.Background(), auth.LoginInput{Login: login, Password: "correct-horse"})
			require.NoError(t, err)
			assert.NotEmpty(t, session.AccessToken)
			assert.Equal(t, "u1", session.User.ID)
			assert.Equal(t, []string{"u1"}, users.touched)

			claims, err := service.VerifyToken(context.Background(), session.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
			assert.Equal(t, string(sec.RoleEditor), claims.Role)
			assert.Equal(t, session.SessionID, claims.SessionID)
		})
	}
}

/*
TestLogin_Rejects returns one indistinguishable error for every failure.
*/
func TestLogin_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		password string
		code     string
	}{
		{"wrong_password", "ana", "battery-staple", "UNAUTHORIZED"},
		{"unknown_user", "bob", "correct-horse", "UNAUTHORIZED"},
		{"deactivated", "old", "correct-horse", "UNAUTHORIZED"},
		{"missing_password", "ana", "", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users, _ := newService(t)

			_, err := service.Login(context.Background(), auth.LoginInput{Login: tt.login, Password: tt.password})
			require.Error(t, err)
			ae := apperr.As(err)
			assert.Equal(t, tt.code, ae.Code)
			if tt.code == "UNAUTHORIZED" {
				assert.Equal(t, "Invalid login credentials", ae.Message)
			}
			assert.Empty(t, users.touched)
		})
	}
}

/*
TestLogout_RevokesToken rejects the token once its session is gone.
*/
func TestLogout_RevokesToken(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	session, err := service.Login(ctx, auth.LoginInput{Login: "ana", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, session.SessionID))
	require.NoError(t, service.Logout(ctx, session.SessionID), "logout is idempotent")

	_, err = service.VerifyToken(ctx, session.AccessToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestVerifyToken_RoleComesFromSession ignores a role claim that disagrees with
the session.
*/
func TestVerifyToken_RoleComesFromSession(t *testing.T) {
	service, _, sessions := newService(t)
	ctx := context.Background()

	require.NoError(t, sessions.Create(ctx, &auth.Session{ID: "s1", UserID: "u1", Role: sec.RoleEditor}, time.Hour))

	tokens, _ := sec.NewTokenService("test-secret", constants.AuthIssuer)
	forged, err := tokens.GenerateAccessToken("u1", "ana", string(sec.RoleAdmin), "s1", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(ctx, forged)
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleEditor), claims.Role)

	other, err := tokens.GenerateAccessToken("u2", "old", string(sec.RoleAdmin), "s1", time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(ctx, other)
	assert.Error(t, err, "a session cannot be borrowed by another account")
}

/*
TestHandler_LoginMeLogout drives the endpoints through the Authenticate middleware.
*/
func TestHandler_LoginMeLogout(t *testing.T) {
	service, _, _ := newService(t)
	router := http.Handler(middleware.Authenticate(service)(auth.NewHandler(service, false).Routes()))

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"ana","password":"correct-horse"}`)))
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	token := cookies[0].Value

	me := httptest.NewRequest(http.MethodGet, "/me", nil)
	me.Header.Set("Authorization", "Bearer "+token)
	meRecorder := httptest.NewRecorder()
	router.ServeHTTP(meRecorder, me)
	assert.Equal(t, http.StatusOK, meRecorder.Code)
	assert.Contains(t, meRecorder.Body.String(), `"username":"ana"`)
	assert.NotContains(t, meRecorder.Body.String(), "password")

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
	logoutRecorder := httptest.NewRecorder()
	router.ServeHTTP(logoutRecorder, logout)
	assert.Equal(t, http.StatusNoContent, logoutRecorder.Code)

	again := httptest.NewRequest(http.MethodGet, "/me", nil)
	again.Header.Set("Authorization", "Bearer "+token)
	againRecorder := httptest.NewRecorder()
	router.ServeHTTP(againRecorder, again)
	assert.Equal(t, http.StatusUnauthorized, againRecorder.Code)
}

/*
TestHandler_MeRequiresAuth rejects anonymous requests.
*/
func TestHandler_MeRequiresAuth(t *testing.T) {
	service, _, _ := newService(t)

	recorder := httptest.NewRecorder()
	auth.NewHandler(service, false).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
