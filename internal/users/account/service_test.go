// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/ctxutil"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/users/account"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

type fakeRepository struct {
	users map[string]*auth.User
}

func newFakeRepository(users ...*auth.User) *fakeRepository {
	repo := &fakeRepository{users: map[string]*auth.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeRepository) List(context.Context) ([]*auth.User, error) {
	users := []*auth.User{}
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepository) Create(_ context.Context, user *auth.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("Username or email is already taken")
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeRepository) Update(_ context.Context, user *auth.User) error {
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeRepository) UpdatePassword(_ context.Context, id, hash string) error {
	f.users[id].PasswordHash = hash
	return nil
}

func newService(users ...*auth.User) (*account.Service, *fakeRepository) {
	repo := newFakeRepository(users...)
	return account.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil))), repo
}

/*
TestCreate_NormalizesAndHashes stores a lowercased login and a bcrypt hash.
*/
func TestCreate_NormalizesAndHashes(t *testing.T) {
	service, repo := newService()

	user, err := service.Create(context.Background(), account.CreateInput{
		Username: "  Ana ",
		Email:    "Ana@Pipemill.MK",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, "ana@pipemill.mk", user.Email)
	assert.Equal(t, sec.RoleEditor, user.Role)
	assert.True(t, user.Active)
	assert.True(t, sec.CheckPasswordHash("correct-horse", repo.users[user.ID].PasswordHash))
}

/*
TestCreate_Rejects covers invalid payloads and duplicates.
*/
func TestCreate_Rejects(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "ana", Email: "ana@pipemill.mk", Role: sec.RoleEditor}

	tests := []struct {
		name  string
		input account.CreateInput
		code  string
		field string
	}{
		{"short_password", account.CreateInput{Username: "bo", Email: "bo@pipemill.mk", Password: "short"}, "VALIDATION_ERROR", account.FieldPassword},
		{"bad_email", account.CreateInput{Username: "bo", Email: "not-an-email", Password: "long-enough"}, "VALIDATION_ERROR", account.FieldEmail},
		{"bad_role", account.CreateInput{Username: "bo", Email: "bo@pipemill.mk", Password: "long-enough", Role: "owner"}, "VALIDATION_ERROR", account.FieldRole},
		{"username_with_at", account.CreateInput{Username: "bo@x", Email: "bo@pipemill.mk", Password: "long-enough"}, "VALIDATION_ERROR", account.FieldUsername},
		{"duplicate_username", account.CreateInput{Username: "ANA", Email: "other@pipemill.mk", Password: "long-enough"}, "CONFLICT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(existing)

			_, err := service.Create(context.Background(), tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			assert.Equal(t, tt.code, ae.Code)
			if tt.field != "" {
				require.NotEmpty(t, ae.Details)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			}
		})
	}
}

/*
TestUpdate_SelfProtection stops an administrator from locking themselves out.
*/
func TestUpdate_SelfProtection(t *testing.T) {
	admin := &auth.User{ID: "a1", Username: "root", Role: sec.RoleAdmin, Active: true}
	editor := &auth.User{ID: "e1", Username: "ana", Role: sec.RoleEditor, Active: true}
	inactive := false
	promoted := sec.RoleAdmin
	demoted := sec.RoleEditor

	service, _ := newService(admin, editor)
	ctx := context.Background()

	_, err := service.Update(ctx, "a1", "a1", account.UpdateInput{Active: &inactive})
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = service.Update(ctx, "a1", "a1", account.UpdateInput{Role: &demoted})
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.Update(ctx, "a1", "e1", account.UpdateInput{Role: &promoted, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, updated.Role)
	assert.False(t, updated.Active)

	name := "  Ana K. "
	updated, err = service.Update(ctx, "a1", "a1", account.UpdateInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana K.", updated.DisplayName)
}

/*
TestResetPassword replaces the hash and enforces the minimum length.
*/
func TestResetPassword(t *testing.T) {
	service, repo := newService(&auth.User{ID: "e1", Username: "ana", Role: sec.RoleEditor, Active: true})
	ctx := context.Background()

	err := service.ResetPassword(ctx, "e1", account.PasswordInput{Password: "short"})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	err = service.ResetPassword(ctx, "missing", account.PasswordInput{Password: "long-enough"})
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	require.NoError(t, service.ResetPassword(ctx, "e1", account.PasswordInput{Password: "long-enough"}))
	assert.True(t, sec.CheckPasswordHash("long-enough", repo.users["e1"].PasswordHash))
}

/*
TestHandler_RequiresAdmin rejects editors and accepts administrators.
*/
func TestHandler_RequiresAdmin(t *testing.T) {
	service, _ := newService()
	router := account.NewHandler(service).Routes()

	tests := []struct {
		name   string
		role   sec.UserRole
		status int
	}{
		{"editor", sec.RoleEditor, http.StatusForbidden},
		{"admin", sec.RoleAdmin, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"username":"` + tt.name + `","email":"` + tt.name + `@pipemill.mk","password":"long-enough"}`
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "a1", Role: string(tt.role)}))

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			assert.NotContains(t, recorder.Body.String(), "long-enough")
		})
	}
}

/*
TestBootstrap creates an administrator only while no account exists.
*/
func TestBootstrap(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	input := account.CreateInput{Username: "root", Email: "root@pipemill.mk", Password: "long-enough", Role: sec.RoleEditor}

	created, err := service.Bootstrap(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, repo.users, 1)
	for _, u := range repo.users {
		assert.Equal(t, sec.RoleAdmin, u.Role)
	}

	created, err = service.Bootstrap(ctx, account.CreateInput{Username: "second", Email: "second@pipemill.mk", Password: "long-enough"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)
}
