// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs and verifies access tokens. [sec.TokenService] implements it.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role, sessionID string, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements login, logout and token verification.
type Service struct {
	users      UserRepository
	sessions   SessionStore
	tokens     TokenProvider
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs an auth [Service]. Sessions and tokens live for sessionTTL.
func NewService(users UserRepository, sessions SessionStore, tokens TokenProvider, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string // Username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is the outcome of a successful login.
type LoginSession struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	User        *User
}

/*
Login verifies credentials and opens a session.

Description: Unknown accounts, wrong passwords and deactivated accounts all
fail with the same message so accounts cannot be enumerated.

Returns:
  - *LoginSession: the access token and the account
  - error: VALIDATION_ERROR, UNAUTHORIZED or storage failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	input.Login = normalizeLogin(input.Login)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByLogin(ctx, input.Login)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	// Compared even for unknown accounts so both paths cost one bcrypt check.
	if !sec.CheckPasswordHash(input.Password, hash) || user == nil || !user.Active {
		service.logger.WarnContext(ctx, "login_failed", slog.String("login", input.Login), slog.String("ip", input.IPAddress))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	now := service.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(service.sessionTTL),
	}
	if err := service.sessions.Create(ctx, session, service.sessionTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), session.ID, service.sessionTTL)
	if err != nil {
		_ = service.sessions.Delete(ctx, session.ID)
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	if err := service.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		service.logger.WarnContext(ctx, "last_login_update_failed", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}

	service.logger.InfoContext(ctx, "login_succeeded", slog.String("user_id", user.ID), slog.String("session_id", session.ID))
	return &LoginSession{AccessToken: token, SessionID: session.ID, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Logout revokes a session. Revoking an unknown session succeeds.
func (service *Service) Logout(ctx context.Context, sessionID string) error {
	if err := service.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "logout", slog.String("session_id", sessionID))
	return nil
}

// Me returns the account behind the current token.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

/*
VerifyToken authenticates an access token for the middleware.

The signature, issuer and expiry are checked first; then the session it names
must still exist and belong to the same account. The role is taken from the
session, so a token cannot claim more than the login granted.
*/
func (service *Service) VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	session, err := service.sessions.Get(ctx, claims.SessionID)
	if isNotFound(err) {
		return nil, apperr.Unauthorized("Session has ended")
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	claims.Role = string(session.Role)
	return claims, nil
}

func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.HTTPStatus == http.StatusNotFound
}

// normalizeLogin trims the login for logging and lookups.
func normalizeLogin(login string) string {
	return strings.TrimSpace(login)
}
