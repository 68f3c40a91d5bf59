// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth authenticates back-office accounts.

A successful login creates a server-side session in a [SessionStore] and returns
a signed access token naming it. Every authenticated request verifies the token
signature and that the session still exists, so logout takes effect at once.
*/
package auth

import (
	"time"

	"github.com/taibuivan/pipemill/internal/platform/sec"
)

// # Domain Entities

// User is an editor or administrator of the site content.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	Active       bool         `json:"active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session is a live login. It is referenced by the access token's sid claim.
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Username  string       `json:"username"`
	Role      sec.UserRole `json:"role"`
	UserAgent string       `json:"user_agent"`
	IPAddress string       `json:"ip_address"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// # Field Identifiers

const (
	FieldLogin       = "login"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)
