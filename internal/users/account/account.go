// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account lets administrators manage back-office accounts.

Accounts are the [auth.User] rows the login flow authenticates against. This
package creates them, changes their role or active flag and resets passwords.
Self-service signup does not exist.
*/
package account

import (
	"context"

	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

// # Repository Contracts

// Repository persists back-office accounts.
type Repository interface {
	// List returns every account ordered by username.
	List(ctx context.Context) ([]*auth.User, error)

	/*
		FindByID retrieves one account.

		Returns:
		  - *auth.User: the account
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	// Create inserts a new account. A duplicate username or email is a Conflict.
	Create(ctx context.Context, user *auth.User) error

	// Update writes the display name, role and active flag.
	Update(ctx context.Context, user *auth.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// # Inputs

// CreateInput is the payload for a new account.
type CreateInput struct {
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	DisplayName string       `json:"display_name"`
	Role        sec.UserRole `json:"role"` // Defaults to editor
}

// UpdateInput carries the fields an administrator may change. Nil fields are kept.
type UpdateInput struct {
	DisplayName *string       `json:"display_name"`
	Role        *sec.UserRole `json:"role"`
	Active      *bool         `json:"active"`
}

// PasswordInput is the payload of a password reset.
type PasswordInput struct {
	Password string `json:"password"`
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldRole        = "role"
)
