// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository reads back-office accounts for authentication.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByLogin returns the account whose username or email equals login,
		compared case-insensitively.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByLogin(ctx context.Context, login string) (*User, error)

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// # Session Data Access

// SessionStore keeps live sessions. Implementations expire a session after its TTL.
type SessionStore interface {

	/*
		Create stores session until ttl elapses.

		Returns:
		  - error: Persistence failures
	*/
	Create(ctx context.Context, session *Session, ttl time.Duration) error

	/*
		Get returns a live session.

		Returns:
		  - *Session: The stored session
		  - error: apperr.NotFound when absent or expired
	*/
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
