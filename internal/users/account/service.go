// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/constants"
	"github.com/taibuivan/pipemill/internal/platform/sec"
	"github.com/taibuivan/pipemill/internal/platform/validate"
	"github.com/taibuivan/pipemill/internal/users/auth"
	"github.com/taibuivan/pipemill/pkg/pointer"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

const (
	maxUsernameLength    = 50
	maxDisplayNameLength = 100
	maxPasswordLength    = 72 // bcrypt ignores anything longer
)

// # Service Layer

// Service implements account administration.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs an account [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

func (service *Service) List(ctx context.Context) ([]*auth.User, error) {
	return service.repository.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (*auth.User, error) {
	return service.repository.FindByID(ctx, id)
}

/*
Create adds a back-office account.

Description: Usernames and emails are stored trimmed and lowercased so the
case-insensitive login lookup matches exactly one row.

Returns:
  - *auth.User: the stored account
  - error: VALIDATION_ERROR, CONFLICT on a duplicate username or email
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*auth.User, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.Role == "" {
		input.Role = sec.RoleEditor
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, maxUsernameLength).
		Custom(FieldUsername, strings.ContainsAny(input.Username, " @"), "Must not contain spaces or @").
		Required(FieldEmail, input.Email).
		MaxLen(FieldDisplayName, input.DisplayName, maxDisplayNameLength).
		Custom(FieldRole, !input.Role.Valid(), "Must be admin or editor")
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	validatePassword(validator, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	now := service.now()
	user := &auth.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := service.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "account_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

/*
Bootstrap creates the first administrator.

Description: Does nothing once any account exists, so the credentials can stay
in the environment across restarts.

Returns:
  - bool: whether an account was created
*/
func (service *Service) Bootstrap(ctx context.Context, input CreateInput) (bool, error) {
	existing, err := service.repository.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	input.Role = sec.RoleAdmin
	if _, err := service.Create(ctx, input); err != nil {
		return false, fmt.Errorf("account_service_bootstrap_failed: %w", err)
	}
	return true, nil
}

/*
Update changes an account's display name, role or active flag.

Description: An administrator cannot demote or deactivate their own account,
so the site always keeps at least the acting administrator. Deactivation
blocks future logins; sessions already open run until they expire.
*/
func (service *Service) Update(ctx context.Context, actorID, id string, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		validator.MaxLen(FieldDisplayName, name, maxDisplayNameLength)
		user.DisplayName = name
	}
	if input.Role != nil {
		validator.Custom(FieldRole, !input.Role.Valid(), "Must be admin or editor")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if actorID == id {
		if input.Role != nil && *input.Role != user.Role {
			return nil, apperr.Forbidden("You cannot change your own role")
		}
		if input.Active != nil && !*input.Active {
			return nil, apperr.Forbidden("You cannot deactivate your own account")
		}
	}

	user.Role = pointer.Fallback(input.Role, user.Role)
	user.Active = pointer.Fallback(input.Active, user.Active)
	user.UpdatedAt = service.now()

	if err := service.repository.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "account_updated",
		slog.String("user_id", id),
		slog.String("actor_id", actorID),
		slog.Bool("active", user.Active),
	)
	return user, nil
}

// ResetPassword replaces an account's password.
func (service *Service) ResetPassword(ctx context.Context, id string, input PasswordInput) error {
	validator := &validate.Validator{}
	validatePassword(validator, input.Password)
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}
	if err := service.repository.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "account_password_reset", slog.String("user_id", id))
	return nil
}

func validatePassword(validator *validate.Validator, password string) {
	validator.
		Required(FieldPassword, password).
		Custom(FieldPassword, password != "" && len(password) < constants.MinPasswordLength,
			fmt.Sprintf("Must be at least %d characters", constants.MinPasswordLength)).
		Custom(FieldPassword, len(password) > maxPasswordLength,
			fmt.Sprintf("Must be at most %d bytes", maxPasswordLength))
}
