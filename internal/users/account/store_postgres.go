// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/platform/apperr"
	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
	"github.com/taibuivan/pipemill/internal/users/auth"
)

// PostgresRepository implements [Repository] on users.account.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL account [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context) ([]*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, accountColumns, schema.UserAccount.Table, schema.UserAccount.Username)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}
	return users, dberr.Wrap(rows.Err(), "list_accounts")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, id))
	return user, dberr.NotFound(err, "Account", "find_account")
}

func (repository *PostgresRepository) Create(ctx context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.UserAccount.Table, accountColumns,
	)

	_, err := repository.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.Active,
		user.LastLoginAt, user.DisplayName, user.CreatedAt, user.UpdatedAt,
	)
	wrapped := dberr.Wrap(err, "create_account")
	if appErr := apperr.As(wrapped); appErr != nil && appErr.Code == "CONFLICT" {
		return apperr.Conflict("Username or email is already taken")
	}
	return wrapped
}

func (repository *PostgresRepository) Update(ctx context.Context, user *auth.User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.Role, schema.UserAccount.IsActive, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, user.ID, user.DisplayName, user.Role, user.Active, user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_account")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

func (repository *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "update_account_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}
