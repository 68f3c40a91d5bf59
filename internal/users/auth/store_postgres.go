// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, id))
	return user, dberr.NotFound(err, "User", "find_user_by_id")
}

/*
FindByLogin looks an account up by username or email.

Description: Both columns are compared lowercased; the unique indexes on
lower(username) and lower(email) keep the match unambiguous.
*/
func (repository *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1) OR lower(%s) = lower($1) LIMIT 1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.Email,
	)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, strings.TrimSpace(login)))
	return user, dberr.NotFound(err, "User", "find_user_by_login")
}

func (repository *PostgresUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(ctx, query, id, at)
	return dberr.Wrap(err, "touch_last_login")
}

// ScanUser reads one users.account row selected with the schema column order.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.LastLoginAt,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
