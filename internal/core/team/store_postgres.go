// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var columns = strings.Join(schema.ContentTeamMember.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*Member, error) {
	where := ""
	if activeOnly {
		where = fmt.Sprintf("WHERE %s = TRUE", schema.ContentTeamMember.Active)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s ASC, %s ASC`,
		columns, schema.ContentTeamMember.Table, where,
		schema.ContentTeamMember.SortOrder, schema.ContentTeamMember.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_team_members")
	}
	defer rows.Close()

	members := make([]*Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_team_member")
		}
		members = append(members, m)
	}
	return members, dberr.Wrap(rows.Err(), "list_team_members")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentTeamMember.Table, schema.ContentTeamMember.ID)

	m, err := scanMember(repository.db.QueryRow(ctx, query, id))
	return m, dberr.NotFound(err, "Team member", "get_team_member")
}

func (repository *PostgresRepository) Create(ctx context.Context, m *Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s
	`,
		schema.ContentTeamMember.Table,
		schema.ContentTeamMember.ID, schema.ContentTeamMember.Name, schema.ContentTeamMember.Role,
		schema.ContentTeamMember.Bio, schema.ContentTeamMember.PhotoURL, schema.ContentTeamMember.Email,
		schema.ContentTeamMember.Translations, schema.ContentTeamMember.Active, schema.ContentTeamMember.SortOrder,
		schema.ContentTeamMember.CreatedAt, schema.ContentTeamMember.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		m.ID, m.Name, m.Role, m.Bio, m.PhotoURL, m.Email, m.Translations, m.Active, m.SortOrder,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return dberr.Wrap(err, "create_team_member")
}

func (repository *PostgresRepository) Update(ctx context.Context, m *Member) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.ContentTeamMember.Table,
		schema.ContentTeamMember.Name, schema.ContentTeamMember.Role, schema.ContentTeamMember.Bio,
		schema.ContentTeamMember.PhotoURL, schema.ContentTeamMember.Email, schema.ContentTeamMember.Translations,
		schema.ContentTeamMember.Active, schema.ContentTeamMember.SortOrder, schema.ContentTeamMember.UpdatedAt,
		schema.ContentTeamMember.ID,
		schema.ContentTeamMember.CreatedAt, schema.ContentTeamMember.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		m.ID, m.Name, m.Role, m.Bio, m.PhotoURL, m.Email, m.Translations, m.Active, m.SortOrder,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return dberr.NotFound(err, "Team member", "update_team_member")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentTeamMember.Table, schema.ContentTeamMember.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_team_member")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Team member", "delete_team_member")
	}
	return nil
}

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Role, &m.Bio, &m.PhotoURL, &m.Email, &m.Translations,
		&m.Active, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
