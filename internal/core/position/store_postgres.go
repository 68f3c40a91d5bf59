// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package position

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

var columns = strings.Join(schema.ContentPosition.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*Position, error) {
	where := ""
	if activeOnly {
		where = fmt.Sprintf("WHERE %s = TRUE", schema.ContentPosition.Active)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s ASC, %s DESC`,
		columns, schema.ContentPosition.Table, where,
		schema.ContentPosition.SortOrder, schema.ContentPosition.CreatedAt,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_positions")
	}
	defer rows.Close()

	positions := make([]*Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_position")
		}
		positions = append(positions, p)
	}
	return positions, dberr.Wrap(rows.Err(), "list_positions")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Position, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentPosition.Table, schema.ContentPosition.ID)

	p, err := scanPosition(repository.db.QueryRow(ctx, query, id))
	return p, dberr.NotFound(err, "Position", "get_position")
}

func (repository *PostgresRepository) Create(ctx context.Context, p *Position) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s
	`,
		schema.ContentPosition.Table,
		schema.ContentPosition.ID, schema.ContentPosition.Title, schema.ContentPosition.Description,
		schema.ContentPosition.Requirements, schema.ContentPosition.Location, schema.ContentPosition.EmploymentType,
		schema.ContentPosition.Translations, schema.ContentPosition.Active, schema.ContentPosition.SortOrder,
		schema.ContentPosition.CreatedAt, schema.ContentPosition.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, p.Requirements, p.Location, string(p.EmploymentType),
		p.Translations, p.Active, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_position")
}

func (repository *PostgresRepository) Update(ctx context.Context, p *Position) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.ContentPosition.Table,
		schema.ContentPosition.Title, schema.ContentPosition.Description, schema.ContentPosition.Requirements,
		schema.ContentPosition.Location, schema.ContentPosition.EmploymentType, schema.ContentPosition.Translations,
		schema.ContentPosition.Active, schema.ContentPosition.SortOrder, schema.ContentPosition.UpdatedAt,
		schema.ContentPosition.ID,
		schema.ContentPosition.CreatedAt, schema.ContentPosition.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, p.Requirements, p.Location, string(p.EmploymentType),
		p.Translations, p.Active, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.NotFound(err, "Position", "update_position")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentPosition.Table, schema.ContentPosition.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_position")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Position", "delete_position")
	}
	return nil
}

func scanPosition(row pgx.Row) (*Position, error) {
	var (
		p              Position
		employmentType string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Requirements, &p.Location, &employmentType,
		&p.Translations, &p.Active, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.EmploymentType = EmploymentType(employmentType)
	return &p, nil
}
