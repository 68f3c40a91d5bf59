// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var columns = strings.Join(schema.ContentProject.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1`,
		columns, schema.ContentProject.Table,
	))

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentProject.Status, argID))
		args = append(args, string(filter.Status))
		argID++
	}
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s::text ILIKE $%d)",
			schema.ContentProject.Title, argID, schema.ContentProject.Translations, argID,
		))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s DESC LIMIT $%d OFFSET $%d",
		schema.ContentProject.SortOrder, schema.ContentProject.CreatedAt, argID, argID+1,
	))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_projects")
	}
	defer rows.Close()

	var projects []*Project
	total := 0
	for rows.Next() {
		p, err := scanProject(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_project")
		}
		projects = append(projects, p)
	}
	return projects, total, dberr.Wrap(rows.Err(), "list_projects")
}

func (repository *PostgresRepository) ListPublished(ctx context.Context) ([]*Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = TRUE AND %s = $1
		ORDER BY %s ASC, %s DESC
	`,
		columns, schema.ContentProject.Table,
		schema.ContentProject.Active, schema.ContentProject.Status,
		schema.ContentProject.SortOrder, schema.ContentProject.Year,
	)

	rows, err := repository.db.Query(ctx, query, string(StatusActive))
	if err != nil {
		return nil, dberr.Wrap(err, "list_published_projects")
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_project")
		}
		projects = append(projects, p)
	}
	return projects, dberr.Wrap(rows.Err(), "list_published_projects")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentProject.Table, schema.ContentProject.ID)

	p, err := scanProject(repository.db.QueryRow(ctx, query, id))
	return p, dberr.NotFound(err, "Project", "get_project")
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentProject.Table, schema.ContentProject.Slug)

	p, err := scanProject(repository.db.QueryRow(ctx, query, slug))
	return p, dberr.NotFound(err, "Project", "get_project_by_slug")
}

func (repository *PostgresRepository) Create(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.ContentProject.Table,
		schema.ContentProject.ID, schema.ContentProject.Slug, schema.ContentProject.Title,
		schema.ContentProject.Description, schema.ContentProject.Location, schema.ContentProject.Year,
		schema.ContentProject.ImageURL, schema.ContentProject.Gallery, schema.ContentProject.Translations,
		schema.ContentProject.Status, schema.ContentProject.Active, schema.ContentProject.SortOrder,
		schema.ContentProject.CreatedAt, schema.ContentProject.UpdatedAt,
		schema.ContentProject.CreatedAt, schema.ContentProject.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		p.ID, p.Slug, p.Title, p.Description, p.Location, p.Year, p.ImageURL, gallery(p.Gallery),
		p.Translations, string(p.Status), p.Active, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return dberr.Wrap(err, "create_project")
}

func (repository *PostgresRepository) Update(ctx context.Context, p *Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9,
			%s = $10, %s = $11, %s = $12, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.ContentProject.Table,
		schema.ContentProject.Slug, schema.ContentProject.Title, schema.ContentProject.Description,
		schema.ContentProject.Location, schema.ContentProject.Year, schema.ContentProject.ImageURL,
		schema.ContentProject.Gallery, schema.ContentProject.Translations, schema.ContentProject.Status,
		schema.ContentProject.Active, schema.ContentProject.SortOrder, schema.ContentProject.UpdatedAt,
		schema.ContentProject.ID,
		schema.ContentProject.CreatedAt, schema.ContentProject.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		p.ID, p.Slug, p.Title, p.Description, p.Location, p.Year, p.ImageURL, gallery(p.Gallery),
		p.Translations, string(p.Status), p.Active, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return dberr.NotFound(err, "Project", "update_project")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentProject.Table, schema.ContentProject.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_project")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Project", "delete_project")
	}
	return nil
}

func scanProject(row pgx.Row, extra ...any) (*Project, error) {
	var (
		p      Project
		year   *int16
		status string
	)

	dest := []any{
		&p.ID, &p.Slug, &p.Title, &p.Description, &p.Location, &year, &p.ImageURL, &p.Gallery,
		&p.Translations, &status, &p.Active, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.Status = Status(status)
	if year != nil {
		y := int(*year)
		p.Year = &y
	}
	return &p, nil
}

// gallery keeps the column NOT NULL when the list is empty.
func gallery(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
