// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

var columns = strings.Join(schema.ContentCategory.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		columns, schema.ContentCategory.Table, schema.ContentCategory.SortOrder, schema.ContentCategory.Name)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}
	return categories, dberr.Wrap(rows.Err(), "list_categories")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentCategory.Table, schema.ContentCategory.ID)

	c, err := scanCategory(repository.db.QueryRow(ctx, query, id))
	return c, dberr.NotFound(err, "Category", "get_category")
}

func (repository *PostgresRepository) Create(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.ContentCategory.Table,
		schema.ContentCategory.ID, schema.ContentCategory.Slug, schema.ContentCategory.Name,
		schema.ContentCategory.Translations, schema.ContentCategory.SortOrder,
		schema.ContentCategory.CreatedAt, schema.ContentCategory.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query, c.ID, c.Slug, c.Name, c.Translations, c.SortOrder).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) Update(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.ContentCategory.Table,
		schema.ContentCategory.Slug, schema.ContentCategory.Name, schema.ContentCategory.Translations,
		schema.ContentCategory.SortOrder, schema.ContentCategory.UpdatedAt,
		schema.ContentCategory.ID,
		schema.ContentCategory.CreatedAt, schema.ContentCategory.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query, c.ID, c.Slug, c.Name, c.Translations, c.SortOrder).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.NotFound(err, "Category", "update_category")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentCategory.Table, schema.ContentCategory.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Category", "delete_category")
	}
	return nil
}

func scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Translations, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
