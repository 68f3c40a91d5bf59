// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var columns = strings.Join(schema.ContentDocument.Columns(), ", ")

func (repository *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Document, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE 1=1`, columns, schema.ContentDocument.Table))

	if filter.ActiveOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE", schema.ContentDocument.Active))
	}
	if filter.Language != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentDocument.Language, argID))
		args = append(args, string(filter.Language))
		argID++
	}
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentDocument.Category, argID))
		args = append(args, filter.Category)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC", schema.ContentDocument.SortOrder, schema.ContentDocument.Title))

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_documents")
	}
	defer rows.Close()

	documents := make([]*Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_document")
		}
		documents = append(documents, d)
	}
	return documents, dberr.Wrap(rows.Err(), "list_documents")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, columns, schema.ContentDocument.Table, schema.ContentDocument.ID)

	d, err := scanDocument(repository.db.QueryRow(ctx, query, id))
	return d, dberr.NotFound(err, "Document", "get_document")
}

func (repository *PostgresRepository) Create(ctx context.Context, d *Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.ContentDocument.Table,
		schema.ContentDocument.ID, schema.ContentDocument.Title, schema.ContentDocument.Language,
		schema.ContentDocument.Category, schema.ContentDocument.FileURL, schema.ContentDocument.Active,
		schema.ContentDocument.SortOrder,
		schema.ContentDocument.CreatedAt, schema.ContentDocument.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		d.ID, d.Title, string(d.Language), d.Category, d.FileURL, d.Active, d.SortOrder,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return dberr.Wrap(err, "create_document")
}

func (repository *PostgresRepository) Update(ctx context.Context, d *Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.ContentDocument.Table,
		schema.ContentDocument.Title, schema.ContentDocument.Language, schema.ContentDocument.Category,
		schema.ContentDocument.FileURL, schema.ContentDocument.Active, schema.ContentDocument.SortOrder,
		schema.ContentDocument.UpdatedAt,
		schema.ContentDocument.ID,
		schema.ContentDocument.CreatedAt, schema.ContentDocument.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		d.ID, d.Title, string(d.Language), d.Category, d.FileURL, d.Active, d.SortOrder,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return dberr.NotFound(err, "Document", "update_document")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentDocument.Table, schema.ContentDocument.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_document")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Document", "delete_document")
	}
	return nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var (
		d        Document
		language string
	)
	err := row.Scan(&d.ID, &d.Title, &language, &d.Category, &d.FileURL, &d.Active, &d.SortOrder, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Language = i18n.Lang(language)
	return &d, nil
}
