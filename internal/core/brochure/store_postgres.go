// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package brochure stores product brochures as one row per language, linked into
translation groups.

The PostgreSQL repository runs group saves inside a single transaction: the
[group.Manager] receives a repository bound to the transaction through WithinTx,
so every sibling write commits or none does.
*/
package brochure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/pipemill/internal/core/group"
	"github.com/taibuivan/pipemill/internal/i18n"
	"github.com/taibuivan/pipemill/internal/platform/database/schema"
	"github.com/taibuivan/pipemill/internal/platform/dberr"
	"github.com/taibuivan/pipemill/pkg/uuid"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	db   querier
}

// NewPostgresRepository constructs a PostgreSQL backed brochure store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, db: pool}
}

var columns = strings.Join(schema.ContentBrochure.Columns(), ", ")

// # Transactions

/*
WithinTx runs fn with a repository bound to one database transaction.

The transaction commits when fn returns nil and rolls back otherwise. Calling
WithinTx on a repository that is already transactional reuses the transaction.
*/
func (repository *PostgresRepository) WithinTx(ctx context.Context, fn func(context.Context, group.Store[*Brochure]) error) error {
	if repository.pool == nil {
		return fn(ctx, repository)
	}

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_brochure_tx")
	}
	defer transaction.Rollback(ctx)

	if err := fn(ctx, &PostgresRepository{db: transaction}); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(ctx), "commit_brochure_tx")
}

// # Reads

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Brochure, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columns, schema.ContentBrochure.Table, schema.ContentBrochure.ID,
	)

	brochure, err := scanBrochure(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Brochure", "get_brochure")
	}
	return brochure, nil
}

func (repository *PostgresRepository) FindByGroupAndLanguage(ctx context.Context, groupID string, lang i18n.Lang) (*Brochure, bool, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC, %s ASC
		LIMIT 1
	`,
		columns, schema.ContentBrochure.Table,
		schema.ContentBrochure.TranslationGroup, schema.ContentBrochure.Language,
		schema.ContentBrochure.CreatedAt, schema.ContentBrochure.ID,
	)

	brochure, err := scanBrochure(repository.db.QueryRow(ctx, query, groupID, string(lang)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dberr.Wrap(err, "find_brochure_sibling")
	}
	return brochure, true, nil
}

func (repository *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]*Brochure, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		columns, schema.ContentBrochure.Table, schema.ContentBrochure.TranslationGroup,
	)
	return repository.queryAll(ctx, "list_brochure_group", query, groupID)
}

func (repository *PostgresRepository) ListAll(ctx context.Context) ([]*Brochure, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		columns, schema.ContentBrochure.Table, schema.ContentBrochure.CreatedAt, schema.ContentBrochure.ID,
	)
	return repository.queryAll(ctx, "list_all_brochures", query)
}

func (repository *PostgresRepository) ListPublished(ctx context.Context) ([]*Brochure, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = TRUE AND %s = $1
		ORDER BY %s ASC, %s ASC
	`,
		columns, schema.ContentBrochure.Table,
		schema.ContentBrochure.Active, schema.ContentBrochure.Status,
		schema.ContentBrochure.SortOrder, schema.ContentBrochure.Name,
	)
	return repository.queryAll(ctx, "list_published_brochures", query, string(StatusActive))
}

/*
List returns a filtered page of brochure rows.

Parameters:
  - filter: Filter (language, category, status, group, name search)
  - limit, offset: int

Returns:
  - []*Brochure: the page, newest first
  - int: total rows matching the filter
  - error: database failures
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Brochure, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	// Window function carries the total count on every row
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1`,
		columns, schema.ContentBrochure.Table,
	))

	if filter.Language != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentBrochure.Language, argID))
		args = append(args, string(filter.Language))
		argID++
	}
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentBrochure.Category, argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentBrochure.Status, argID))
		args = append(args, string(filter.Status))
		argID++
	}
	if filter.Group != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentBrochure.TranslationGroup, argID))
		args = append(args, filter.Group)
		argID++
	}
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.ContentBrochure.Name, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s ASC LIMIT $%d OFFSET $%d",
		schema.ContentBrochure.CreatedAt, schema.ContentBrochure.ID, argID, argID+1,
	))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_brochures")
	}
	defer rows.Close()

	var brochures []*Brochure
	total := 0
	for rows.Next() {
		brochure, err := scanBrochure(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_brochure")
		}
		brochures = append(brochures, brochure)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_brochures")
	}

	return brochures, total, nil
}

// # Writes

// Create inserts a row and assigns its id and timestamps.
func (repository *PostgresRepository) Create(ctx context.Context, brochure *Brochure) error {
	metadata, err := encodeMetadata(brochure.TranslationMetadata)
	if err != nil {
		return err
	}

	if brochure.ID == "" {
		brochure.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.ContentBrochure.Table, schema.ContentBrochure.ID, schema.ContentBrochure.Language,
		schema.ContentBrochure.TranslationGroup, schema.ContentBrochure.Name, schema.ContentBrochure.Description,
		schema.ContentBrochure.Category, schema.ContentBrochure.PDFURL, schema.ContentBrochure.ImageURL,
		schema.ContentBrochure.Status, schema.ContentBrochure.Active, schema.ContentBrochure.SortOrder,
		schema.ContentBrochure.TranslationMetadata, schema.ContentBrochure.CreatedAt, schema.ContentBrochure.UpdatedAt,
		schema.ContentBrochure.CreatedAt, schema.ContentBrochure.UpdatedAt,
	)

	err = repository.db.QueryRow(ctx, query,
		brochure.ID, string(brochure.Language), brochure.TranslationGroup, brochure.Name, brochure.Description,
		brochure.Category, brochure.PDFURL, brochure.ImageURL, string(brochure.Status), brochure.Active,
		brochure.SortOrder, metadata,
	).Scan(&brochure.CreatedAt, &brochure.UpdatedAt)

	return dberr.Wrap(err, "create_brochure")
}

// Update writes every mutable column of an existing row.
func (repository *PostgresRepository) Update(ctx context.Context, brochure *Brochure) error {
	metadata, err := encodeMetadata(brochure.TranslationMetadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NULLIF($3, ''), %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.ContentBrochure.Table,
		schema.ContentBrochure.Language, schema.ContentBrochure.TranslationGroup, schema.ContentBrochure.Name,
		schema.ContentBrochure.Description, schema.ContentBrochure.Category, schema.ContentBrochure.PDFURL,
		schema.ContentBrochure.ImageURL, schema.ContentBrochure.Status, schema.ContentBrochure.Active,
		schema.ContentBrochure.SortOrder, schema.ContentBrochure.TranslationMetadata, schema.ContentBrochure.UpdatedAt,
		schema.ContentBrochure.ID, schema.ContentBrochure.UpdatedAt,
	)

	err = repository.db.QueryRow(ctx, query,
		brochure.ID, string(brochure.Language), brochure.TranslationGroup, brochure.Name, brochure.Description,
		brochure.Category, brochure.PDFURL, brochure.ImageURL, string(brochure.Status), brochure.Active,
		brochure.SortOrder, metadata,
	).Scan(&brochure.UpdatedAt)

	return dberr.NotFound(err, "Brochure", "update_brochure")
}

// Delete removes one row. Siblings keep their group id.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentBrochure.Table, schema.ContentBrochure.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_brochure")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Brochure", "delete_brochure")
	}
	return nil
}

// # Scanning

func (repository *PostgresRepository) queryAll(ctx context.Context, action, query string, args ...any) ([]*Brochure, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var brochures []*Brochure
	for rows.Next() {
		brochure, err := scanBrochure(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		brochures = append(brochures, brochure)
	}
	return brochures, dberr.Wrap(rows.Err(), action)
}

// scanBrochure reads one row in [schema.ContentBrochureTable.Columns] order,
// followed by any extra destinations.
func scanBrochure(row pgx.Row, extra ...any) (*Brochure, error) {
	var (
		brochure Brochure
		language string
		status   string
		groupID  *string
		metadata []byte
	)

	dest := []any{
		&brochure.ID, &language, &groupID, &brochure.Name, &brochure.Description, &brochure.Category,
		&brochure.PDFURL, &brochure.ImageURL, &status, &brochure.Active, &brochure.SortOrder, &metadata,
		&brochure.CreatedAt, &brochure.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	brochure.Language = i18n.Lang(language)
	brochure.Status = Status(status)
	if groupID != nil {
		brochure.TranslationGroup = *groupID
	}
	if len(metadata) > 0 {
		brochure.TranslationMetadata = &Metadata{}
		if err := json.Unmarshal(metadata, brochure.TranslationMetadata); err != nil {
			return nil, fmt.Errorf("decode translation metadata: %w", err)
		}
	}

	return &brochure, nil
}

// encodeMetadata returns the JSONB argument for metadata; nil stores NULL.
func encodeMetadata(metadata *Metadata) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode translation metadata: %w", err)
	}
	return raw, nil
}
