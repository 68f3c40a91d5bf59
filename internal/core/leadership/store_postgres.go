// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leadership

import (
	"context"
	"fmt"
	"strings"

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

func (repository *PostgresRepository) Get(ctx context.Context) (*Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.ContentLeadership.Columns(), ", "), schema.ContentLeadership.Table, schema.ContentLeadership.ID)

	m := &Message{}
	err := repository.db.QueryRow(ctx, query, MessageID).Scan(
		&m.ID, &m.Message, &m.AuthorName, &m.AuthorTitle, &m.PhotoURL, &m.Translations, &m.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.NotFound(err, "Leadership message", "get_leadership")
	}
	return m, nil
}

func (repository *PostgresRepository) Upsert(ctx context.Context, m *Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = NOW()
		RETURNING %s
	`,
		schema.ContentLeadership.Table,
		schema.ContentLeadership.ID, schema.ContentLeadership.Message, schema.ContentLeadership.AuthorName,
		schema.ContentLeadership.AuthorTitle, schema.ContentLeadership.PhotoURL, schema.ContentLeadership.Translations,
		schema.ContentLeadership.UpdatedAt,
		schema.ContentLeadership.ID,
		schema.ContentLeadership.Message, schema.ContentLeadership.Message,
		schema.ContentLeadership.AuthorName, schema.ContentLeadership.AuthorName,
		schema.ContentLeadership.AuthorTitle, schema.ContentLeadership.AuthorTitle,
		schema.ContentLeadership.PhotoURL, schema.ContentLeadership.PhotoURL,
		schema.ContentLeadership.Translations, schema.ContentLeadership.Translations,
		schema.ContentLeadership.UpdatedAt,
		schema.ContentLeadership.UpdatedAt,
	)

	m.ID = MessageID
	err := repository.db.QueryRow(ctx, query,
		m.ID, m.Message, m.AuthorName, m.AuthorTitle, m.PhotoURL, m.Translations,
	).Scan(&m.UpdatedAt)
	return dberr.Wrap(err, "upsert_leadership")
}
