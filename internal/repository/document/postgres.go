package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresPersister stores the document as one JSONB row keyed by name.
type PostgresPersister struct {
	db   database.Querier
	name string
}

func NewPostgresPersister(ctx context.Context, db database.Querier, name string) (*PostgresPersister, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &PostgresPersister{db: db, name: name}, nil
}

func (p *PostgresPersister) Load(ctx context.Context) (*Document, error) {
	var raw []byte
	err := p.db.QueryRow(ctx, `SELECT body FROM documents WHERE name = $1`, p.name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", p.name, err)
	}
	return decode(raw)
}

func (p *PostgresPersister) Save(ctx context.Context, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.Exec(ctx, query, p.name, raw); err != nil {
		return fmt.Errorf("failed to save document %q: %w", p.name, err)
	}
	return nil
}
