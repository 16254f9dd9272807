package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLitePersister stores the document as one TEXT row keyed by name.
type SQLitePersister struct {
	db   *sql.DB
	name string
}

func NewSQLitePersister(ctx context.Context, db *sql.DB, name string) (*SQLitePersister, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLitePersister{db: db, name: name}, nil
}

func (p *SQLitePersister) Load(ctx context.Context) (*Document, error) {
	var raw string
	err := p.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, p.name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", p.name, err)
	}
	return decode([]byte(raw))
}

func (p *SQLitePersister) Save(ctx context.Context, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		p.name, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", p.name, err)
	}
	return nil
}
