package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dechenique1/fgr/internal/repository"
)

// DocumentRepository implements repository.DocumentRepository for SQLite
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Load returns the tenant's document or repository.ErrNotFound.
func (r *DocumentRepository) Load(ctx context.Context, tenantID string) ([]byte, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE tenant_id = ?`, tenantID).Scan(&body)
	if err != nil {
		return nil, notFound(err, "document")
	}
	return []byte(body), nil
}

// Save replaces the tenant's document.
func (r *DocumentRepository) Save(ctx context.Context, tenantID string, data []byte) error {
	if strings.TrimSpace(tenantID) == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (tenant_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, tenantID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
