package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dechenique1/fgr/internal/repository"
)

// APIKeyRepository resolves bearer tokens against the api_keys table.
// Only SHA-256 hashes of keys are stored.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// HashKey returns the stored form of an API key.
func HashKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// AddAPIKey registers a key for a tenant.
func (r *APIKeyRepository) AddAPIKey(ctx context.Context, tenantID, token, description string) error {
	if strings.TrimSpace(tenantID) == "" || token == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashKey(token), tenantID, time.Now().UTC(), description)
	if isUniqueViolation(err) {
		return fmt.Errorf("api key already registered: %w", repository.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveTenant returns the tenant owning token and records its use.
func (r *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := HashKey(token)
	var tenantID string
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if err != nil {
		return "", notFound(err, "api key")
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}
