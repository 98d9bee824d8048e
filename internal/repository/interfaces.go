package repository

import (
	"context"

	"github.com/dechenique1/fgr/internal/domain/activity"
)

// DocumentRepository stores one serialized project document per tenant.
// Load returns ErrNotFound when the tenant has never saved.
type DocumentRepository interface {
	Load(ctx context.Context, tenantID string) ([]byte, error)
	Save(ctx context.Context, tenantID string, data []byte) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
	List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// APIKeyRepository resolves bearer tokens to tenants.
type APIKeyRepository interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}
