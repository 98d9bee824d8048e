package project

import (
	"context"

	"github.com/dechenique1/fgr/internal/domain/activity"
)

// DocumentRepository stores one serialized project document per tenant.
type DocumentRepository interface {
	Load(ctx context.Context, tenantID string) ([]byte, error)
	Save(ctx context.Context, tenantID string, data []byte) error
}

// ActivityRepository logs ledger activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
