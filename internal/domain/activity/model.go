package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated ActivityType = "project_created"
	TypeProjectDeleted ActivityType = "project_deleted"
	TypeRecordAppended ActivityType = "record_appended"
	TypeRecordEdited   ActivityType = "record_edited"
	TypeRecordDeleted  ActivityType = "record_deleted"
	TypeRecordsCleared ActivityType = "records_cleared"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeProjectCreated, TypeProjectDeleted, TypeRecordAppended, TypeRecordEdited, TypeRecordDeleted, TypeRecordsCleared:
		return true
	}
	return false
}

// ActivityEntry represents an event in the ledger audit log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectName  string       `json:"project_name"`
	RecordID     *string      `json:"record_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
