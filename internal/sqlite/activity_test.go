package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		ProjectName:  "Tower",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project Tower",
		Details:      `{"total_area":1000}`,
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ProjectName:  "Tower",
		ActivityType: activity.TypeRecordAppended,
		Summary:      "recorded 20.00%",
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, "tenant1", entry1))
	require.NoError(t, repo.Log(ctx, "tenant1", entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, "tenant1", entry1.TenantID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{ProjectName: "Tower"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, entry1.Details, entries[1].Details)
	require.Empty(t, entries[0].Details)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeProjectCreated, entries[0].ActivityType)
}

func TestActivityRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	recordID := "r1"
	entry := &activity.ActivityEntry{
		ProjectName:  "Tower",
		RecordID:     &recordID,
		ActivityType: activity.TypeRecordEdited,
		Summary:      "edited record",
		Details:      "{}",
	}
	require.NoError(t, repo.Log(ctx, "tenant1", entry))
	require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
		ProjectName:  "Annex",
		ActivityType: activity.TypeRecordsCleared,
		Summary:      "cleared 0 records",
	}))

	activityType := activity.TypeRecordEdited
	opts := activity.ListActivityOptions{
		ProjectName:  "Tower",
		RecordID:     &recordID,
		ActivityType: &activityType,
	}
	entries, err := repo.List(ctx, "tenant1", opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].RecordID)
	require.Equal(t, recordID, *entries[0].RecordID)

	entries, err = repo.List(ctx, "tenant2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}
