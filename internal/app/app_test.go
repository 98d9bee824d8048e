package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dechenique1/fgr/internal/app"
	"github.com/dechenique1/fgr/internal/config"
	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func createTower(t *testing.T, a *app.App) {
	t.Helper()
	ctx := context.Background()
	_, err := a.Projects.Create(ctx, "alice", project.CreateRequest{
		Name: "Tower", TotalArea: 1000, WasteTypes: []string{"concrete"},
	})
	require.NoError(t, err)
	_, err = a.Projects.AppendRecord(ctx, "alice", project.AppendRequest{
		Project: "Tower", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CumulativeProgressPct: 20, WasteBreakdown: record.WasteBreakdown{"concrete": 10},
	})
	require.NoError(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "nested", "fgr.db")

	a, err := app.Open(cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Activity)
	require.NotNil(t, a.Keys)

	createTower(t, a)

	entries, err := a.Activity.GetRecentActivity(context.Background(), "alice", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeRecordAppended, entries[0].ActivityType)
}

func TestOpen_File(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendFile
	cfg.Store.DataDir = t.TempDir()

	a, err := app.Open(cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	require.Nil(t, a.Activity)

	createTower(t, a)
	require.FileExists(t, filepath.Join(cfg.Store.DataDir, "alice_projects.json"))

	// A second app over the same directory sees the same ledger.
	again, err := app.Open(cfg, nil)
	require.NoError(t, err)
	proj, err := again.Projects.Get(context.Background(), "alice", "Tower")
	require.NoError(t, err)
	require.Equal(t, 1, proj.Ledger.Len())
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "postgres"
	_, err := app.Open(cfg, nil)
	require.Error(t, err)
}
