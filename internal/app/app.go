// Package app wires storage and services from configuration.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dechenique1/fgr/internal/config"
	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/filestore"
	"github.com/dechenique1/fgr/internal/repository"
	"github.com/dechenique1/fgr/internal/sqlite"
)

// App holds the wired services. Activity and Keys are nil on the file
// backend, which keeps neither an audit log nor API keys.
type App struct {
	Projects *project.Service
	Activity *activity.Service
	Keys     *sqlite.APIKeyRepository
	DB       *sqlite.DB

	closers []func() error
}

// Open builds the store selected by cfg and the services over it.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{}
	var docs repository.DocumentRepository
	var activities project.ActivityRepository

	switch cfg.Store.Backend {
	case config.BackendFile:
		docs = filestore.New(cfg.Store.DataDir)
		logger.Debug("using file store", "dir", cfg.Store.DataDir)
	case config.BackendSQLite:
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, fmt.Errorf("preparing database path: %w", err)
		}
		db, err := sqlite.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
		a.Keys = sqlite.NewAPIKeyRepository(db)
		a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
		docs = sqlite.NewDocumentRepository(db)
		activities = a.Activity
		logger.Debug("using sqlite store", "path", cfg.DB.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	a.Projects = project.NewService(docs, activities, logger,
		project.WithStrictEdits(cfg.Ledger.StrictEdits))
	return a, nil
}

// Close releases the store.
func (a *App) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
