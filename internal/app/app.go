package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/punch/internal/auth"
	"github.com/dori/punch/internal/config"
	"github.com/dori/punch/internal/db"
	"github.com/dori/punch/internal/logging"
	"github.com/dori/punch/internal/tracker"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Log      zerolog.Logger
	Clock    tracker.Clock
	Auth     *auth.Service
	Projects *tracker.ProjectService
	Tasks    *tracker.TaskService
	Reports  *tracker.Reporter
	lockFile *flock.Flock
}

// New creates a new application instance. Several instances may share a
// data directory; only servers take the lock (see LockServer).
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config: cfg,
		Log:    log,
		Clock:  tracker.SystemClock,
	}

	database, err := db.Open(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database
	app.wire()

	return app, nil
}

func (a *App) wire() {
	sync := tracker.NewSynchronizer(a.DB, a.DB, a.Clock, logging.Component(a.Log, "sync"))

	a.Auth = auth.NewService(a.DB, a.Clock, a.Config.SessionTTL, logging.Component(a.Log, "auth"))
	a.Projects = tracker.NewProjectService(a.DB, a.Clock, logging.Component(a.Log, "projects"))
	a.Tasks = tracker.NewTaskService(a.DB, a.DB, sync, a.Clock, logging.Component(a.Log, "tasks"))
	a.Reports = tracker.NewReporter(a.DB)
}

// LockServer takes an exclusive lock on serve.lock in the data directory,
// held until Close, so that two servers never share one database.
// Dashboards and reports do not lock.
func (a *App) LockServer() error {
	lockFile := flock.New(filepath.Join(a.Config.DataDir, "serve.lock"))

	locked, err := lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another punch server is using %s", a.Config.DataDir)
	}

	a.lockFile = lockFile
	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
