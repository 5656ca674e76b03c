package tracker

import (
	"context"

	"github.com/rs/zerolog"
)

// Synchronizer keeps Project.IsRunning in step with the project's tasks.
// The flag is a cache written after each timer transition, not a
// transactional view: a crash between the task write and the project write
// leaves it stale until the next start or stop in that project.
type Synchronizer struct {
	tasks    TaskStore
	projects ProjectStore
	clock    Clock
	log      zerolog.Logger
}

// NewSynchronizer creates a synchronizer over the given stores.
func NewSynchronizer(tasks TaskStore, projects ProjectStore, clock Clock, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{tasks: tasks, projects: projects, clock: clock, log: log}
}

// OnTaskStarted marks the project as running.
func (s *Synchronizer) OnTaskStarted(ctx context.Context, projectID string) error {
	return s.setRunning(ctx, projectID, true)
}

// OnTaskStopped clears the project's running flag unless another of the
// owner's tasks in it is still running.
func (s *Synchronizer) OnTaskStopped(ctx context.Context, projectID, ownerID string) error {
	n, err := s.tasks.CountRunningTasks(ctx, projectID, ownerID)
	if err != nil {
		return upstream("count running tasks", err)
	}
	if n > 0 {
		return nil
	}
	return s.setRunning(ctx, projectID, false)
}

func (s *Synchronizer) setRunning(ctx context.Context, projectID string, running bool) error {
	found, err := s.projects.SetProjectRunning(ctx, projectID, running, s.clock.Now())
	if err != nil {
		return upstream("update project running state", err)
	}
	if !found {
		s.log.Debug().Str("project_id", projectID).Msg("project gone, skipping running-state update")
		return nil
	}
	s.log.Debug().Str("project_id", projectID).Bool("running", running).Msg("project running state updated")
	return nil
}
