package tracker

import (
	"context"
	"time"

	"github.com/dori/punch/internal/model"
)

// Lookups return (nil, nil) when the row does not exist.

// TaskStore persists tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, projectID, userID string) ([]model.Task, error)
	ListUserTasks(ctx context.Context, userID string) ([]model.Task, error)
	SaveTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id string) error
	CountRunningTasks(ctx context.Context, projectID, userID string) (int, error)
}

// ProjectStore persists projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, userID string) ([]model.Project, error)
	UpdateProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error
	SetProjectRunning(ctx context.Context, id string, running bool, at time.Time) (bool, error)
}

// ReportStore runs the read-only aggregate queries.
type ReportStore interface {
	CountTasksByStatus(ctx context.Context, userID string) (map[model.Status]int, error)
	SumTaskDuration(ctx context.Context, userID string) (int64, error)
	ProjectTotals(ctx context.Context, userID string) ([]model.ProjectTotals, error)
	TasksUpdatedBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Task, error)
}
