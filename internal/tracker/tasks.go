package tracker

import (
	"context"
	"strings"

	"github.com/dori/punch/internal/model"
	"github.com/rs/zerolog"
)

// TimerResult describes the outcome of a start or stop call.
type TimerResult struct {
	Task *model.Task
	// Changed is false when the call was an idempotent no-op.
	Changed bool
	// Elapsed holds the seconds added by a stop.
	Elapsed int64
}

// NewTask holds the input for TaskService.Create.
type NewTask struct {
	ProjectID   string
	Title       string
	Description string
	Status      model.Status
}

// TaskPatch lists the editable task fields. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.Status
	Duration    *int64
}

// TaskService owns task CRUD and the timer state machine.
type TaskService struct {
	tasks    TaskStore
	projects ProjectStore
	sync     *Synchronizer
	clock    Clock
	log      zerolog.Logger
}

// NewTaskService creates a task service.
func NewTaskService(tasks TaskStore, projects ProjectStore, sync *Synchronizer, clock Clock, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, sync: sync, clock: clock, log: log}
}

// Create adds a task to one of the caller's projects.
func (s *TaskService) Create(ctx context.Context, userID string, in NewTask) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, Invalid("title", "is required")
	}
	if in.ProjectID == "" {
		return nil, Invalid("project_id", "is required")
	}
	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.Valid() {
		return nil, Invalid("status", "must be one of todo, in-progress, done")
	}

	if _, err := s.project(ctx, userID, in.ProjectID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	task := &model.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		ProjectID:   in.ProjectID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, upstream("create task", err)
	}

	s.log.Info().Str("task_id", task.ID).Str("project_id", task.ProjectID).Str("user_id", userID).Msg("task created")
	return task, nil
}

// List returns the caller's tasks in a project.
func (s *TaskService) List(ctx context.Context, userID, projectID string) ([]model.Task, error) {
	if projectID == "" {
		return nil, Invalid("project_id", "is required")
	}
	if _, err := s.project(ctx, userID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, projectID, userID)
	if err != nil {
		return nil, upstream("list tasks", err)
	}
	return tasks, nil
}

// ListAll returns every task the caller owns.
func (s *TaskService) ListAll(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.tasks.ListUserTasks(ctx, userID)
	if err != nil {
		return nil, upstream("list tasks", err)
	}
	return tasks, nil
}

// Get returns one of the caller's tasks.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	return s.task(ctx, userID, id)
}

// Update applies patch to one of the caller's tasks. Timer fields are not
// editable here.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch TaskPatch) (*model.Task, error) {
	task, err := s.task(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, Invalid("title", "must not be empty")
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, Invalid("status", "must be one of todo, in-progress, done")
		}
		task.Status = *patch.Status
	}
	if patch.Duration != nil {
		if *patch.Duration < 0 {
			return nil, Invalid("duration", "must not be negative")
		}
		task.Duration = *patch.Duration
	}
	task.UpdatedAt = s.clock.Now()

	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, upstream("update task", err)
	}

	s.log.Info().Str("task_id", task.ID).Msg("task updated")
	return task, nil
}

// Delete removes one of the caller's tasks. Deleting a running task
// re-derives the project's running flag.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	task, err := s.task(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(ctx, task.ID); err != nil {
		return upstream("delete task", err)
	}
	if task.IsRunning {
		if err := s.sync.OnTaskStopped(ctx, task.ProjectID, userID); err != nil {
			return err
		}
	}

	s.log.Info().Str("task_id", task.ID).Msg("task deleted")
	return nil
}

// Start starts the task's timer. Starting a running task is a no-op.
func (s *TaskService) Start(ctx context.Context, userID, id string) (*TimerResult, error) {
	task, err := s.task(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !startTimer(task, s.clock.Now()) {
		return &TimerResult{Task: task}, nil
	}
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, upstream("start timer", err)
	}
	if err := s.sync.OnTaskStarted(ctx, task.ProjectID); err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("project_id", task.ProjectID).Msg("timer started")
	return &TimerResult{Task: task, Changed: true}, nil
}

// Stop stops the task's timer and accrues the elapsed time. Stopping a
// stopped task is a no-op.
func (s *TaskService) Stop(ctx context.Context, userID, id string) (*TimerResult, error) {
	task, err := s.task(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	elapsed, ok := stopTimer(task, s.clock.Now())
	if !ok {
		return &TimerResult{Task: task}, nil
	}
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, upstream("stop timer", err)
	}
	if err := s.sync.OnTaskStopped(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("project_id", task.ProjectID).Int64("elapsed", elapsed).Msg("timer stopped")
	return &TimerResult{Task: task, Changed: true, Elapsed: elapsed}, nil
}

func (s *TaskService) task(ctx context.Context, userID, id string) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, upstream("get task", err)
	}
	return authorize(task, userID)
}

func (s *TaskService) project(ctx context.Context, userID, id string) (*model.Project, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, upstream("get project", err)
	}
	return authorize(p, userID)
}
