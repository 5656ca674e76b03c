package model

import (
	"time"
)

// Status represents the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of tracked work inside a project
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Duration    int64      `json:"duration"` // Seconds
	IsRunning   bool       `json:"is_running"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	ProjectID   string     `json:"project_id"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerID returns the id of the user the task belongs to
func (t *Task) OwnerID() string {
	return t.UserID
}

// Running reports whether the timer is active. A task counts as stopped when
// either half of the running pair is missing.
func (t *Task) Running() bool {
	return t.IsRunning && t.StartTime != nil
}
