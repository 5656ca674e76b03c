package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/google/uuid"
)

const taskColumns = `id, title, description, status, duration, is_running, start_time, end_time,
		       project_id, user_id, created_at, updated_at`

// ListTasks returns the tasks of a project that belong to userID
func (db *DB) ListTasks(ctx context.Context, projectID, userID string) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = ? AND user_id = ?
		ORDER BY
			CASE status WHEN 'done' THEN 1 ELSE 0 END,
			created_at
	`, projectID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListUserTasks returns every task owned by userID
func (db *DB) ListUserTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY project_id, created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns a single task by ID, or nil if it does not exist
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// CreateTask inserts t, assigning an ID when it has none
func (db *DB) CreateTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, duration, is_running, start_time, end_time,
		                   project_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, t.Status, t.Duration, t.IsRunning, utc(t.StartTime), utc(t.EndTime),
		t.ProjectID, t.UserID, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	return err
}

// SaveTask overwrites every mutable column of t. Concurrent saves of the same
// task are last-write-wins.
func (db *DB) SaveTask(ctx context.Context, t *model.Task) error {
	_, err := db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, duration = ?, is_running = ?,
		    start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Status, t.Duration, t.IsRunning,
		utc(t.StartTime), utc(t.EndTime), t.UpdatedAt.UTC(), t.ID)
	return err
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// CountRunningTasks returns how many of userID's tasks in a project have a
// running timer
func (db *DB) CountRunningTasks(ctx context.Context, projectID, userID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = ? AND user_id = ? AND is_running = 1
	`, projectID, userID).Scan(&count)
	return count, err
}

// Helper functions

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var startTime, endTime *time.Time

	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Duration, &t.IsRunning,
		&startTime, &endTime, &t.ProjectID, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.StartTime = startTime
	t.EndTime = endTime
	return &t, nil
}
