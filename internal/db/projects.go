package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/google/uuid"
)

const projectColumns = `id, name, description, start_time, is_running, user_id, created_at, updated_at`

// ListProjects returns every project owned by userID
func (db *DB) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE user_id = ?
		ORDER BY created_at, name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by ID, or nil if it does not exist
func (db *DB) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// CreateProject inserts p, assigning an ID when it has none
func (db *DB) CreateProject(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, start_time, is_running, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, utc(p.StartTime), p.IsRunning, p.UserID, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return err
}

// UpdateProject writes the editable fields of p. The running flag is left
// alone; use SetProjectRunning for that.
func (db *DB) UpdateProject(ctx context.Context, p *model.Project) error {
	_, err := db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, start_time = ?, updated_at = ? WHERE id = ?
	`, p.Name, p.Description, utc(p.StartTime), p.UpdatedAt.UTC(), p.ID)
	return err
}

// SetProjectRunning stores the cached running flag. It reports false when no
// project with that ID exists.
func (db *DB) SetProjectRunning(ctx context.Context, id string, running bool, at time.Time) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE projects SET is_running = ?, updated_at = ? WHERE id = ?
	`, running, at.UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteProject deletes a project together with all of its tasks
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		return err
	})
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	var startTime *time.Time

	err := s.Scan(
		&p.ID, &p.Name, &p.Description, &startTime, &p.IsRunning,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.StartTime = startTime
	return &p, nil
}
