package db

import (
	"context"
	"time"

	"github.com/dori/punch/internal/model"
)

// CountTasksByStatus groups userID's tasks by status
func (db *DB) CountTasksByStatus(ctx context.Context, userID string) (map[model.Status]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM tasks
		WHERE user_id = ?
		GROUP BY status
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status model.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SumTaskDuration returns the total recorded seconds across userID's tasks
func (db *DB) SumTaskDuration(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration), 0) FROM tasks WHERE user_id = ?
	`, userID).Scan(&total)
	return total, err
}

// ProjectTotals aggregates userID's tasks per project. Projects are joined
// only when owned by the same user; a missing join leaves ProjectName empty.
func (db *DB) ProjectTotals(ctx context.Context, userID string) ([]model.ProjectTotals, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.project_id,
		       COALESCE(p.name, ''),
		       COUNT(*),
		       SUM(CASE WHEN t.status = 'done' THEN 1 ELSE 0 END),
		       COALESCE(SUM(t.duration), 0)
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id AND p.user_id = t.user_id
		WHERE t.user_id = ?
		GROUP BY t.project_id, p.name
		ORDER BY MIN(t.created_at)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []model.ProjectTotals{}
	for rows.Next() {
		var pt model.ProjectTotals
		if err := rows.Scan(&pt.ProjectID, &pt.ProjectName, &pt.TotalTasks, &pt.CompletedTasks, &pt.TimeSpent); err != nil {
			return nil, err
		}
		totals = append(totals, pt)
	}
	return totals, rows.Err()
}

// TasksUpdatedBetween returns userID's tasks whose updated_at lies in
// [from, to]. An inverted range matches nothing.
func (db *DB) TasksUpdatedBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ? AND updated_at >= ? AND updated_at <= ?
		ORDER BY updated_at
	`, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}
