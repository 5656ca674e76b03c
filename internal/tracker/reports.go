package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dori/punch/internal/duration"
	"github.com/dori/punch/internal/model"
)

// UnknownProject labels summary rows whose project record is missing.
const UnknownProject = "Unknown"

// Reporter computes read-only summaries over a user's tasks.
type Reporter struct {
	store ReportStore
}

// NewReporter creates a reporter.
func NewReporter(store ReportStore) *Reporter {
	return &Reporter{store: store}
}

// TaskStatusCounts returns the number of the user's tasks per status. All
// statuses are present, zero when absent.
func (r *Reporter) TaskStatusCounts(ctx context.Context, userID string) (model.StatusCounts, error) {
	var counts model.StatusCounts

	grouped, err := r.store.CountTasksByStatus(ctx, userID)
	if err != nil {
		return counts, upstream("count tasks by status", err)
	}
	for status, n := range grouped {
		counts.Set(status, n)
	}
	return counts, nil
}

// TotalTimeSpent sums the recorded duration of all the user's tasks.
func (r *Reporter) TotalTimeSpent(ctx context.Context, userID string) (model.TimeSpent, error) {
	total, err := r.store.SumTaskDuration(ctx, userID)
	if err != nil {
		return model.TimeSpent{}, upstream("sum task duration", err)
	}
	return model.TimeSpent{TotalDuration: total, Formatted: duration.Format(total)}, nil
}

// ProjectSummary aggregates task counts and time per project that has at
// least one of the user's tasks.
func (r *Reporter) ProjectSummary(ctx context.Context, userID string) ([]model.ProjectSummary, error) {
	totals, err := r.store.ProjectTotals(ctx, userID)
	if err != nil {
		return nil, upstream("summarize projects", err)
	}

	summary := make([]model.ProjectSummary, 0, len(totals))
	for _, t := range totals {
		name := t.ProjectName
		if name == "" {
			name = UnknownProject
		}
		summary = append(summary, model.ProjectSummary{
			ProjectID:          t.ProjectID,
			ProjectName:        name,
			TotalTasks:         t.TotalTasks,
			CompletedTasks:     t.CompletedTasks,
			TimeSpent:          t.TimeSpent,
			FormattedTimeSpent: duration.Format(t.TimeSpent),
		})
	}
	return summary, nil
}

// ActivityByRange returns the user's tasks updated within [from, to].
// Both bounds are required. Bounds that do not parse fail as a plain error,
// not a ValidationError.
func (r *Reporter) ActivityByRange(ctx context.Context, userID, from, to string) (*model.Activity, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, &ValidationError{Message: "both 'from' and 'to' date parameters are required"}
	}

	start, err := ParseBound(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseBound(to)
	if err != nil {
		return nil, err
	}

	tasks, err := r.store.TasksUpdatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, upstream("query activity", err)
	}

	activity := &model.Activity{Count: len(tasks), Tasks: make([]model.ActivityTask, 0, len(tasks))}
	for _, t := range tasks {
		activity.Tasks = append(activity.Tasks, model.ActivityTask{
			Task:              t,
			FormattedDuration: duration.Format(t.Duration),
		})
	}
	return activity, nil
}

var boundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseBound parses an activity range bound. Values without a zone are UTC.
func ParseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
