package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/tracker"
)

type fakeReports struct {
	activityCalls int
}

func (f *fakeReports) TaskStatusCounts(ctx context.Context, userID string) (model.StatusCounts, error) {
	return model.StatusCounts{Todo: 2, InProgress: 1, Done: 3}, nil
}

func (f *fakeReports) TotalTimeSpent(ctx context.Context, userID string) (model.TimeSpent, error) {
	return model.TimeSpent{TotalDuration: 5400, Formatted: "01:30:00"}, nil
}

func (f *fakeReports) ProjectSummary(ctx context.Context, userID string) ([]model.ProjectSummary, error) {
	return []model.ProjectSummary{
		{ProjectID: "p1", ProjectName: "site", TotalTasks: 4, CompletedTasks: 3, TimeSpent: 3600, FormattedTimeSpent: "01:00:00"},
		{ProjectID: "p2", ProjectName: tracker.UnknownProject, TotalTasks: 2, TimeSpent: 1800, FormattedTimeSpent: "00:30:00"},
	}, nil
}

func (f *fakeReports) ActivityByRange(ctx context.Context, userID, from, to string) (*model.Activity, error) {
	f.activityCalls++
	if from == "" || to == "" {
		return nil, &tracker.ValidationError{Message: "both 'from' and 'to' date parameters are required"}
	}
	task := model.Task{Title: "header", Status: model.StatusDone, UpdatedAt: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
	return &model.Activity{Count: 1, Tasks: []model.ActivityTask{{Task: task, FormattedDuration: "00:25:00"}}}, nil
}

func TestLoadReportSkipsActivityWithoutRange(t *testing.T) {
	src := &fakeReports{}

	r, err := LoadReport(context.Background(), src, "u1", "", "")
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if r.Activity != nil || src.activityCalls != 0 {
		t.Error("activity queried without a range")
	}
}

func TestLoadReportRejectsHalfRange(t *testing.T) {
	_, err := LoadReport(context.Background(), &fakeReports{}, "u1", "2024-06-01", "")
	if !tracker.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestRenderReport(t *testing.T) {
	r, err := LoadReport(context.Background(), &fakeReports{}, "u1", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}

	out := RenderReport(r)
	for _, want := range []string{"01:30:00", "site", tracker.UnknownProject, "3/4 done", "00:25:00", "header", "2024-06-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	out := RenderReport(&Report{Spent: model.TimeSpent{Formatted: "00:00:00"}})
	if !strings.Contains(out, "No tracked tasks yet") {
		t.Errorf("empty report:\n%s", out)
	}
}
