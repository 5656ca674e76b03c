package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/dori/punch/internal/model"
)

func TestTaskStatusCountsEmpty(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "a@example.com")

	got, err := f.reports.TaskStatusCounts(context.Background(), uid)
	if err != nil {
		t.Fatalf("TaskStatusCounts failed: %v", err)
	}
	if got != (model.StatusCounts{}) {
		t.Errorf("counts = %+v, want all zero", got)
	}
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "a@example.com")
	other := f.user(t, "b@example.com")

	alpha := f.project(t, uid, "Alpha")
	beta := f.project(t, uid, "Beta")
	f.project(t, uid, "Empty")
	foreign := f.project(t, other, "Foreign")

	done := model.StatusDone
	inProgress := model.StatusInProgress
	set := func(task *model.Task, status *model.Status, secs int64) {
		t.Helper()
		if _, err := f.tasks.Update(ctx, uid, task.ID, TaskPatch{Status: status, Duration: &secs}); err != nil {
			t.Fatal(err)
		}
	}

	set(f.task(t, uid, alpha.ID, "a1"), &done, 3600)
	set(f.task(t, uid, alpha.ID, "a2"), &inProgress, 61)
	set(f.task(t, uid, beta.ID, "b1"), nil, 0)
	f.task(t, other, foreign.ID, "not mine")

	counts, err := f.reports.TaskStatusCounts(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if counts != (model.StatusCounts{Todo: 1, InProgress: 1, Done: 1}) {
		t.Errorf("counts = %+v", counts)
	}

	spent, err := f.reports.TotalTimeSpent(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if spent.TotalDuration != 3661 || spent.Formatted != "01:01:01" {
		t.Errorf("time spent = %+v", spent)
	}

	summary, err := f.reports.ProjectSummary(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 {
		t.Fatalf("summary has %d rows, want 2 (projects without tasks are omitted)", len(summary))
	}
	byName := map[string]model.ProjectSummary{}
	for _, s := range summary {
		byName[s.ProjectName] = s
	}
	a := byName["Alpha"]
	if a.TotalTasks != 2 || a.CompletedTasks != 1 || a.TimeSpent != 3661 || a.FormattedTimeSpent != "01:01:01" {
		t.Errorf("alpha summary = %+v", a)
	}
	if b := byName["Beta"]; b.TotalTasks != 1 || b.CompletedTasks != 0 || b.FormattedTimeSpent != "00:00:00" {
		t.Errorf("beta summary = %+v", b)
	}
}

func TestProjectSummaryUnknownFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "a@example.com")
	other := f.user(t, "b@example.com")
	foreign := f.project(t, other, "Foreign")

	// a task whose project the user does not own cannot be labelled
	now := f.clock.Now()
	orphan := &model.Task{Title: "orphan", Status: model.StatusTodo, ProjectID: foreign.ID, UserID: uid,
		CreatedAt: now, UpdatedAt: now}
	if err := f.db.CreateTask(ctx, orphan); err != nil {
		t.Fatal(err)
	}

	summary, err := f.reports.ProjectSummary(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0].ProjectName != UnknownProject {
		t.Errorf("summary = %+v, want one %q row", summary, UnknownProject)
	}
}

func TestActivityByRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "a@example.com")
	p := f.project(t, uid, "Alpha")

	// fixture clock starts at 2024-06-03T09:00:00Z
	f.task(t, uid, p.ID, "monday")
	f.clock.Advance(48 * time.Hour)
	wed := f.task(t, uid, p.ID, "wednesday")
	f.tasks.Start(ctx, uid, wed.ID)
	f.clock.Advance(75 * time.Second)
	f.tasks.Stop(ctx, uid, wed.ID)

	got, err := f.reports.ActivityByRange(ctx, uid, "2024-06-04", "2024-06-06")
	if err != nil {
		t.Fatalf("ActivityByRange failed: %v", err)
	}
	if got.Count != 1 || len(got.Tasks) != 1 {
		t.Fatalf("count = %d, want 1", got.Count)
	}
	if got.Tasks[0].Title != "wednesday" || got.Tasks[0].FormattedDuration != "00:01:15" {
		t.Errorf("activity task = %+v", got.Tasks[0])
	}

	// inclusive bounds
	got, err = f.reports.ActivityByRange(ctx, uid, "2024-06-03T09:00:00Z", "2024-06-05T09:01:15Z")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 {
		t.Errorf("inclusive count = %d, want 2", got.Count)
	}

	// inverted range is empty, not an error
	got, err = f.reports.ActivityByRange(ctx, uid, "2024-06-06", "2024-06-01")
	if err != nil {
		t.Fatalf("inverted range failed: %v", err)
	}
	if got.Count != 0 || len(got.Tasks) != 0 {
		t.Errorf("inverted range count = %d, want 0", got.Count)
	}
}

func TestActivityByRangeBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "a@example.com")

	if _, err := f.reports.ActivityByRange(ctx, uid, "", "2024-01-01"); !IsValidation(err) {
		t.Errorf("missing from = %v, want validation error", err)
	}
	if _, err := f.reports.ActivityByRange(ctx, uid, "2024-01-01", " "); !IsValidation(err) {
		t.Errorf("missing to = %v, want validation error", err)
	}

	_, err := f.reports.ActivityByRange(ctx, uid, "yesterday", "2024-01-01")
	if err == nil {
		t.Fatal("unparseable bound accepted")
	}
	if IsValidation(err) {
		t.Error("unparseable bound reported as validation error")
	}
}
