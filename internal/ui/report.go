package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/ui/theme"
)

// ReportSource is the subset of tracker.Reporter the renderer needs
type ReportSource interface {
	TaskStatusCounts(ctx context.Context, userID string) (model.StatusCounts, error)
	TotalTimeSpent(ctx context.Context, userID string) (model.TimeSpent, error)
	ProjectSummary(ctx context.Context, userID string) ([]model.ProjectSummary, error)
	ActivityByRange(ctx context.Context, userID, from, to string) (*model.Activity, error)
}

// Report bundles the four reports for one user
type Report struct {
	Counts   model.StatusCounts
	Spent    model.TimeSpent
	Projects []model.ProjectSummary

	// Activity is nil unless a range was requested.
	Activity *model.Activity
	From, To string
}

// LoadReport gathers the reports for userID. The activity report is only
// queried when from or to is set; a half-open range is rejected by the
// reporter.
func LoadReport(ctx context.Context, src ReportSource, userID, from, to string) (*Report, error) {
	counts, err := src.TaskStatusCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	spent, err := src.TotalTimeSpent(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects, err := src.ProjectSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := &Report{Counts: counts, Spent: spent, Projects: projects, From: from, To: to}
	if from != "" || to != "" {
		if r.Activity, err = src.ActivityByRange(ctx, userID, from, to); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RenderReport renders r with the current theme
func RenderReport(r *Report) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string
	sections = append(sections, styles.Title.Render("Report"), "")

	card := func(value, label string, color lipgloss.Color) string {
		return styles.Card.Render(
			lipgloss.NewStyle().Bold(true).Foreground(color).Render(value) + "\n" +
				styles.Label.Render(label),
		)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", r.Counts.Todo), "To do", t.StatusTodo),
		card(fmt.Sprintf("%d", r.Counts.InProgress), "In progress", t.StatusInProgress),
		card(fmt.Sprintf("%d", r.Counts.Done), "Done", t.StatusDone),
		card(r.Spent.Formatted, "Time tracked", t.Primary),
	)
	sections = append(sections, cards, "")

	sections = append(sections, renderProjectTime(r.Projects))

	if r.Activity != nil {
		sections = append(sections, "", renderActivity(r))
	}

	return strings.Join(sections, "\n")
}

// renderProjectTime renders time tracked per project as horizontal bars
func renderProjectTime(projects []model.ProjectSummary) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	lines := []string{styles.Subtitle.Render("Time by Project")}
	if len(projects) == 0 {
		return strings.Join(append(lines, styles.Label.Render("No tracked tasks yet")), "\n")
	}

	var maxSpent int64 = 1
	for _, p := range projects {
		if p.TimeSpent > maxSpent {
			maxSpent = p.TimeSpent
		}
	}

	const barMaxWidth = 30
	bar := lipgloss.NewStyle().Foreground(t.Info).Width(barMaxWidth)
	for _, p := range projects {
		width := int(float64(p.TimeSpent) / float64(maxSpent) * barMaxWidth)
		if width < 1 && p.TimeSpent > 0 {
			width = 1
		}

		name := []rune(p.ProjectName)
		if len(name) > 15 {
			name = append(name[:14], '…')
		}
		lines = append(lines, fmt.Sprintf("%-15s %s %s  %s",
			string(name),
			bar.Render(strings.Repeat("█", width)),
			p.FormattedTimeSpent,
			styles.Label.Render(fmt.Sprintf("%d/%d done", p.CompletedTasks, p.TotalTasks)),
		))
	}
	return strings.Join(lines, "\n")
}

func renderActivity(r *Report) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	lines := []string{styles.Subtitle.Render(fmt.Sprintf("Activity %s → %s (%d)", r.From, r.To, r.Activity.Count))}
	for _, at := range r.Activity.Tasks {
		status := lipgloss.NewStyle().Foreground(t.StatusColor(at.Status)).Render(string(at.Status))
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			at.UpdatedAt.Local().Format("2006-01-02 15:04"),
			at.FormattedDuration,
			at.Title,
			status,
		))
	}
	return strings.Join(lines, "\n")
}
