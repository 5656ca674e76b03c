package ui

import (
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/tracker"
)

// tasksLoadedMsg carries the user's tasks and project names by id
type tasksLoadedMsg struct {
	tasks    []model.Task
	projects map[string]string
}

type reportLoadedMsg struct {
	report *Report
}

// timerMsg reports the outcome of a start or stop request
type timerMsg struct {
	result  *tracker.TimerResult
	started bool
}

// tickMsg drives the live elapsed time of running timers
type tickMsg time.Time

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}
