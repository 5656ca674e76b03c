package tracker

import (
	"time"

	"github.com/dori/punch/internal/duration"
	"github.com/dori/punch/internal/model"
)

// startTimer moves t to Running at now. It returns false, leaving t
// untouched, when the timer is already running.
func startTimer(t *model.Task, now time.Time) bool {
	if t.IsRunning {
		return false
	}
	t.IsRunning = true
	t.StartTime = &now
	t.UpdatedAt = now
	return true
}

// stopTimer moves t to Stopped at now and accrues the elapsed whole seconds
// into Duration. It returns false, leaving t untouched, when the timer is
// not running.
func stopTimer(t *model.Task, now time.Time) (int64, bool) {
	if !t.Running() {
		return 0, false
	}
	elapsed := duration.Elapsed(*t.StartTime, now)

	t.Duration += elapsed
	t.EndTime = &now
	t.IsRunning = false
	t.StartTime = nil
	t.UpdatedAt = now
	return elapsed, true
}
