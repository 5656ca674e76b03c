// Package duration converts elapsed wall-clock time to whole seconds and
// renders second counts as HH:MM:SS.
//
// Negative spans are clamped to zero everywhere: Calculate, Elapsed and Format
// never produce or render a negative duration.
package duration

import (
	"fmt"
	"time"
)

// ToSeconds converts milliseconds to seconds, rounding toward negative infinity.
func ToSeconds(ms int64) int64 {
	s := ms / 1000
	if ms%1000 < 0 {
		s--
	}
	return s
}

// Format renders totalSeconds as HH:MM:SS. Hours are not wrapped at 24.
func Format(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Calculate returns the whole seconds between start and end, or 0 when
// either bound is missing or end precedes start.
func Calculate(start, end *time.Time) int64 {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return 0
	}
	return Elapsed(*start, *end)
}

// Elapsed returns the whole seconds from start to now, clamped at zero.
func Elapsed(start, now time.Time) int64 {
	s := ToSeconds(now.Sub(start).Milliseconds())
	if s < 0 {
		return 0
	}
	return s
}
