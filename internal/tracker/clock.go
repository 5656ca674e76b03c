package tracker

import "time"

// Clock is the wall-clock source used by the timer and services.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the real time.
var SystemClock Clock = ClockFunc(time.Now)
