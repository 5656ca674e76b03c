package duration

import (
	"testing"
	"time"
)

func TestToSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want int64
	}{
		{0, 0},
		{999, 0},
		{1000, 1},
		{1999, 1},
		{3661000, 3661},
		{-1, -1},
		{-1000, -1},
		{-1001, -2},
	}

	for _, tt := range tests {
		if got := ToSeconds(tt.ms); got != tt.want {
			t.Errorf("ToSeconds(%d) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
		{360000, "100:00:00"},
		{-5, "00:00:00"},
	}

	for _, tt := range tests {
		if got := Format(tt.seconds); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestCalculate(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(3661 * time.Second)

	if got := Format(Calculate(&t0, &t1)); got != "01:01:01" {
		t.Errorf("Format(Calculate(t0, t0+3661s)) = %q, want 01:01:01", got)
	}

	if got := Calculate(nil, &t1); got != 0 {
		t.Errorf("Calculate(nil, t1) = %d, want 0", got)
	}
	if got := Calculate(&t0, nil); got != 0 {
		t.Errorf("Calculate(t0, nil) = %d, want 0", got)
	}

	var zero time.Time
	if got := Calculate(&zero, &t1); got != 0 {
		t.Errorf("Calculate(zero, t1) = %d, want 0", got)
	}

	// end before start clamps
	if got := Calculate(&t1, &t0); got != 0 {
		t.Errorf("Calculate(t1, t0) = %d, want 0", got)
	}
}

func TestElapsedTruncatesSubSecond(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if got := Elapsed(start, start.Add(1999*time.Millisecond)); got != 1 {
		t.Errorf("Elapsed(1.999s) = %d, want 1", got)
	}
	if got := Elapsed(start, start.Add(-10*time.Second)); got != 0 {
		t.Errorf("Elapsed(-10s) = %d, want 0", got)
	}
}
