package report

import (
	"testing"
	"time"
)

func TestResolveToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)
	w := Resolve(FilterToday, now)

	if !w.HasStart || !w.HasEnd {
		t.Fatalf("today window must be bounded on both sides: %+v", w)
	}

	wantStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}
	if !w.End.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("End = %v, want %v", w.End, wantStart.AddDate(0, 0, 1))
	}
}

func TestResolveWeekStartsOnMonday(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{
			name:      "wednesday resolves to monday of same week",
			now:       time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), // Wednesday
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monday resolves to itself",
			now:       time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday resolves to previous monday",
			now:       time.Date(2025, 3, 16, 1, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Resolve(FilterWeek, tt.now)
			if !w.HasStart {
				t.Fatal("week window must bound the start")
			}
			if w.HasEnd {
				t.Fatal("week window must not bound the end")
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
		})
	}
}

func TestResolveMonthIsOneSided(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	w := Resolve(FilterMonth, now)

	if !w.HasStart || w.HasEnd {
		t.Fatalf("month window must only bound the start: %+v", w)
	}
	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}

	// A record dated after "now" still matches within the open end.
	future := now.AddDate(0, 0, 10)
	if !w.Contains(future) {
		t.Errorf("open-ended month window must include future date %v", future)
	}
}

func TestResolveUnknownTokenIsUnbounded(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	for _, filter := range []string{FilterAll, "", "quarter", "yesterday"} {
		w := Resolve(filter, now)
		if w.HasStart || w.HasEnd {
			t.Errorf("Resolve(%q) = %+v, want unbounded", filter, w)
		}
		if !w.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unbounded window must contain any date")
		}
	}
}

func TestWindowContainsIsHalfOpen(t *testing.T) {
	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	w := Window{Start: start, End: end, HasStart: true, HasEnd: true}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"exactly at start is included", start, true},
		{"inside the range is included", start.Add(12 * time.Hour), true},
		{"exactly at end is excluded", end, false},
		{"before start is excluded", start.Add(-time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
