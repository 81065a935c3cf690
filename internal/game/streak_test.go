package game

import "testing"

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		lastDate string
		date     string
		wantNext int
		wantGap  int
	}{
		{name: "first completion", current: 0, lastDate: "", date: "2026-03-05", wantNext: 1},
		{name: "consecutive day extends", current: 3, lastDate: "2026-03-04", date: "2026-03-05", wantNext: 4},
		{name: "same date is a no-op", current: 3, lastDate: "2026-03-05", date: "2026-03-05", wantNext: 3},
		{name: "one-day gap resets", current: 5, lastDate: "2026-03-02", date: "2026-03-04", wantNext: 1, wantGap: 1},
		{name: "long gap resets with recovery", current: 9, lastDate: "2026-03-01", date: "2026-03-08", wantNext: 1, wantGap: 6},
		{name: "back-filled older day ignored", current: 4, lastDate: "2026-03-08", date: "2026-03-05", wantNext: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, gap := NextStreak(tt.current, tt.lastDate, tt.date)
			if next != tt.wantNext || gap != tt.wantGap {
				t.Errorf("NextStreak(%d, %q, %q) = (%d, %d), want (%d, %d)",
					tt.current, tt.lastDate, tt.date, next, gap, tt.wantNext, tt.wantGap)
			}
		})
	}
}
