package game

import (
	"errors"
	"testing"
	"time"
)

func chicago(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, Location())
}

func TestResolveDay(t *testing.T) {
	tests := []struct {
		name        string
		startDate   string
		cycleLength int
		now         time.Time
		override    int
		wantCurrent int
		wantTarget  int
		wantDate    string
		wantErr     error
	}{
		{
			name:        "first day",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 2, 9, 0),
			wantCurrent: 1,
			wantTarget:  1,
			wantDate:    "2026-03-02",
		},
		{
			name:        "mid cycle",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 5, 23, 59),
			wantCurrent: 4,
			wantTarget:  4,
			wantDate:    "2026-03-05",
		},
		{
			name:        "clamped past the final day",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 20, 12, 0),
			wantCurrent: 7,
			wantTarget:  7,
			wantDate:    "2026-03-08",
		},
		{
			name:        "explicit past day",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 5, 12, 0),
			override:    2,
			wantCurrent: 4,
			wantTarget:  2,
			wantDate:    "2026-03-03",
		},
		{
			name:        "day zero invalid",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 5, 12, 0),
			override:    -1,
			wantErr:     ErrInvalidDay,
		},
		{
			name:        "day beyond cycle invalid",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 5, 12, 0),
			override:    8,
			wantErr:     ErrInvalidDay,
		},
		{
			name:        "future day locked",
			startDate:   "2026-03-02",
			cycleLength: 7,
			now:         chicago(2026, time.March, 5, 12, 0),
			override:    5,
			wantErr:     ErrFutureLocked,
		},
		{
			name:        "spring DST transition does not shift the day",
			startDate:   "2026-03-06",
			cycleLength: 7,
			now:         chicago(2026, time.March, 9, 8, 0), // DST began March 8
			wantCurrent: 4,
			wantTarget:  4,
			wantDate:    "2026-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ResolveDay(tt.startDate, tt.cycleLength, tt.now, tt.override)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveDay() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDay() unexpected error: %v", err)
			}
			if info.CurrentDay != tt.wantCurrent {
				t.Errorf("CurrentDay = %d, want %d", info.CurrentDay, tt.wantCurrent)
			}
			if info.TargetDay != tt.wantTarget {
				t.Errorf("TargetDay = %d, want %d", info.TargetDay, tt.wantTarget)
			}
			if got := info.TargetDateString(); got != tt.wantDate {
				t.Errorf("TargetDate = %s, want %s", got, tt.wantDate)
			}
		})
	}
}

func TestAfterHours(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		day  int
		want bool
	}{
		{name: "final day before cutoff", now: chicago(2026, time.March, 8, 19, 59), day: 7, want: false},
		{name: "final day at cutoff", now: chicago(2026, time.March, 8, 20, 0), day: 7, want: true},
		{name: "final day after cutoff", now: chicago(2026, time.March, 8, 22, 30), day: 7, want: true},
		{name: "mid-cycle evening unaffected", now: chicago(2026, time.March, 5, 21, 0), day: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ResolveDay("2026-03-02", 7, tt.now, 0)
			if err != nil {
				t.Fatalf("ResolveDay() error: %v", err)
			}
			if info.TargetDay != tt.day {
				t.Fatalf("fixture drift: target day %d, want %d", info.TargetDay, tt.day)
			}
			if got := AfterHours(info, tt.now); got != tt.want {
				t.Errorf("AfterHours(%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestAfterHoursOnlyAppliesToCurrentDay(t *testing.T) {
	// Replaying the final day after the cycle would have moved on is
	// impossible, but a past-day override on the final calendar day
	// must not trip the cutoff.
	now := chicago(2026, time.March, 8, 21, 0)
	info, err := ResolveDay("2026-03-02", 7, now, 3)
	if err != nil {
		t.Fatalf("ResolveDay() error: %v", err)
	}
	if AfterHours(info, now) {
		t.Error("cutoff applied to a non-final target day")
	}
}

func TestMaxRows(t *testing.T) {
	tests := []struct {
		name string
		dd   bool
		cut  bool
		want int
	}{
		{name: "default", want: 6},
		{name: "double down", dd: true, want: 3},
		{name: "executioners cut", cut: true, want: 5},
		{name: "double down and cut", dd: true, cut: true, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxRows(tt.dd, tt.cut); got != tt.want {
				t.Errorf("MaxRows(%v, %v) = %d, want %d", tt.dd, tt.cut, got, tt.want)
			}
		})
	}
}

func TestScoringTables(t *testing.T) {
	wantTroops := []int{150, 100, 60, 40, 30, 10}
	wantCoins := []int{6, 5, 4, 3, 2, 1}
	for row := 0; row < 6; row++ {
		if got := TroopsForRow(row); got != wantTroops[row] {
			t.Errorf("TroopsForRow(%d) = %d, want %d", row, got, wantTroops[row])
		}
		if got := CoinsForRow(row); got != wantCoins[row] {
			t.Errorf("CoinsForRow(%d) = %d, want %d", row, got, wantCoins[row])
		}
	}
	if got := TroopsForRow(6); got != 0 {
		t.Errorf("TroopsForRow(6) = %d, want 0", got)
	}
}
