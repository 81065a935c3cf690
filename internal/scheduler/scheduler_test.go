package scheduler

import (
	"testing"
	"time"

	"wordrealm/internal/game"
)

func TestNextRollover(t *testing.T) {
	loc := game.Location()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "evening rolls to next morning",
			now:  time.Date(2026, 3, 10, 22, 0, 0, 0, loc),
			want: time.Date(2026, 3, 11, 0, 5, 0, 0, loc),
		},
		{
			name: "just after midnight fires same day",
			now:  time.Date(2026, 3, 10, 0, 1, 0, 0, loc),
			want: time.Date(2026, 3, 10, 0, 5, 0, 0, loc),
		},
		{
			name: "exactly at the rollover waits a day",
			now:  time.Date(2026, 3, 10, 0, 5, 0, 0, loc),
			want: time.Date(2026, 3, 11, 0, 5, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRollover(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextRollover(%s) = %s, want %s",
					tt.now.Format(time.RFC3339), got.Format(time.RFC3339), tt.want.Format(time.RFC3339))
			}
		})
	}
}
