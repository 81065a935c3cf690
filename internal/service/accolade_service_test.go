package service

import (
	"sort"
	"testing"
	"time"

	"wordrealm/internal/game"
)

// at builds a submission time at the given hour in the campaign timezone
func at(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 30, 0, 0, game.Location())
}

// baseOutcome is a mid-cycle solve that earns nothing on its own
func baseOutcome() TerminalOutcome {
	return TerminalOutcome{
		UserID:          1,
		CampaignID:      1,
		Date:            "2026-03-10",
		Day:             3,
		CycleLength:     7,
		Solved:          true,
		Row:             3,
		MaxRows:         6,
		Streak:          2,
		TotalDaysPlayed: 3,
		SolversBefore:   1,
		SubmittedAt:     at(12),
	}
}

func TestTerminalBadges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *TerminalOutcome)
		want   []string
	}{
		{
			name:   "plain mid-board solve earns nothing",
			mutate: func(o *TerminalOutcome) {},
			want:   nil,
		},
		{
			name:   "first row solve",
			mutate: func(o *TerminalOutcome) { o.Row = 0 },
			want:   []string{AccoladeAce},
		},
		{
			name:   "second row solve",
			mutate: func(o *TerminalOutcome) { o.Row = 1 },
			want:   []string{AccoladeLuckyStrike},
		},
		{
			name:   "last row solve without double down",
			mutate: func(o *TerminalOutcome) { o.Row = 5 },
			want:   []string{AccoladeBarelyMadeIt},
		},
		{
			name: "last row solve under double down",
			mutate: func(o *TerminalOutcome) {
				o.Row = 2
				o.MaxRows = 3
				o.UsedDoubleDown = true
				o.DoubleDownSuccess = true
			},
			want: []string{AccoladeClutch},
		},
		{
			name:   "first to solve in the campaign",
			mutate: func(o *TerminalOutcome) { o.SolversBefore = 0 },
			want:   []string{AccoladeFirstSolver},
		},
		{
			name:   "solve after a streak gap",
			mutate: func(o *TerminalOutcome) { o.RecoveredFromGap = true; o.Streak = 1 },
			want:   []string{AccoladeComeback},
		},
		{
			name: "final day evening solve",
			mutate: func(o *TerminalOutcome) {
				o.Day = 7
				o.SubmittedAt = at(19)
			},
			want: []string{AccoladeLateSave},
		},
		{
			name: "full cycle streak on the final day",
			mutate: func(o *TerminalOutcome) {
				o.Day = 7
				o.Streak = 7
			},
			want: []string{AccoladePerfectWeek},
		},
		{
			name:   "before seven in the morning",
			mutate: func(o *TerminalOutcome) { o.SubmittedAt = at(6) },
			want:   []string{AccoladeEarlyBird},
		},
		{
			name:   "eleven at night",
			mutate: func(o *TerminalOutcome) { o.SubmittedAt = at(23) },
			want:   []string{AccoladeNightOwl},
		},
		{
			name:   "fourteen day streak",
			mutate: func(o *TerminalOutcome) { o.Streak = 14; o.CycleLength = 31; o.Day = 20 },
			want:   []string{AccoladeMarathon},
		},
		{
			name:   "seven days played",
			mutate: func(o *TerminalOutcome) { o.TotalDaysPlayed = 7 },
			want:   []string{AccoladeVeteran7},
		},
		{
			name:   "thirty days played outranks seven",
			mutate: func(o *TerminalOutcome) { o.TotalDaysPlayed = 30 },
			want:   []string{AccoladeVeteran30},
		},
		{
			name:   "hundred days played outranks thirty",
			mutate: func(o *TerminalOutcome) { o.TotalDaysPlayed = 150 },
			want:   []string{AccoladeVeteran100},
		},
		{
			name: "failed day earns no solve badges",
			mutate: func(o *TerminalOutcome) {
				o.Solved = false
				o.Row = 5
				o.SolversBefore = 0
				o.RecoveredFromGap = true
			},
			want: nil,
		},
		{
			name: "early bird applies even on a fail",
			mutate: func(o *TerminalOutcome) {
				o.Solved = false
				o.SubmittedAt = at(5)
			},
			want: []string{AccoladeEarlyBird},
		},
		{
			name: "badges stack",
			mutate: func(o *TerminalOutcome) {
				o.Row = 0
				o.SolversBefore = 0
				o.SubmittedAt = at(23)
			},
			want: []string{AccoladeAce, AccoladeFirstSolver, AccoladeNightOwl},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := baseOutcome()
			tt.mutate(&o)

			got := terminalBadges(o)
			sort.Strings(got)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)

			if len(got) != len(want) {
				t.Fatalf("terminalBadges() = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("terminalBadges() = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestAccoladeLabelFallsBackToKey(t *testing.T) {
	if got := AccoladeLabel(AccoladeAce); got != "Ace" {
		t.Errorf("AccoladeLabel(ace) = %q, want %q", got, "Ace")
	}
	if got := AccoladeLabel("mystery_badge"); got != "mystery_badge" {
		t.Errorf("AccoladeLabel(mystery_badge) = %q, want the key back", got)
	}
}
