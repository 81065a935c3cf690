package service

import (
	"strings"
	"testing"
	"time"

	"wordrealm/internal/game"
	"wordrealm/internal/models"
)

func TestCampaignEndedAt(t *testing.T) {
	campaign := models.Campaign{StartDate: "2026-03-02", CycleLength: 7}
	loc := game.Location()

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "mid cycle", now: time.Date(2026, 3, 5, 12, 0, 0, 0, loc), want: false},
		{name: "final day morning", now: time.Date(2026, 3, 8, 9, 0, 0, 0, loc), want: false},
		{name: "final day just before midnight", now: time.Date(2026, 3, 8, 23, 59, 0, 0, loc), want: false},
		{name: "day after the final day", now: time.Date(2026, 3, 9, 0, 30, 0, 0, loc), want: true},
		{name: "long after the cycle", now: time.Date(2026, 4, 1, 12, 0, 0, 0, loc), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := campaignEndedAt(campaign, tt.now); got != tt.want {
				t.Errorf("campaignEndedAt(%s) = %v, want %v", tt.now.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestCampaignEndedAtBadStartDate(t *testing.T) {
	campaign := models.Campaign{StartDate: "not-a-date", CycleLength: 7}
	if campaignEndedAt(campaign, time.Now()) {
		t.Error("campaignEndedAt with an unparseable start date should report not ended")
	}
}

func TestGenerateInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateInviteCode()
		if err != nil {
			t.Fatalf("generateInviteCode() error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("generateInviteCode() = %q, want 6 characters", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(inviteCodeAlphabet, c) {
				t.Fatalf("generateInviteCode() = %q, contains %q outside the alphabet", code, c)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 space colliding down to a handful would
	// mean the generator is broken
	if len(seen) < 40 {
		t.Errorf("generateInviteCode() produced only %d distinct codes in 50 draws", len(seen))
	}
}
