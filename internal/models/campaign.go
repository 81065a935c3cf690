package models

import "time"

// Campaign represents a fixed-length run of daily puzzles.
// StartDate is rewritten at cycle-end reset and acts as the epoch
// for all day arithmetic.
type Campaign struct {
	ID              int64
	Name            string
	OwnerID         int64
	InviteCode      string
	StartDate       string // YYYY-MM-DD in the campaign timezone
	CycleLength     int
	King            string
	IsAdminCampaign bool
	CreatedAt       time.Time
}

// CampaignMember is a (user, campaign) membership with per-cycle state
type CampaignMember struct {
	UserID              int64
	CampaignID          int64
	DisplayName         string
	Color               string
	Score               int
	DoubleDownActivated bool
	DoubleDownUsedWeek  bool
	DoubleDownDate      string // YYYY-MM-DD, empty when never activated
}

// LeaderboardEntry is one row of a campaign's score-ordered standings
type LeaderboardEntry struct {
	Username    string `json:"username"`
	Color       string `json:"color"`
	Score       int    `json:"score"`
	PlayedToday bool   `json:"played_today"`
}

// HighScore is a permanent hall-of-fame entry snapshotted at cycle end
type HighScore struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"-"`
	CampaignID     int64  `json:"-"`
	PlayerName     string `json:"player_name"`
	CampaignName   string `json:"campaign_name"`
	Troops         int    `json:"troops"`
	EndedOn        string `json:"ended_on"`
	CampaignLength int    `json:"campaign_length"`
}

// CampaignSummary is a member's view of one campaign for the lobby list
type CampaignSummary struct {
	CampaignID          int64  `json:"campaign_id"`
	Name                string `json:"name"`
	Day                 int    `json:"day"`
	Total               int    `json:"total"`
	IsFinished          bool   `json:"is_finished"`
	DoubleDownActivated bool   `json:"double_down_activated"`
	DailyCompleted      bool   `json:"daily_completed"`
}
