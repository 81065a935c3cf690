package models

import "time"

// AccoladeAward is a single dated badge event, unique per
// (user, campaign, key, date).
type AccoladeAward struct {
	UserID      int64
	CampaignID  int64
	AccoladeKey string
	Date        string
}

// AccoladeCount pairs a badge key with how many times it was earned
type AccoladeCount struct {
	Key           string     `json:"key"`
	Label         string     `json:"label"`
	Count         int        `json:"count"`
	LastAwardedAt *time.Time `json:"last_awarded_at,omitempty"`
}
