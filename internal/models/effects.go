package models

import "time"

// StatusEffect is a live per-user modifier keyed by effect. At most one
// record per key per user per campaign; re-application overwrites the
// payload and reactivates.
type StatusEffect struct {
	UserID     int64      `json:"-"`
	CampaignID int64      `json:"-"`
	EffectKey  string     `json:"effect_key"`
	Value      string     `json:"value,omitempty"` // JSON payload, decoded by the effect gate
	AppliedAt  time.Time  `json:"applied_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Active     bool       `json:"active"`
}

// ItemEvent is one row of the append-only item usage log. For effects
// that target another player, EffectiveOn is the calendar date the
// effect becomes live and Delayed marks a next-day binding.
type ItemEvent struct {
	ID           int64
	UserID       int64
	CampaignID   int64
	ItemKey      string
	TargetUserID *int64
	EventType    string
	EffectiveOn  string
	Delayed      bool
	Details      string
	CreatedAt    time.Time
}
