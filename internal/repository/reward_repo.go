package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wordrealm/internal/database"
)

// CycleReward is a pending or fulfilled winner's gift for one finished
// cycle: the winner names recipients who each receive oracle whispers.
type CycleReward struct {
	CampaignID           int64      `json:"campaign_id"`
	CycleStartDate       string     `json:"cycle_start_date"`
	WinnerUserID         int64      `json:"-"`
	RecipientCount       int        `json:"recipient_count"`
	WhispersPerRecipient int        `json:"whispers_per_recipient"`
	Fulfilled            bool       `json:"fulfilled"`
	FulfilledAt          *time.Time `json:"fulfilled_at,omitempty"`
}

// RewardRepository handles end-of-cycle winner rewards
type RewardRepository struct {
	db database.DBTX
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db database.DBTX) *RewardRepository {
	return &RewardRepository{db: db}
}

// CreateReward records a pending reward for a finished cycle. A repeat
// insert for the same cycle is a no-op, so the reset is safe to rerun.
func (r *RewardRepository) CreateReward(campaignID int64, cycleStartDate string, winnerUserID int64, recipientCount, whispersPerRecipient int) error {
	query := `
		INSERT INTO campaign_cycle_rewards (campaign_id, cycle_start_date, winner_user_id, recipient_count, whispers_per_recipient)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (campaign_id, cycle_start_date) DO NOTHING
	`
	if _, err := r.db.Exec(query, campaignID, cycleStartDate, winnerUserID, recipientCount, whispersPerRecipient); err != nil {
		return fmt.Errorf("failed to create cycle reward: %w", err)
	}
	return nil
}

// PendingRewardFor returns the winner's unfulfilled reward, or nil
func (r *RewardRepository) PendingRewardFor(campaignID, winnerUserID int64) (*CycleReward, error) {
	query := `
		SELECT campaign_id, cycle_start_date, winner_user_id, recipient_count, whispers_per_recipient, fulfilled, fulfilled_at
		FROM campaign_cycle_rewards
		WHERE campaign_id = ? AND winner_user_id = ? AND fulfilled = 0
		ORDER BY cycle_start_date DESC
		LIMIT 1
	`
	reward := &CycleReward{}
	var fulfilled int
	var fulfilledAt sql.NullTime

	err := r.db.QueryRow(query, campaignID, winnerUserID).Scan(
		&reward.CampaignID,
		&reward.CycleStartDate,
		&reward.WinnerUserID,
		&reward.RecipientCount,
		&reward.WhispersPerRecipient,
		&fulfilled,
		&fulfilledAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending reward: %w", err)
	}

	reward.Fulfilled = fulfilled != 0
	if fulfilledAt.Valid {
		reward.FulfilledAt = &fulfilledAt.Time
	}
	return reward, nil
}

// MarkFulfilled closes a reward. Returns false when it was already
// fulfilled, so a double submission cannot grant twice.
func (r *RewardRepository) MarkFulfilled(campaignID int64, cycleStartDate string) (bool, error) {
	query := `
		UPDATE campaign_cycle_rewards
		SET fulfilled = 1, fulfilled_at = ?
		WHERE campaign_id = ? AND cycle_start_date = ? AND fulfilled = 0
	`
	result, err := r.db.Exec(query, time.Now(), campaignID, cycleStartDate)
	if err != nil {
		return false, fmt.Errorf("failed to mark reward fulfilled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// AddRecipient records one chosen recipient for a cycle reward
func (r *RewardRepository) AddRecipient(campaignID int64, cycleStartDate string, recipientUserID int64) error {
	query := `
		INSERT INTO campaign_cycle_reward_recipients (campaign_id, cycle_start_date, recipient_user_id)
		VALUES (?, ?, ?)
		ON CONFLICT (campaign_id, cycle_start_date, recipient_user_id) DO NOTHING
	`
	if _, err := r.db.Exec(query, campaignID, cycleStartDate, recipientUserID); err != nil {
		return fmt.Errorf("failed to add reward recipient: %w", err)
	}
	return nil
}
