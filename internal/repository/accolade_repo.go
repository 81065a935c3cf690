package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// AccoladeRepository handles badge events and the user, campaign and
// global award counters.
type AccoladeRepository struct {
	db database.DBTX
}

// NewAccoladeRepository creates a new accolade repository
func NewAccoladeRepository(db database.DBTX) *AccoladeRepository {
	return &AccoladeRepository{db: db}
}

// InsertAwardOnce records a dated badge event. Returns false when the
// same award already exists for that date, so counters are bumped at
// most once per (user, campaign, key, date).
func (r *AccoladeRepository) InsertAwardOnce(a *models.AccoladeAward) (bool, error) {
	query := `
		INSERT INTO user_accolade_events (user_id, campaign_id, accolade_key, date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, accolade_key, date) DO NOTHING
	`
	result, err := r.db.Exec(query, a.UserID, a.CampaignID, a.AccoladeKey, a.Date)
	if err != nil {
		return false, fmt.Errorf("failed to insert accolade event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// BumpUserCount increments the per-user counter for a badge
func (r *AccoladeRepository) BumpUserCount(userID, campaignID int64, key string) error {
	query := `
		INSERT INTO user_accolade_stats (user_id, campaign_id, accolade_key, count, last_awarded_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, campaign_id, accolade_key) DO UPDATE SET
			count = user_accolade_stats.count + 1,
			last_awarded_at = excluded.last_awarded_at
	`
	if _, err := r.db.Exec(query, userID, campaignID, key, time.Now()); err != nil {
		return fmt.Errorf("failed to bump user accolade count: %w", err)
	}
	return nil
}

// BumpCampaignCount increments the per-campaign counter for a badge
func (r *AccoladeRepository) BumpCampaignCount(campaignID int64, key string) error {
	query := `
		INSERT INTO campaign_accolade_stats (campaign_id, accolade_key, count, last_awarded_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (campaign_id, accolade_key) DO UPDATE SET
			count = campaign_accolade_stats.count + 1,
			last_awarded_at = excluded.last_awarded_at
	`
	if _, err := r.db.Exec(query, campaignID, key, time.Now()); err != nil {
		return fmt.Errorf("failed to bump campaign accolade count: %w", err)
	}
	return nil
}

// BumpGlobalCount increments the global counter for a badge
func (r *AccoladeRepository) BumpGlobalCount(key string) error {
	query := `
		INSERT INTO global_accolade_stats (accolade_key, count, last_awarded_at)
		VALUES (?, 1, ?)
		ON CONFLICT (accolade_key) DO UPDATE SET
			count = global_accolade_stats.count + 1,
			last_awarded_at = excluded.last_awarded_at
	`
	if _, err := r.db.Exec(query, key, time.Now()); err != nil {
		return fmt.Errorf("failed to bump global accolade count: %w", err)
	}
	return nil
}

// ListUserCounts returns a user's badge counters within one campaign
func (r *AccoladeRepository) ListUserCounts(userID, campaignID int64) ([]models.AccoladeCount, error) {
	query := `
		SELECT accolade_key, count, last_awarded_at
		FROM user_accolade_stats
		WHERE user_id = ? AND campaign_id = ?
		ORDER BY count DESC, accolade_key ASC
	`
	rows, err := r.db.Query(query, userID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accolade counts: %w", err)
	}
	defer rows.Close()

	var counts []models.AccoladeCount
	for rows.Next() {
		var c models.AccoladeCount
		var last sql.NullTime
		if err := rows.Scan(&c.Key, &c.Count, &last); err != nil {
			return nil, fmt.Errorf("failed to scan accolade count: %w", err)
		}
		if last.Valid {
			c.LastAwardedAt = &last.Time
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountEventsForUser counts how many distinct award events a user has in
// a campaign, across all badge keys.
func (r *AccoladeRepository) CountEventsForUser(userID, campaignID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM user_accolade_events WHERE user_id = ? AND campaign_id = ?"
	if err := r.db.QueryRow(query, userID, campaignID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accolade events: %w", err)
	}
	return count, nil
}
