package repository

import (
	"database/sql"
	"fmt"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// StatsRepository handles streaks, the coin economy, per-member
// aggregates and the global word statistics.
type StatsRepository struct {
	db database.DBTX
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStreak loads a member's streak row, or nil when they never played
func (r *StatsRepository) GetStreak(userID, campaignID int64) (*models.Streak, error) {
	s := &models.Streak{UserID: userID, CampaignID: campaignID}
	var lastDate sql.NullString

	query := "SELECT streak, last_completed_date FROM campaign_streaks WHERE user_id = ? AND campaign_id = ?"
	err := r.db.QueryRow(query, userID, campaignID).Scan(&s.Streak, &lastDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	s.LastCompletedDate = lastDate.String
	return s, nil
}

// SaveStreak upserts a member's streak row
func (r *StatsRepository) SaveStreak(s *models.Streak) error {
	query := `
		INSERT INTO campaign_streaks (user_id, campaign_id, streak, last_completed_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id) DO UPDATE SET
			streak = excluded.streak,
			last_completed_date = excluded.last_completed_date
	`
	if _, err := r.db.Exec(query, s.UserID, s.CampaignID, s.Streak, nullString(s.LastCompletedDate)); err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// ResetStreaks zeroes every streak in a campaign for a new cycle
func (r *StatsRepository) ResetStreaks(campaignID int64) error {
	query := "UPDATE campaign_streaks SET streak = 0, last_completed_date = NULL WHERE campaign_id = ?"
	if _, err := r.db.Exec(query, campaignID); err != nil {
		return fmt.Errorf("failed to reset streaks: %w", err)
	}
	return nil
}

// GetCoins returns a member's coin balance
func (r *StatsRepository) GetCoins(userID, campaignID int64) (int, error) {
	var coins int
	query := "SELECT coins FROM campaign_coins WHERE user_id = ? AND campaign_id = ?"
	err := r.db.QueryRow(query, userID, campaignID).Scan(&coins)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get coins: %w", err)
	}
	return coins, nil
}

// AddCoins credits coins to a member's balance
func (r *StatsRepository) AddCoins(userID, campaignID int64, coins int, date string) error {
	query := `
		INSERT INTO campaign_coins (user_id, campaign_id, coins, last_awarded_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id) DO UPDATE SET
			coins = campaign_coins.coins + excluded.coins,
			last_awarded_date = excluded.last_awarded_date
	`
	if _, err := r.db.Exec(query, userID, campaignID, coins, nullString(date)); err != nil {
		return fmt.Errorf("failed to add coins: %w", err)
	}
	return nil
}

// SpendCoins debits a member's balance. Returns false when the balance
// is short; nothing is written in that case.
func (r *StatsRepository) SpendCoins(userID, campaignID int64, coins int) (bool, error) {
	query := `
		UPDATE campaign_coins
		SET coins = coins - ?
		WHERE user_id = ? AND campaign_id = ? AND coins >= ?
	`
	result, err := r.db.Exec(query, coins, userID, campaignID, coins)
	if err != nil {
		return false, fmt.Errorf("failed to spend coins: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetCampaignStats loads a member's aggregate row, or a zero row when absent
func (r *StatsRepository) GetCampaignStats(userID, campaignID int64) (*models.CampaignStats, error) {
	stats := &models.CampaignStats{UserID: userID, CampaignID: campaignID}
	var recovery sql.NullInt64

	query := `
		SELECT current_streak, longest_streak, streak_recovery_days,
		       total_solves, total_fails, total_guesses_on_solves, total_days_played,
		       double_down_used, double_down_success, double_down_bonus_troops,
		       coins_earned_total
		FROM user_campaign_stats
		WHERE user_id = ? AND campaign_id = ?
	`
	err := r.db.QueryRow(query, userID, campaignID).Scan(
		&stats.CurrentStreak,
		&stats.LongestStreak,
		&recovery,
		&stats.TotalSolves,
		&stats.TotalFails,
		&stats.TotalGuessesOnSolves,
		&stats.TotalDaysPlayed,
		&stats.DoubleDownUsed,
		&stats.DoubleDownSuccess,
		&stats.DoubleDownBonusTroops,
		&stats.CoinsEarnedTotal,
	)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign stats: %w", err)
	}

	if recovery.Valid {
		days := int(recovery.Int64)
		stats.StreakRecoveryDays = &days
	}
	return stats, nil
}

// SaveCampaignStats upserts a member's aggregate row
func (r *StatsRepository) SaveCampaignStats(stats *models.CampaignStats) error {
	var recovery interface{}
	if stats.StreakRecoveryDays != nil {
		recovery = *stats.StreakRecoveryDays
	}

	query := `
		INSERT INTO user_campaign_stats
			(user_id, campaign_id, current_streak, longest_streak, streak_recovery_days,
			 total_solves, total_fails, total_guesses_on_solves, total_days_played,
			 double_down_used, double_down_success, double_down_bonus_troops, coins_earned_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			streak_recovery_days = excluded.streak_recovery_days,
			total_solves = excluded.total_solves,
			total_fails = excluded.total_fails,
			total_guesses_on_solves = excluded.total_guesses_on_solves,
			total_days_played = excluded.total_days_played,
			double_down_used = excluded.double_down_used,
			double_down_success = excluded.double_down_success,
			double_down_bonus_troops = excluded.double_down_bonus_troops,
			coins_earned_total = excluded.coins_earned_total
	`
	_, err := r.db.Exec(query,
		stats.UserID, stats.CampaignID, stats.CurrentStreak, stats.LongestStreak, recovery,
		stats.TotalSolves, stats.TotalFails, stats.TotalGuessesOnSolves, stats.TotalDaysPlayed,
		stats.DoubleDownUsed, stats.DoubleDownSuccess, stats.DoubleDownBonusTroops,
		stats.CoinsEarnedTotal)
	if err != nil {
		return fmt.Errorf("failed to save campaign stats: %w", err)
	}
	return nil
}

// RecordWordOutcome bumps the global counters for a secret word
func (r *StatsRepository) RecordWordOutcome(word, date string, solved bool) error {
	query := `
		INSERT INTO global_word_stats (word, attempts, solves, fails, first_seen, last_seen)
		VALUES (?, 1, ?, ?, ?, ?)
		ON CONFLICT (word) DO UPDATE SET
			attempts = global_word_stats.attempts + 1,
			solves = global_word_stats.solves + excluded.solves,
			fails = global_word_stats.fails + excluded.fails,
			last_seen = excluded.last_seen
	`
	solves, fails := 0, 1
	if solved {
		solves, fails = 1, 0
	}
	if _, err := r.db.Exec(query, word, solves, fails, date, date); err != nil {
		return fmt.Errorf("failed to record word outcome: %w", err)
	}
	return nil
}

// GetWordStats returns the global counters for a word, or nil when unseen
func (r *StatsRepository) GetWordStats(word string) (*models.WordStats, error) {
	stats := &models.WordStats{Word: word}
	var firstSeen, lastSeen sql.NullString

	query := "SELECT attempts, solves, fails, first_seen, last_seen FROM global_word_stats WHERE word = ?"
	err := r.db.QueryRow(query, word).Scan(&stats.Attempts, &stats.Solves, &stats.Fails, &firstSeen, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word stats: %w", err)
	}

	stats.FirstSeen = firstSeen.String
	stats.LastSeen = lastSeen.String
	return stats, nil
}

// InsertHighScore snapshots a cycle result into the permanent hall of fame
func (r *StatsRepository) InsertHighScore(hs *models.HighScore) error {
	query := `
		INSERT INTO global_high_scores (user_id, campaign_id, player_name, campaign_name, troops, ended_on, campaign_length)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, hs.UserID, hs.CampaignID, hs.PlayerName, hs.CampaignName, hs.Troops, hs.EndedOn, hs.CampaignLength); err != nil {
		return fmt.Errorf("failed to insert high score: %w", err)
	}
	return nil
}

// TopHighScores returns the best cycle scores across all campaigns
func (r *StatsRepository) TopHighScores(limit int) ([]models.HighScore, error) {
	query := `
		SELECT id, user_id, campaign_id, player_name, campaign_name, troops, ended_on, campaign_length
		FROM global_high_scores
		ORDER BY troops DESC, ended_on DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list high scores: %w", err)
	}
	defer rows.Close()

	var scores []models.HighScore
	for rows.Next() {
		var hs models.HighScore
		var length sql.NullInt64
		if err := rows.Scan(&hs.ID, &hs.UserID, &hs.CampaignID, &hs.PlayerName, &hs.CampaignName, &hs.Troops, &hs.EndedOn, &length); err != nil {
			return nil, fmt.Errorf("failed to scan high score: %w", err)
		}
		hs.CampaignLength = int(length.Int64)
		scores = append(scores, hs)
	}
	return scores, rows.Err()
}
