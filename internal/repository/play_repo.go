package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// PlayRepository handles the per-day play records: board snapshots, the
// guess log, first guesses, daily completion and the immutable daily
// results.
type PlayRepository struct {
	db database.DBTX
}

// NewPlayRepository creates a new play repository
func NewPlayRepository(db database.DBTX) *PlayRepository {
	return &PlayRepository{db: db}
}

// GetState loads the board snapshot for one day, or nil when the user
// has not played that day yet.
func (r *PlayRepository) GetState(userID, campaignID int64, date string) (*models.GuessState, error) {
	query := `
		SELECT guesses, results, letter_status, current_row, game_over
		FROM campaign_guess_states
		WHERE user_id = ? AND campaign_id = ? AND date = ?
	`
	return r.getState(query, userID, campaignID, date)
}

// GetStateForUpdate loads the board snapshot under a row lock where the
// dialect supports one.
func (r *PlayRepository) GetStateForUpdate(userID, campaignID int64, date string) (*models.GuessState, error) {
	query := `
		SELECT guesses, results, letter_status, current_row, game_over
		FROM campaign_guess_states
		WHERE user_id = ? AND campaign_id = ? AND date = ?
	` + r.db.GetDialect().ForUpdate()
	return r.getState(query, userID, campaignID, date)
}

func (r *PlayRepository) getState(query string, userID, campaignID int64, date string) (*models.GuessState, error) {
	var guessesJSON, resultsJSON, statusJSON string
	var gameOver int

	state := &models.GuessState{UserID: userID, CampaignID: campaignID, Date: date}
	err := r.db.QueryRow(query, userID, campaignID, date).Scan(
		&guessesJSON,
		&resultsJSON,
		&statusJSON,
		&state.CurrentRow,
		&gameOver,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guess state: %w", err)
	}

	if err := json.Unmarshal([]byte(guessesJSON), &state.Guesses); err != nil {
		return nil, fmt.Errorf("failed to decode guesses: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &state.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if err := json.Unmarshal([]byte(statusJSON), &state.LetterStatus); err != nil {
		return nil, fmt.Errorf("failed to decode letter status: %w", err)
	}
	state.GameOver = gameOver != 0
	return state, nil
}

// SaveState upserts the board snapshot
func (r *PlayRepository) SaveState(state *models.GuessState) error {
	guessesJSON, err := json.Marshal(state.Guesses)
	if err != nil {
		return fmt.Errorf("failed to encode guesses: %w", err)
	}
	resultsJSON, err := json.Marshal(state.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	statusJSON, err := json.Marshal(state.LetterStatus)
	if err != nil {
		return fmt.Errorf("failed to encode letter status: %w", err)
	}

	query := `
		INSERT INTO campaign_guess_states (user_id, campaign_id, date, guesses, results, letter_status, current_row, game_over)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, date) DO UPDATE SET
			guesses = excluded.guesses,
			results = excluded.results,
			letter_status = excluded.letter_status,
			current_row = excluded.current_row,
			game_over = excluded.game_over
	`
	_, err = r.db.Exec(query, state.UserID, state.CampaignID, state.Date,
		string(guessesJSON), string(resultsJSON), string(statusJSON),
		state.CurrentRow, boolToInt(state.GameOver))
	if err != nil {
		return fmt.Errorf("failed to save guess state: %w", err)
	}
	return nil
}

// HasGuessed reports whether the exact word was already submitted today
func (r *PlayRepository) HasGuessed(userID, campaignID int64, date, word string) (bool, error) {
	var one int
	query := "SELECT 1 FROM campaign_guesses WHERE user_id = ? AND campaign_id = ? AND date = ? AND word = ?"
	err := r.db.QueryRow(query, userID, campaignID, date, word).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guess: %w", err)
	}
	return true, nil
}

// RecordGuess appends a word to the day's guess log
func (r *PlayRepository) RecordGuess(userID, campaignID int64, date, word string) error {
	query := `
		INSERT INTO campaign_guesses (user_id, campaign_id, word, date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, date, word) DO NOTHING
	`
	if _, err := r.db.Exec(query, userID, campaignID, word, date); err != nil {
		return fmt.Errorf("failed to record guess: %w", err)
	}
	return nil
}

// RecordFirstGuess stores the opening word once; later calls are no-ops
func (r *PlayRepository) RecordFirstGuess(userID, campaignID int64, date, word string) error {
	query := `
		INSERT INTO campaign_first_guesses (user_id, campaign_id, date, word)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, date) DO NOTHING
	`
	if _, err := r.db.Exec(query, userID, campaignID, date, word); err != nil {
		return fmt.Errorf("failed to record first guess: %w", err)
	}
	return nil
}

// GetFirstGuess returns the day's opening word, or "" when none exists
func (r *PlayRepository) GetFirstGuess(userID, campaignID int64, date string) (string, error) {
	var word string
	query := "SELECT word FROM campaign_first_guesses WHERE user_id = ? AND campaign_id = ? AND date = ?"
	err := r.db.QueryRow(query, userID, campaignID, date).Scan(&word)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get first guess: %w", err)
	}
	return word, nil
}

// MarkCompleted flags the day finished in the progress table
func (r *PlayRepository) MarkCompleted(userID, campaignID int64, date string) error {
	query := `
		INSERT INTO campaign_daily_progress (campaign_id, user_id, date, completed)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (campaign_id, user_id, date) DO UPDATE SET completed = 1
	`
	if _, err := r.db.Exec(query, campaignID, userID, date); err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
	}
	return nil
}

// IsCompleted reports whether the user finished the given day
func (r *PlayRepository) IsCompleted(userID, campaignID int64, date string) (bool, error) {
	var completed int
	query := "SELECT completed FROM campaign_daily_progress WHERE campaign_id = ? AND user_id = ? AND date = ?"
	err := r.db.QueryRow(query, campaignID, userID, date).Scan(&completed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return completed != 0, nil
}

// AddDailyTroops accumulates troops earned on one day
func (r *PlayRepository) AddDailyTroops(userID, campaignID int64, date string, troops int) error {
	query := `
		INSERT INTO campaign_daily_troops (user_id, campaign_id, date, troops)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, date) DO UPDATE SET troops = campaign_daily_troops.troops + excluded.troops
	`
	if _, err := r.db.Exec(query, userID, campaignID, date, troops); err != nil {
		return fmt.Errorf("failed to add daily troops: %w", err)
	}
	return nil
}

// InsertDailyResult writes the immutable end-of-day record. Returns
// false without error when a result for the day already exists, which
// keeps reward writes idempotent under replays.
func (r *PlayRepository) InsertDailyResult(res *models.DailyResult) (bool, error) {
	query := `
		INSERT INTO campaign_user_daily_results
			(user_id, campaign_id, date, word, guesses_used, solved, first_guess_word,
			 used_double_down, double_down_success, double_down_bonus_troops,
			 troops_earned, coins_earned, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, date) DO NOTHING
	`
	result, err := r.db.Exec(query,
		res.UserID, res.CampaignID, res.Date, res.Word, res.GuessesUsed,
		boolToInt(res.Solved), nullString(res.FirstGuessWord),
		boolToInt(res.UsedDoubleDown), boolToInt(res.DoubleDownSuccess),
		res.DoubleDownBonusTroops, res.TroopsEarned, res.CoinsEarned,
		time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert daily result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetDailyResult loads the day's result, or nil when the day is unfinished
func (r *PlayRepository) GetDailyResult(userID, campaignID int64, date string) (*models.DailyResult, error) {
	query := `
		SELECT word, guesses_used, solved, first_guess_word,
		       used_double_down, double_down_success, double_down_bonus_troops,
		       troops_earned, coins_earned, completed_at
		FROM campaign_user_daily_results
		WHERE user_id = ? AND campaign_id = ? AND date = ?
	`
	res := &models.DailyResult{UserID: userID, CampaignID: campaignID, Date: date}
	var solved, usedDD, ddSuccess int
	var firstGuess sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, userID, campaignID, date).Scan(
		&res.Word,
		&res.GuessesUsed,
		&solved,
		&firstGuess,
		&usedDD,
		&ddSuccess,
		&res.DoubleDownBonusTroops,
		&res.TroopsEarned,
		&res.CoinsEarned,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily result: %w", err)
	}

	res.Solved = solved != 0
	res.UsedDoubleDown = usedDD != 0
	res.DoubleDownSuccess = ddSuccess != 0
	res.FirstGuessWord = firstGuess.String
	if completedAt.Valid {
		res.CompletedAt = completedAt.Time
	}
	return res, nil
}

// CountSolversOnDate counts members who solved the given date's word.
// Used for the first-solver accolade.
func (r *PlayRepository) CountSolversOnDate(campaignID int64, date string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM campaign_user_daily_results WHERE campaign_id = ? AND date = ? AND solved = 1"
	if err := r.db.QueryRow(query, campaignID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count solvers: %w", err)
	}
	return count, nil
}

// ListResultsForCycle returns every daily result dated within [start, end]
func (r *PlayRepository) ListResultsForCycle(campaignID int64, startDate, endDate string) ([]models.DailyResult, error) {
	query := `
		SELECT user_id, date, word, guesses_used, solved, troops_earned, coins_earned
		FROM campaign_user_daily_results
		WHERE campaign_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := r.db.Query(query, campaignID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []models.DailyResult
	for rows.Next() {
		res := models.DailyResult{CampaignID: campaignID}
		var solved int
		if err := rows.Scan(&res.UserID, &res.Date, &res.Word, &res.GuessesUsed, &solved, &res.TroopsEarned, &res.CoinsEarned); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Solved = solved != 0
		results = append(results, res)
	}
	return results, rows.Err()
}

// ClearCycleState removes the per-day play rows for a campaign ahead of
// a new cycle. Daily results and the guess log are kept as history.
func (r *PlayRepository) ClearCycleState(campaignID int64) error {
	tables := []string{
		"campaign_guess_states",
		"campaign_daily_progress",
		"campaign_daily_troops",
	}
	for _, table := range tables {
		if _, err := r.db.Exec("DELETE FROM "+table+" WHERE campaign_id = ?", campaignID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
