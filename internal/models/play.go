package models

import "time"

// GuessState is the persisted per-user, per-campaign, per-date board.
// Guesses and Results are parallel arrays; LetterStatus is the monotonic
// keyboard map (correct never regresses).
type GuessState struct {
	UserID       int64             `json:"-"`
	CampaignID   int64             `json:"-"`
	Date         string            `json:"date"`
	Guesses      [][]string        `json:"guesses"`
	Results      [][]string        `json:"results"`
	LetterStatus map[string]string `json:"letter_status"`
	CurrentRow   int               `json:"current_row"`
	GameOver     bool              `json:"game_over"`
}

// NewGuessState returns an empty six-row board for a fresh day
func NewGuessState(userID, campaignID int64, date string) *GuessState {
	guesses := make([][]string, 6)
	for i := range guesses {
		guesses[i] = []string{"", "", "", "", ""}
	}
	return &GuessState{
		UserID:       userID,
		CampaignID:   campaignID,
		Date:         date,
		Guesses:      guesses,
		Results:      make([][]string, 6),
		LetterStatus: map[string]string{},
	}
}

// DailyResult is the immutable record of a finished day, created exactly
// once per terminal transition.
type DailyResult struct {
	UserID                int64     `json:"-"`
	CampaignID            int64     `json:"-"`
	Date                  string    `json:"date"`
	Word                  string    `json:"word"`
	GuessesUsed           int       `json:"guesses_used"`
	Solved                bool      `json:"solved"`
	FirstGuessWord        string    `json:"first_guess_word,omitempty"`
	UsedDoubleDown        bool      `json:"used_double_down"`
	DoubleDownSuccess     bool      `json:"double_down_success"`
	DoubleDownBonusTroops int       `json:"double_down_bonus_troops"`
	TroopsEarned          int       `json:"troops_earned"`
	CoinsEarned           int       `json:"coins_earned"`
	CompletedAt           time.Time `json:"completed_at"`
}

// Streak tracks consecutive completed days within a campaign
type Streak struct {
	UserID            int64
	CampaignID        int64
	Streak            int
	LastCompletedDate string
}

// CampaignStats are per-member running aggregates, mutated only by
// terminal transitions.
type CampaignStats struct {
	UserID                int64 `json:"-"`
	CampaignID            int64 `json:"-"`
	CurrentStreak         int   `json:"current_streak"`
	LongestStreak         int   `json:"longest_streak"`
	StreakRecoveryDays    *int  `json:"streak_recovery_days,omitempty"`
	TotalSolves           int   `json:"total_solves"`
	TotalFails            int   `json:"total_fails"`
	TotalGuessesOnSolves  int   `json:"total_guesses_on_solves"`
	TotalDaysPlayed       int   `json:"total_days_played"`
	DoubleDownUsed        int   `json:"double_down_used"`
	DoubleDownSuccess     int   `json:"double_down_success"`
	DoubleDownBonusTroops int   `json:"double_down_bonus_troops"`
	CoinsEarnedTotal      int   `json:"coins_earned_total"`
}

// WordStats are global per-secret-word outcome counters
type WordStats struct {
	Word      string `json:"word"`
	Attempts  int    `json:"attempts"`
	Solves    int    `json:"solves"`
	Fails     int    `json:"fails"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
}
