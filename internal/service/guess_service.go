package service

import (
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/game"
	"wordrealm/internal/items"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
)

func timezone() *time.Location {
	return game.Location()
}

// GuessResponse is the outcome of one guess submission
type GuessResponse struct {
	Results        []string          `json:"results"`
	Solved         bool              `json:"solved"`
	GameOver       bool              `json:"game_over"`
	Duplicate      bool              `json:"duplicate"`
	CurrentRow     int               `json:"current_row"`
	MaxRows        int               `json:"max_rows"`
	LetterStatus   map[string]string `json:"letter_status"`
	TroopsEarned   int               `json:"troops_earned,omitempty"`
	CoinsEarned    int               `json:"coins_earned,omitempty"`
	DoubleDown     bool              `json:"double_down,omitempty"`
	DoubleDownWin  bool              `json:"double_down_success,omitempty"`
	ClownTriggered bool              `json:"clown_triggered,omitempty"`
	Word           string            `json:"word,omitempty"`
}

// ProgressResponse is the saved board plus day context
type ProgressResponse struct {
	State      *models.GuessState `json:"state"`
	Day        int                `json:"day"`
	CurrentDay int                `json:"current_day"`
	Date       string             `json:"date"`
	MaxRows    int                `json:"max_rows"`
	DoubleDown bool               `json:"double_down"`
	Illusions  []string           `json:"illusions,omitempty"`
}

// GuessService resolves daily guesses. Every submission runs as one
// transaction holding the campaign row lock, so two devices hammering
// the same board serialize, and the lifecycle reset can never interleave
// with a guess.
type GuessService struct {
	db        *database.DB
	dict      *dictionary.Dictionary
	accolades *AccoladeService
}

// NewGuessService creates a new guess service
func NewGuessService(db *database.DB, dict *dictionary.Dictionary, accolades *AccoladeService) *GuessService {
	return &GuessService{db: db, dict: dict, accolades: accolades}
}

// SubmitGuess validates, gates, evaluates and persists one guess for
// the target day, applying terminal rewards when the day finishes.
// dayOverride selects a past day when nonzero.
func (s *GuessService) SubmitGuess(userID, campaignID int64, word string, dayOverride int, now time.Time) (*GuessResponse, error) {
	word, err := game.NormalizeGuess(word)
	if err != nil {
		return nil, err
	}
	if !s.dict.IsValid(word) {
		return nil, game.ErrNotInDictionary
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	playRepo := repository.NewPlayRepository(tx)
	effectsRepo := repository.NewEffectsRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	campaign, err := campaignRepo.GetCampaignForUpdate(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}

	member, err := campaignRepo.GetMember(campaignID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, game.ErrNotAMember
	}

	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, now, dayOverride)
	if err != nil {
		return nil, err
	}
	date := info.TargetDateString()

	secret, err := campaignRepo.GetWord(campaignID, info.TargetDay)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, game.ErrNoWordAssigned
	}

	// Double down binds to the day it was activated on. An activation
	// left over from an earlier day expired unfinished: clear it and
	// burn the cycle use.
	ddActive := member.DoubleDownActivated && member.DoubleDownDate == date
	if member.DoubleDownActivated && member.DoubleDownDate != date {
		if err := campaignRepo.SettleDoubleDown(campaignID, userID); err != nil {
			return nil, err
		}
		member.DoubleDownActivated = false
	}

	// Same word re-sent, e.g. a retry after a dropped response: echo
	// the current board without mutating anything.
	duplicate, err := playRepo.HasGuessed(userID, campaignID, date, word)
	if err != nil {
		return nil, err
	}
	if duplicate {
		state, err := playRepo.GetState(userID, campaignID, date)
		if err != nil {
			return nil, err
		}
		if state == nil {
			state = models.NewGuessState(userID, campaignID, date)
		}
		events, err := effectsRepo.ListEventsAgainst(userID, campaignID, date)
		if err != nil {
			return nil, err
		}
		gate := items.CollectGate(events)
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit: %w", err)
		}
		return &GuessResponse{
			Duplicate:    true,
			Solved:       state.GameOver && lastRowSolved(state),
			GameOver:     state.GameOver,
			CurrentRow:   state.CurrentRow,
			MaxRows:      game.MaxRows(ddActive, gate.ExecutionersCut),
			LetterStatus: state.LetterStatus,
		}, nil
	}

	if game.AfterHours(info, now) {
		return nil, game.ErrAfterHours
	}

	state, err := playRepo.GetStateForUpdate(userID, campaignID, date)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = models.NewGuessState(userID, campaignID, date)
	}
	if state.GameOver {
		return nil, game.ErrAlreadyPlayed
	}

	events, err := effectsRepo.ListEventsAgainst(userID, campaignID, date)
	if err != nil {
		return nil, err
	}
	gate := items.CollectGate(events)
	if err := gate.CheckGuess(word, state.CurrentRow); err != nil {
		return nil, err
	}

	maxRows := game.MaxRows(ddActive, gate.ExecutionersCut)
	if state.CurrentRow >= maxRows {
		return nil, game.ErrAlreadyPlayed
	}

	results, solved := game.Evaluate(secret, word)

	row := state.CurrentRow
	for i := 0; i < game.WordLength; i++ {
		state.Guesses[row][i] = string(word[i])
	}
	state.Results[row] = results
	game.MergeLetterStatus(state.LetterStatus, word, results)
	state.CurrentRow++

	if err := playRepo.RecordGuess(userID, campaignID, date, word); err != nil {
		return nil, err
	}
	if row == 0 {
		if err := playRepo.RecordFirstGuess(userID, campaignID, date, word); err != nil {
			return nil, err
		}
	}
	if !campaign.IsAdminCampaign {
		if err := userRepo.IncrementGuessTotals(userID, solved); err != nil {
			return nil, err
		}
	}

	resp := &GuessResponse{
		Results:      results,
		Solved:       solved,
		CurrentRow:   state.CurrentRow,
		MaxRows:      maxRows,
		LetterStatus: state.LetterStatus,
		DoubleDown:   ddActive,
	}

	if gate.ClownTriggers(row) {
		resp.ClownTriggered = true
		if err := effectsRepo.ExpireItemEvent(gate.ClownEventID); err != nil {
			return nil, err
		}
	}

	gameOver := solved || state.CurrentRow >= maxRows
	if gameOver {
		state.GameOver = true
		resp.GameOver = true
		resp.Word = secret

		if err := s.settleDay(tx, campaign, state, info, row, solved, ddActive, resp, now); err != nil {
			return nil, err
		}
	}

	if err := playRepo.SaveState(state); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return resp, nil
}

// settleDay applies the terminal rewards for a finished board: troops,
// coins, streak, aggregates, the daily result record and accolades.
func (s *GuessService) settleDay(tx *database.Tx, campaign *models.Campaign, state *models.GuessState, info game.DayInfo, row int, solved, ddActive bool, resp *GuessResponse, now time.Time) error {
	playRepo := repository.NewPlayRepository(tx)
	effectsRepo := repository.NewEffectsRepository(tx)
	statsRepo := repository.NewStatsRepository(tx)
	campaignRepo := repository.NewCampaignRepository(tx)

	userID, campaignID := state.UserID, state.CampaignID
	date := state.Date

	troops := 0
	coins := game.CoinsOnFail
	ddSuccess := false
	ddBonus := 0

	if solved {
		troops = game.TroopsForRow(row)
		coins = game.CoinsForRow(row)
		if ddActive && game.DoubleDownQualifies(row) {
			ddSuccess = true
			ddBonus = troops
			troops *= 2
		}
	} else {
		// Candle of mercy: a consolation award, consumed by the fail
		effects, err := effectsRepo.GetActiveEffects(userID, campaignID)
		if err != nil {
			return err
		}
		if _, ok := effects[items.KeyCandleOfMercy]; ok {
			troops += 10
			if err := effectsRepo.DeactivateEffect(userID, campaignID, items.KeyCandleOfMercy); err != nil {
				return err
			}
		}
	}

	if ddActive {
		if err := campaignRepo.SettleDoubleDown(campaignID, userID); err != nil {
			return err
		}
	}

	// How many beat us to it, counted under the campaign lock
	solversBefore, err := playRepo.CountSolversOnDate(campaignID, date)
	if err != nil {
		return err
	}

	firstGuess, err := playRepo.GetFirstGuess(userID, campaignID, date)
	if err != nil {
		return err
	}

	created, err := playRepo.InsertDailyResult(&models.DailyResult{
		UserID:                userID,
		CampaignID:            campaignID,
		Date:                  date,
		Word:                  resp.Word,
		GuessesUsed:           state.CurrentRow,
		Solved:                solved,
		FirstGuessWord:        firstGuess,
		UsedDoubleDown:        ddActive,
		DoubleDownSuccess:     ddSuccess,
		DoubleDownBonusTroops: ddBonus,
		TroopsEarned:          troops,
		CoinsEarned:           coins,
	})
	if err != nil {
		return err
	}
	if !created {
		// A result already exists for this day: a replay must not
		// double-award anything.
		return nil
	}

	if troops > 0 {
		if err := campaignRepo.AddScore(campaignID, userID, troops); err != nil {
			return err
		}
		if err := playRepo.AddDailyTroops(userID, campaignID, date, troops); err != nil {
			return err
		}
	}
	if err := statsRepo.AddCoins(userID, campaignID, coins, date); err != nil {
		return err
	}
	if err := playRepo.MarkCompleted(userID, campaignID, date); err != nil {
		return err
	}

	streak, recovered, err := s.advanceStreak(statsRepo, userID, campaignID, date)
	if err != nil {
		return err
	}

	stats, err := statsRepo.GetCampaignStats(userID, campaignID)
	if err != nil {
		return err
	}
	stats.TotalDaysPlayed++
	stats.CoinsEarnedTotal += coins
	stats.CurrentStreak = streak
	if streak > stats.LongestStreak {
		stats.LongestStreak = streak
	}
	if recovered > 0 {
		stats.StreakRecoveryDays = &recovered
	}
	if solved {
		stats.TotalSolves++
		stats.TotalGuessesOnSolves += state.CurrentRow
	} else {
		stats.TotalFails++
	}
	if ddActive {
		stats.DoubleDownUsed++
		if ddSuccess {
			stats.DoubleDownSuccess++
			stats.DoubleDownBonusTroops += ddBonus
		}
	}
	if err := statsRepo.SaveCampaignStats(stats); err != nil {
		return err
	}

	if !campaign.IsAdminCampaign {
		if err := statsRepo.RecordWordOutcome(resp.Word, date, solved); err != nil {
			return err
		}
	}

	resp.TroopsEarned = troops
	resp.CoinsEarned = coins
	resp.DoubleDownWin = ddSuccess

	s.accolades.EvaluateTerminal(tx, TerminalOutcome{
		UserID:            userID,
		CampaignID:        campaignID,
		Date:              date,
		Day:               info.TargetDay,
		CycleLength:       info.CycleLength,
		Solved:            solved,
		Row:               row,
		MaxRows:           resp.MaxRows,
		UsedDoubleDown:    ddActive,
		DoubleDownSuccess: ddSuccess,
		Streak:            streak,
		RecoveredFromGap:  recovered > 0,
		TotalDaysPlayed:   stats.TotalDaysPlayed,
		SolversBefore:     solversBefore,
		SubmittedAt:       now,
		IsAdminCampaign:   campaign.IsAdminCampaign,
	})
	return nil
}

// advanceStreak applies the streak rules for a completed date: same
// date is a no-op, the day after the last completion extends, anything
// later resets to one and reports the gap length.
func (s *GuessService) advanceStreak(statsRepo *repository.StatsRepository, userID, campaignID int64, date string) (streak int, recoveredDays int, err error) {
	st, err := statsRepo.GetStreak(userID, campaignID)
	if err != nil {
		return 0, 0, err
	}
	if st == nil {
		st = &models.Streak{UserID: userID, CampaignID: campaignID}
	}

	next, gap := game.NextStreak(st.Streak, st.LastCompletedDate, date)
	if next == st.Streak && st.LastCompletedDate == date {
		return st.Streak, 0, nil
	}

	st.Streak = next
	st.LastCompletedDate = date
	if err := statsRepo.SaveStreak(st); err != nil {
		return 0, 0, err
	}
	return next, gap, nil
}

// SavedProgress returns the board snapshot for the target day. A stale
// double-down activation from an earlier, never-finished day is expired
// here so the lobby shows the truth.
func (s *GuessService) SavedProgress(userID, campaignID int64, dayOverride int, now time.Time) (*ProgressResponse, error) {
	campaignRepo := repository.NewCampaignRepository(s.db)
	playRepo := repository.NewPlayRepository(s.db)
	effectsRepo := repository.NewEffectsRepository(s.db)

	campaign, err := campaignRepo.GetCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}
	member, err := campaignRepo.GetMember(campaignID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, game.ErrNotAMember
	}

	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, now, dayOverride)
	if err != nil {
		return nil, err
	}
	date := info.TargetDateString()

	ddActive := member.DoubleDownActivated && member.DoubleDownDate == date
	if member.DoubleDownActivated && member.DoubleDownDate != date {
		if err := campaignRepo.SettleDoubleDown(campaignID, userID); err != nil {
			return nil, err
		}
	}

	state, err := playRepo.GetState(userID, campaignID, date)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = models.NewGuessState(userID, campaignID, date)
	}

	events, err := effectsRepo.ListEventsAgainst(userID, campaignID, date)
	if err != nil {
		return nil, err
	}
	gate := items.CollectGate(events)

	return &ProgressResponse{
		State:      state,
		Day:        info.TargetDay,
		CurrentDay: info.CurrentDay,
		Date:       date,
		MaxRows:    game.MaxRows(ddActive, gate.ExecutionersCut),
		DoubleDown: ddActive,
		Illusions:  gate.Illusions,
	}, nil
}

// ActivateDoubleDown arms the once-per-cycle gamble for today
func (s *GuessService) ActivateDoubleDown(userID, campaignID int64, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	playRepo := repository.NewPlayRepository(tx)

	campaign, err := campaignRepo.GetCampaignForUpdate(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return game.ErrCampaignNotFound
	}
	member, err := campaignRepo.GetMemberForUpdate(campaignID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return game.ErrNotAMember
	}
	if member.DoubleDownActivated {
		return ErrDoubleDownActive
	}
	if member.DoubleDownUsedWeek {
		return ErrDoubleDownSpent
	}

	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, now, 0)
	if err != nil {
		return err
	}
	date := info.TargetDateString()

	// The gamble covers a whole day: arming mid-board would let a
	// player hedge after seeing results.
	state, err := playRepo.GetState(userID, campaignID, date)
	if err != nil {
		return err
	}
	if state != nil && state.CurrentRow > 0 {
		return ErrDoubleDownMidBoard
	}

	if err := campaignRepo.ActivateDoubleDown(campaignID, userID, date); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// lastRowSolved reports whether the most recent filled row solved the board
func lastRowSolved(state *models.GuessState) bool {
	if state.CurrentRow == 0 || state.CurrentRow > len(state.Results) {
		return false
	}
	row := state.Results[state.CurrentRow-1]
	if len(row) != game.WordLength {
		return false
	}
	for _, r := range row {
		if r != game.ResultCorrect {
			return false
		}
	}
	return true
}
