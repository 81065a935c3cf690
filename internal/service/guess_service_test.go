package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/game"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
)

// guessFixture is a real sqlite database with one campaign, one member
// and a known word schedule, for driving the guess transaction end to
// end.
type guessFixture struct {
	db       *database.DB
	svc      *GuessService
	userID   int64
	campaign *models.Campaign
}

func newGuessFixture(t *testing.T, startDate string, cycleLength int) *guessFixture {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "guess_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	dict := dictionary.New([]string{"slate", "haste"}, []string{"crane", "storm"})

	user, err := repository.NewUserRepository(db).CreateUser("Test", "Player", "player@example.com", "", "hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	campaignRepo := repository.NewCampaignRepository(db)
	campaign, err := campaignRepo.CreateCampaign("Test Realm", user.ID, "ABC234", startDate, cycleLength, false)
	if err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}
	if err := campaignRepo.AddMember(campaign.ID, user.ID, "Player", "gold"); err != nil {
		t.Fatalf("Failed to add member: %v", err)
	}
	for day := 1; day <= cycleLength; day++ {
		if err := campaignRepo.SetWord(campaign.ID, day, "crane"); err != nil {
			t.Fatalf("Failed to set word for day %d: %v", day, err)
		}
	}

	return &guessFixture{
		db:       db,
		svc:      NewGuessService(db, dict, NewAccoladeService()),
		userID:   user.ID,
		campaign: campaign,
	}
}

func (f *guessFixture) score(t *testing.T) int {
	t.Helper()
	member, err := repository.NewCampaignRepository(f.db).GetMember(f.campaign.ID, f.userID)
	if err != nil {
		t.Fatalf("Failed to get member: %v", err)
	}
	return member.Score
}

func (f *guessFixture) coins(t *testing.T) int {
	t.Helper()
	coins, err := repository.NewStatsRepository(f.db).GetCoins(f.userID, f.campaign.ID)
	if err != nil {
		t.Fatalf("Failed to get coins: %v", err)
	}
	return coins
}

func TestSubmitGuessSolveAwardsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newGuessFixture(t, "2026-03-10", 7)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, game.Location())

	resp, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "slate", 0, now)
	if err != nil {
		t.Fatalf("SubmitGuess(slate) error: %v", err)
	}
	if resp.Solved || resp.GameOver || resp.CurrentRow != 1 {
		t.Fatalf("SubmitGuess(slate) = solved=%v gameOver=%v row=%d, want open board on row 1", resp.Solved, resp.GameOver, resp.CurrentRow)
	}

	resp, err = f.svc.SubmitGuess(f.userID, f.campaign.ID, "crane", 0, now)
	if err != nil {
		t.Fatalf("SubmitGuess(crane) error: %v", err)
	}
	if !resp.Solved || !resp.GameOver {
		t.Fatalf("SubmitGuess(crane) = solved=%v gameOver=%v, want a solved board", resp.Solved, resp.GameOver)
	}
	if resp.TroopsEarned != game.TroopsForRow(1) {
		t.Errorf("TroopsEarned = %d, want %d", resp.TroopsEarned, game.TroopsForRow(1))
	}
	if resp.CoinsEarned != game.CoinsForRow(1) {
		t.Errorf("CoinsEarned = %d, want %d", resp.CoinsEarned, game.CoinsForRow(1))
	}
	if got := f.score(t); got != game.TroopsForRow(1) {
		t.Errorf("member score = %d, want %d", got, game.TroopsForRow(1))
	}
	if got := f.coins(t); got != game.CoinsForRow(1) {
		t.Errorf("coin balance = %d, want %d", got, game.CoinsForRow(1))
	}

	result, err := repository.NewPlayRepository(f.db).GetDailyResult(f.userID, f.campaign.ID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetDailyResult() error: %v", err)
	}
	if result == nil || !result.Solved || result.GuessesUsed != 2 {
		t.Errorf("daily result = %+v, want solved in 2 guesses", result)
	}
}

func TestSubmitGuessDuplicateEchoesWithoutRewards(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newGuessFixture(t, "2026-03-10", 7)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, game.Location())

	if _, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "crane", 0, now); err != nil {
		t.Fatalf("SubmitGuess(crane) error: %v", err)
	}
	score, coins := f.score(t), f.coins(t)

	// A retried submission, e.g. after a dropped response, must echo
	// the finished board and award nothing twice.
	resp, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "crane", 0, now)
	if err != nil {
		t.Fatalf("SubmitGuess(crane) retry error: %v", err)
	}
	if !resp.Duplicate || !resp.GameOver || !resp.Solved {
		t.Errorf("retry = duplicate=%v gameOver=%v solved=%v, want a solved echo", resp.Duplicate, resp.GameOver, resp.Solved)
	}
	if resp.TroopsEarned != 0 || resp.CoinsEarned != 0 {
		t.Errorf("retry awarded troops=%d coins=%d, want none", resp.TroopsEarned, resp.CoinsEarned)
	}
	if got := f.score(t); got != score {
		t.Errorf("member score after retry = %d, want %d", got, score)
	}
	if got := f.coins(t); got != coins {
		t.Errorf("coin balance after retry = %d, want %d", got, coins)
	}

	// A fresh word on a finished board is rejected outright
	if _, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "storm", 0, now); !errors.Is(err, game.ErrAlreadyPlayed) {
		t.Errorf("SubmitGuess(storm) error = %v, want ErrAlreadyPlayed", err)
	}
}

func TestSubmitGuessFinalDayCutoff(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newGuessFixture(t, "2026-03-10", 1)

	evening := time.Date(2026, 3, 10, game.FinalDayCutoffHour+1, 0, 0, 0, game.Location())
	if _, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "crane", 0, evening); !errors.Is(err, game.ErrAfterHours) {
		t.Errorf("SubmitGuess after cutoff error = %v, want ErrAfterHours", err)
	}

	morning := time.Date(2026, 3, 10, 9, 0, 0, 0, game.Location())
	if _, err := f.svc.SubmitGuess(f.userID, f.campaign.ID, "crane", 0, morning); err != nil {
		t.Errorf("SubmitGuess before cutoff error: %v", err)
	}
}

func TestDailyResultInsertedOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newGuessFixture(t, "2026-03-10", 7)
	playRepo := repository.NewPlayRepository(f.db)

	res := &models.DailyResult{
		UserID:     f.userID,
		CampaignID: f.campaign.ID,
		Date:       "2026-03-11",
		Word:       "crane",
		Solved:     true,
	}
	created, err := playRepo.InsertDailyResult(res)
	if err != nil {
		t.Fatalf("InsertDailyResult() error: %v", err)
	}
	if !created {
		t.Fatal("InsertDailyResult() first insert reported not created")
	}
	created, err = playRepo.InsertDailyResult(res)
	if err != nil {
		t.Fatalf("InsertDailyResult() replay error: %v", err)
	}
	if created {
		t.Error("InsertDailyResult() replay reported created, rewards would double")
	}
}
