package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/game"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
	"wordrealm/internal/validation"
)

// OwnerColor marks the campaign creator on the leaderboard
const OwnerColor = "gold"

// CampaignService handles campaign lifecycle short of the cycle reset:
// creation, joining, membership management and the leaderboards.
type CampaignService struct {
	db   *database.DB
	dict *dictionary.Dictionary
}

// NewCampaignService creates a new campaign service
func NewCampaignService(db *database.DB, dict *dictionary.Dictionary) *CampaignService {
	return &CampaignService{db: db, dict: dict}
}

// CreateCampaign creates a campaign starting today, seeds its word
// schedule and joins the owner.
func (s *CampaignService) CreateCampaign(ownerID int64, name, displayName string, cycleLength int, isAdminCampaign bool, now time.Time) (*models.Campaign, error) {
	if err := validation.ValidateCampaignName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateCycleLength(cycleLength); err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = name + " founder"
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	campaign, err := campaignRepo.CreateCampaign(name, ownerID, code, game.Today(now), cycleLength, isAdminCampaign)
	if err != nil {
		return nil, err
	}

	if err := SeedWords(campaignRepo, s.dict, campaign.ID, cycleLength); err != nil {
		return nil, err
	}

	if err := campaignRepo.AddMember(campaign.ID, ownerID, displayName, OwnerColor); err != nil {
		return nil, err
	}
	if err := userRepo.IncrementCampaignCount(ownerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return campaign, nil
}

// JoinByCode joins a campaign through its invite code. Invites expire
// with the cycle: once the final day has passed, the code is dead until
// the reset rewrites the start date.
func (s *CampaignService) JoinByCode(userID int64, code, displayName, color string, now time.Time) (*models.Campaign, error) {
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	campaignRepo := repository.NewCampaignRepository(s.db)
	campaign, err := campaignRepo.GetCampaignByInviteCode(code)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}

	if campaignEndedAt(*campaign, now) {
		return nil, ErrInviteExpired
	}

	if err := s.join(campaign, userID, displayName, color); err != nil {
		return nil, err
	}
	return campaign, nil
}

// JoinByID adds a user to a campaign they already know the ID of, the
// same expiry rule as invite codes
func (s *CampaignService) JoinByID(userID, campaignID int64, displayName, color string, now time.Time) (*models.Campaign, error) {
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	campaign, err := repository.NewCampaignRepository(s.db).GetCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}

	if campaignEndedAt(*campaign, now) {
		return nil, ErrInviteExpired
	}

	if err := s.join(campaign, userID, displayName, color); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) join(campaign *models.Campaign, userID int64, displayName, color string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	existing, err := campaignRepo.GetMember(campaign.ID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyMember
	}

	if err := campaignRepo.AddMember(campaign.ID, userID, displayName, color); err != nil {
		return err
	}
	if err := userRepo.IncrementCampaignCount(userID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCampaign returns one campaign
func (s *CampaignService) GetCampaign(campaignID int64) (*models.Campaign, error) {
	campaign, err := repository.NewCampaignRepository(s.db).GetCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}
	return campaign, nil
}

// GetMember returns the caller's own membership row
func (s *CampaignService) GetMember(campaignID, userID int64) (*models.CampaignMember, error) {
	member, err := repository.NewCampaignRepository(s.db).GetMember(campaignID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, game.ErrNotAMember
	}
	return member, nil
}

// ListMembers returns every member of a campaign
func (s *CampaignService) ListMembers(campaignID int64) ([]models.CampaignMember, error) {
	return repository.NewCampaignRepository(s.db).ListMembers(campaignID)
}

// Leaderboard returns score-ordered standings with a played-today flag
func (s *CampaignService) Leaderboard(campaignID int64, now time.Time) ([]models.LeaderboardEntry, error) {
	campaignRepo := repository.NewCampaignRepository(s.db)
	playRepo := repository.NewPlayRepository(s.db)

	campaign, err := campaignRepo.GetCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, game.ErrCampaignNotFound
	}

	members, err := campaignRepo.ListMembers(campaignID)
	if err != nil {
		return nil, err
	}

	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, now, 0)
	if err != nil {
		return nil, err
	}
	today := info.TargetDateString()

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		played, err := playRepo.IsCompleted(m.UserID, campaignID, today)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntry{
			Username:    m.DisplayName,
			Color:       m.Color,
			Score:       m.Score,
			PlayedToday: played,
		})
	}
	return entries, nil
}

// Summaries returns a user's campaigns with day and completion context
func (s *CampaignService) Summaries(userID int64, now time.Time) ([]models.CampaignSummary, error) {
	campaignRepo := repository.NewCampaignRepository(s.db)
	playRepo := repository.NewPlayRepository(s.db)

	campaigns, err := campaignRepo.ListCampaignsForUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		info, err := game.ResolveDay(c.StartDate, c.CycleLength, now, 0)
		if err != nil {
			return nil, err
		}
		member, err := campaignRepo.GetMember(c.ID, userID)
		if err != nil {
			return nil, err
		}
		completed, err := playRepo.IsCompleted(userID, c.ID, info.TargetDateString())
		if err != nil {
			return nil, err
		}

		summary := models.CampaignSummary{
			CampaignID:     c.ID,
			Name:           c.Name,
			Day:            info.CurrentDay,
			Total:          c.CycleLength,
			IsFinished:     campaignEndedAt(c, now),
			DailyCompleted: completed,
		}
		if member != nil {
			summary.DoubleDownActivated = member.DoubleDownActivated
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UpdateMember changes the caller's display name or color
func (s *CampaignService) UpdateMember(campaignID, userID int64, displayName, color string) error {
	if displayName != "" {
		if err := validation.ValidateDisplayName(displayName); err != nil {
			return err
		}
	}
	campaignRepo := repository.NewCampaignRepository(s.db)
	member, err := campaignRepo.GetMember(campaignID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return game.ErrNotAMember
	}
	if displayName == "" {
		displayName = member.DisplayName
	}
	if color == "" {
		color = member.Color
	}
	return campaignRepo.UpdateMemberProfile(campaignID, userID, displayName, color)
}

// KickMember removes a member; only the owner may do it
func (s *CampaignService) KickMember(campaignID, ownerID, targetUserID int64) error {
	campaignRepo := repository.NewCampaignRepository(s.db)
	campaign, err := campaignRepo.GetCampaignByID(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return game.ErrCampaignNotFound
	}
	if campaign.OwnerID != ownerID {
		return ErrNotOwner
	}
	if targetUserID == ownerID {
		return ErrNotOwner
	}
	return campaignRepo.RemoveMember(campaignID, targetUserID)
}

// DeleteCampaign removes a campaign and its per-cycle state; owner only
func (s *CampaignService) DeleteCampaign(campaignID, ownerID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	playRepo := repository.NewPlayRepository(tx)

	campaign, err := campaignRepo.GetCampaignByID(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return game.ErrCampaignNotFound
	}
	if campaign.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := playRepo.ClearCycleState(campaignID); err != nil {
		return err
	}
	if err := campaignRepo.DeleteWords(campaignID); err != nil {
		return err
	}
	if err := campaignRepo.DeleteCampaign(campaignID); err != nil {
		return err
	}
	return tx.Commit()
}

// RevealWord returns the secret for a day; admin or development use
func (s *CampaignService) RevealWord(campaignID int64, day int) (string, error) {
	word, err := repository.NewCampaignRepository(s.db).GetWord(campaignID, day)
	if err != nil {
		return "", err
	}
	if word == "" {
		return "", game.ErrNoWordAssigned
	}
	return word, nil
}

// HallOfFame returns the global top cycle scores
func (s *CampaignService) HallOfFame(limit int) ([]models.HighScore, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return repository.NewStatsRepository(s.db).TopHighScores(limit)
}

// campaignEndedAt reports whether the campaign's final day has passed
func campaignEndedAt(c models.Campaign, now time.Time) bool {
	final, err := game.FinalDay(c.StartDate, c.CycleLength)
	if err != nil {
		return false
	}
	// ISO date strings compare lexicographically
	return game.Today(now) > final.Format(game.DateLayout)
}

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateInviteCode returns a random 6-character code without
// lookalike characters.
func generateInviteCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}
