package service

import (
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/game"
	"wordrealm/internal/items"
	"wordrealm/internal/repository"
)

// RewardService lets a cycle winner gift oracle whispers to members
// they choose. Each reward fulfills exactly once.
type RewardService struct {
	db    *database.DB
	items *ItemService
}

// NewRewardService creates a new reward service
func NewRewardService(db *database.DB, itemService *ItemService) *RewardService {
	return &RewardService{db: db, items: itemService}
}

// PendingReward returns the caller's unfulfilled reward, or nil
func (s *RewardService) PendingReward(userID, campaignID int64) (*repository.CycleReward, error) {
	return repository.NewRewardRepository(s.db).PendingRewardFor(campaignID, userID)
}

// ChooseRecipients fulfills the winner's reward by granting whispers to
// the chosen members. The fulfilled-once guard makes a double submit a
// no-op after the first.
func (s *RewardService) ChooseRecipients(userID, campaignID int64, recipientIDs []int64, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rewardRepo := repository.NewRewardRepository(tx)
	campaignRepo := repository.NewCampaignRepository(tx)

	campaign, err := campaignRepo.GetCampaignForUpdate(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return game.ErrCampaignNotFound
	}

	reward, err := rewardRepo.PendingRewardFor(campaignID, userID)
	if err != nil {
		return err
	}
	if reward == nil {
		return ErrNoPendingReward
	}

	if len(recipientIDs) == 0 || len(recipientIDs) > reward.RecipientCount {
		return fmt.Errorf("%w: choose between 1 and %d members", ErrNoPendingReward, reward.RecipientCount)
	}

	fulfilled, err := rewardRepo.MarkFulfilled(campaignID, reward.CycleStartDate)
	if err != nil {
		return err
	}
	if !fulfilled {
		return ErrNoPendingReward
	}

	today := game.Today(now)
	seen := map[int64]bool{}
	for _, recipientID := range recipientIDs {
		if seen[recipientID] {
			continue
		}
		seen[recipientID] = true

		member, err := campaignRepo.GetMember(campaignID, recipientID)
		if err != nil {
			return err
		}
		if member == nil {
			return game.ErrNotAMember
		}

		if err := rewardRepo.AddRecipient(campaignID, reward.CycleStartDate, recipientID); err != nil {
			return err
		}
		if err := s.items.GrantItems(tx, recipientID, campaignID, items.KeyOracleWhisper, reward.WhispersPerRecipient, today, campaign.IsAdminCampaign); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
