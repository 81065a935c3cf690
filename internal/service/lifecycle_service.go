package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/game"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
)

// DefaultRewardRecipients is how many members a cycle winner may gift
const DefaultRewardRecipients = 3

// WhispersPerRecipient is the oracle whispers each gifted member receives
const WhispersPerRecipient = 2

// LifecycleService ends finished cycles: crowns the winner, snapshots
// the hall of fame, opens the winner's reward and rolls the campaign
// into a fresh cycle.
type LifecycleService struct {
	db        *database.DB
	dict      *dictionary.Dictionary
	accolades *AccoladeService
	email     *EmailService
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(db *database.DB, dict *dictionary.Dictionary, accolades *AccoladeService, email *EmailService) *LifecycleService {
	return &LifecycleService{db: db, dict: dict, accolades: accolades, email: email}
}

// ResetExpired rolls over every campaign whose final day has passed.
// Campaigns reset independently: one failure is logged and the scan
// moves on.
func (s *LifecycleService) ResetExpired(ctx context.Context, now time.Time) (int, error) {
	campaigns, err := repository.NewCampaignRepository(s.db).ListExpiredCampaigns(game.Today(now))
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, c := range campaigns {
		if err := s.resetCampaign(ctx, c, now); err != nil {
			log.Printf("reset campaign %d (%s): %v", c.ID, c.Name, err)
			continue
		}
		reset++
	}
	return reset, nil
}

// resetCampaign ends one cycle inside a single transaction holding the
// campaign row lock, so no guess can interleave with the rollover.
func (s *LifecycleService) resetCampaign(ctx context.Context, stale models.Campaign, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	statsRepo := repository.NewStatsRepository(tx)
	playRepo := repository.NewPlayRepository(tx)
	effectsRepo := repository.NewEffectsRepository(tx)
	userRepo := repository.NewUserRepository(tx)
	rewardRepo := repository.NewRewardRepository(tx)
	accoladeRepo := repository.NewAccoladeRepository(tx)

	campaign, err := campaignRepo.GetCampaignForUpdate(stale.ID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return nil
	}
	// Re-check under the lock: another process may have reset it first
	if !campaignEndedAt(*campaign, now) {
		return nil
	}

	members, err := campaignRepo.ListMembers(campaign.ID)
	if err != nil {
		return err
	}

	final, err := game.FinalDay(campaign.StartDate, campaign.CycleLength)
	if err != nil {
		return err
	}
	endedOn := final.Format(game.DateLayout)

	var winner *models.CampaignMember
	for i, m := range members {
		if m.Score > 0 {
			hs := &models.HighScore{
				UserID:         m.UserID,
				CampaignID:     campaign.ID,
				PlayerName:     m.DisplayName,
				CampaignName:   campaign.Name,
				Troops:         m.Score,
				EndedOn:        endedOn,
				CampaignLength: campaign.CycleLength,
			}
			if !campaign.IsAdminCampaign {
				if err := statsRepo.InsertHighScore(hs); err != nil {
					return err
				}
			}
		}
		// Members arrive score-ordered; the first with points wins
		if winner == nil && m.Score > 0 {
			winner = &members[i]
		}
	}

	king := ""
	if winner != nil {
		king = winner.DisplayName
		if !campaign.IsAdminCampaign {
			if err := userRepo.RecordCampaignOutcome(winner.UserID, true); err != nil {
				return err
			}
		}
		if err := rewardRepo.CreateReward(campaign.ID, campaign.StartDate, winner.UserID, DefaultRewardRecipients, WhispersPerRecipient); err != nil {
			return err
		}
		for rank, m := range members {
			if rank >= 3 {
				break
			}
			if m.Score > 0 {
				s.accolades.Award(accoladeRepo, m.UserID, campaign.ID, AccoladeTop3, endedOn, campaign.IsAdminCampaign)
			}
		}
	}

	if err := campaignRepo.ResetCampaign(campaign.ID, game.Today(now), king); err != nil {
		return err
	}
	if err := campaignRepo.ResetMemberCycleState(campaign.ID); err != nil {
		return err
	}
	// The guess log and daily results survive the reset on purpose:
	// word stats and accolade history read them, and new-cycle dates
	// never collide with old rows.
	if err := playRepo.ClearCycleState(campaign.ID); err != nil {
		return err
	}
	if err := statsRepo.ResetStreaks(campaign.ID); err != nil {
		return err
	}
	if err := effectsRepo.ClearEffects(campaign.ID); err != nil {
		return err
	}
	if err := campaignRepo.DeleteWords(campaign.ID); err != nil {
		return err
	}
	if err := SeedWords(campaignRepo, s.dict, campaign.ID, campaign.CycleLength); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Outside the transaction: the crown email is best effort
	if winner != nil && s.email != nil {
		user, err := repository.NewUserRepository(s.db).GetUserByID(winner.UserID)
		if err == nil && user != nil {
			if err := s.email.SendWinnerEmail(ctx, user.Email, winner.DisplayName, campaign.Name, winner.Score); err != nil {
				log.Printf("winner email for campaign %d: %v", campaign.ID, err)
			}
		}
	}

	log.Printf("campaign %d (%s) reset: king=%q members=%d", campaign.ID, campaign.Name, king, len(members))
	return nil
}

// SeedWords assigns a secret word to every day of the cycle, sampling
// the playable list without replacement while it lasts.
func SeedWords(campaignRepo *repository.CampaignRepository, dict *dictionary.Dictionary, campaignID int64, cycleLength int) error {
	pool := dict.Playable()
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for day, word := range cycleSchedule(pool, cycleLength) {
		if err := campaignRepo.SetWord(campaignID, day+1, word); err != nil {
			return err
		}
	}
	return nil
}

// cycleSchedule maps each day of a cycle to a word from the shuffled
// pool, wrapping only when the pool is smaller than the cycle
func cycleSchedule(pool []string, cycleLength int) []string {
	words := make([]string, cycleLength)
	for day := 0; day < cycleLength; day++ {
		words[day] = pool[day%len(pool)]
	}
	return words
}
