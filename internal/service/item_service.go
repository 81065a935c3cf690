package service

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/game"
	"wordrealm/internal/items"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
)

// OracleHint is a revealed letter and its 1-based position
type OracleHint struct {
	Day      int    `json:"day"`
	Position int    `json:"position"`
	Letter   string `json:"letter"`
}

// UseItemResult reports what a successful item use did
type UseItemResult struct {
	ItemKey       string      `json:"item_key"`
	Hint          *OracleHint `json:"hint,omitempty"`
	AbsentLetters []string    `json:"absent_letters,omitempty"`
	EffectiveOn   string      `json:"effective_on,omitempty"`
	Delayed       bool        `json:"delayed,omitempty"`
}

// ItemService is the shop side of the game: using blessings on yourself
// and curses or illusions on other members. Items are funded from the
// member's inventory when held, otherwise bought with coins on the spot.
type ItemService struct {
	db        *database.DB
	dict      *dictionary.Dictionary
	accolades *AccoladeService
}

// NewItemService creates a new item service
func NewItemService(db *database.DB, dict *dictionary.Dictionary, accolades *AccoladeService) *ItemService {
	return &ItemService{db: db, dict: dict, accolades: accolades}
}

// Catalog returns the full item catalog for the shop listing
func (s *ItemService) Catalog() []items.Item {
	return items.All()
}

// Inventory returns a member's held items
func (s *ItemService) Inventory(userID, campaignID int64) (map[string]int, error) {
	return repository.NewEffectsRepository(s.db).ListItems(userID, campaignID)
}

// UseItem applies one item. Self-targeted blessings take effect
// immediately; other-targeted items bind to the target's next day so
// nobody's board changes mid-session.
func (s *ItemService) UseItem(userID, campaignID int64, itemKey string, targetUserID *int64, rawPayload json.RawMessage, now time.Time) (*UseItemResult, error) {
	item, err := items.Get(itemKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, itemKey)
	}
	payload, err := items.DecodePayload(item, rawPayload)
	if err != nil {
		return nil, err
	}

	switch item.Key {
	case items.KeyEdictOfCompulsion:
		if !s.dict.IsValid(payload.Word) {
			return nil, fmt.Errorf("%w: mandated word must be a valid guess", items.ErrInvalidPayload)
		}
	case items.KeyVoidbrand:
		if !s.dict.IsPlayable(payload.Word) {
			return nil, fmt.Errorf("%w: brand word must come from the playable list", items.ErrInvalidPayload)
		}
	case items.KeySendInTheClown:
		if payload.Row == 0 {
			payload.Row = items.ClownRowMin + rand.Intn(items.ClownRowMax-items.ClownRowMin+1)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	campaignRepo := repository.NewCampaignRepository(tx)
	effectsRepo := repository.NewEffectsRepository(tx)
	statsRepo := repository.NewStatsRepository(tx)

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

	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, now, 0)
	if err != nil {
		return nil, err
	}
	today := info.TargetDateString()

	var target *models.CampaignMember
	if item.RequiresTarget {
		if targetUserID == nil || *targetUserID == userID {
			return nil, items.ErrTargetRequired
		}
		target, err = campaignRepo.GetMember(campaignID, *targetUserID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, game.ErrNotAMember
		}
	}

	// Fund the use: a held item is consumed, otherwise coins are spent
	boughtWithCoins := false
	consumed, err := effectsRepo.ConsumeItem(userID, campaignID, item.Key)
	if err != nil {
		return nil, err
	}
	if !consumed {
		ok, err := statsRepo.SpendCoins(userID, campaignID, item.Cost)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInsufficient
		}
		boughtWithCoins = true
	}

	result := &UseItemResult{ItemKey: item.Key}
	event := &models.ItemEvent{
		UserID:      userID,
		CampaignID:  campaignID,
		ItemKey:     item.Key,
		EventType:   "use",
		EffectiveOn: today,
	}

	if item.AffectsOthers {
		// Curses and illusions land on the target's next day
		effectiveOn := info.TargetDate.AddDate(0, 0, 1).Format(game.DateLayout)
		event.TargetUserID = targetUserID
		event.EffectiveOn = effectiveOn
		event.Delayed = true
		result.EffectiveOn = effectiveOn
		result.Delayed = true

		if len(item.ExclusiveWith) > 0 {
			existing, err := effectsRepo.ListEventsAgainst(*targetUserID, campaignID, effectiveOn)
			if err != nil {
				return nil, err
			}
			for _, e := range existing {
				for _, peer := range item.ExclusiveWith {
					if e.ItemKey == peer || e.ItemKey == item.Key {
						return nil, items.ErrExclusiveConflict
					}
				}
			}
		}

		details, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		event.Details = string(details)
	} else {
		if err := s.applyBlessing(tx, item, member, info, today, result); err != nil {
			return nil, err
		}
	}

	if _, err := effectsRepo.InsertItemEvent(event); err != nil {
		return nil, err
	}

	s.itemAccolades(tx, userID, campaignID, item, today, boughtWithCoins, campaign.IsAdminCampaign)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}

// applyBlessing writes the status effect for a self-targeted item
func (s *ItemService) applyBlessing(tx *database.Tx, item items.Item, member *models.CampaignMember, info game.DayInfo, today string, result *UseItemResult) error {
	effectsRepo := repository.NewEffectsRepository(tx)
	campaignRepo := repository.NewCampaignRepository(tx)
	playRepo := repository.NewPlayRepository(tx)

	userID, campaignID := member.UserID, member.CampaignID
	expiresAt := info.TargetDate.AddDate(0, 0, 1)

	switch item.Key {
	case items.KeyOracleWhisper:
		if member.DoubleDownActivated && member.DoubleDownDate == today {
			return ErrOracleBlocked
		}
		used, err := effectsRepo.HasUsedItemOn(userID, campaignID, item.Key, today)
		if err != nil {
			return err
		}
		if used {
			return ErrOracleUsedToday
		}

		secret, err := campaignRepo.GetWord(campaignID, info.TargetDay)
		if err != nil {
			return err
		}
		if secret == "" {
			return game.ErrNoWordAssigned
		}
		state, err := playRepo.GetState(userID, campaignID, today)
		if err != nil {
			return err
		}

		pos := pickHintPosition(secret, state)
		hint := &OracleHint{Day: info.TargetDay, Position: pos + 1, Letter: strings.ToUpper(string(secret[pos]))}
		value, err := json.Marshal(hint)
		if err != nil {
			return fmt.Errorf("failed to encode hint: %w", err)
		}
		if err := effectsRepo.UpsertStatusEffect(userID, campaignID, item.Key, string(value), expiresAt); err != nil {
			return err
		}
		result.Hint = hint

	case items.KeyCartographersInsight:
		secret, err := campaignRepo.GetWord(campaignID, info.TargetDay)
		if err != nil {
			return err
		}
		if secret == "" {
			return game.ErrNoWordAssigned
		}
		state, err := playRepo.GetState(userID, campaignID, today)
		if err != nil {
			return err
		}

		letters := pickAbsentLetters(secret, state, 2)
		value, err := json.Marshal(map[string]interface{}{"day": info.TargetDay, "unused_letters": letters})
		if err != nil {
			return fmt.Errorf("failed to encode insight: %w", err)
		}
		if err := effectsRepo.UpsertStatusEffect(userID, campaignID, item.Key, string(value), expiresAt); err != nil {
			return err
		}
		result.AbsentLetters = letters

	case items.KeyCandleOfMercy:
		value := `{"bonus_troops_on_fail":10}`
		// No expiry: the candle burns until a fail consumes it
		if err := effectsRepo.UpsertStatusEffect(userID, campaignID, item.Key, value, nil); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %s", ErrItemUnavailable, item.Key)
	}
	return nil
}

// pickHintPosition chooses a secret position whose letter is not yet
// confirmed on the player's keyboard, falling back to any position.
func pickHintPosition(secret string, state *models.GuessState) int {
	confirmed := map[byte]bool{}
	if state != nil {
		for letter, status := range state.LetterStatus {
			if status == game.ResultCorrect && len(letter) == 1 {
				confirmed[letter[0]] = true
			}
		}
	}

	positions := rand.Perm(len(secret))
	for _, pos := range positions {
		if !confirmed[secret[pos]] {
			return pos
		}
	}
	return positions[0]
}

// pickAbsentLetters chooses up to n letters that are neither in the
// secret nor already played.
func pickAbsentLetters(secret string, state *models.GuessState, n int) []string {
	used := map[rune]bool{}
	for _, r := range secret {
		used[r] = true
	}
	if state != nil {
		for _, row := range state.Guesses {
			for _, cell := range row {
				if cell != "" {
					used[rune(cell[0])] = true
				}
			}
		}
	}

	var candidates []string
	for r := 'a'; r <= 'z'; r++ {
		if !used[r] {
			candidates = append(candidates, strings.ToUpper(string(r)))
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// itemAccolades evaluates the shop badges after a successful use.
// Failures only log: badges never fail an item use.
func (s *ItemService) itemAccolades(tx *database.Tx, userID, campaignID int64, item items.Item, today string, boughtWithCoins, adminCampaign bool) {
	effectsRepo := repository.NewEffectsRepository(tx)
	accoladeRepo := repository.NewAccoladeRepository(tx)

	if boughtWithCoins && item.Cost >= 8 {
		s.accolades.Award(accoladeRepo, userID, campaignID, AccoladeBigSpender, today, adminCampaign)
	}

	uses, err := effectsRepo.CountUseEvents(userID, campaignID)
	if err == nil && uses >= 10 {
		s.accolades.Award(accoladeRepo, userID, campaignID, AccoladeShopRegular, today, adminCampaign)
	}

	distinct, err := effectsRepo.CountDistinctItemsUsed(userID, campaignID)
	if err == nil && distinct >= len(items.All()) {
		s.accolades.Award(accoladeRepo, userID, campaignID, AccoladeItemMaster, today, adminCampaign)
	}
}

// GrantItems credits items to a member and evaluates the hoarder badge
func (s *ItemService) GrantItems(db database.DBTX, userID, campaignID int64, itemKey string, quantity int, today string, adminCampaign bool) error {
	if _, err := items.Get(itemKey); err != nil {
		return err
	}
	effectsRepo := repository.NewEffectsRepository(db)
	if err := effectsRepo.AddItem(userID, campaignID, itemKey, quantity); err != nil {
		return err
	}

	inventory, err := effectsRepo.ListItems(userID, campaignID)
	if err == nil {
		total := 0
		for _, q := range inventory {
			total += q
		}
		if total >= 10 {
			s.accolades.Award(repository.NewAccoladeRepository(db), userID, campaignID, AccoladeHoarder, today, adminCampaign)
		}
	}
	return nil
}

// ActiveEffects returns a member's live status effects keyed by effect
func (s *ItemService) ActiveEffects(userID, campaignID int64) (map[string]models.StatusEffect, error) {
	return repository.NewEffectsRepository(s.db).GetActiveEffects(userID, campaignID)
}
