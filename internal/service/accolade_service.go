package service

import (
	"log"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
	"wordrealm/internal/repository"
)

// Accolade keys. Terminal-outcome badges evaluate when a day finishes;
// item badges evaluate in the item service; top_3 evaluates at cycle end.
const (
	AccoladeAce          = "ace"
	AccoladeLuckyStrike  = "lucky_strike"
	AccoladeClutch       = "clutch"
	AccoladeBarelyMadeIt = "barely_made_it"
	AccoladeFirstSolver  = "first_solver"
	AccoladeComeback     = "comeback"
	AccoladeEarlyBird    = "early_bird"
	AccoladeNightOwl     = "night_owl"
	AccoladeLateSave     = "late_save"
	AccoladePerfectWeek  = "perfect_week"
	AccoladeMarathon     = "marathon"
	AccoladeVeteran7     = "veteran_7"
	AccoladeVeteran30    = "veteran_30"
	AccoladeVeteran100   = "veteran_100"
	AccoladeHoarder      = "hoarder"
	AccoladeBigSpender   = "big_spender"
	AccoladeShopRegular  = "shop_regular"
	AccoladeItemMaster   = "item_master"
	AccoladeTop3         = "top_3"
)

var accoladeLabels = map[string]string{
	AccoladeAce:          "Ace",
	AccoladeLuckyStrike:  "Lucky Strike",
	AccoladeClutch:       "Clutch",
	AccoladeBarelyMadeIt: "Barely Made It",
	AccoladeFirstSolver:  "First Solver",
	AccoladeComeback:     "Comeback",
	AccoladeEarlyBird:    "Early Bird",
	AccoladeNightOwl:     "Night Owl",
	AccoladeLateSave:     "Late Save",
	AccoladePerfectWeek:  "Perfect Week",
	AccoladeMarathon:     "Marathon",
	AccoladeVeteran7:     "Veteran",
	AccoladeVeteran30:    "Seasoned Veteran",
	AccoladeVeteran100:   "Legendary Veteran",
	AccoladeHoarder:      "Hoarder",
	AccoladeBigSpender:   "Big Spender",
	AccoladeShopRegular:  "Shop Regular",
	AccoladeItemMaster:   "Item Master",
	AccoladeTop3:         "Top 3 Finish",
}

// AccoladeLabel returns the display name for a badge key
func AccoladeLabel(key string) string {
	if label, ok := accoladeLabels[key]; ok {
		return label
	}
	return key
}

// TerminalOutcome carries everything the badge predicates need about a
// finished day. It is assembled by the guess transaction from values it
// already computed; predicates never re-query play state, except that
// SolversBefore is counted inside the transaction on purpose so the
// first solver of the day is decided under the campaign lock.
type TerminalOutcome struct {
	UserID            int64
	CampaignID        int64
	Date              string
	Day               int
	CycleLength       int
	Solved            bool
	Row               int // 0-based row of the final guess
	MaxRows           int
	UsedDoubleDown    bool
	DoubleDownSuccess bool
	Streak            int
	RecoveredFromGap  bool
	TotalDaysPlayed   int
	SolversBefore     int
	SubmittedAt       time.Time
	IsAdminCampaign   bool
}

// AccoladeService awards badges
type AccoladeService struct{}

// NewAccoladeService creates a new accolade service
func NewAccoladeService() *AccoladeService {
	return &AccoladeService{}
}

// terminalBadges evaluates the predicate table for a finished day
func terminalBadges(o TerminalOutcome) []string {
	var keys []string
	hour := o.SubmittedAt.In(timezone()).Hour()

	if o.Solved {
		if o.Row == 0 {
			keys = append(keys, AccoladeAce)
		}
		if o.Row == 1 {
			keys = append(keys, AccoladeLuckyStrike)
		}
		if o.Row == o.MaxRows-1 {
			if o.UsedDoubleDown {
				keys = append(keys, AccoladeClutch)
			} else {
				keys = append(keys, AccoladeBarelyMadeIt)
			}
		}
		if o.SolversBefore == 0 {
			keys = append(keys, AccoladeFirstSolver)
		}
		if o.RecoveredFromGap {
			keys = append(keys, AccoladeComeback)
		}
		if o.Day == o.CycleLength && hour >= 18 {
			keys = append(keys, AccoladeLateSave)
		}
		if o.Day == o.CycleLength && o.Streak >= o.CycleLength {
			keys = append(keys, AccoladePerfectWeek)
		}
	}

	if hour < 7 {
		keys = append(keys, AccoladeEarlyBird)
	}
	if hour >= 23 {
		keys = append(keys, AccoladeNightOwl)
	}
	if o.Streak >= 14 {
		keys = append(keys, AccoladeMarathon)
	}
	switch {
	case o.TotalDaysPlayed >= 100:
		keys = append(keys, AccoladeVeteran100)
	case o.TotalDaysPlayed >= 30:
		keys = append(keys, AccoladeVeteran30)
	case o.TotalDaysPlayed >= 7:
		keys = append(keys, AccoladeVeteran7)
	}

	return keys
}

// EvaluateTerminal awards every badge the outcome earns. Runs on the
// caller's transaction handle. Award failures are logged and swallowed:
// a badge must never fail a finished day.
func (s *AccoladeService) EvaluateTerminal(db database.DBTX, o TerminalOutcome) {
	repo := repository.NewAccoladeRepository(db)
	for _, key := range terminalBadges(o) {
		s.Award(repo, o.UserID, o.CampaignID, key, o.Date, o.IsAdminCampaign)
	}
}

// Award records one badge event and bumps the counters. The dated event
// row is unique, so replays bump nothing.
func (s *AccoladeService) Award(repo *repository.AccoladeRepository, userID, campaignID int64, key, date string, adminCampaign bool) {
	created, err := repo.InsertAwardOnce(&models.AccoladeAward{
		UserID:      userID,
		CampaignID:  campaignID,
		AccoladeKey: key,
		Date:        date,
	})
	if err != nil {
		log.Printf("accolade %s for user %d: %v", key, userID, err)
		return
	}
	if !created {
		return
	}

	if err := repo.BumpUserCount(userID, campaignID, key); err != nil {
		log.Printf("accolade %s user counter: %v", key, err)
	}
	if err := repo.BumpCampaignCount(campaignID, key); err != nil {
		log.Printf("accolade %s campaign counter: %v", key, err)
	}
	if !adminCampaign {
		if err := repo.BumpGlobalCount(key); err != nil {
			log.Printf("accolade %s global counter: %v", key, err)
		}
	}
}
