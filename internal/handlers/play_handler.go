package handlers

import (
	"net/http"
	"strconv"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/game"
	"wordrealm/internal/repository"
	"wordrealm/internal/service"
)

// PlayHandler handles guess submission and per-member play state
type PlayHandler struct {
	db              *database.DB
	guessService    *service.GuessService
	campaignService *service.CampaignService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(db *database.DB, guessService *service.GuessService, campaignService *service.CampaignService) *PlayHandler {
	return &PlayHandler{db: db, guessService: guessService, campaignService: campaignService}
}

// queryDay reads an optional ?day= override, 0 meaning today
func queryDay(r *http.Request) int {
	day, _ := strconv.Atoi(r.URL.Query().Get("day"))
	if day < 0 {
		return 0
	}
	return day
}

// SubmitGuess plays one word against the target day's board
func (h *PlayHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	var req struct {
		Word string `json:"word"`
		Day  int    `json:"day"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	resp, err := h.guessService.SubmitGuess(claims.UserID, campaignID, req.Word, req.Day, time.Now())
	if err != nil {
		respondWithServiceError(w, "guess submission failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Progress returns the saved board for the target day
func (h *PlayHandler) Progress(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	resp, err := h.guessService.SavedProgress(claims.UserID, campaignID, queryDay(r), time.Now())
	if err != nil {
		respondWithServiceError(w, "progress lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ActivateDoubleDown arms the once-per-cycle gamble for today
func (h *PlayHandler) ActivateDoubleDown(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	if err := h.guessService.ActivateDoubleDown(claims.UserID, campaignID, time.Now()); err != nil {
		respondWithServiceError(w, "double down activation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

// Streak returns the caller's current streak in a campaign
func (h *PlayHandler) Streak(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	streak, err := repository.NewStatsRepository(h.db).GetStreak(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "streak lookup failed", err)
		return
	}
	resp := map[string]interface{}{"streak": 0, "last_completed_date": ""}
	if streak != nil {
		resp["streak"] = streak.Streak
		resp["last_completed_date"] = streak.LastCompletedDate
	}
	writeJSON(w, http.StatusOK, resp)
}

// Coins returns the caller's coin balance in a campaign
func (h *PlayHandler) Coins(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	coins, err := repository.NewStatsRepository(h.db).GetCoins(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "coins lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"coins": coins})
}

// Stats returns the caller's running aggregates in a campaign
func (h *PlayHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	stats, err := repository.NewStatsRepository(h.db).GetCampaignStats(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "stats lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DailyResult returns the caller's finished-day record, 404 before the
// day is settled
func (h *PlayHandler) DailyResult(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		respondWithServiceError(w, "campaign lookup failed", err)
		return
	}
	info, err := game.ResolveDay(campaign.StartDate, campaign.CycleLength, time.Now(), queryDay(r))
	if err != nil {
		respondWithServiceError(w, "day resolution failed", err)
		return
	}

	result, err := repository.NewPlayRepository(h.db).GetDailyResult(claims.UserID, campaignID, info.TargetDateString())
	if err != nil {
		respondWithServiceError(w, "daily result lookup failed", err)
		return
	}
	if result == nil {
		respondWithError(w, http.StatusNotFound, "Day not finished yet", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Accolades returns the caller's badge counts in a campaign
func (h *PlayHandler) Accolades(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	counts, err := repository.NewAccoladeRepository(h.db).ListUserCounts(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "accolade lookup failed", err)
		return
	}
	for i := range counts {
		counts[i].Label = service.AccoladeLabel(counts[i].Key)
	}
	writeJSON(w, http.StatusOK, counts)
}
