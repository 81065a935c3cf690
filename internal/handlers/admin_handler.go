package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/repository"
	"wordrealm/internal/service"
)

// AdminHandler handles operator-only routes
type AdminHandler struct {
	db               *database.DB
	campaignService  *service.CampaignService
	lifecycleService *service.LifecycleService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.DB, campaignService *service.CampaignService, lifecycleService *service.LifecycleService) *AdminHandler {
	return &AdminHandler{db: db, campaignService: campaignService, lifecycleService: lifecycleService}
}

// RevealWord returns a campaign day's secret word
func (h *AdminHandler) RevealWord(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || day < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid day", "", nil)
		return
	}

	word, err := h.campaignService.RevealWord(campaignID, day)
	if err != nil {
		respondWithServiceError(w, "word reveal failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"day": day, "word": word})
}

// WordSchedule returns a campaign's full day-to-word assignment
func (h *AdminHandler) WordSchedule(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	words, err := repository.NewCampaignRepository(h.db).ListWords(campaignID)
	if err != nil {
		respondWithServiceError(w, "word schedule lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// ResetExpired rolls over all finished campaigns immediately, the same
// sweep the scheduler runs nightly
func (h *AdminHandler) ResetExpired(w http.ResponseWriter, r *http.Request) {
	count, err := h.lifecycleService.ResetExpired(r.Context(), time.Now())
	if err != nil {
		respondWithServiceError(w, "campaign reset sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"campaigns_reset": count})
}

// WordStats returns global outcome counters for one secret word
func (h *AdminHandler) WordStats(w http.ResponseWriter, r *http.Request) {
	word := strings.ToLower(r.PathValue("word"))
	if word == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid word", "", nil)
		return
	}

	stats, err := repository.NewStatsRepository(h.db).GetWordStats(word)
	if err != nil {
		respondWithServiceError(w, "word stats lookup failed", err)
		return
	}
	if stats == nil {
		respondWithError(w, http.StatusNotFound, "Word never played", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
