package handlers

import (
	"net/http"
	"strconv"
	"time"

	"wordrealm/internal/models"
	"wordrealm/internal/service"
)

// CampaignHandler handles campaign lifecycle and membership routes
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

type campaignResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	InviteCode  string `json:"invite_code,omitempty"`
	StartDate   string `json:"start_date"`
	CycleLength int    `json:"cycle_length"`
	King        string `json:"king,omitempty"`
	IsOwner     bool   `json:"is_owner,omitempty"`
}

func toCampaignResponse(c *models.Campaign, viewerID int64) campaignResponse {
	resp := campaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		StartDate:   c.StartDate,
		CycleLength: c.CycleLength,
		King:        c.King,
		IsOwner:     c.OwnerID == viewerID,
	}
	// The invite code is the owner's to hand out
	if c.OwnerID == viewerID {
		resp.InviteCode = c.InviteCode
	}
	return resp
}

// pathID parses a path segment as an int64 identifier
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// Create starts a new campaign with the caller as owner
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		Name            string `json:"name"`
		DisplayName     string `json:"display_name"`
		CycleLength     int    `json:"cycle_length"`
		IsAdminCampaign bool   `json:"is_admin_campaign"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	// Only admins may open test campaigns that skip permanent records
	adminCampaign := req.IsAdminCampaign && claims.IsAdmin

	campaign, err := h.campaignService.CreateCampaign(claims.UserID, req.Name, req.DisplayName, req.CycleLength, adminCampaign, time.Now())
	if err != nil {
		respondWithServiceError(w, "campaign creation failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignResponse(campaign, claims.UserID))
}

// Join adds the caller to a campaign by invite code
func (h *CampaignHandler) Join(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		InviteCode  string `json:"invite_code"`
		DisplayName string `json:"display_name"`
		Color       string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	campaign, err := h.campaignService.JoinByCode(claims.UserID, req.InviteCode, req.DisplayName, req.Color, time.Now())
	if err != nil {
		respondWithServiceError(w, "campaign join failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(campaign, claims.UserID))
}

// JoinByID adds the caller to a campaign by ID
func (h *CampaignHandler) JoinByID(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Color       string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	campaign, err := h.campaignService.JoinByID(claims.UserID, campaignID, req.DisplayName, req.Color, time.Now())
	if err != nil {
		respondWithServiceError(w, "campaign join failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(campaign, claims.UserID))
}

// List returns the caller's campaigns with day and completion context
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	summaries, err := h.campaignService.Summaries(claims.UserID, time.Now())
	if err != nil {
		respondWithServiceError(w, "campaign list failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Get returns one campaign with the caller's membership
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	member, err := h.campaignService.GetMember(campaignID, claims.UserID)
	if err != nil {
		respondWithServiceError(w, "membership lookup failed", err)
		return
	}
	campaign, err := h.campaignService.GetCampaign(campaignID)
	if err != nil {
		respondWithServiceError(w, "campaign lookup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": toCampaignResponse(campaign, claims.UserID),
		"member": map[string]interface{}{
			"display_name":          member.DisplayName,
			"color":                 member.Color,
			"score":                 member.Score,
			"double_down_activated": member.DoubleDownActivated,
			"double_down_used":      member.DoubleDownUsedWeek,
		},
	})
}

// Leaderboard returns the campaign standings
func (h *CampaignHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	if _, err := h.campaignService.GetMember(campaignID, claims.UserID); err != nil {
		respondWithServiceError(w, "membership lookup failed", err)
		return
	}
	entries, err := h.campaignService.Leaderboard(campaignID, time.Now())
	if err != nil {
		respondWithServiceError(w, "leaderboard failed", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// UpdateMember changes the caller's display name or color
func (h *CampaignHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Color       string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.campaignService.UpdateMember(campaignID, claims.UserID, req.DisplayName, req.Color); err != nil {
		respondWithServiceError(w, "member update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Kick removes another member, owner only
func (h *CampaignHandler) Kick(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}
	targetID, ok := pathID(r, "userId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID", "", nil)
		return
	}

	if err := h.campaignService.KickMember(campaignID, claims.UserID, targetID); err != nil {
		respondWithServiceError(w, "kick failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Delete tears down a campaign, owner only
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	if err := h.campaignService.DeleteCampaign(campaignID, claims.UserID); err != nil {
		respondWithServiceError(w, "campaign delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HallOfFame returns the global all-time high scores
func (h *CampaignHandler) HallOfFame(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	scores, err := h.campaignService.HallOfFame(limit)
	if err != nil {
		respondWithServiceError(w, "hall of fame failed", err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
