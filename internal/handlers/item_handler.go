package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"wordrealm/internal/service"
)

// ItemHandler handles the shop: catalog, inventory, item use and the
// winner's cycle reward
type ItemHandler struct {
	itemService   *service.ItemService
	rewardService *service.RewardService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService, rewardService *service.RewardService) *ItemHandler {
	return &ItemHandler{itemService: itemService, rewardService: rewardService}
}

// Catalog returns the full item catalog
func (h *ItemHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.itemService.Catalog())
}

// Inventory returns the caller's held items in a campaign
func (h *ItemHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	inventory, err := h.itemService.Inventory(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "inventory lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, inventory)
}

// UseItem applies one item, funded from inventory or coins
func (h *ItemHandler) UseItem(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	var req struct {
		ItemKey      string          `json:"item_key"`
		TargetUserID *int64          `json:"target_user_id"`
		Payload      json.RawMessage `json:"payload"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.itemService.UseItem(claims.UserID, campaignID, req.ItemKey, req.TargetUserID, req.Payload, time.Now())
	if err != nil {
		respondWithServiceError(w, "item use failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Effects returns the caller's active status effects in a campaign
func (h *ItemHandler) Effects(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	effects, err := h.itemService.ActiveEffects(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "effects lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, effects)
}

// PendingReward returns the caller's unfulfilled cycle reward
func (h *ItemHandler) PendingReward(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	reward, err := h.rewardService.PendingReward(claims.UserID, campaignID)
	if err != nil {
		respondWithServiceError(w, "reward lookup failed", err)
		return
	}
	if reward == nil {
		respondWithError(w, http.StatusNotFound, "No pending reward", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// ChooseRecipients fulfills the caller's cycle reward
func (h *ItemHandler) ChooseRecipients(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	campaignID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID", "", nil)
		return
	}

	var req struct {
		RecipientIDs []int64 `json:"recipient_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.rewardService.ChooseRecipients(claims.UserID, campaignID, req.RecipientIDs, time.Now()); err != nil {
		respondWithServiceError(w, "reward fulfillment failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "fulfilled"})
}
