package handlers

import (
	"net/http"

	"wordrealm/internal/models"
	"wordrealm/internal/service"
)

// AuthHandler handles registration, login and the account profile
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type userResponse struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	IsAdmin        bool   `json:"is_admin,omitempty"`
	Campaigns      int    `json:"campaigns"`
	TotalGuesses   int    `json:"total_guesses"`
	CorrectGuesses int    `json:"correct_guesses"`
	CampaignWins   int    `json:"campaign_wins"`
	CampaignLosses int    `json:"campaign_losses"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		IsAdmin:        u.IsAdmin,
		Campaigns:      u.Campaigns,
		TotalGuesses:   u.TotalGuesses,
		CorrectGuesses: u.CorrectGuesses,
		CampaignWins:   u.CampaignWins,
		CampaignLosses: u.CampaignLosses,
	}
}

// Register creates a new account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, err := h.authService.Register(req.FirstName, req.LastName, req.Email, req.Phone, req.Password)
	if err != nil {
		respondWithServiceError(w, "registration failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and returns a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, "login failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// UpdateProfile changes the caller's name and phone
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, err := h.authService.UpdateProfile(claims.UserID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		respondWithServiceError(w, "profile update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Profile returns the caller's account and lifetime stats
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	user, err := h.authService.Profile(claims.UserID)
	if err != nil {
		respondWithServiceError(w, "profile lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
