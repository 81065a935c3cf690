package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"wordrealm/internal/game"
	"wordrealm/internal/items"
	"wordrealm/internal/service"
	"wordrealm/internal/validation"
)

// respondWithError writes a JSON error body and logs the underlying
// cause when one exists
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}
	writeJSON(w, status, map[string]string{"error": userMsg})
}

// respondWithServiceError maps known sentinels onto HTTP statuses.
// Anything unrecognized is a 500 with the cause logged.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
		return
	}
	if status, ok := statusForError(err); ok {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	respondWithError(w, http.StatusInternalServerError, "Something went wrong", logMsg, err)
}

func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, game.ErrCampaignNotFound),
		errors.Is(err, game.ErrNoWordAssigned),
		errors.Is(err, items.ErrUnknownItem),
		errors.Is(err, service.ErrNoPendingReward):
		return http.StatusNotFound, true

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true

	case errors.Is(err, game.ErrNotAMember),
		errors.Is(err, game.ErrAfterHours),
		errors.Is(err, game.ErrFutureLocked),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrOracleBlocked):
		return http.StatusForbidden, true

	case errors.Is(err, game.ErrAlreadyPlayed),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrInviteExpired),
		errors.Is(err, service.ErrDoubleDownActive),
		errors.Is(err, service.ErrDoubleDownSpent),
		errors.Is(err, service.ErrDoubleDownMidBoard),
		errors.Is(err, service.ErrOracleUsedToday),
		errors.Is(err, service.ErrInsufficient),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, items.ErrExclusiveConflict):
		return http.StatusConflict, true

	case errors.Is(err, game.ErrInvalidWordLength),
		errors.Is(err, game.ErrNotInDictionary),
		errors.Is(err, game.ErrInvalidDay),
		errors.Is(err, game.ErrSealedLetter),
		errors.Is(err, game.ErrEdictViolation),
		errors.Is(err, game.ErrVoidbrandViolation),
		errors.Is(err, items.ErrPayloadRequired),
		errors.Is(err, items.ErrInvalidPayload),
		errors.Is(err, items.ErrTargetRequired):
		return http.StatusBadRequest, true
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}
