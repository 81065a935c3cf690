package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"wordrealm/internal/game"
	"wordrealm/internal/items"
	"wordrealm/internal/service"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrCampaignNotFound, http.StatusNotFound},
		{game.ErrNoWordAssigned, http.StatusNotFound},
		{items.ErrUnknownItem, http.StatusNotFound},
		{service.ErrNoPendingReward, http.StatusNotFound},

		{service.ErrInvalidCredentials, http.StatusUnauthorized},

		{game.ErrNotAMember, http.StatusForbidden},
		{game.ErrAfterHours, http.StatusForbidden},
		{game.ErrFutureLocked, http.StatusForbidden},
		{service.ErrNotOwner, http.StatusForbidden},
		{service.ErrOracleBlocked, http.StatusForbidden},

		{game.ErrAlreadyPlayed, http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrAlreadyMember, http.StatusConflict},
		{service.ErrInviteExpired, http.StatusConflict},
		{service.ErrDoubleDownActive, http.StatusConflict},
		{service.ErrDoubleDownSpent, http.StatusConflict},
		{service.ErrDoubleDownMidBoard, http.StatusConflict},
		{service.ErrOracleUsedToday, http.StatusConflict},
		{service.ErrInsufficient, http.StatusConflict},
		{service.ErrItemUnavailable, http.StatusConflict},
		{items.ErrExclusiveConflict, http.StatusConflict},

		{game.ErrInvalidWordLength, http.StatusBadRequest},
		{game.ErrNotInDictionary, http.StatusBadRequest},
		{game.ErrInvalidDay, http.StatusBadRequest},
		{game.ErrSealedLetter, http.StatusBadRequest},
		{game.ErrEdictViolation, http.StatusBadRequest},
		{game.ErrVoidbrandViolation, http.StatusBadRequest},
		{items.ErrPayloadRequired, http.StatusBadRequest},
		{items.ErrInvalidPayload, http.StatusBadRequest},
		{items.ErrTargetRequired, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, ok := statusForError(tt.err)
			if !ok || got != tt.want {
				t.Errorf("statusForError(%v) = (%d, %v), want (%d, true)", tt.err, got, ok, tt.want)
			}
		})
	}
}

func TestStatusForErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("guess rejected: %w", game.ErrSealedLetter)
	got, ok := statusForError(wrapped)
	if !ok || got != http.StatusBadRequest {
		t.Errorf("statusForError(wrapped sealed letter) = (%d, %v), want (%d, true)", got, ok, http.StatusBadRequest)
	}
}

func TestStatusForErrorUnknown(t *testing.T) {
	if _, ok := statusForError(fmt.Errorf("database on fire")); ok {
		t.Error("statusForError should not map unknown errors")
	}
}
