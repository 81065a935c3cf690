package items

import (
	"encoding/json"
	"fmt"
	"strings"

	"wordrealm/internal/game"
	"wordrealm/internal/models"
)

// Gate is the set of live modifiers for one player's guess session on
// one day, collected from the item events that became effective that
// day. Curses block guesses; illusions only annotate.
type Gate struct {
	SealedLetter    string
	MandatedWord    string
	BrandWord       string
	ExecutionersCut bool
	ClownRow        int // 1-based attempt, 0 when no clown is waiting
	ClownEventID    int64
	Illusions       []string
}

// CollectGate folds a day's effective item events into a Gate. Later
// events of the same kind overwrite earlier ones, matching the
// overwrite semantics of status effects.
func CollectGate(events []models.ItemEvent) Gate {
	g := Gate{}
	for _, e := range events {
		var payload Payload
		if e.Details != "" {
			// Malformed details are skipped rather than blocking play
			if err := json.Unmarshal([]byte(e.Details), &payload); err != nil {
				continue
			}
		}
		switch e.ItemKey {
		case KeySealOfSilence:
			g.SealedLetter = strings.ToLower(payload.Letter)
		case KeyEdictOfCompulsion:
			g.MandatedWord = strings.ToLower(payload.Word)
		case KeyVoidbrand:
			g.BrandWord = strings.ToLower(payload.Word)
		case KeyExecutionersCut:
			g.ExecutionersCut = true
		case KeySendInTheClown:
			if payload.Row >= ClownRowMin && payload.Row <= ClownRowMax {
				g.ClownRow = payload.Row
				g.ClownEventID = e.ID
			}
		case KeyConeOfCold, KeySpiderSwarm, KeyDanceOfTheJester, KeyBloodOathInk:
			g.Illusions = append(g.Illusions, e.ItemKey)
		}
	}
	return g
}

// SealRowLimit bounds the rows a sealed letter applies to: the seal
// lifts from the third attempt on.
const SealRowLimit = 2

// CheckGuess enforces the gate's curses against a normalized guess
// about to be placed on the given 0-based row.
func (g Gate) CheckGuess(word string, row int) error {
	if g.SealedLetter != "" && row < SealRowLimit && strings.Contains(word, g.SealedLetter) {
		return fmt.Errorf("%w: letter %q is sealed until row %d", game.ErrSealedLetter, g.SealedLetter, SealRowLimit)
	}
	if row == 0 {
		if g.MandatedWord != "" && word != g.MandatedWord {
			return fmt.Errorf("%w: first guess must be %q", game.ErrEdictViolation, g.MandatedWord)
		}
		if g.BrandWord != "" {
			for _, r := range g.BrandWord {
				if strings.ContainsRune(word, r) {
					return fmt.Errorf("%w: first guess may not share letters with the brand", game.ErrVoidbrandViolation)
				}
			}
		}
	}
	return nil
}

// ClownTriggers reports whether the clown act opens on the given
// 0-based board row. The stored row is a 1-based attempt, so row 5 is
// attempt 6. The caller deactivates the event so the act runs once.
func (g Gate) ClownTriggers(row int) bool {
	return g.ClownRow > 0 && row+1 >= g.ClownRow
}
