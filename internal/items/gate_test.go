package items

import (
	"errors"
	"fmt"
	"testing"

	"wordrealm/internal/game"
	"wordrealm/internal/models"
)

func event(key, details string) models.ItemEvent {
	return models.ItemEvent{ItemKey: key, EventType: "use", Details: details}
}

func TestCollectGate(t *testing.T) {
	events := []models.ItemEvent{
		event(KeySealOfSilence, `{"letter":"e"}`),
		event(KeyVoidbrand, `{"word":"crane"}`),
		event(KeyExecutionersCut, ""),
		{ID: 42, ItemKey: KeySendInTheClown, EventType: "use", Details: `{"row":3}`},
		event(KeyConeOfCold, ""),
	}

	g := CollectGate(events)
	if g.SealedLetter != "e" {
		t.Errorf("SealedLetter = %q, want e", g.SealedLetter)
	}
	if g.BrandWord != "crane" {
		t.Errorf("BrandWord = %q, want crane", g.BrandWord)
	}
	if !g.ExecutionersCut {
		t.Error("ExecutionersCut not set")
	}
	if g.ClownRow != 3 || g.ClownEventID != 42 {
		t.Errorf("clown = (%d, %d), want (3, 42)", g.ClownRow, g.ClownEventID)
	}
	if len(g.Illusions) != 1 || g.Illusions[0] != KeyConeOfCold {
		t.Errorf("Illusions = %v", g.Illusions)
	}
}

func TestCollectGateSkipsMalformedDetails(t *testing.T) {
	g := CollectGate([]models.ItemEvent{event(KeySealOfSilence, `not json`)})
	if g.SealedLetter != "" {
		t.Errorf("SealedLetter = %q, want empty", g.SealedLetter)
	}
}

func TestGateCheckGuess(t *testing.T) {
	tests := []struct {
		name    string
		gate    Gate
		word    string
		row     int
		wantErr error
	}{
		{name: "clean gate", gate: Gate{}, word: "crane", row: 0},
		{name: "sealed letter on first row", gate: Gate{SealedLetter: "e"}, word: "crane", row: 0, wantErr: game.ErrSealedLetter},
		{name: "sealed letter on second row", gate: Gate{SealedLetter: "e"}, word: "crane", row: 1, wantErr: game.ErrSealedLetter},
		{name: "seal lifts on third row", gate: Gate{SealedLetter: "e"}, word: "crane", row: 2},
		{name: "seal ignores absent letter", gate: Gate{SealedLetter: "z"}, word: "crane", row: 0},
		{name: "edict obeyed", gate: Gate{MandatedWord: "storm"}, word: "storm", row: 0},
		{name: "edict violated", gate: Gate{MandatedWord: "storm"}, word: "crane", row: 0, wantErr: game.ErrEdictViolation},
		{name: "edict only binds first row", gate: Gate{MandatedWord: "storm"}, word: "crane", row: 1},
		{name: "voidbrand shares a letter", gate: Gate{BrandWord: "slimy"}, word: "haste", row: 0, wantErr: game.ErrVoidbrandViolation},
		{name: "voidbrand avoided", gate: Gate{BrandWord: "slimy"}, word: "crane", row: 0},
		{name: "voidbrand only binds first row", gate: Gate{BrandWord: "slimy"}, word: "haste", row: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gate.CheckGuess(tt.word, tt.row)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CheckGuess() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CheckGuess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClownTriggers(t *testing.T) {
	// ClownRow is the 1-based attempt; board rows are 0-based
	g := Gate{ClownRow: 3}
	if g.ClownTriggers(1) {
		t.Error("clown triggered before its attempt")
	}
	if !g.ClownTriggers(2) {
		t.Error("clown did not trigger on its attempt")
	}
	if !g.ClownTriggers(5) {
		t.Error("clown did not trigger past its attempt")
	}
	none := Gate{}
	if none.ClownTriggers(4) {
		t.Error("clown triggered with no event")
	}
}

func TestClownEveryPayloadRowReachable(t *testing.T) {
	for payloadRow := ClownRowMin; payloadRow <= ClownRowMax; payloadRow++ {
		g := CollectGate([]models.ItemEvent{
			event(KeySendInTheClown, fmt.Sprintf(`{"row":%d}`, payloadRow)),
		})
		fired := false
		for row := 0; row < game.DefaultMaxRows; row++ {
			if g.ClownTriggers(row) {
				fired = true
				break
			}
		}
		if !fired {
			t.Errorf("clown with payload row %d never triggers on any board row", payloadRow)
		}
	}
}
