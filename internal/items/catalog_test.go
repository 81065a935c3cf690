package items

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	it, err := Get(KeyOracleWhisper)
	if err != nil {
		t.Fatalf("Get(oracle_whisper) error: %v", err)
	}
	if it.Category != CategoryBlessing || it.AffectsOthers {
		t.Errorf("oracle_whisper metadata wrong: %+v", it)
	}

	if _, err := Get("philosophers_stone"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownItem", err)
	}
}

func TestCatalogInvariants(t *testing.T) {
	seen := map[string]bool{}
	for _, it := range All() {
		if seen[it.Key] {
			t.Errorf("duplicate catalog key %s", it.Key)
		}
		seen[it.Key] = true

		if it.Cost <= 0 {
			t.Errorf("%s has non-positive cost %d", it.Key, it.Cost)
		}
		if it.AffectsOthers != it.RequiresTarget {
			t.Errorf("%s: every other-targeted item requires a target", it.Key)
		}
		for _, other := range it.ExclusiveWith {
			peer, err := Get(other)
			if err != nil {
				t.Errorf("%s lists unknown exclusive peer %s", it.Key, other)
				continue
			}
			found := false
			for _, back := range peer.ExclusiveWith {
				if back == it.Key {
					found = true
				}
			}
			if !found {
				t.Errorf("exclusivity between %s and %s is not symmetric", it.Key, other)
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("catalog has %d items, want 12", len(seen))
	}
}

func TestDecodePayload(t *testing.T) {
	seal, _ := Get(KeySealOfSilence)
	edict, _ := Get(KeyEdictOfCompulsion)
	clown, _ := Get(KeySendInTheClown)
	candle, _ := Get(KeyCandleOfMercy)

	tests := []struct {
		name    string
		item    Item
		raw     string
		want    Payload
		wantErr error
	}{
		{name: "letter normalized", item: seal, raw: `{"letter":" Q "}`, want: Payload{Letter: "q"}},
		{name: "letter missing", item: seal, raw: `{}`, wantErr: ErrPayloadRequired},
		{name: "letter too long", item: seal, raw: `{"letter":"qu"}`, wantErr: ErrPayloadRequired},
		{name: "word lowered", item: edict, raw: `{"word":"CRANE"}`, want: Payload{Word: "crane"}},
		{name: "word missing", item: edict, raw: ``, wantErr: ErrPayloadRequired},
		{name: "clown row in range", item: clown, raw: `{"row":4}`, want: Payload{Row: 4}},
		{name: "clown row absent is fine", item: clown, raw: `{}`, want: Payload{}},
		{name: "clown row too low", item: clown, raw: `{"row":1}`, wantErr: ErrInvalidPayload},
		{name: "clown row too high", item: clown, raw: `{"row":7}`, wantErr: ErrInvalidPayload},
		{name: "no payload item ignores input", item: candle, raw: `{"word":"x"}`, want: Payload{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.item, json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodePayload() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
