package items

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Item keys. The catalog is closed: every purchasable effect is listed
// here and nowhere else, so the guess gate can switch on known keys.
const (
	KeyOracleWhisper        = "oracle_whisper"
	KeyCartographersInsight = "cartographers_insight"
	KeyCandleOfMercy        = "candle_of_mercy"
	KeySealOfSilence        = "seal_of_silence"
	KeyEdictOfCompulsion    = "edict_of_compulsion"
	KeyVoidbrand            = "voidbrand"
	KeyExecutionersCut      = "executioners_cut"
	KeySendInTheClown       = "send_in_the_clown"
	KeyConeOfCold           = "cone_of_cold"
	KeySpiderSwarm          = "spider_swarm"
	KeyDanceOfTheJester     = "dance_of_the_jester"
	KeyBloodOathInk         = "blood_oath_ink"
)

type Category string

const (
	CategoryBlessing Category = "blessing"
	CategoryCurse    Category = "curse"
	CategoryIllusion Category = "illusion"
)

// PayloadType says what, if anything, must accompany a use of the item
type PayloadType string

const (
	PayloadNone   PayloadType = ""
	PayloadLetter PayloadType = "letter"
	PayloadWord   PayloadType = "word"
	PayloadRow    PayloadType = "row"
)

// Item is the static metadata for one catalog entry
type Item struct {
	Key            string      `json:"key"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Cost           int         `json:"cost"`
	Category       Category    `json:"category"`
	AffectsOthers  bool        `json:"affects_others"`
	RequiresTarget bool        `json:"requires_target"`
	PayloadType    PayloadType `json:"payload_type,omitempty"`
	ExclusiveWith  []string    `json:"exclusive_with,omitempty"`
}

var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrPayloadRequired   = errors.New("item requires a payload")
	ErrInvalidPayload    = errors.New("invalid item payload")
	ErrTargetRequired    = errors.New("item requires a target player")
	ErrExclusiveConflict = errors.New("target already carries a conflicting illusion")
)

var catalog = []Item{
	{
		Key:         KeyOracleWhisper,
		Name:        "Oracle's Whisper",
		Description: "A whisper of truth slips through, hinting at a single place it belongs.",
		Cost:        5,
		Category:    CategoryBlessing,
	},
	{
		Key:         KeyCartographersInsight,
		Name:        "Cartographer's Insight",
		Description: "The map rejects a pair of paths; two letters are cast aside.",
		Cost:        5,
		Category:    CategoryBlessing,
	},
	{
		Key:         KeyCandleOfMercy,
		Name:        "Candle of Mercy",
		Description: "In loss, a small ember still answers your name.",
		Cost:        5,
		Category:    CategoryBlessing,
	},
	{
		Key:            KeySealOfSilence,
		Name:           "Seal of Silence",
		Description:    "One letter is struck from the tongue until the third attempt.",
		Cost:           8,
		Category:       CategoryCurse,
		AffectsOthers:  true,
		RequiresTarget: true,
		PayloadType:    PayloadLetter,
	},
	{
		Key:            KeyEdictOfCompulsion,
		Name:           "Edict of Compulsion",
		Description:    "The first word spoken is not their own.",
		Cost:           8,
		Category:       CategoryCurse,
		AffectsOthers:  true,
		RequiresTarget: true,
		PayloadType:    PayloadWord,
	},
	{
		Key:            KeyVoidbrand,
		Name:           "Voidbrand",
		Description:    "A word is burned from the opening; none of its letters may lead.",
		Cost:           8,
		Category:       CategoryCurse,
		AffectsOthers:  true,
		RequiresTarget: true,
		PayloadType:    PayloadWord,
	},
	{
		Key:            KeyExecutionersCut,
		Name:           "Executioner's Cut",
		Description:    "The board is shortened by one row; the axe does not negotiate.",
		Cost:           8,
		Category:       CategoryCurse,
		AffectsOthers:  true,
		RequiresTarget: true,
	},
	{
		Key:            KeySendInTheClown,
		Name:           "Send in the Clown",
		Description:    "Somewhere between the second row and the last, the act begins.",
		Cost:           5,
		Category:       CategoryIllusion,
		AffectsOthers:  true,
		RequiresTarget: true,
		PayloadType:    PayloadRow,
	},
	{
		Key:            KeyConeOfCold,
		Name:           "Cone of Cold",
		Description:    "A chill creeps in, dimming sight for a time.",
		Cost:           8,
		Category:       CategoryIllusion,
		AffectsOthers:  true,
		RequiresTarget: true,
		ExclusiveWith:  []string{KeySpiderSwarm},
	},
	{
		Key:            KeySpiderSwarm,
		Name:           "Spider Swarm",
		Description:    "A skittering omen crosses the board.",
		Cost:           5,
		Category:       CategoryIllusion,
		AffectsOthers:  true,
		RequiresTarget: true,
		ExclusiveWith:  []string{KeyConeOfCold},
	},
	{
		Key:            KeyDanceOfTheJester,
		Name:           "Dance of the Jester",
		Description:    "The tiles will not sit still while the jester plays.",
		Cost:           5,
		Category:       CategoryIllusion,
		AffectsOthers:  true,
		RequiresTarget: true,
	},
	{
		Key:            KeyBloodOathInk,
		Name:           "Blood Oath Ink",
		Description:    "Every letter written costs a little of the writer.",
		Cost:           3,
		Category:       CategoryIllusion,
		AffectsOthers:  true,
		RequiresTarget: true,
	},
}

var byKey = func() map[string]Item {
	m := make(map[string]Item, len(catalog))
	for _, it := range catalog {
		m[it.Key] = it
	}
	return m
}()

// Get looks up a catalog entry by key
func Get(key string) (Item, error) {
	it, ok := byKey[key]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return it, nil
}

// All returns the catalog in shop order
func All() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// Payload is the decoded argument attached to an item use. Exactly the
// field matching the item's PayloadType is set.
type Payload struct {
	Letter string `json:"letter,omitempty"`
	Word   string `json:"word,omitempty"`
	Row    int    `json:"row,omitempty"`
}

// Clown rows are 1-based attempts; the act never opens on the first
// attempt and can land as late as the last.
const (
	ClownRowMin = 2
	ClownRowMax = 6
)

// DecodePayload validates raw payload input against the item's declared
// payload type. Items with PayloadNone accept (and ignore) anything.
// Send-in-the-clown allows an absent row: the caller randomizes it.
func DecodePayload(item Item, raw json.RawMessage) (Payload, error) {
	var p Payload
	if item.PayloadType == PayloadNone {
		return p, nil
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	switch item.PayloadType {
	case PayloadLetter:
		p.Letter = strings.ToLower(strings.TrimSpace(p.Letter))
		if len(p.Letter) != 1 || p.Letter[0] < 'a' || p.Letter[0] > 'z' {
			return Payload{}, fmt.Errorf("%w: %s needs a single letter", ErrPayloadRequired, item.Key)
		}
	case PayloadWord:
		p.Word = strings.ToLower(strings.TrimSpace(p.Word))
		if p.Word == "" {
			return Payload{}, fmt.Errorf("%w: %s needs a word", ErrPayloadRequired, item.Key)
		}
	case PayloadRow:
		if p.Row == 0 {
			break // caller randomizes
		}
		if p.Row < ClownRowMin || p.Row > ClownRowMax {
			return Payload{}, fmt.Errorf("%w: row must be between %d and %d", ErrInvalidPayload, ClownRowMin, ClownRowMax)
		}
	}
	return p, nil
}
