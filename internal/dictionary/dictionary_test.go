package dictionary

import "testing"

func TestDictionary(t *testing.T) {
	d := New([]string{"TRACE", "slimy"}, []string{"crane", "alloy"})

	tests := []struct {
		word     string
		valid    bool
		playable bool
	}{
		{word: "trace", valid: true, playable: false},
		{word: "TRACE", valid: true, playable: false},
		{word: "crane", valid: true, playable: true},
		{word: "ALLOY", valid: true, playable: true},
		{word: "slimy", valid: true, playable: false},
		{word: "xyzzy", valid: false, playable: false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := d.IsValid(tt.word); got != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.word, got, tt.valid)
			}
			if got := d.IsPlayable(tt.word); got != tt.playable {
				t.Errorf("IsPlayable(%q) = %v, want %v", tt.word, got, tt.playable)
			}
		})
	}

	if d.PlayableCount() != 2 {
		t.Errorf("PlayableCount() = %d, want 2", d.PlayableCount())
	}
}

func TestPlayableReturnsCopy(t *testing.T) {
	d := New(nil, []string{"crane", "alloy"})
	words := d.Playable()
	words[0] = "mutated"
	if !d.IsPlayable("crane") {
		t.Error("mutating the returned slice changed the dictionary")
	}
}
