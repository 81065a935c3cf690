package game

import (
	"reflect"
	"testing"
)

func TestNormalizeGuess(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		want    string
		wantErr bool
	}{
		{name: "lowercase pass-through", word: "crane", want: "crane"},
		{name: "uppercase normalized", word: "CRANE", want: "crane"},
		{name: "surrounding whitespace", word: " crane ", want: "crane"},
		{name: "too short", word: "cran", wantErr: true},
		{name: "too long", word: "cranes", wantErr: true},
		{name: "digits rejected", word: "cr4ne", wantErr: true},
		{name: "empty", word: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeGuess(tt.word)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeGuess(%q) error = %v, wantErr %v", tt.word, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("NormalizeGuess(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   []string
		solved bool
	}{
		{
			name:   "exact match",
			secret: "crane",
			guess:  "crane",
			want:   []string{"correct", "correct", "correct", "correct", "correct"},
			solved: true,
		},
		{
			name:   "no letters shared",
			secret: "crane",
			guess:  "slimy",
			want:   []string{"absent", "absent", "absent", "absent", "absent"},
		},
		{
			name:   "crane vs trace",
			secret: "crane",
			guess:  "trace",
			want:   []string{"absent", "correct", "correct", "present", "correct"},
		},
		{
			name:   "duplicate letters consume the multiset",
			secret: "alloy",
			guess:  "lolly",
			want:   []string{"present", "present", "correct", "absent", "correct"},
		},
		{
			name:   "repeated guess letter with single supply",
			secret: "crane",
			guess:  "eerie",
			want:   []string{"absent", "absent", "present", "absent", "correct"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, solved := Evaluate(tt.secret, tt.guess)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q, %q) = %v, want %v", tt.secret, tt.guess, got, tt.want)
			}
			if solved != tt.solved {
				t.Errorf("Evaluate(%q, %q) solved = %v, want %v", tt.secret, tt.guess, solved, tt.solved)
			}
		})
	}
}

func TestEvaluatePresentNeverExceedsMultiplicity(t *testing.T) {
	// One L in the secret: at most one non-correct L may score
	result, _ := Evaluate("flame", "llull")
	marked := 0
	for i, r := range result {
		if "llull"[i] == 'l' && (r == ResultPresent || r == ResultCorrect) {
			marked++
		}
	}
	if marked > 1 {
		t.Errorf("marked %d Ls for a secret with one L", marked)
	}
}

func TestMergeLetterStatus(t *testing.T) {
	status := map[string]string{}

	MergeLetterStatus(status, "crane", []string{"absent", "present", "absent", "absent", "correct"})
	if status["r"] != "present" || status["e"] != "correct" || status["c"] != "absent" {
		t.Fatalf("unexpected initial merge: %v", status)
	}

	// present upgrades to correct
	MergeLetterStatus(status, "rrrrr", []string{"correct", "absent", "absent", "absent", "absent"})
	if status["r"] != "correct" {
		t.Errorf("r should upgrade to correct, got %q", status["r"])
	}

	// correct never downgrades
	MergeLetterStatus(status, "eeeee", []string{"absent", "absent", "absent", "absent", "absent"})
	if status["e"] != "correct" {
		t.Errorf("e regressed from correct to %q", status["e"])
	}
}
