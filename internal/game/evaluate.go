package game

import "strings"

// Letter result values, stored as strings in the persisted board state
const (
	ResultCorrect = "correct"
	ResultPresent = "present"
	ResultAbsent  = "absent"
)

// WordLength is the fixed puzzle word length
const WordLength = 5

// NormalizeGuess lowercases a guess and verifies it is exactly five
// ASCII letters.
func NormalizeGuess(word string) (string, error) {
	guess := strings.ToLower(strings.TrimSpace(word))
	if len(guess) != WordLength {
		return "", ErrInvalidWordLength
	}
	for _, c := range guess {
		if c < 'a' || c > 'z' {
			return "", ErrInvalidWordLength
		}
	}
	return guess, nil
}

// Evaluate scores a guess against the secret. Pass one marks exact
// positions correct and consumes that letter from the secret's multiset;
// pass two marks remaining letters present only while the multiset still
// has supply. The two passes keep duplicate letters honest: secret
// "alloy" vs guess "lolly" yields exactly one present L plus the
// correct ones, never three.
func Evaluate(secret, guess string) ([]string, bool) {
	result := make([]string, WordLength)
	for i := range result {
		result[i] = ResultAbsent
	}

	var remaining [26]int
	for i := 0; i < WordLength; i++ {
		if guess[i] == secret[i] {
			result[i] = ResultCorrect
		} else {
			remaining[secret[i]-'a']++
		}
	}

	solved := true
	for i := 0; i < WordLength; i++ {
		if result[i] == ResultCorrect {
			continue
		}
		solved = false
		idx := guess[i] - 'a'
		if remaining[idx] > 0 {
			result[i] = ResultPresent
			remaining[idx]--
		}
	}

	return result, solved
}

// MergeLetterStatus folds one scored row into the keyboard status map.
// correct overrides present overrides absent; a letter never regresses
// once marked correct.
func MergeLetterStatus(status map[string]string, guess string, result []string) {
	for i := 0; i < WordLength; i++ {
		letter := string(guess[i])
		current := status[letter]
		switch {
		case result[i] == ResultCorrect:
			status[letter] = ResultCorrect
		case result[i] == ResultPresent && current != ResultCorrect:
			status[letter] = ResultPresent
		case current == "":
			status[letter] = ResultAbsent
		}
	}
}
