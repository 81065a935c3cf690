package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Dictionary is the immutable pair of word lists the game runs on: the
// full valid-guess set (any word a player may submit) and the smaller
// playable list (candidate secrets, also the voidbrand pool). Loaded
// once at startup and injected; nothing reads word files at call time.
type Dictionary struct {
	valid    map[string]struct{}
	playable []string
}

// New builds a Dictionary from in-memory lists. Playable words are
// always valid guesses as well.
func New(valid []string, playable []string) *Dictionary {
	d := &Dictionary{valid: make(map[string]struct{}, len(valid)+len(playable))}
	for _, w := range valid {
		d.valid[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range playable {
		w = strings.ToLower(w)
		d.valid[w] = struct{}{}
		d.playable = append(d.playable, w)
	}
	return d
}

// Load reads the valid and playable word list files
func Load(validPath, playablePath string) (*Dictionary, error) {
	valid, err := readWordFile(validPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load valid word list: %w", err)
	}
	playable, err := readWordFile(playablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load playable word list: %w", err)
	}
	if len(playable) == 0 {
		return nil, fmt.Errorf("playable word list %s is empty", playablePath)
	}
	return New(valid, playable), nil
}

// IsValid reports whether a word is a legal guess
func (d *Dictionary) IsValid(word string) bool {
	_, ok := d.valid[strings.ToLower(word)]
	return ok
}

// IsPlayable reports whether a word is on the curated secret-word list
func (d *Dictionary) IsPlayable(word string) bool {
	w := strings.ToLower(word)
	for _, p := range d.playable {
		if p == w {
			return true
		}
	}
	return false
}

// Playable returns a copy of the playable list
func (d *Dictionary) Playable() []string {
	out := make([]string, len(d.playable))
	copy(out, d.playable)
	return out
}

// PlayableCount returns the size of the playable list
func (d *Dictionary) PlayableCount() int {
	return len(d.playable)
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}
