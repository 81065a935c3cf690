package service

import "testing"

func TestCycleSchedule(t *testing.T) {
	t.Run("no repeats while the pool lasts", func(t *testing.T) {
		pool := []string{"crane", "slate", "trace", "gnome", "lurid", "pride", "shard"}
		words := cycleSchedule(pool, 7)

		if len(words) != 7 {
			t.Fatalf("cycleSchedule() returned %d words, want 7", len(words))
		}
		seen := map[string]bool{}
		for _, w := range words {
			if seen[w] {
				t.Errorf("cycleSchedule() repeated %q with a large enough pool", w)
			}
			seen[w] = true
		}
	})

	t.Run("wraps when the pool is short", func(t *testing.T) {
		pool := []string{"crane", "slate", "trace"}
		words := cycleSchedule(pool, 7)

		want := []string{"crane", "slate", "trace", "crane", "slate", "trace", "crane"}
		for i := range want {
			if words[i] != want[i] {
				t.Fatalf("cycleSchedule() = %v, want %v", words, want)
			}
		}
	})
}
