package game

import "time"

// NextStreak applies the streak rules when a day dated completedDate
// finishes. Completing the day after the last completion extends the
// streak; completing the same date again changes nothing; any larger
// gap resets to one and reports the gap length in days so callers can
// record the recovery.
func NextStreak(current int, lastCompletedDate, completedDate string) (next int, gapDays int) {
	if lastCompletedDate == "" {
		return 1, 0
	}
	if lastCompletedDate == completedDate {
		return current, 0
	}

	last, err := time.Parse(DateLayout, lastCompletedDate)
	if err != nil {
		return 1, 0
	}
	done, err := time.Parse(DateLayout, completedDate)
	if err != nil {
		return current, 0
	}

	days := int(done.Sub(last).Hours() / 24)
	switch {
	case days == 1:
		return current + 1, 0
	case days > 1:
		return 1, days - 1
	default:
		// Back-filling an older day never moves the streak
		return current, 0
	}
}
