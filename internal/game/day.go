package game

import (
	"time"
)

// TimezoneName is the fixed IANA zone all campaign day arithmetic uses.
// Day boundaries must not depend on where the service runs.
const TimezoneName = "America/Chicago"

// FinalDayCutoffHour is the local hour after which no guesses are
// accepted on a campaign's final day.
const FinalDayCutoffHour = 20

// DateLayout is the wire/storage format for campaign dates
const DateLayout = "2006-01-02"

var location *time.Location

func init() {
	loc, err := time.LoadLocation(TimezoneName)
	if err != nil {
		panic("game: cannot load timezone " + TimezoneName + ": " + err.Error())
	}
	location = loc
}

// Location returns the campaign timezone
func Location() *time.Location {
	return location
}

// Today returns the current calendar date string in the campaign timezone
func Today(now time.Time) string {
	return now.In(location).Format(DateLayout)
}

// DayInfo is the resolved day context for one campaign at one instant
type DayInfo struct {
	StartDate   time.Time
	CycleLength int
	CurrentDay  int
	TargetDay   int
	TargetDate  time.Time
}

// TargetDateString returns the target date formatted for storage
func (d DayInfo) TargetDateString() string {
	return d.TargetDate.Format(DateLayout)
}

// IsFinalDay reports whether the target day is the campaign's last
func (d DayInfo) IsFinalDay() bool {
	return d.TargetDay == d.CycleLength
}

// ResolveDay maps wall-clock time to a campaign-relative day. The
// current day is clamped to the cycle length. overrideDay selects a
// past day when nonzero; days outside [1, cycleLength] are invalid and
// days beyond the current day are locked. Every component that needs
// "which day is this guess for" must go through here.
func ResolveDay(startDate string, cycleLength int, now time.Time, overrideDay int) (DayInfo, error) {
	start, err := time.ParseInLocation(DateLayout, startDate, location)
	if err != nil {
		return DayInfo{}, err
	}

	nowLocal := now.In(location)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, location)

	// Round rather than truncate: DST makes two midnights 23 or 25 hours apart
	daysSince := int(today.Sub(start).Hours()/24 + 0.5)
	currentDay := daysSince + 1
	if currentDay > cycleLength {
		currentDay = cycleLength
	}

	targetDay := currentDay
	if overrideDay != 0 {
		if overrideDay < 1 || overrideDay > cycleLength {
			return DayInfo{}, ErrInvalidDay
		}
		if overrideDay > currentDay {
			return DayInfo{}, ErrFutureLocked
		}
		targetDay = overrideDay
	}

	return DayInfo{
		StartDate:   start,
		CycleLength: cycleLength,
		CurrentDay:  currentDay,
		TargetDay:   targetDay,
		TargetDate:  start.AddDate(0, 0, targetDay-1),
	}, nil
}

// AfterHours reports whether the final-day cutoff has passed. It only
// applies when the target day is the final day of the cycle and is the
// day actually being played.
func AfterHours(d DayInfo, now time.Time) bool {
	if !d.IsFinalDay() || d.TargetDay != d.CurrentDay {
		return false
	}
	nowLocal := now.In(location)
	cutoff := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		FinalDayCutoffHour, 0, 0, 0, location)
	return !nowLocal.Before(cutoff)
}

// FinalDay returns the calendar date of a campaign's last day
func FinalDay(startDate string, cycleLength int) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, startDate, location)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, cycleLength-1), nil
}
