package game

import "errors"

// Error taxonomy for guess resolution. Validation errors are raised
// before any transaction opens; state-guard and effect-gate errors are
// raised inside the transaction before any mutation.
var (
	// validation
	ErrInvalidWordLength = errors.New("guess must be five letters")
	ErrNotInDictionary   = errors.New("word not in dictionary")

	// state guards
	ErrAlreadyPlayed = errors.New("already played today")
	ErrAfterHours    = errors.New("no more guesses allowed after the final-day cutoff")
	ErrFutureLocked  = errors.New("future days are locked")
	ErrInvalidDay    = errors.New("invalid campaign day")

	// effect gate
	ErrSealedLetter       = errors.New("guess contains a sealed letter")
	ErrEdictViolation     = errors.New("first guess must be the mandated word")
	ErrVoidbrandViolation = errors.New("first guess contains a voidbranded letter")

	// data setup
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotAMember       = errors.New("not a member of this campaign")
	ErrNoWordAssigned   = errors.New("no word assigned for that day")
)
