package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrDoubleDownActive   = errors.New("double down is already active")
	ErrDoubleDownSpent    = errors.New("double down was already used this cycle")
	ErrDoubleDownMidBoard = errors.New("double down cannot be activated after guessing")

	ErrNotOwner        = errors.New("only the campaign owner may do that")
	ErrAlreadyMember   = errors.New("already a member of this campaign")
	ErrInviteExpired   = errors.New("invite code has expired")
	ErrInsufficient    = errors.New("not enough coins")
	ErrItemUnavailable = errors.New("item not available")
	ErrOracleBlocked   = errors.New("oracle's whisper cannot be used during double down")
	ErrOracleUsedToday = errors.New("oracle's whisper was already used today")
	ErrNoPendingReward = errors.New("no pending cycle reward")
)
