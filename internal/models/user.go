package models

import "time"

// User represents a registered player account
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PasswordHash   string
	IsAdmin        bool
	Campaigns      int
	TotalGuesses   int
	CorrectGuesses int
	CampaignWins   int
	CampaignLosses int
	CreatedAt      time.Time
}
