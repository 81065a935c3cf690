package repository

import (
	"database/sql"
	"fmt"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *UserRepository) CreateUser(firstName, lastName, email, phone, passwordHash string) (*models.User, error) {
	// First registered account becomes the admin
	var userCount int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	isAdmin := userCount == 0

	query := `
		INSERT INTO users (first_name, last_name, email, phone, password, is_admin)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, firstName, lastName, email, nullString(phone), passwordHash, boolToInt(isAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return r.getUser("SELECT id, first_name, last_name, email, phone, password, is_admin, campaigns, total_guesses, correct_guesses, campaign_wins, campaign_losses, created_at FROM users WHERE id = ?", id)
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.getUser("SELECT id, first_name, last_name, email, phone, password, is_admin, campaigns, total_guesses, correct_guesses, campaign_wins, campaign_losses, created_at FROM users WHERE email = ?", email)
}

func (r *UserRepository) getUser(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	var phone sql.NullString
	var isAdmin int

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&isAdmin,
		&user.Campaigns,
		&user.TotalGuesses,
		&user.CorrectGuesses,
		&user.CampaignWins,
		&user.CampaignLosses,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Phone = phone.String
	user.IsAdmin = isAdmin != 0
	return user, nil
}

// IncrementGuessTotals bumps the permanent per-user guess counters
func (r *UserRepository) IncrementGuessTotals(userID int64, correct bool) error {
	query := "UPDATE users SET total_guesses = total_guesses + 1"
	if correct {
		query += ", correct_guesses = correct_guesses + 1"
	}
	query += " WHERE id = ?"

	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to update guess totals: %w", err)
	}
	return nil
}

// UpdateProfile changes a user's name and phone
func (r *UserRepository) UpdateProfile(userID int64, firstName, lastName, phone string) error {
	query := "UPDATE users SET first_name = ?, last_name = ?, phone = ? WHERE id = ?"
	if _, err := r.db.Exec(query, firstName, lastName, nullString(phone), userID); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// IncrementCampaignCount bumps the number of campaigns a user has joined
func (r *UserRepository) IncrementCampaignCount(userID int64) error {
	if _, err := r.db.Exec("UPDATE users SET campaigns = campaigns + 1 WHERE id = ?", userID); err != nil {
		return fmt.Errorf("failed to update campaign count: %w", err)
	}
	return nil
}

// RecordCampaignOutcome bumps a user's permanent win or loss counter
func (r *UserRepository) RecordCampaignOutcome(userID int64, won bool) error {
	column := "campaign_losses"
	if won {
		column = "campaign_wins"
	}
	query := fmt.Sprintf("UPDATE users SET %s = %s + 1 WHERE id = ?", column, column)
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to record campaign outcome: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
