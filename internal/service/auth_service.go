package service

import (
	"fmt"
	"strings"

	"wordrealm/internal/models"
	"wordrealm/internal/repository"
	"wordrealm/internal/security"
	"wordrealm/internal/validation"
)

// AuthService handles account registration and login
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Register creates a new user account
func (s *AuthService) Register(firstName, lastName, email, phone, password string) (*models.User, error) {
	if err := validation.ValidateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last_name", lastName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(firstName, lastName, email, phone, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Verify validates a bearer token and returns its claims
func (s *AuthService) Verify(token string) (*security.Claims, error) {
	return s.tokens.Verify(token)
}

// UpdateProfile changes a user's name and phone and returns the
// refreshed account
func (s *AuthService) UpdateProfile(userID int64, firstName, lastName, phone string) (*models.User, error) {
	if err := validation.ValidateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last_name", lastName); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateProfile(userID, firstName, lastName, phone); err != nil {
		return nil, err
	}
	return s.Profile(userID)
}

// Profile returns a user's account and lifetime stats
func (s *AuthService) Profile(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
