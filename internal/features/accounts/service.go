// service.go: registration and login logic.
package accounts

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"pipstracker/internal/common"
	"pipstracker/internal/config"
)

// Service handles accounts.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService creates the accounts service.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Register creates a user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": username}).Info("User registered")
	return user, nil
}

// Login verifies credentials. Failed attempts are logged to the database
// and, past the configured limit inside the window, further attempts are
// rejected before the password is even checked.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrUserNotFound) {
		// Same error as a bad password so usernames cannot be probed.
		return nil, common.ErrWrongPassword
	}
	if err != nil {
		return nil, err
	}

	failures, err := s.repo.CountRecentFailures(ctx, user.ID, s.cfg.LoginAttemptWindow)
	if err != nil {
		return nil, err
	}
	if failures >= s.cfg.LoginMaxAttempts {
		return nil, common.ErrTooManyAttempts
	}

	match := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	if logErr := s.repo.LogLoginAttempt(ctx, user.ID, match); logErr != nil {
		log.WithError(logErr).WithField("user_id", user.ID).Warn("Could not log login attempt")
	}
	if !match {
		return nil, common.ErrWrongPassword
	}

	return user, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
