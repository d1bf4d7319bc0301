package services

import (
	"errors"
	"fmt"
	"strings"

	"nfl-pool-go/database"
	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/models"
)

// UserSeeder creates the configured admin account on first start
type UserSeeder struct {
	userRepo interfaces.UserRepository
	logger   *logging.Logger
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(userRepo interfaces.UserRepository) *UserSeeder {
	return &UserSeeder{
		userRepo: userRepo,
		logger:   logging.WithPrefix("UserSeeder"),
	}
}

// SeedAdmin creates an admin with the given credentials unless the email is
// already registered. Empty credentials skip seeding.
func (s *UserSeeder) SeedAdmin(name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.logger.Debug("No admin credentials configured, skipping seed")
		return nil
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err == nil && existing != nil {
		s.logger.Debugf("Admin %s already exists", email)
		return nil
	}
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up admin %s: %w", email, err)
	}

	user := &models.User{Name: name, Email: email, IsAdmin: true}
	if err := user.HashPassword(password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return fmt.Errorf("failed to create admin %s: %w", email, err)
	}

	s.logger.Infof("Created admin %s with ID %d", email, user.ID)
	return nil
}
