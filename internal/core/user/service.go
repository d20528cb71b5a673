// Package user
package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/pietervz/ipfire-tray/internal/domain"
	"github.com/pietervz/ipfire-tray/internal/logger"
)

// Service manages the single dashboard admin account. There is no public
// registration; the account is ensured at startup from configuration.
type Service struct {
	repo domain.UserRepository
	log  logger.Logger
}

func NewService(repo domain.UserRepository, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// EnsureAdmin creates the admin account if it does not exist, and rotates
// the stored hash whenever the configured password changed.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if existing == nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin := &domain.User{Email: email, Password: string(hashed)}
		if err := s.repo.CreateUser(ctx, admin); err != nil {
			return err
		}

		s.log.Info("admin account created", "email", email)
		return nil
	}

	if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(password)) == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateUserPassword(ctx, existing.ID, string(hashed)); err != nil {
		return err
	}

	s.log.Info("admin password updated from configuration", "email", email)
	return nil
}
