package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/pkg/hash"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"github.com/Skotchmaster/bookstore/services/auth/internal/repo"
)

func notFound(err error) error {
	if errors.Is(err, repo.ErrUserNotFound) {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return err
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, userID)
	return u, notFound(err)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	u, err := s.Repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, notFound(err)
	}
	return u, nil
}

// ChangePassword requires the current password and revokes every refresh
// token of the user on success.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", userID)

	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", ErrValidation)
	}
	if len(next) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return notFound(err)
	}
	if !hash.CheckPassword(u.PasswordHash, current) {
		l.Warn("change_password_failed", "reason", "current password mismatch")
		return ErrInvalidCredentials
	}

	pwHash, err := hash.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.ChangePassword(ctx, userID, pwHash); err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			l.Error("change_password_error", "error", err)
		}
		return notFound(err)
	}
	return nil
}

func (s *AuthService) UpdateAvatar(ctx context.Context, userID uint, image string) (*models.User, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	u, err := s.Repo.UpdateAvatar(ctx, userID, image)
	return u, notFound(err)
}
