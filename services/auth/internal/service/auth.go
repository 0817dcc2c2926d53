package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/hash"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"github.com/Skotchmaster/bookstore/services/auth/internal/repo"
)

var (
	ErrValidation          = errors.New("validation")          // 400
	ErrInvalidCredentials  = errors.New("invalid credentials") // 401
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNotFound            = errors.New("not found") // 404
	ErrConflict            = errors.New("conflict")  // 409
)

const minPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
}

type LoginResult struct {
	UserID       uint
	Role         string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		Name:         username,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh rotates a refresh token. The role is read from the user record so
// a role change takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user is gone", ErrInvalidRefreshToken)
		}
		return nil, err
	}

	res, next, err := s.sign(user)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, tokens.Sha256Hex(refreshToken), next); err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) || errors.Is(err, repo.ErrRefreshUnusable) {
			l.Warn("refresh_rejected", "user_id", userID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
		}
		l.Error("refresh_error", "reason", "cannot rotate token", "error", err)
		return nil, err
	}

	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefresh(ctx, tokens.Sha256Hex(refreshToken))
}

// EnsureAdmin seeds the configured administrator account.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.EnsureAdmin(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Name:         username,
	})
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	res, refresh, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefresh(ctx, refresh); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) sign(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.SignAccess(user.ID, user.Role, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := tokens.SignRefresh(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &LoginResult{
		UserID:       user.ID,
		Role:         user.Role,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}
