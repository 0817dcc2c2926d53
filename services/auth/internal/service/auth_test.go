package service

import (
	"context"
	"testing"
	"time"

	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/hash"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"github.com/Skotchmaster/bookstore/services/auth/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	ctx := context.Background()
	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	return &AuthService{
		Repo:          r,
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestAuthService_Register_SuccessAndConflict(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "alice", u.Name)
	assert.NotEqual(t, "Secret123", u.PasswordHash)

	_, err = svc.Register(ctx, "alice", "other@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "bob", "alice@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "empty username", username: "", email: "a@b.c", password: "secret1"},
		{name: "empty email", username: "user", email: "", password: "secret1"},
		{name: "bad email", username: "user", email: "not-an-email", password: "secret1"},
		{name: "empty password", username: "user", email: "a@b.c", password: ""},
		{name: "short password", username: "user", email: "a@b.c", password: "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.Role)

	accessClaims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	id, err := accessClaims.UserID()
	require.NoError(t, err)
	assert.Equal(t, res.UserID, id)
	assert.True(t, accessClaims.ExpiresAt.Time.After(time.Now()))

	refreshClaims, err := tokens.RefreshClaimsFromToken(res.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	stored, err := svc.Repo.FindRefreshByID(ctx, refreshClaims.ID)
	require.NoError(t, err)
	assert.Equal(t, tokens.Sha256Hex(res.RefreshToken), stored.Token)
	assert.False(t, stored.Revoked)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	oldClaims, err := tokens.RefreshClaimsFromToken(login.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, login.UserID, refreshed.UserID)

	old, err := svc.Repo.FindRefreshByID(ctx, oldClaims.ID)
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	// a rotated token cannot be used twice
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_PicksUpRoleChange(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmin(ctx, "alice", "alice@example.com", "ignored"))

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, refreshed.Role)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := newTestAuthService(t)

	res, err := svc.Refresh(context.Background(), "not-a-valid-jwt")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	// signed correctly but never stored
	tok, _, err := tokens.SignRefresh(u.ID, time.Now().Add(time.Hour), svc.RefreshSecret)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogOut_RevokesRefreshToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, login.RefreshToken))
	require.NoError(t, svc.LogOut(ctx, ""))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "root@example.com", "Secret123"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "root@example.com", "Secret123"))

	res, err := svc.Login(ctx, "root", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)

	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrong", "NewSecret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, u.ID, "Secret123", "x")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "Secret123", "NewSecret1"))

	stored, err := svc.Repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "NewSecret1"))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "existing sessions are revoked")

	_, err = svc.Login(ctx, "alice", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "NewSecret1")
	assert.NoError(t, err)
}

func TestAuthService_Profile(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, alice.ID, "Alice Liddell", "liddell@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, "liddell@example.com", updated.Email)

	_, err = svc.UpdateProfile(ctx, alice.ID, "Alice", "bob@example.com")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateProfile(ctx, alice.ID, "", "x@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	withAvatar, err := svc.UpdateAvatar(ctx, alice.ID, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", withAvatar.Image)

	_, err = svc.UpdateAvatar(ctx, 999, "https://cdn.example.com/a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.Name)
}
