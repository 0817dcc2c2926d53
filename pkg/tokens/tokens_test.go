package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestSignAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL).UTC()
	token, err := SignAccess(42, "admin", exp, accessSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestSignRefresh_SetsJTI(t *testing.T) {
	t.Parallel()

	token, jti, err := SignRefresh(7, time.Now().Add(RefreshTTL), refreshSecret)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := RefreshClaimsFromToken(token, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "7", claims.Subject)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := SignAccess(1, "user", time.Now().Add(-time.Minute), accessSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, accessSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := SignAccess(1, "user", time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(valid, []byte("other-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = AccessClaimsFromToken("not-a-jwt", accessSecret)
	assert.Error(t, err)
}

func TestAccessClaims_UserID_RejectsNonNumericSubject(t *testing.T) {
	t.Parallel()

	c := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.Error(t, err)
}

func TestSha256Hex(t *testing.T) {
	t.Parallel()

	assert.Len(t, Sha256Hex("token"), 64)
	assert.Equal(t, Sha256Hex("token"), Sha256Hex("token"))
}
