package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/models"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "unitrack", time.Hour)

	tok, exp, err := tm.Issue("u1", "alice", models.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", Username: "alice", Role: models.RoleStudent}, id)
}

func TestVerifyStripsBearerPrefix(t *testing.T) {
	tm := NewTokenManager("secret", "unitrack", time.Hour)
	tok, _, err := tm.Issue("u1", "root", models.RoleAdmin)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + tok, "bearer " + tok, "  BEARER  " + tok} {
		id, err := tm.Verify(header)
		require.NoError(t, err, header)
		assert.Equal(t, models.RoleAdmin, id.Role)
	}
}

func TestVerifyExpired(t *testing.T) {
	tm := NewTokenManager("secret", "unitrack", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := tm.Issue("u1", "alice", models.RoleStudent)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "expired", FailureReason(err))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("other-secret", "unitrack", time.Hour)
	tok, _, err := other.Issue("u1", "alice", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "unitrack", time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, "malformed", FailureReason(err))
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	tok, _, err := NewTokenManager("secret", "someone-else", time.Hour).Issue("u1", "alice", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "unitrack", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "u1", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "unitrack",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "unitrack", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMissingAndGarbage(t *testing.T) {
	tm := NewTokenManager("secret", "unitrack", time.Hour)

	_, err := tm.Verify("Bearer ")
	assert.ErrorIs(t, err, ErrTokenMissing)
	assert.Equal(t, "missing", FailureReason(err))

	_, err = tm.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", "unitrack", time.Hour)
	tok, _, err := tm.Issue("u1", "x", models.Role("professor"))
	require.NoError(t, err)

	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("abc"))
	assert.Equal(t, "", StripBearer(""))
	assert.False(t, strings.HasPrefix(StripBearer("bearer   abc"), " "))
}
