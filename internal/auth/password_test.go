package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)

	assert.NoError(t, VerifyPassword("p", hash))
	assert.Error(t, VerifyPassword("q", hash))
}

func TestHashPasswordCostAndLimit(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
