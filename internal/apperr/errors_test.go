package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("resolve: %w", Forbidden("Requires admin role"))
	assert.True(t, errors.Is(err, Forbidden("")))
	assert.False(t, errors.Is(err, Unauthenticated("")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("project not found")))
	assert.Equal(t, CodeTimeout, CodeOf(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestPublicHidesInternalCause(t *testing.T) {
	pub, log := Public(errors.New("pq: connection refused"))
	require.True(t, log)
	assert.Equal(t, CodeInternal, pub.Code)
	assert.Equal(t, "internal error", pub.Message)

	pub, log = Public(Validation("Username already exists."))
	assert.False(t, log)
	assert.Equal(t, "Username already exists.", pub.Message)
}

func TestExtensions(t *testing.T) {
	ext := Invalid("invalid input", []string{"title"}).Extensions()
	assert.Equal(t, "BAD_USER_INPUT", ext["code"])
	assert.Equal(t, []string{"title"}, ext["details"])

	_, ok := NotFound("x").Extensions()["details"]
	assert.False(t, ok)
}
