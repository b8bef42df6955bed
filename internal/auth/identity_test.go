package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baharkarakas/unitrack/internal/models"
)

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Role: models.RoleAdmin})
	id, ok := IdentityFrom(ctx)
	assert.True(t, ok)
	assert.True(t, id.IsAdmin())

	_, ok = IdentityFrom(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}
