package auth

import (
	"context"

	"github.com/baharkarakas/unitrack/internal/models"
)

// Identity is what a verified token asserts about the caller.
type Identity struct {
	UserID   string
	Username string
	Role     models.Role
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}
