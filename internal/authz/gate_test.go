package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
)

func ctxAs(role models.Role) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: "u-" + string(role), Username: string(role), Role: role})
}

func TestCheckMatrix(t *testing.T) {
	anon := context.Background()
	admin := ctxAs(models.RoleAdmin)
	student := ctxAs(models.RoleStudent)

	tests := []struct {
		name string
		ctx  context.Context
		req  Requirement
		want apperr.Code
	}{
		{"public anonymous", anon, Public, ""},
		{"public admin", admin, Public, ""},
		{"authenticated anonymous", anon, Authenticated, apperr.CodeUnauthenticated},
		{"authenticated student", student, Authenticated, ""},
		{"admin anonymous", anon, Role(models.RoleAdmin), apperr.CodeUnauthenticated},
		{"admin as student", student, Role(models.RoleAdmin), apperr.CodeForbidden},
		{"admin as admin", admin, Role(models.RoleAdmin), ""},
		{"student as admin", admin, Role(models.RoleStudent), apperr.CodeForbidden},
		{"student as student", student, Role(models.RoleStudent), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(tt.ctx, tt.req)
			assert.Equal(t, tt.want, apperr.CodeOf(err))
		})
	}
}

func TestCheckReturnsIdentity(t *testing.T) {
	id, err := Check(ctxAs(models.RoleStudent), Authenticated)
	require.NoError(t, err)
	assert.Equal(t, "u-student", id.UserID)
}

func TestForbiddenMessageNamesRole(t *testing.T) {
	_, err := Check(ctxAs(models.RoleStudent), Role(models.RoleAdmin))
	assert.EqualError(t, err, "Requires admin role")
}

func TestGuardSkipsFnOnRejection(t *testing.T) {
	called := false
	fn := Guard(Role(models.RoleAdmin), func(ctx context.Context, id auth.Identity) (string, error) {
		called = true
		return id.UserID, nil
	})

	_, err := fn(ctxAs(models.RoleStudent))
	assert.Error(t, err)
	assert.False(t, called)

	got, err := fn(ctxAs(models.RoleAdmin))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "u-admin", got)
}

func TestRequirementString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "role:student", Role(models.RoleStudent).String())
}
