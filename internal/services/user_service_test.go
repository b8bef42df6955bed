package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
)

func TestSignUpAliceThenDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.users.SignUp(ctx, SignUpInput{Username: "alice", Password: "p", Role: "student", UniversityID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, "/student/"+out.User.ID, out.RedirectURL)
	assert.NotEqual(t, "p", out.User.PasswordHash)

	id, err := f.tokens.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, id.UserID)
	assert.Equal(t, models.RoleStudent, id.Role)

	_, err = f.users.SignUp(ctx, SignUpInput{Username: "Alice", Password: "p", Role: "student", UniversityID: "U2"})
	assertCode(t, err, apperr.CodeValidation)
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]SignUpInput{
		"missing username":       {Password: "p", Role: "admin"},
		"missing password":       {Username: "bob", Role: "admin"},
		"unknown role":           {Username: "bob", Password: "p", Role: "professor"},
		"student without uni id": {Username: "bob", Password: "p", Role: "student"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.users.SignUp(ctx, in)
			assertCode(t, err, apperr.CodeValidation)
		})
	}
}

func TestSignUpAdminDropsUniversityID(t *testing.T) {
	f := newFixture(t)
	out, err := f.users.SignUp(context.Background(), SignUpInput{Username: " root ", Password: "p", Role: "ADMIN", UniversityID: "X"})
	require.NoError(t, err)
	assert.Equal(t, "root", out.User.Username)
	assert.Empty(t, out.User.UniversityID)
	assert.Equal(t, "/admin/"+out.User.ID, out.RedirectURL)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signUp(t, "alice", models.RoleStudent)

	out, err := f.users.Login(ctx, "ALICE", "p")
	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)

	_, wrongPass := f.users.Login(ctx, "alice", "nope")
	_, unknown := f.users.Login(ctx, "nobody", "p")
	assertCode(t, wrongPass, apperr.CodeValidation)
	assertCode(t, unknown, apperr.CodeValidation)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signUp(t, "alice", models.RoleStudent)

	u, err := f.users.Me(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.UserID, u.ID)

	u, err = f.users.Me(ctx, auth.Identity{})
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.users.Me(ctx, auth.Identity{UserID: "ghost", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestStudents(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "admin", models.RoleAdmin)
	f.signUp(t, "bob", models.RoleStudent)
	f.signUp(t, "alice", models.RoleStudent)

	got, err := f.users.Students(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob", got[1].Username)
}
