package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/models"
)

func TestChatSendAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	bob := f.signUp(t, "bob", models.RoleStudent)

	m1, err := f.chat.Send(ctx, admin.UserID, alice.UserID, "hello")
	require.NoError(t, err)
	_, err = f.chat.Send(ctx, alice.UserID, admin.UserID, "hi back")
	require.NoError(t, err)
	_, err = f.chat.Send(ctx, bob.UserID, alice.UserID, "psst")
	require.NoError(t, err)

	assert.Equal(t, []models.ChatMessage{m1}, f.notes.got[alice.UserID][:1])

	hist, err := f.chat.History(ctx, alice.UserID, admin.UserID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "hello", hist[0].Content)
	assert.Equal(t, "hi back", hist[1].Content)

	inbox, err := f.chat.Inbox(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, inbox, 3)

	n, err := f.chat.MarkRead(ctx, alice.UserID, admin.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = f.chat.MarkRead(ctx, alice.UserID, admin.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChatSendRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signUp(t, "alice", models.RoleStudent)

	_, err := f.chat.Send(ctx, alice.UserID, "ghost", "hi")
	assertCode(t, err, apperr.CodeNotFound)
	_, err = f.chat.Send(ctx, alice.UserID, alice.UserID, "hi")
	assertCode(t, err, apperr.CodeValidation)
	_, err = f.chat.Send(ctx, alice.UserID, "", "hi")
	assertCode(t, err, apperr.CodeValidation)
	_, err = f.chat.Send(ctx, alice.UserID, "ghost", "   ")
	assertCode(t, err, apperr.CodeValidation)
}
