package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
	"github.com/baharkarakas/unitrack/internal/repository/memory"
)

type fixture struct {
	store    *memory.Store
	users    *UserService
	cats     *CategoryService
	projects *ProjectService
	tasks    *TaskService
	chat     *ChatService
	stats    *StatsService
	notes    *recorder
	tokens   *auth.TokenManager
}

type recorder struct {
	mu  sync.Mutex
	got map[string][]models.ChatMessage
}

func (r *recorder) Deliver(userID string, m models.ChatMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.got == nil {
		r.got = map[string][]models.ChatMessage{}
	}
	r.got[userID] = append(r.got[userID], m)
	return true
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	repos := st.Repositories()
	audit := NewAuditor(repos.AuditLogs, nil)
	tokens := auth.NewTokenManager("test-secret", "unitrack-test", time.Hour)
	notes := &recorder{}
	return &fixture{
		store:    st,
		users:    NewUserService(repos.Users, tokens),
		cats:     NewCategoryService(repos.Categories, repos.Projects, audit),
		projects: NewProjectService(repos.Projects, repos.Categories, repos.Users, audit),
		tasks:    NewTaskService(repos.Tasks, repos.Projects, repos.Users, repos.Stats, audit),
		chat:     NewChatService(repos.Messages, repos.Users, notes),
		stats:    NewStatsService(repos.Stats),
		notes:    notes,
		tokens:   tokens,
	}
}

func (f *fixture) signUp(t *testing.T, username string, role models.Role) auth.Identity {
	t.Helper()
	in := SignUpInput{Username: username, Password: "p", Role: string(role)}
	if role == models.RoleStudent {
		in.UniversityID = "U-" + username
	}
	out, err := f.users.SignUp(context.Background(), in)
	require.NoError(t, err)
	return auth.Identity{UserID: out.User.ID, Username: out.User.Username, Role: out.User.Role}
}

func assertCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperr.CodeOf(err), "err: %v", err)
}

func ptr[T any](v T) *T { return &v }
