// Package memory is an in-process backend for local runs and tests. All
// collections share one lock, so multi-collection writes are atomic.
package memory

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	categories map[string]models.Category
	projects   map[string]models.Project
	tasks      map[string]models.Task
	messages   map[string]models.ChatMessage
	auditLogs  []models.AuditLog
	now        func() time.Time
	last       time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]models.User),
		categories: make(map[string]models.Category),
		projects:   make(map[string]models.Project),
		tasks:      make(map[string]models.Task),
		messages:   make(map[string]models.ChatMessage),
		now:        time.Now,
	}
}

func NewRepositories() repo.Repositories {
	s := NewStore()
	return s.Repositories()
}

func (s *Store) Repositories() repo.Repositories {
	return repo.Repositories{
		Users:      &usersRepo{s},
		Categories: &categoriesRepo{s},
		Projects:   &projectsRepo{s},
		Tasks:      &tasksRepo{s},
		Messages:   &messagesRepo{s},
		Stats:      &statsRepo{s},
		AuditLogs:  &auditLogsRepo{s},
	}
}

// AuditLogs returns a copy of every recorded audit entry.
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.auditLogs)
}

// stamp returns a strictly increasing timestamp so creation order is total.
// Callers hold the write lock.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func newID() string { return uuid.NewString() }

func sortedByCreated[T any](items []T, created func(T) time.Time) []T {
	slices.SortStableFunc(items, func(a, b T) int { return created(a).Compare(created(b)) })
	return items
}

func sortedByName[T any](items []T, name func(T) string) []T {
	slices.SortStableFunc(items, func(a, b T) int { return cmp.Compare(fold(name(a)), fold(name(b))) })
	return items
}
