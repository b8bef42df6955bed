package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" ADMIN ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	r, ok = ParseRole("Student")
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, r)

	_, ok = ParseRole("professor")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("in_progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, st)

	_, ok = ParseStatus("finished")
	assert.False(t, ok)
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 100, ClampProgress(150))
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 42, ClampProgress(42))
}

func TestProjectDatesOrdered(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	assert.True(t, Project{}.DatesOrdered())
	assert.True(t, Project{StartDate: &start}.DatesOrdered())
	assert.True(t, Project{StartDate: &start, EndDate: &end}.DatesOrdered())
	assert.True(t, Project{StartDate: &start, EndDate: &start}.DatesOrdered())
	assert.False(t, Project{StartDate: &end, EndDate: &start}.DatesOrdered())
}

func TestUserRedirectURL(t *testing.T) {
	assert.Equal(t, "/admin/u1", User{ID: "u1", Role: RoleAdmin}.RedirectURL())
	assert.Equal(t, "/student/u2", User{ID: "u2", Role: RoleStudent}.RedirectURL())
}
