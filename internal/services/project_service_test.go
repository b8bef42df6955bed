package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)

	p, err := f.projects.Create(ctx, admin, ProjectInput{
		Title: "Capstone", Category: "Design", MemberIDs: []string{alice.UserID, alice.UserID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, admin.UserID, p.CreatedBy)
	assert.Equal(t, []string{alice.UserID}, p.MemberIDs)
	assert.Zero(t, p.Progress)

	cat, err := f.cats.Get(ctx, p.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Design", cat.Name)

	t.Run("title unique case-insensitive", func(t *testing.T) {
		_, err := f.projects.Create(ctx, admin, ProjectInput{Title: "CAPSTONE", Category: "Design"})
		assertCode(t, err, apperr.CodeValidation)
	})

	t.Run("category reused", func(t *testing.T) {
		q, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Thesis", Category: "design"})
		require.NoError(t, err)
		assert.Equal(t, p.CategoryID, q.CategoryID)
	})

	t.Run("default category", func(t *testing.T) {
		q, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Misc"})
		require.NoError(t, err)
		cat, err := f.cats.Get(ctx, q.CategoryID)
		require.NoError(t, err)
		assert.Equal(t, DefaultCategory, cat.Name)
	})
}

func TestCreateProjectValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	other := f.signUp(t, "admin2", models.RoleAdmin)
	start := time.Now()
	end := start.Add(-time.Hour)

	cases := map[string]ProjectInput{
		"empty title":        {Title: "  "},
		"dates reversed":     {Title: "A", StartDate: &start, EndDate: &end},
		"unknown member":     {Title: "B", MemberIDs: []string{"ghost"}},
		"non-student member": {Title: "C", MemberIDs: []string{other.UserID}},
		"bad status":         {Title: "D", Status: "DONE"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.projects.Create(ctx, admin, in)
			assertCode(t, err, apperr.CodeValidation)
		})
	}
}

func TestUpdateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	p, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone", Category: "Design"})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, admin, ProjectInput{Title: "Thesis"})
	require.NoError(t, err)

	got, err := f.projects.Update(ctx, admin, p.ID, ProjectPatch{
		Status:    ptr("in_progress"),
		MemberIDs: &[]string{alice.UserID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Capstone", got.Title)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, []string{alice.UserID}, got.MemberIDs)
	assert.Equal(t, p.CategoryID, got.CategoryID)

	_, err = f.projects.Update(ctx, admin, p.ID, ProjectPatch{Title: ptr("thesis")})
	assertCode(t, err, apperr.CodeValidation)

	_, err = f.projects.Update(ctx, admin, "missing", ProjectPatch{})
	assertCode(t, err, apperr.CodeNotFound)
}

func TestUpdateProjectKeepsMembersWithTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	bob := f.signUp(t, "bob", models.RoleStudent)
	p, err := f.projects.Create(ctx, admin, ProjectInput{
		Title: "Capstone", MemberIDs: []string{alice.UserID, bob.UserID},
	})
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, admin, TaskInput{Title: "Design", ProjectID: p.ID, AssignedTo: alice.UserID})
	require.NoError(t, err)

	_, err = f.projects.Update(ctx, admin, p.ID, ProjectPatch{MemberIDs: &[]string{}})
	assertCode(t, err, apperr.CodeValidation)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, validate.Errs{{Field: "memberIds", Msg: "student alice still has tasks in this project"}}, ae.Details)

	got, err := f.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.UserID, bob.UserID}, got.MemberIDs)

	t.Run("members without tasks can leave", func(t *testing.T) {
		got, err := f.projects.Update(ctx, admin, p.ID, ProjectPatch{MemberIDs: &[]string{alice.UserID}})
		require.NoError(t, err)
		assert.Equal(t, []string{alice.UserID}, got.MemberIDs)
	})

	t.Run("assignee can leave once the task is gone", func(t *testing.T) {
		require.NoError(t, f.tasks.Delete(ctx, admin, task.ID))
		got, err := f.projects.Update(ctx, admin, p.ID, ProjectPatch{MemberIDs: &[]string{}})
		require.NoError(t, err)
		assert.Empty(t, got.MemberIDs)
	})
}

func TestTaskStoreRejectsNonMemberAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	p, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone"})
	require.NoError(t, err)

	_, err = f.store.Repositories().Tasks.Create(ctx, models.Task{
		Title: "Design", Status: models.StatusPending, AssignedTo: alice.UserID, ProjectID: p.ID,
	})
	assert.ErrorIs(t, err, repo.ErrNotMember)
}

func TestUpdateProjectDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	p, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone", StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	got, err := f.projects.Update(ctx, admin, p.ID, ProjectPatch{Title: ptr("Capstone II")})
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.True(t, start.Equal(*got.StartDate))

	got, err = f.projects.Update(ctx, admin, p.ID, ProjectPatch{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)
	assert.NotNil(t, got.StartDate)

	got, err = f.projects.Update(ctx, admin, p.ID, ProjectPatch{ClearStartDate: true, StartDate: &end})
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
}

func TestUpdateProgressClampsAndRequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	bob := f.signUp(t, "bob", models.RoleStudent)
	p, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone", MemberIDs: []string{alice.UserID}})
	require.NoError(t, err)

	got, err := f.projects.UpdateProgress(ctx, alice, p.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	got, err = f.projects.UpdateProgress(ctx, alice, p.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)

	_, err = f.projects.UpdateProgress(ctx, bob, p.ID, 50)
	assertCode(t, err, apperr.CodeForbidden)

	_, err = f.projects.UpdateProgress(ctx, alice, "missing", 50)
	assertCode(t, err, apperr.CodeNotFound)
}

func TestDeleteProjectCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	p, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone", MemberIDs: []string{alice.UserID}})
	require.NoError(t, err)
	for _, title := range []string{"Design", "Build", "Ship"} {
		_, err := f.tasks.Create(ctx, admin, TaskInput{Title: title, ProjectID: p.ID, AssignedTo: alice.UserID})
		require.NoError(t, err)
	}

	n, err := f.projects.Delete(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	mine, err := f.tasks.ListAssigned(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = f.projects.Delete(ctx, admin, p.ID)
	assertCode(t, err, apperr.CodeNotFound)

	var actions []string
	for _, l := range f.store.AuditLogs() {
		if l.EntityType == models.EntityProject {
			actions = append(actions, l.Action)
		}
	}
	assert.Equal(t, []string{"create", "delete"}, actions)
}

func TestListForMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signUp(t, "admin", models.RoleAdmin)
	alice := f.signUp(t, "alice", models.RoleStudent)
	_, err := f.projects.Create(ctx, admin, ProjectInput{Title: "Capstone", MemberIDs: []string{alice.UserID}})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, admin, ProjectInput{Title: "Other"})
	require.NoError(t, err)

	mine, err := f.projects.ListForMember(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Capstone", mine[0].Title)

	all, err := f.projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
