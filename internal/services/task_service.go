package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type TaskService struct {
	r        repo.Tasks
	projects repo.Projects
	users    repo.Users
	stats    repo.Stats
	audit    *Auditor
	now      func() time.Time
}

func NewTaskService(r repo.Tasks, projects repo.Projects, users repo.Users, stats repo.Stats, audit *Auditor) *TaskService {
	return &TaskService{r: r, projects: projects, users: users, stats: stats, audit: audit, now: time.Now}
}

type TaskInput struct {
	Title       string
	Description string
	ProjectID   string
	AssignedTo  string
	Status      string
	DueDate     *time.Time
}

func (s *TaskService) Create(ctx context.Context, actor auth.Identity, in TaskInput) (models.Task, error) {
	t := models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ProjectID:   strings.TrimSpace(in.ProjectID),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		Status:      models.StatusPending,
		DueDate:     in.DueDate,
	}
	if err := validate.Collect(
		validate.MinLen("title", t.Title, models.MinTaskTitleLen),
		validate.MaxLen("title", t.Title, maxTitleLen),
		validate.Required("projectId", t.ProjectID),
		validate.Required("assignedTo", t.AssignedTo),
		validate.When(t.DueDate != nil && !t.DueDate.After(s.now()), "dueDate", "must be in the future"),
	); err != nil {
		return models.Task{}, err
	}
	if in.Status != "" {
		st, ok := models.ParseStatus(in.Status)
		if !ok {
			return models.Task{}, badStatus()
		}
		t.Status = st
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return models.Task{}, notFound(err, "project")
	}
	assignee, err := s.users.GetByID(ctx, t.AssignedTo)
	if err != nil {
		return models.Task{}, notFound(err, "assignee")
	}
	if assignee.Role != models.RoleStudent {
		return models.Task{}, apperr.Validation("tasks can only be assigned to students")
	}
	if !p.HasMember(assignee.ID) {
		return models.Task{}, apperr.Validation("assignee is not a member of this project")
	}

	t, err = s.r.Create(ctx, t)
	switch {
	case errors.Is(err, repo.ErrConflict):
		return models.Task{}, apperr.Validation("task already exists for this student in this project")
	case errors.Is(err, repo.ErrNotMember):
		return models.Task{}, apperr.Validation("assignee is not a member of this project")
	case err != nil:
		return models.Task{}, notFound(err, "project")
	}
	s.audit.Record(actor.UserID, models.EntityTask, t.ID, "create", map[string]any{
		"project_id": t.ProjectID, "assigned_to": t.AssignedTo,
	})
	return t, nil
}

// Get is open to admins and to the task's assignee.
func (s *TaskService) Get(ctx context.Context, actor auth.Identity, id string) (models.Task, error) {
	t, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, notFound(err, "task")
	}
	if !canSee(actor, t) {
		return models.Task{}, apperr.Forbidden("You are not assigned to this task")
	}
	return t, nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, "project")
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *TaskService) ListAssigned(ctx context.Context, userID string) ([]models.Task, error) {
	return s.r.ListByAssignee(ctx, userID)
}

func (s *TaskService) UpdateStatus(ctx context.Context, actor auth.Identity, id, status string) (models.Task, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return models.Task{}, badStatus()
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return models.Task{}, err
	}
	t, err := s.r.UpdateStatus(ctx, id, st)
	if err != nil {
		return models.Task{}, notFound(err, "task")
	}
	s.audit.Record(actor.UserID, models.EntityTask, id, "status", map[string]any{"status": string(st)})
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return notFound(err, "task")
	}
	s.audit.Record(actor.UserID, models.EntityTask, id, "delete", nil)
	return nil
}

// StudentStats is open to admins and to the student themselves.
func (s *TaskService) StudentStats(ctx context.Context, actor auth.Identity, userID string) (models.TaskStats, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return models.TaskStats{}, apperr.Forbidden("You can only view your own task stats")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.TaskStats{}, notFound(err, "user")
	}
	return s.stats.StudentTasks(ctx, userID)
}

func canSee(actor auth.Identity, t models.Task) bool {
	return actor.IsAdmin() || t.AssignedTo == actor.UserID
}
