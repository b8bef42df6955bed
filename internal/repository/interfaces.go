package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/unitrack/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is a unique-constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrNotMember rejects a task whose assignee is not on the project.
	ErrNotMember = errors.New("assignee is not a project member")
)

// MembersInUseError rejects a member list that drops students who still
// have tasks on the project.
type MembersInUseError struct {
	UserIDs []string
}

func (e *MembersInUseError) Error() string {
	return "members still have tasks: " + strings.Join(e.UserIDs, ", ")
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetMany(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type Categories interface {
	Create(ctx context.Context, name string) (models.Category, error)
	// Upsert returns the category whose name matches case-insensitively,
	// creating it when absent.
	Upsert(ctx context.Context, name string) (models.Category, error)
	GetByID(ctx context.Context, id string) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

type Projects interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListByMember(ctx context.Context, userID string) ([]models.Project, error)
	// Update fails with *MembersInUseError when p.MemberIDs drops a student
	// who is still assigned a task on the project.
	Update(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProgress(ctx context.Context, id string, progress int) (models.Project, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	// DeleteCascade removes the project and all of its tasks atomically and
	// returns how many tasks were removed.
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

type Tasks interface {
	// Create fails with ErrNotMember unless the assignee is a member of the
	// project at insert time.
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByID(ctx context.Context, id string) (models.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

type Messages interface {
	Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error)
	// ListForUser returns every message the user sent or received, oldest first.
	ListForUser(ctx context.Context, userID string) ([]models.ChatMessage, error)
	ListBetween(ctx context.Context, a, b string) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
}

type Stats interface {
	Dashboard(ctx context.Context) (models.DashboardStats, error)
	StudentTasks(ctx context.Context, userID string) (models.TaskStats, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users      Users
	Categories Categories
	Projects   Projects
	Tasks      Tasks
	Messages   Messages
	Stats      Stats
	AuditLogs  AuditLogs
}
