package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

const (
	DefaultCategory = "General"
	maxTitleLen     = 200
)

type ProjectService struct {
	r          repo.Projects
	categories repo.Categories
	users      repo.Users
	audit      *Auditor
}

func NewProjectService(r repo.Projects, categories repo.Categories, users repo.Users, audit *Auditor) *ProjectService {
	return &ProjectService{r: r, categories: categories, users: users, audit: audit}
}

type ProjectInput struct {
	Title       string
	Description string
	Category    string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	MemberIDs   []string
}

// ProjectPatch leaves nil fields unchanged. The Clear flags unset a date
// and win over a value given for the same field.
type ProjectPatch struct {
	Title          *string
	Description    *string
	Category       *string
	Status         *string
	StartDate      *time.Time
	EndDate        *time.Time
	ClearStartDate bool
	ClearEndDate   bool
	MemberIDs      *[]string
}

func (s *ProjectService) Create(ctx context.Context, actor auth.Identity, in ProjectInput) (models.Project, error) {
	status := models.StatusPending
	if in.Status != "" {
		st, ok := models.ParseStatus(in.Status)
		if !ok {
			return models.Project{}, badStatus()
		}
		status = st
	}
	p := models.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedBy:   actor.UserID,
		MemberIDs:   dedupe(in.MemberIDs),
	}
	if err := s.check(ctx, p); err != nil {
		return models.Project{}, err
	}
	cat, err := s.upsertCategory(ctx, in.Category)
	if err != nil {
		return models.Project{}, err
	}
	p.CategoryID = cat.ID

	p, err = s.r.Create(ctx, p)
	if err != nil {
		return models.Project{}, conflict(err, "project title already exists")
	}
	s.audit.Record(actor.UserID, models.EntityProject, p.ID, "create", map[string]any{
		"title": p.Title, "category": cat.Name, "members": len(p.MemberIDs),
	})
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actor auth.Identity, id string, patch ProjectPatch) (models.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		st, ok := models.ParseStatus(*patch.Status)
		if !ok {
			return models.Project{}, badStatus()
		}
		p.Status = st
	}
	switch {
	case patch.ClearStartDate:
		p.StartDate = nil
	case patch.StartDate != nil:
		p.StartDate = patch.StartDate
	}
	switch {
	case patch.ClearEndDate:
		p.EndDate = nil
	case patch.EndDate != nil:
		p.EndDate = patch.EndDate
	}
	if patch.MemberIDs != nil {
		p.MemberIDs = dedupe(*patch.MemberIDs)
	}
	if err := s.check(ctx, p); err != nil {
		return models.Project{}, err
	}
	if patch.Category != nil {
		cat, err := s.upsertCategory(ctx, *patch.Category)
		if err != nil {
			return models.Project{}, err
		}
		p.CategoryID = cat.ID
	}

	p, err = s.r.Update(ctx, p)
	var inUse *repo.MembersInUseError
	if errors.As(err, &inUse) {
		return models.Project{}, s.membersInUse(ctx, inUse.UserIDs)
	}
	if err != nil {
		return models.Project{}, conflict(notFound(err, "project"), "project title already exists")
	}
	s.audit.Record(actor.UserID, models.EntityProject, p.ID, "update", nil)
	return p, nil
}

// UpdateProgress is the member-student path; the value is clamped, not rejected.
func (s *ProjectService) UpdateProgress(ctx context.Context, actor auth.Identity, id string, progress int) (models.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if !p.HasMember(actor.UserID) {
		return models.Project{}, apperr.Forbidden("You are not a member of this project")
	}
	p, err = s.r.UpdateProgress(ctx, id, models.ClampProgress(progress))
	if err != nil {
		return models.Project{}, notFound(err, "project")
	}
	s.audit.Record(actor.UserID, models.EntityProject, id, "progress", map[string]any{"progress": p.Progress})
	return p, nil
}

// Delete removes the project and its tasks together and reports how many
// tasks went with it.
func (s *ProjectService) Delete(ctx context.Context, actor auth.Identity, id string) (int64, error) {
	n, err := s.r.DeleteCascade(ctx, id)
	if err != nil {
		return 0, notFound(err, "project")
	}
	s.audit.Record(actor.UserID, models.EntityProject, id, "delete", map[string]any{"tasks_removed": n})
	return n, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (models.Project, error) {
	p, err := s.r.GetByID(ctx, id)
	return p, notFound(err, "project")
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) { return s.r.List(ctx) }

func (s *ProjectService) ListForMember(ctx context.Context, userID string) ([]models.Project, error) {
	return s.r.ListByMember(ctx, userID)
}

func (s *ProjectService) check(ctx context.Context, p models.Project) error {
	if err := validate.Collect(
		validate.Required("title", p.Title),
		validate.MaxLen("title", p.Title, maxTitleLen),
		validate.When(!p.DatesOrdered(), "endDate", "must not be before startDate"),
	); err != nil {
		return err
	}
	return s.checkMembers(ctx, p.MemberIDs)
}

// membersInUse names the students that cannot leave the project yet.
func (s *ProjectService) membersInUse(ctx context.Context, ids []string) error {
	names := make(map[string]string, len(ids))
	if users, err := s.users.GetMany(ctx, ids); err == nil {
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}
	var errs validate.Errs
	for _, id := range ids {
		who := names[id]
		if who == "" {
			who = id
		}
		errs = append(errs, validate.ErrField{Field: "memberIds", Msg: fmt.Sprintf("student %s still has tasks in this project", who)})
	}
	return apperr.Invalid(errs.Error(), errs)
}

// checkMembers requires every id to name an existing student.
func (s *ProjectService) checkMembers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	var errs validate.Errs
	for _, id := range ids {
		u, ok := byID[id]
		switch {
		case !ok:
			errs = append(errs, validate.ErrField{Field: "memberIds", Msg: fmt.Sprintf("user %s not found", id)})
		case u.Role != models.RoleStudent:
			errs = append(errs, validate.ErrField{Field: "memberIds", Msg: fmt.Sprintf("%s is not a student", u.Username)})
		}
	}
	if len(errs) > 0 {
		return apperr.Invalid(errs.Error(), errs)
	}
	return nil
}

func (s *ProjectService) upsertCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCategory
	}
	if err := validate.Collect(validate.MaxLen("category", name, maxNameLen)); err != nil {
		return models.Category{}, err
	}
	return s.categories.Upsert(ctx, name)
}

func badStatus() error {
	names := make([]string, len(models.Statuses))
	for i, st := range models.Statuses {
		names[i] = string(st)
	}
	return apperr.Invalid("invalid status", validate.Errs{{Field: "status", Msg: "must be one of " + strings.Join(names, ", ")}})
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
