package memory

import (
	"context"
	"slices"
	"time"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type projectsRepo struct{ s *Store }

func (r *projectsRepo) Create(_ context.Context, p models.Project) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.titleTakenLocked(p.Title, "") {
		return models.Project{}, repo.ErrConflict
	}
	if p.ID == "" {
		p.ID = newID()
	}
	now := r.s.stamp()
	p.CreatedAt, p.UpdatedAt = now, now
	p.MemberIDs = slices.Clone(p.MemberIDs)
	r.s.projects[p.ID] = p
	return p, nil
}

func (r *projectsRepo) GetByID(_ context.Context, id string) (models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return models.Project{}, repo.ErrNotFound
	}
	return clone(p), nil
}

func (r *projectsRepo) List(_ context.Context) ([]models.Project, error) {
	return r.filter(func(models.Project) bool { return true }), nil
}

func (r *projectsRepo) ListByMember(_ context.Context, userID string) ([]models.Project, error) {
	return r.filter(func(p models.Project) bool { return p.HasMember(userID) }), nil
}

func (r *projectsRepo) Update(_ context.Context, p models.Project) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.projects[p.ID]
	if !ok {
		return models.Project{}, repo.ErrNotFound
	}
	if r.titleTakenLocked(p.Title, p.ID) {
		return models.Project{}, repo.ErrConflict
	}
	if stranded := r.assigneesOutsideLocked(p.ID, p.MemberIDs); len(stranded) > 0 {
		return models.Project{}, &repo.MembersInUseError{UserIDs: stranded}
	}
	p.CreatedAt = cur.CreatedAt
	p.CreatedBy = cur.CreatedBy
	p.Progress = cur.Progress
	p.UpdatedAt = r.s.stamp()
	p.MemberIDs = slices.Clone(p.MemberIDs)
	r.s.projects[p.ID] = p
	return clone(p), nil
}

func (r *projectsRepo) UpdateProgress(_ context.Context, id string, progress int) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return models.Project{}, repo.ErrNotFound
	}
	p.Progress = progress
	p.UpdatedAt = r.s.stamp()
	r.s.projects[id] = p
	return clone(p), nil
}

func (r *projectsRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.projects {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *projectsRepo) DeleteCascade(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return 0, repo.ErrNotFound
	}
	var n int64
	for tid, t := range r.s.tasks {
		if t.ProjectID == id {
			delete(r.s.tasks, tid)
			n++
		}
	}
	delete(r.s.projects, id)
	return n, nil
}

func (r *projectsRepo) titleTakenLocked(title, exceptID string) bool {
	for _, p := range r.s.projects {
		if p.ID != exceptID && fold(p.Title) == fold(title) {
			return true
		}
	}
	return false
}

func (r *projectsRepo) assigneesOutsideLocked(projectID string, memberIDs []string) []string {
	var out []string
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID && !slices.Contains(memberIDs, t.AssignedTo) && !slices.Contains(out, t.AssignedTo) {
			out = append(out, t.AssignedTo)
		}
	}
	slices.Sort(out)
	return out
}

func (r *projectsRepo) filter(keep func(models.Project) bool) []models.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Project
	for _, p := range r.s.projects {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return sortedByCreated(out, func(p models.Project) time.Time { return p.CreatedAt })
}

func clone(p models.Project) models.Project {
	p.MemberIDs = slices.Clone(p.MemberIDs)
	return p
}
