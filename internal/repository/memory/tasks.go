package memory

import (
	"context"
	"time"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type tasksRepo struct{ s *Store }

func (r *tasksRepo) Create(_ context.Context, t models.Task) (models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[t.ProjectID]
	if !ok {
		return models.Task{}, repo.ErrNotFound
	}
	if !p.HasMember(t.AssignedTo) {
		return models.Task{}, repo.ErrNotMember
	}
	for _, existing := range r.s.tasks {
		if existing.ProjectID == t.ProjectID && existing.AssignedTo == t.AssignedTo && fold(existing.Title) == fold(t.Title) {
			return models.Task{}, repo.ErrConflict
		}
	}
	if t.ID == "" {
		t.ID = newID()
	}
	now := r.s.stamp()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.tasks[t.ID] = t
	return t, nil
}

func (r *tasksRepo) GetByID(_ context.Context, id string) (models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return models.Task{}, repo.ErrNotFound
	}
	return t, nil
}

func (r *tasksRepo) ListByProject(_ context.Context, projectID string) ([]models.Task, error) {
	return r.filter(func(t models.Task) bool { return t.ProjectID == projectID }), nil
}

func (r *tasksRepo) ListByAssignee(_ context.Context, userID string) ([]models.Task, error) {
	return r.filter(func(t models.Task) bool { return t.AssignedTo == userID }), nil
}

func (r *tasksRepo) UpdateStatus(_ context.Context, id string, status models.Status) (models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return models.Task{}, repo.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = r.s.stamp()
	r.s.tasks[id] = t
	return t, nil
}

func (r *tasksRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *tasksRepo) filter(keep func(models.Task) bool) []models.Task {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Task
	for _, t := range r.s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return sortedByCreated(out, func(t models.Task) time.Time { return t.CreatedAt })
}
