package memory

import (
	"context"
	"strings"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type categoriesRepo struct{ s *Store }

func (r *categoriesRepo) Create(_ context.Context, name string) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.findLocked(name); ok {
		return models.Category{}, repo.ErrConflict
	}
	return r.insertLocked(name), nil
}

func (r *categoriesRepo) Upsert(_ context.Context, name string) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.findLocked(name); ok {
		c.UpdatedAt = r.s.stamp()
		r.s.categories[c.ID] = c
		return c, nil
	}
	return r.insertLocked(name), nil
}

func (r *categoriesRepo) GetByID(_ context.Context, id string) (models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return models.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *categoriesRepo) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	return sortedByName(out, func(c models.Category) string { return c.Name }), nil
}

func (r *categoriesRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r *categoriesRepo) findLocked(name string) (models.Category, bool) {
	for _, c := range r.s.categories {
		if fold(c.Name) == fold(name) {
			return c, true
		}
	}
	return models.Category{}, false
}

func (r *categoriesRepo) insertLocked(name string) models.Category {
	now := r.s.stamp()
	c := models.Category{ID: newID(), Name: strings.TrimSpace(name), CreatedAt: now, UpdatedAt: now}
	r.s.categories[c.ID] = c
	return c
}
