package memory

import (
	"context"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type usersRepo struct{ s *Store }

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if fold(existing.Username) == fold(u.Username) {
			return models.User{}, repo.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = newID()
	}
	now := r.s.stamp()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if fold(u.Username) == fold(username) {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *usersRepo) GetMany(_ context.Context, ids []string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *usersRepo) List(_ context.Context) ([]models.User, error) {
	return r.filter(func(models.User) bool { return true }), nil
}

func (r *usersRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.Role == role }), nil
}

func (r *usersRepo) filter(keep func(models.User) bool) []models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.User
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return sortedByName(out, func(u models.User) string { return u.Username })
}
