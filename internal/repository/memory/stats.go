package memory

import (
	"context"

	"github.com/baharkarakas/unitrack/internal/models"
)

type statsRepo struct{ s *Store }

func (r *statsRepo) Dashboard(_ context.Context) (models.DashboardStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st := models.DashboardStats{
		Projects: int64(len(r.s.projects)),
		Tasks:    int64(len(r.s.tasks)),
	}
	for _, u := range r.s.users {
		if u.Role == models.RoleStudent {
			st.Students++
		}
	}
	for _, p := range r.s.projects {
		if p.Status == models.StatusCompleted {
			st.FinishedProjects++
		}
	}
	return st, nil
}

func (r *statsRepo) StudentTasks(_ context.Context, userID string) (models.TaskStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var st models.TaskStats
	for _, t := range r.s.tasks {
		if t.AssignedTo != userID {
			continue
		}
		st.Assigned++
		switch t.Status {
		case models.StatusCompleted:
			st.Completed++
		case models.StatusPending:
			st.Pending++
		}
	}
	return st, nil
}
