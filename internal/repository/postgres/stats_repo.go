package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
)

type statsRepo struct{ pool *pgxpool.Pool }

// Dashboard reads all four counts in one statement, so they share a snapshot.
func (r *statsRepo) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var st models.DashboardStats
	err := r.pool.QueryRow(ctx, `
SELECT (SELECT count(*) FROM projects),
       (SELECT count(*) FROM users WHERE role = 'student'),
       (SELECT count(*) FROM tasks),
       (SELECT count(*) FROM projects WHERE status = 'COMPLETED')`,
	).Scan(&st.Projects, &st.Students, &st.Tasks, &st.FinishedProjects)
	return st, err
}

func (r *statsRepo) StudentTasks(ctx context.Context, userID string) (models.TaskStats, error) {
	var st models.TaskStats
	err := r.pool.QueryRow(ctx, `
SELECT count(*),
       count(*) FILTER (WHERE status = 'COMPLETED'),
       count(*) FILTER (WHERE status = 'PENDING')
  FROM tasks
 WHERE assigned_to = $1`, userID,
	).Scan(&st.Assigned, &st.Completed, &st.Pending)
	return st, err
}
