package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type tasksRepo struct{ pool *pgxpool.Pool }

const taskCols = `id, title, description, status, assigned_to, project_id, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.ProjectID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, mapErr(err)
}

func (r *tasksRepo) list(ctx context.Context, where string, arg any) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskCols+` FROM tasks WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create locks the project row in share mode so a concurrent member update
// either sees this task or finishes before the membership check runs.
func (r *tasksRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var out models.Task
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx, `SELECT 1 FROM projects WHERE id=$1 FOR SHARE`, t.ProjectID).Scan(&one); err != nil {
			return mapErr(err)
		}
		var member bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id=$1 AND user_id=$2)`,
			t.ProjectID, t.AssignedTo,
		).Scan(&member); err != nil {
			return err
		}
		if !member {
			return repo.ErrNotMember
		}
		var err error
		out, err = scanTask(tx.QueryRow(ctx,
			`INSERT INTO tasks(id, title, description, status, assigned_to, project_id, due_date)
			 VALUES($1,$2,$3,$4,$5,$6,$7)
			 RETURNING `+taskCols,
			t.ID, t.Title, t.Description, t.Status, t.AssignedTo, t.ProjectID, t.DueDate,
		))
		return err
	})
	return out, err
}

func (r *tasksRepo) GetByID(ctx context.Context, id string) (models.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=$1`, id))
}

func (r *tasksRepo) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return r.list(ctx, `project_id=$1`, projectID)
}

func (r *tasksRepo) ListByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return r.list(ctx, `assigned_to=$1`, userID)
}

func (r *tasksRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+taskCols, id, status))
}

func (r *tasksRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
