package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type projectsRepo struct{ pool *pgxpool.Pool }

// members are folded into one row per project
const projectSelect = `
SELECT p.id, p.title, p.description, p.category_id, p.status, p.start_date, p.end_date,
       p.created_by, p.progress, p.created_at, p.updated_at,
       coalesce(array_agg(pm.user_id ORDER BY pm.user_id) FILTER (WHERE pm.user_id IS NOT NULL), '{}')
  FROM projects p
  LEFT JOIN project_members pm ON pm.project_id = p.id`

const projectGroup = ` GROUP BY p.id`

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanProject(row pgx.Row) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CategoryID, &p.Status, &p.StartDate, &p.EndDate,
		&p.CreatedBy, &p.Progress, &p.CreatedAt, &p.UpdatedAt, &p.MemberIDs)
	return p, mapErr(err)
}

func getProject(ctx context.Context, q querier, id string) (models.Project, error) {
	return scanProject(q.QueryRow(ctx, projectSelect+` WHERE p.id=$1`+projectGroup, id))
}

func (r *projectsRepo) listWhere(ctx context.Context, where string, args ...any) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, projectSelect+where+projectGroup+` ORDER BY p.created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func setMembers(ctx context.Context, tx pgx.Tx, projectID string, memberIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id=$1`, projectID); err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO project_members(project_id, user_id)
		 SELECT $1, m FROM unnest($2::text[]) AS m
		 ON CONFLICT DO NOTHING`,
		projectID, memberIDs,
	)
	return err
}

// assigneesOutside lists students with tasks on the project who are not in memberIDs.
func assigneesOutside(ctx context.Context, tx pgx.Tx, projectID string, memberIDs []string) ([]string, error) {
	if memberIDs == nil {
		memberIDs = []string{}
	}
	rows, err := tx.Query(ctx,
		`SELECT DISTINCT assigned_to FROM tasks
		  WHERE project_id=$1 AND NOT (assigned_to = ANY($2::text[]))
		  ORDER BY assigned_to`,
		projectID, memberIDs,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *projectsRepo) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	var out models.Project
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO projects(id, title, description, category_id, status, start_date, end_date, created_by, progress)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			p.ID, p.Title, p.Description, p.CategoryID, p.Status, p.StartDate, p.EndDate, p.CreatedBy, p.Progress,
		)
		if err != nil {
			return mapErr(err)
		}
		if err := setMembers(ctx, tx, p.ID, p.MemberIDs); err != nil {
			return err
		}
		out, err = getProject(ctx, tx, p.ID)
		return err
	})
	return out, err
}

func (r *projectsRepo) GetByID(ctx context.Context, id string) (models.Project, error) {
	return getProject(ctx, r.pool, id)
}

func (r *projectsRepo) List(ctx context.Context) ([]models.Project, error) {
	return r.listWhere(ctx, "")
}

func (r *projectsRepo) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return r.listWhere(ctx,
		` WHERE p.id IN (SELECT project_id FROM project_members WHERE user_id=$1)`, userID)
}

func (r *projectsRepo) Update(ctx context.Context, p models.Project) (models.Project, error) {
	var out models.Project
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE projects
			    SET title=$2, description=$3, category_id=$4, status=$5,
			        start_date=$6, end_date=$7, updated_at=now()
			  WHERE id=$1`,
			p.ID, p.Title, p.Description, p.CategoryID, p.Status, p.StartDate, p.EndDate,
		)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		// task inserts wait on the row lock the UPDATE above holds
		stranded, err := assigneesOutside(ctx, tx, p.ID, p.MemberIDs)
		if err != nil {
			return err
		}
		if len(stranded) > 0 {
			return &repo.MembersInUseError{UserIDs: stranded}
		}
		if err := setMembers(ctx, tx, p.ID, p.MemberIDs); err != nil {
			return err
		}
		out, err = getProject(ctx, tx, p.ID)
		return err
	})
	return out, err
}

func (r *projectsRepo) UpdateProgress(ctx context.Context, id string, progress int) (models.Project, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET progress=$2, updated_at=now() WHERE id=$1`, id, progress)
	if err != nil {
		return models.Project{}, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.Project{}, repo.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *projectsRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects WHERE category_id=$1`, categoryID).Scan(&n)
	return n, err
}

func (r *projectsRepo) DeleteCascade(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE project_id=$1`, id)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
