package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

const categoryCols = `id, name, created_at, updated_at`

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, mapErr(err)
}

func (r *categoriesRepo) Create(ctx context.Context, name string) (models.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx,
		`INSERT INTO categories(id, name) VALUES($1, $2) RETURNING `+categoryCols,
		uuid.NewString(), strings.TrimSpace(name),
	))
}

// Upsert relies on the lower(name) unique index as the conflict target.
func (r *categoriesRepo) Upsert(ctx context.Context, name string) (models.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx,
		`INSERT INTO categories(id, name) VALUES($1, $2)
		 ON CONFLICT ((lower(name))) DO UPDATE SET updated_at = now()
		 RETURNING `+categoryCols,
		uuid.NewString(), strings.TrimSpace(name),
	))
}

func (r *categoriesRepo) GetByID(ctx context.Context, id string) (models.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryCols+` FROM categories WHERE id=$1`, id))
}

func (r *categoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryCols+` FROM categories ORDER BY lower(name)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoriesRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
