// internal/repository/postgres/users_repo.go
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
	"github.com/baharkarakas/unitrack/internal/repository"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

const userCols = `id, username, password_hash, role, coalesce(university_id, ''), created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.UniversityID, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func collectUsers(rows pgx.Rows, err error) ([]models.User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, password_hash, role, university_id)
		 VALUES($1, $2, $3, $4, nullif($5, ''))
		 RETURNING `+userCols,
		u.ID, u.Username, u.PasswordHash, u.Role, u.UniversityID,
	))
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE lower(username) = lower(btrim($1))`, username))
}

func (r *usersRepo) GetMany(ctx context.Context, ids []string) ([]models.User, error) {
	return collectUsers(r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ANY($1) ORDER BY lower(username)`, ids))
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	return collectUsers(r.pool.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY lower(username)`))
}

func (r *usersRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return collectUsers(r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE role=$1 ORDER BY lower(username)`, role))
}
