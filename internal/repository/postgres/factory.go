package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/unitrack/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Users:      &usersRepo{pool},
		Categories: &categoriesRepo{pool},
		Projects:   &projectsRepo{pool},
		Tasks:      &tasksRepo{pool},
		Messages:   &messagesRepo{pool},
		Stats:      &statsRepo{pool},
		AuditLogs:  &auditLogsRepo{pool},
	}
}
