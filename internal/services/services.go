// Package services holds the domain rules: validation, ownership checks and
// the mapping of repository failures onto apperr codes.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
	"github.com/baharkarakas/unitrack/internal/worker"
)

// notFound turns a repository miss into a NOT_FOUND error naming what.
func notFound(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return err
}

// conflict turns a unique violation into a validation failure with msg.
func conflict(err error, msg string) error {
	if errors.Is(err, repo.ErrConflict) {
		return apperr.Validation(msg)
	}
	return err
}

// Auditor writes audit entries off the request path.
type Auditor struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditor(logs repo.AuditLogs, wp *worker.Pool) *Auditor {
	return &Auditor{logs: logs, wp: wp}
}

func (a *Auditor) Record(actorID, entityType, entityID, action string, details map[string]any) {
	if a == nil {
		return
	}
	entry := models.AuditLog{
		EntityType: entityType,
		EntityID:   &entityID,
		ActorID:    actorID,
		Action:     action,
		Details:    details,
	}
	write := func(ctx context.Context) {
		if err := a.logs.Create(ctx, entry); err != nil {
			slog.Error("audit log write failed", "entity", entityType, "action", action, "err", err)
		}
	}
	if a.wp == nil {
		write(context.Background())
		return
	}
	if err := a.wp.Submit(write); err != nil {
		slog.Warn("audit log dropped", "entity", entityType, "action", action, "err", err)
	}
}
