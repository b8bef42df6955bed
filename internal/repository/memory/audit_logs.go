package memory

import (
	"context"

	"github.com/baharkarakas/unitrack/internal/models"
)

type auditLogsRepo struct{ s *Store }

func (r *auditLogsRepo) Create(_ context.Context, l models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = newID()
	}
	l.CreatedAt = r.s.stamp()
	r.s.auditLogs = append(r.s.auditLogs, l)
	return nil
}
