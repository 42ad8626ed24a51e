package admin

import (
	"context"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// AuditService expone la consulta del log de auditoría.
type AuditService interface {
	Query(ctx context.Context, filter repository.AuditFilter, limit int) ([]repository.AuditEntry, error)
}

type auditService struct {
	rec *audit.Recorder
}

func NewAuditService(rec *audit.Recorder) AuditService {
	return &auditService{rec: rec}
}

func (s *auditService) Query(ctx context.Context, f repository.AuditFilter, limit int) ([]repository.AuditEntry, error) {
	return s.rec.Query(ctx, f, limit)
}
