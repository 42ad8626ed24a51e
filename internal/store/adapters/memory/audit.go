package memory

import (
	"context"
	"maps"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

type auditRepo struct{ db *DB }

func (r *auditRepo) Append(_ context.Context, e repository.AuditEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e.ID == "" {
		e.ID = r.db.ids()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.db.stamp()
	}
	e.Details = maps.Clone(e.Details)
	r.db.audit = append(r.db.audit, e)
	return nil
}

// Query recorre desde el final: el slice está en orden de inserción.
func (r *auditRepo) Query(_ context.Context, f repository.AuditFilter, limit int) ([]repository.AuditEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]repository.AuditEntry, 0)
	for i := len(r.db.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		e := r.db.audit[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && (e.EntityID == nil || *e.EntityID != f.EntityID) {
			continue
		}
		if f.ActorID != "" && (e.ActorID == nil || *e.ActorID != f.ActorID) {
			continue
		}
		if f.Since != nil && e.CreatedAt.Before(*f.Since) {
			continue
		}
		e.Details = maps.Clone(e.Details)
		out = append(out, e)
	}
	return out, nil
}
