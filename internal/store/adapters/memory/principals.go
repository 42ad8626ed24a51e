package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

type principalRepo struct{ db *DB }

func clonePrincipal(r *repository.PrincipalRecord) repository.Principal {
	c := *r
	c.Login = strPtr(r.Login)
	c.GroupID = strPtr(r.GroupID)
	c.JobTitle = strPtr(r.JobTitle)
	return repository.FromRecord(&c)
}

func sameLogin(a *string, b string) bool {
	return a != nil && strings.EqualFold(strings.TrimSpace(*a), strings.TrimSpace(b))
}

// loginTaken debe llamarse con el lock tomado.
func (r *principalRepo) loginTaken(login, exceptID string) bool {
	for id, p := range r.db.principals {
		if id != exceptID && sameLogin(p.Login, login) {
			return true
		}
	}
	return false
}

func (r *principalRepo) GetByID(_ context.Context, id string) (repository.Principal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.principals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePrincipal(p), nil
}

func (r *principalRepo) FindByLogin(_ context.Context, login string) (repository.Principal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.principals {
		if sameLogin(p.Login, login) {
			return clonePrincipal(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *principalRepo) List(_ context.Context, f repository.PrincipalFilter) ([]repository.Principal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]repository.Principal, 0, len(r.db.principals))
	for _, p := range r.db.principals {
		if f.IsAdmin != nil && p.IsAdmin != *f.IsAdmin {
			continue
		}
		if f.GroupID != nil && (p.GroupID == nil || *p.GroupID != *f.GroupID) {
			continue
		}
		out = append(out, clonePrincipal(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *principalRepo) Create(_ context.Context, in repository.CreatePrincipalInput) (repository.Principal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if in.Login != nil && r.loginTaken(*in.Login, "") {
		return nil, fmt.Errorf("%w: login already exists", repository.ErrConflict)
	}

	hasAdmin := false
	for _, p := range r.db.principals {
		if p.IsAdmin {
			hasAdmin = true
			break
		}
	}

	now := r.db.stamp()
	rec := &repository.PrincipalRecord{
		ID:             r.db.ids(),
		DisplayName:    in.DisplayName,
		Login:          strPtr(in.Login),
		CredentialHash: in.CredentialHash,
		Role:           in.Role,
		IsAdmin:        in.IsAdmin,
		IsPrimary:      in.IsAdmin && !hasAdmin,
		GroupID:        strPtr(in.GroupID),
		JobTitle:       strPtr(in.JobTitle),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.db.principals[rec.ID] = rec
	return clonePrincipal(rec), nil
}

func (r *principalRepo) Update(_ context.Context, id string, in repository.UpdatePrincipalInput) (repository.Principal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.principals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Login.Set && in.Login.Value != nil && r.loginTaken(*in.Login.Value, id) {
		return nil, fmt.Errorf("%w: login already exists", repository.ErrConflict)
	}

	next := *p
	if in.DisplayName != nil {
		next.DisplayName = *in.DisplayName
	}
	in.Login.Apply(&next.Login)
	if in.CredentialHash != nil {
		next.CredentialHash = *in.CredentialHash
	}
	if in.Role != nil {
		next.Role = *in.Role
	}
	in.GroupID.Apply(&next.GroupID)
	in.JobTitle.Apply(&next.JobTitle)
	next.UpdatedAt = r.db.stamp()

	r.db.principals[id] = &next
	return clonePrincipal(&next), nil
}

func (r *principalRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.principals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.IsPrimary {
		return fmt.Errorf("%w: primary admin cannot be deleted", repository.ErrConflict)
	}
	delete(r.db.principals, id)

	// referencias colgantes, igual que ON DELETE SET NULL
	for _, g := range r.db.groups {
		if g.LeaderID != nil && *g.LeaderID == id {
			g.LeaderID = nil
		}
	}
	for _, t := range r.db.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
		}
	}
	return nil
}

func (r *principalRepo) SetPrimary(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	target, ok := r.db.principals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !target.IsAdmin {
		return fmt.Errorf("%w: only admin principals can be primary", repository.ErrInvalidInput)
	}
	now := r.db.stamp()
	for _, p := range r.db.principals {
		want := p.ID == id
		if p.IsPrimary != want {
			p.IsPrimary = want
			p.UpdatedAt = now
		}
	}
	return nil
}

func (r *principalRepo) ClearGroup(_ context.Context, groupID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	now := r.db.stamp()
	for _, p := range r.db.principals {
		if p.GroupID != nil && *p.GroupID == groupID {
			p.GroupID = nil
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *principalRepo) CountAdmins(_ context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, p := range r.db.principals {
		if p.IsAdmin {
			n++
		}
	}
	return n, nil
}
