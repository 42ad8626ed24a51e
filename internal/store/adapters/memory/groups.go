package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

type groupRepo struct{ db *DB }

func cloneGroup(g *repository.Group) repository.Group {
	c := *g
	c.Description = strPtr(g.Description)
	c.LeaderID = strPtr(g.LeaderID)
	return c
}

func (r *groupRepo) nameTaken(name, exceptID string) bool {
	for id, g := range r.db.groups {
		if id != exceptID && strings.EqualFold(strings.TrimSpace(g.Name), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func (r *groupRepo) GetByID(_ context.Context, id string) (*repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneGroup(g)
	return &c, nil
}

func (r *groupRepo) List(_ context.Context) ([]repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.listLocked(func(*repository.Group) bool { return true }), nil
}

func (r *groupRepo) ListPublic(_ context.Context) ([]repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.listLocked(func(g *repository.Group) bool { return g.IsPublic }), nil
}

func (r *groupRepo) listLocked(keep func(*repository.Group) bool) []repository.Group {
	out := make([]repository.Group, 0, len(r.db.groups))
	for _, g := range r.db.groups {
		if keep(g) {
			out = append(out, cloneGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *groupRepo) GetActive(_ context.Context) (*repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.groups {
		if g.IsPublic {
			c := cloneGroup(g)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *groupRepo) Create(_ context.Context, in repository.CreateGroupInput) (*repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.nameTaken(in.Name, "") {
		return nil, fmt.Errorf("%w: group name already exists", repository.ErrConflict)
	}
	now := r.db.stamp()
	g := &repository.Group{
		ID:          r.db.ids(),
		Name:        strings.TrimSpace(in.Name),
		Description: strPtr(in.Description),
		LeaderID:    strPtr(in.LeaderID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.groups[g.ID] = g
	c := cloneGroup(g)
	return &c, nil
}

func (r *groupRepo) Update(_ context.Context, id string, in repository.UpdateGroupInput) (*repository.Group, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	g, ok := r.db.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil && r.nameTaken(*in.Name, id) {
		return nil, fmt.Errorf("%w: group name already exists", repository.ErrConflict)
	}
	next := cloneGroup(g)
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	in.Description.Apply(&next.Description)
	in.LeaderID.Apply(&next.LeaderID)
	next.UpdatedAt = r.db.stamp()
	r.db.groups[id] = &next
	c := cloneGroup(&next)
	return &c, nil
}

func (r *groupRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.groups[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.groups, id)
	for tid, t := range r.db.tasks {
		if t.GroupID == id {
			delete(r.db.tasks, tid)
		}
	}
	return nil
}

func (r *groupRepo) SetActive(_ context.Context, id string) ([]repository.VisibilityChange, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.groups[id]; !ok {
		return nil, repository.ErrNotFound
	}
	now := r.db.stamp()
	var changes []repository.VisibilityChange
	for gid, g := range r.db.groups {
		want := gid == id
		if g.IsPublic == want {
			continue
		}
		prev := g.IsPublic
		g.IsPublic = want
		g.UpdatedAt = now
		changes = append(changes, repository.VisibilityChange{Group: cloneGroup(g), Previous: prev, Current: want})
	}
	sortChanges(changes)
	return changes, nil
}

func (r *groupRepo) Deactivate(_ context.Context, id string) ([]repository.VisibilityChange, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	g, ok := r.db.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !g.IsPublic {
		return nil, nil
	}
	g.IsPublic = false
	g.UpdatedAt = r.db.stamp()
	return []repository.VisibilityChange{{Group: cloneGroup(g), Previous: true, Current: false}}, nil
}

// sortChanges deja primero las desactivaciones y después la activación.
func sortChanges(ch []repository.VisibilityChange) {
	sort.SliceStable(ch, func(i, j int) bool { return !ch[i].Current && ch[j].Current })
}
