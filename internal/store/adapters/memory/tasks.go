package memory

import (
	"context"
	"sort"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

type taskRepo struct{ db *DB }

func cloneTask(t *repository.Task) repository.Task {
	c := *t
	c.Description = strPtr(t.Description)
	c.AssigneeID = strPtr(t.AssigneeID)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return c
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*repository.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneTask(t)
	return &c, nil
}

func (r *taskRepo) List(_ context.Context, f repository.TaskFilter) ([]repository.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]repository.Task, 0)
	for _, t := range r.db.tasks {
		if f.GroupID != nil && t.GroupID != *f.GroupID {
			continue
		}
		if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
			continue
		}
		if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *taskRepo) Create(_ context.Context, in repository.CreateTaskInput) (*repository.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.groups[in.GroupID]; !ok {
		return nil, repository.ErrNotFound
	}
	at := in.At
	if at.IsZero() {
		at = r.db.stamp()
	}
	t := &repository.Task{
		ID:          r.db.ids(),
		Title:       in.Title,
		Description: strPtr(in.Description),
		AssigneeID:  strPtr(in.AssigneeID),
		GroupID:     in.GroupID,
		CreatedBy:   in.CreatedBy,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	t.TransitionTo(in.Status, at)
	r.db.tasks[t.ID] = t
	c := cloneTask(t)
	return &c, nil
}

func (r *taskRepo) Update(_ context.Context, id string, in repository.UpdateTaskInput) (*repository.TaskChange, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.At.IsZero() {
		in.At = r.db.stamp()
	}
	before := cloneTask(t)
	next := cloneTask(t)
	in.ApplyTo(&next)
	r.db.tasks[id] = &next
	return &repository.TaskChange{Before: before, After: cloneTask(&next)}, nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.tasks, id)
	return nil
}
