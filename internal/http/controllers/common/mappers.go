package common

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	dtoadmin "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	dtoauth "github.com/dropDatabas3/tasktrack/internal/http/dto/auth"
)

// ─── Mappers dominio → DTO ───

func ToPrincipalSummary(p repository.Principal) dtoauth.PrincipalSummary {
	rec := p.Record()
	return dtoauth.PrincipalSummary{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Login:       rec.Login,
		Role:        rec.Role,
		IsPrimary:   rec.IsPrimary,
		GroupID:     rec.GroupID,
		JobTitle:    rec.JobTitle,
	}
}

func ToPrincipalResponse(p repository.Principal) dtoadmin.PrincipalResponse {
	rec := p.Record()
	return dtoadmin.PrincipalResponse{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Login:       rec.Login,
		Role:        rec.Role,
		IsAdmin:     rec.IsAdmin,
		IsPrimary:   rec.IsPrimary,
		GroupID:     rec.GroupID,
		JobTitle:    rec.JobTitle,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func ToGroupResponse(g repository.Group) dtoadmin.GroupResponse {
	return dtoadmin.GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		LeaderID:    g.LeaderID,
		IsPublic:    g.IsPublic,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func ToTaskResponse(t repository.Task, now time.Time) dtoadmin.TaskResponse {
	return dtoadmin.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		GroupID:     t.GroupID,
		CreatedBy:   t.CreatedBy,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Overdue:     t.Overdue(now),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTaskResponses(tasks []repository.Task, now time.Time) []dtoadmin.TaskResponse {
	out := make([]dtoadmin.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t, now))
	}
	return out
}

// ToTaskUpdate traduce el body de un PATCH al input del repositorio.
func ToTaskUpdate(req dtoadmin.UpdateTaskRequest) repository.UpdateTaskInput {
	return repository.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description.Nullable(),
		AssigneeID:  req.AssigneeID.Nullable(),
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate.Nullable(),
	}
}
