package common

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

// TaskStats resume un conjunto de tareas para los dashboards.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats cuenta por estado y vencidas a now.
func ComputeStats(tasks []repository.Task, now time.Time) TaskStats {
	var s TaskStats
	for i := range tasks {
		t := &tasks[i]
		s.Total++
		switch t.Status {
		case types.StatusCompleted:
			s.Completed++
		case types.StatusInProgress:
			s.InProgress++
		case types.StatusPending:
			s.Pending++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		// porcentaje con un decimal
		s.CompletionRate = float64(s.Completed*1000/s.Total) / 10
	}
	return s
}
