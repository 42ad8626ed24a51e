// Package client contiene los controllers del portal cliente.
package client

import (
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/client"
)

// Controllers agrupa los controllers del portal cliente.
type Controllers struct {
	Workspace *WorkspaceController
	Board     *BoardController
}

// NewControllers crea el agregador. ws es la vista del grupo activo que
// también usa el guard de workspace.
func NewControllers(s svc.Service, ws mw.ActiveGroupSource) *Controllers {
	return &Controllers{
		Workspace: NewWorkspaceController(ws),
		Board:     NewBoardController(s),
	}
}
