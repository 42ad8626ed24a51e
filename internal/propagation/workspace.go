package propagation

import (
	"context"
	"sync"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// TopicActiveGroup es el topic donde se publica el snapshot del grupo activo.
const TopicActiveGroup = "active-group"

// ActiveGroup es el snapshot que circula entre vistas. Group nil significa
// que no hay grupo activo.
type ActiveGroup struct {
	Group *repository.Group `json:"group"`
}

// LoadActiveGroup arma el Loader del snapshot a partir del repositorio de grupos.
func LoadActiveGroup(groups repository.GroupRepository) Loader[ActiveGroup] {
	return func(ctx context.Context) (ActiveGroup, error) {
		g, err := groups.GetActive(ctx)
		if err != nil {
			return ActiveGroup{}, err
		}
		return ActiveGroup{Group: g}, nil
	}
}

// Workspace deriva el estado bloqueado/desbloqueado del portal cliente a partir
// de la vista del grupo activo. Las transiciones son automáticas en ambos
// sentidos: no hace falta ninguna acción del usuario para salir del bloqueo.
type Workspace struct {
	view *CachedView[ActiveGroup]

	mu      sync.Mutex
	blocked bool
	known   bool
	subs    []func(blocked bool)
}

// NewWorkspace se engancha a la vista dada.
func NewWorkspace(view *CachedView[ActiveGroup]) *Workspace {
	w := &Workspace{view: view}
	view.OnChange(w.observe)
	if snap, ok := view.Get(); ok {
		w.observe(snap)
	}
	return w
}

// View expone la vista subyacente.
func (w *Workspace) View() *CachedView[ActiveGroup] { return w.view }

func (w *Workspace) observe(snap ActiveGroup) {
	blocked := snap.Group == nil
	w.mu.Lock()
	changed := !w.known || w.blocked != blocked
	w.blocked = blocked
	w.known = true
	subs := append([]func(bool){}, w.subs...)
	w.mu.Unlock()
	if changed {
		for _, fn := range subs {
			fn(blocked)
		}
	}
}

// Active retorna el grupo activo. Si la vista todavía no cargó, hace un
// refresh sincrónico.
func (w *Workspace) Active(ctx context.Context) (*repository.Group, error) {
	snap, ok := w.view.Get()
	if !ok {
		if err := w.view.Refresh(ctx); err != nil {
			return nil, err
		}
		snap, _ = w.view.Get()
	}
	return snap.Group, nil
}

// Blocked reporta si no hay grupo activo.
func (w *Workspace) Blocked(ctx context.Context) (bool, error) {
	g, err := w.Active(ctx)
	if err != nil {
		return false, err
	}
	return g == nil, nil
}

// OnTransition registra un callback para cada cambio bloqueado <-> desbloqueado.
func (w *Workspace) OnTransition(fn func(blocked bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}
