// Package notify entrega notificaciones efímeras (toasts) a los portales.
//
// Cada notificación tiene un ID; un mismo ID se entrega a lo sumo una vez por
// suscriptor aunque se publique varias veces (por ejemplo, desde el camino de
// poll y el de broadcast a la vez).
package notify

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification es un mensaje para mostrar al usuario.
type Notification struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	// Portal vacío = ambos portales.
	Portal string `json:"portal,omitempty"`
}

const defaultSeen = 1024

type subscriber struct {
	portal string
	ch     chan Notification
	seen   *lru.Cache[string, struct{}]
}

// Hub hace fan-out de notificaciones a suscriptores.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

// Publish entrega n a cada suscriptor del portal que no lo haya visto todavía.
// Un suscriptor con el buffer lleno pierde el mensaje.
func (h *Hub) Publish(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if n.Portal != "" && s.portal != "" && n.Portal != s.portal {
			continue
		}
		if n.ID != "" {
			if ok, _ := s.seen.ContainsOrAdd(n.ID, struct{}{}); ok {
				continue
			}
		}
		select {
		case s.ch <- n:
		default:
		}
	}
}

// Subscribe registra un suscriptor hasta que ctx se cancela.
func (h *Hub) Subscribe(ctx context.Context, portal string) <-chan Notification {
	seen, _ := lru.New[string, struct{}](defaultSeen)
	s := &subscriber{portal: portal, ch: make(chan Notification, 32), seen: seen}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = s
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(s.ch)
		h.mu.Unlock()
	}()
	return s.ch
}

// Len retorna la cantidad de suscriptores activos.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
