package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Notification) []Notification {
	var out []Notification
	for {
		select {
		case n := <-ch:
			out = append(out, n)
		case <-time.After(20 * time.Millisecond):
			return out
		}
	}
}

func TestHub_AtMostOncePerID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	ch := h.Subscribe(ctx, "client")

	h.Publish(Notification{ID: "n1", Message: "Grupo activo: Alpha"})
	h.Publish(Notification{ID: "n1", Message: "Grupo activo: Alpha"})
	h.Publish(Notification{ID: "n2", Message: "otro"})

	got := drain(ch)
	require.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, "n2", got[1].ID)
}

func TestHub_FiltersByPortal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	admin := h.Subscribe(ctx, "admin")
	client := h.Subscribe(ctx, "client")

	h.Publish(Notification{ID: "a", Portal: "admin"})
	h.Publish(Notification{ID: "b"})

	assert.Len(t, drain(admin), 2)
	got := drain(client)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestHub_UnsubscribeOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	ch := h.Subscribe(ctx, "")
	assert.Equal(t, 1, h.Len())
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
	assert.Equal(t, 0, h.Len())
}
