package propagation

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Bus transporta valores publicados entre vistas (misma instancia o no).
// La entrega es best-effort: un mensaje perdido lo corrige el próximo poll.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe entrega payloads hasta que ctx se cancela; entonces cierra el canal.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}

// ─── Memory ───

// MemoryBus hace fan-out dentro del proceso.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[string]map[chan []byte]struct{}
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[chan []byte]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topic] {
		msg := append([]byte(nil), payload...)
		select {
		case ch <- msg:
		default:
			// suscriptor lento: lo recupera el poll
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if _, ok := b.subs[topic][ch]; ok {
			delete(b.subs[topic], ch)
			close(ch)
		}
		b.mu.Unlock()
	}()
	return ch, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, set := range b.subs {
		for ch := range set {
			close(ch)
		}
	}
	b.subs = make(map[string]map[chan []byte]struct{})
	return nil
}

// ─── Redis ───

// RedisBus usa pub/sub de Redis para propagar entre instancias.
type RedisBus struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBus(client redis.UniversalClient, prefix string) *RedisBus {
	if prefix == "" {
		prefix = "tasktrack:"
	}
	return &RedisBus{client: client, prefix: prefix}
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.client.Publish(ctx, b.prefix+topic, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	ps := b.client.Subscribe(ctx, b.prefix+topic)
	// confirma la suscripción antes de retornar
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
				}
			}
		}
	}()
	return out, nil
}

// Close no cierra el cliente: la conexión es compartida.
func (b *RedisBus) Close() error { return nil }
