package propagation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

const (
	DefaultPollInterval = 4 * time.Second
	MaxPollInterval     = 5 * time.Second
)

// View es lo que el Propagator necesita de una CachedView.
type View interface {
	Name() string
	Refresh(ctx context.Context) error
	OnExternalChange(raw []byte) error
}

// Propagator corre el poll y las suscripciones al bus de todas las vistas
// registradas. Todo se detiene cuando el ctx de Run se cancela.
type Propagator struct {
	bus      Bus
	interval time.Duration

	mu    sync.Mutex
	views map[string]View // topic -> view
}

// New crea un Propagator. interval <= 0 usa el default; valores por encima
// de MaxPollInterval se recortan.
func New(bus Bus, interval time.Duration) *Propagator {
	if bus == nil {
		bus = NewMemoryBus()
	}
	return &Propagator{bus: bus, interval: ClampInterval(interval), views: make(map[string]View)}
}

// ClampInterval normaliza un intervalo de poll.
func ClampInterval(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultPollInterval
	case d > MaxPollInterval:
		return MaxPollInterval
	}
	return d
}

// Interval retorna el intervalo de poll efectivo.
func (p *Propagator) Interval() time.Duration { return p.interval }

// Register asocia una vista a un topic. Llamar antes de Run.
func (p *Propagator) Register(topic string, v View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views[topic] = v
}

// Publish serializa value y lo publica en topic.
func (p *Propagator) Publish(ctx context.Context, topic string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("propagation: encode %s: %w", topic, err)
	}
	return p.bus.Publish(ctx, topic, raw)
}

// Run hace un primer refresh, se suscribe al bus y pollea hasta que ctx se cancele.
func (p *Propagator) Run(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Component("propagation"), logger.Op("Run"))

	p.mu.Lock()
	views := make(map[string]View, len(p.views))
	for k, v := range p.views {
		views[k] = v
	}
	p.mu.Unlock()

	var wg sync.WaitGroup
	for topic, v := range views {
		ch, err := p.bus.Subscribe(ctx, topic)
		if err != nil {
			// sin broadcast seguimos convergiendo por poll
			log.Warn("bus subscribe failed", logger.String("topic", topic), logger.Err(err))
			continue
		}
		wg.Add(1)
		go func(v View, ch <-chan []byte) {
			defer wg.Done()
			for raw := range ch {
				if err := v.OnExternalChange(raw); err != nil {
					log.Warn("broadcast apply failed", logger.String("view", v.Name()), logger.Err(err))
				}
			}
		}(v, ch)
	}

	p.refreshAll(ctx, views)

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-t.C:
			p.refreshAll(ctx, views)
		}
	}
}

func (p *Propagator) refreshAll(ctx context.Context, views map[string]View) {
	for _, v := range views {
		if err := v.Refresh(ctx); err != nil && ctx.Err() == nil {
			logger.From(ctx).Warn("poll refresh failed",
				logger.Component("propagation"),
				logger.String("view", v.Name()),
				logger.Err(err),
			)
		}
	}
}
