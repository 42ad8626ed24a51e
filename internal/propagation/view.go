// Package propagation mantiene vistas cacheadas del estado compartido
// (hoy: el grupo activo) convergiendo con el store por dos caminos:
//
//   - Poll: Refresh relee el store cada intervalo (<= 5s).
//   - Broadcast: OnExternalChange recibe el valor nuevo publicado por otra
//     instancia y lo aplica sin esperar al próximo tick.
//
// Ambos caminos terminan en el mismo apply, que solo reemplaza el valor si su
// forma serializada cambió. El poll es el respaldo de correctitud; el broadcast
// solo baja la latencia. Gana la última escritura observada.
package propagation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/tasktrack/internal/metrics"
)

// Loader lee el valor autoritativo desde el store.
type Loader[T any] func(ctx context.Context) (T, error)

// Fuentes de una actualización.
const (
	SourcePoll      = "poll"
	SourceBroadcast = "broadcast"
)

// CachedView es una copia local de un valor compartido.
type CachedView[T any] struct {
	name string
	load Loader[T]
	sf   singleflight.Group

	mu        sync.RWMutex
	value     T
	raw       []byte
	ready     bool
	nextID    int
	listeners map[int]func(T)
}

// NewCachedView crea una vista vacía. Get reporta ok=false hasta el primer apply.
func NewCachedView[T any](name string, load Loader[T]) *CachedView[T] {
	return &CachedView[T]{name: name, load: load, listeners: make(map[int]func(T))}
}

// Name identifica la vista en métricas y logs.
func (v *CachedView[T]) Name() string { return v.name }

// Get retorna el valor cacheado.
func (v *CachedView[T]) Get() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.ready
}

// Raw retorna la forma serializada del valor cacheado (nil si no hay).
func (v *CachedView[T]) Raw() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.raw == nil {
		return nil
	}
	return append([]byte(nil), v.raw...)
}

// Refresh relee el store y aplica el resultado. Refreshes concurrentes se
// colapsan en una sola lectura.
func (v *CachedView[T]) Refresh(ctx context.Context) error {
	_, err, _ := v.sf.Do("refresh", func() (any, error) {
		val, err := v.load(ctx)
		if err != nil {
			return nil, fmt.Errorf("propagation: load %s: %w", v.name, err)
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("propagation: encode %s: %w", v.name, err)
		}
		_, err = v.apply(raw, SourcePoll)
		return nil, err
	})
	return err
}

// OnExternalChange aplica un valor publicado por otro proceso.
func (v *CachedView[T]) OnExternalChange(raw []byte) error {
	_, err := v.apply(raw, SourceBroadcast)
	return err
}

// apply es el único camino de escritura. Retorna true si el valor cambió.
func (v *CachedView[T]) apply(raw []byte, source string) (bool, error) {
	var next T
	if err := json.Unmarshal(raw, &next); err != nil {
		return false, fmt.Errorf("propagation: decode %s: %w", v.name, err)
	}
	// normalizado, para que poll y broadcast comparen igual
	canon, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("propagation: encode %s: %w", v.name, err)
	}

	v.mu.Lock()
	if v.ready && bytes.Equal(v.raw, canon) {
		v.mu.Unlock()
		return false, nil
	}
	v.value = next
	v.raw = canon
	v.ready = true
	fns := make([]func(T), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	metrics.PropagationAppliesTotal.WithLabelValues(v.name, source).Inc()
	for _, fn := range fns {
		fn(next)
	}
	return true, nil
}

// OnChange registra un listener que corre después de cada cambio efectivo.
// Retorna la función para desregistrarlo.
func (v *CachedView[T]) OnChange(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}
