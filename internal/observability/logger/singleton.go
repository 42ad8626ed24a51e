package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init construye el logger de proceso. Solo la primera llamada tiene efecto;
// main la hace apenas tiene la config cargada.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
		zap.ReplaceGlobals(instance)
	})
}

// L retorna el logger de proceso. Sin Init previo usa dev/info (tests).
func L() *zap.Logger {
	Init(Config{Env: "dev", Level: "info"})
	return instance
}

// Sync vacía los buffers pendientes.
func Sync() error {
	if instance == nil {
		return nil
	}
	return instance.Sync()
}
