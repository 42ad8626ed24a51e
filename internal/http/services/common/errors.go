// Package common reúne piezas compartidas por los services de ambos portales.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// ErrNoFieldsToUpdate se devuelve ante un update parcial vacío.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// Invalid arma un error de validación que matchea repository.ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repository.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Conflict arma un error de conflicto que matchea repository.ErrConflict.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repository.ErrConflict, fmt.Sprintf(format, args...))
}

// WeakPasswordError lista las reglas que no se cumplieron.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "password too weak: " + strings.Join(e.Reasons, ", ")
}

// Reason quita el prefijo del sentinel para mostrar solo el detalle legible.
func Reason(err error) string {
	msg := err.Error()
	for _, s := range []error{repository.ErrConflict, repository.ErrInvalidInput, repository.ErrNotFound} {
		if p := s.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}
