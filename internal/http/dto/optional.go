// Package dto contiene los tipos compartidos por los DTOs de cada portal.
package dto

import (
	"bytes"
	"encoding/json"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// Optional distingue en JSON un campo ausente de uno enviado como null.
//
//	{}              -> Set=false
//	{"x": null}     -> Set=true, Value=nil
//	{"x": "hola"}   -> Set=true, Value="hola"
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Nullable lo traduce al tipo de update parcial del repositorio.
func (o Optional[T]) Nullable() repository.Nullable[T] {
	return repository.Nullable[T]{Set: o.Set, Value: o.Value}
}
