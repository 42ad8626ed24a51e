package repository

// Nullable representa un campo opcional de un update parcial sobre una
// columna que admite null.
//
//	Nullable[string]{}              -> no tocar
//	Null[string]()                  -> setear a null
//	Some("x")                       -> setear a "x"
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some construye un Nullable con valor.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null construye un Nullable que pide setear null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Apply aplica el cambio sobre dst si fue enviado.
func (n Nullable[T]) Apply(dst **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	v := *n.Value
	*dst = &v
}
