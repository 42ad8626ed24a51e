// Package password hashea y verifica credenciales. El algoritmo es
// intercambiable detrás de Hasher; el default es bcrypt.
package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword se retorna al hashear un string vacío.
var ErrEmptyPassword = errors.New("empty password")

// Hasher es una función de una vía con verificación.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// Bcrypt implementa Hasher con golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b Bcrypt) Verify(plain, hashed string) bool {
	if plain == "" || hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Argon2id implementa Hasher con el formato PHC de argon2id.go.
type Argon2id struct {
	Params Params
}

func (a Argon2id) Hash(plain string) (string, error) {
	p := a.Params
	if p == (Params{}) {
		p = Default
	}
	return Hash(p, plain)
}

func (a Argon2id) Verify(plain, hashed string) bool { return Verify(plain, hashed) }

// Auto verifica con el algoritmo que indique el prefijo del hash y
// hashea siempre con Primary. Permite migrar de algoritmo sin resetear credenciales.
type Auto struct {
	Primary Hasher
}

func (a Auto) Hash(plain string) (string, error) { return a.Primary.Hash(plain) }

func (a Auto) Verify(plain, hashed string) bool {
	if strings.HasPrefix(hashed, "$argon2id$") {
		return Argon2id{}.Verify(plain, hashed)
	}
	return Bcrypt{}.Verify(plain, hashed)
}

// NewHasher resuelve el hasher por nombre ("bcrypt" | "argon2id").
func NewHasher(algo string, bcryptCost int) Hasher {
	switch strings.ToLower(strings.TrimSpace(algo)) {
	case "argon2id":
		return Auto{Primary: Argon2id{}}
	default:
		return Auto{Primary: Bcrypt{Cost: bcryptCost}}
	}
}
