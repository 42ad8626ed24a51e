// Package tokens emite y valida tokens de sesión autodescriptivos.
//
// El token es un JWT HS256 con la clase de portal, el principal, el instante
// de emisión y un nonce aleatorio. No se guarda nada del lado del servidor:
// la expiración es absoluta (24h desde iat) y no se renueva.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

var (
	ErrMalformed   = errors.New("token malformed")
	ErrWrongPortal = errors.New("token minted for another portal")
	ErrExpired     = errors.New("token expired")
)

// DefaultTTL es la vida absoluta de una sesión.
const DefaultTTL = 24 * time.Hour

// Claims del token de sesión.
type Claims struct {
	Portal types.Portal `json:"portal"`
	jwt.RegisteredClaims
}

// Session es la vista decodificada de un token válido.
type Session struct {
	Token       string       `json:"token"`
	Portal      types.Portal `json:"portal"`
	PrincipalID string       `json:"principal_id"`
	IssuedAt    time.Time    `json:"issued_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Nonce       string       `json:"-"`
}

// Issuer firma y valida tokens de sesión.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	iss    string
	now    func() time.Time
}

// Option configura el Issuer.
type Option func(*Issuer)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(i *Issuer) { i.now = now } }

// WithTTL cambia la vida de la sesión.
func WithTTL(ttl time.Duration) Option { return func(i *Issuer) { i.ttl = ttl } }

// WithIssuer setea el claim iss.
func WithIssuer(iss string) Option { return func(i *Issuer) { i.iss = iss } }

// NewIssuer crea un Issuer. El secreto debe tener al menos 32 bytes.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("tokens: signing secret must be at least 32 bytes, got %d", len(secret))
	}
	i := &Issuer{secret: secret, ttl: DefaultTTL, iss: "tasktrack", now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i, nil
}

// Mint emite un token para el principal en el portal dado.
func (i *Issuer) Mint(portal types.Portal, principalID string) (*Session, error) {
	if !portal.IsValid() || principalID == "" {
		return nil, ErrMalformed
	}
	nonce, err := GenerateOpaqueToken(16)
	if err != nil {
		return nil, fmt.Errorf("tokens: nonce: %w", err)
	}

	iat := i.now().UTC().Truncate(time.Second)
	exp := iat.Add(i.ttl)
	claims := Claims{
		Portal: portal,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.iss,
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        nonce,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("tokens: sign: %w", err)
	}
	return &Session{Token: signed, Portal: portal, PrincipalID: principalID, IssuedAt: iat, ExpiresAt: exp, Nonce: nonce}, nil
}

// Parse valida firma, clase de portal y edad del token.
func (i *Issuer) Parse(token string, expected types.Portal) (*Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuer(i.iss),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.IssuedAt == nil || claims.Subject == "" || !claims.Portal.IsValid() {
		return nil, ErrMalformed
	}
	if claims.Portal != expected {
		return nil, ErrWrongPortal
	}

	iat := claims.IssuedAt.Time
	// la edad se mide desde iat, independientemente del exp declarado
	if i.now().Sub(iat) > i.ttl {
		return nil, ErrExpired
	}
	return &Session{
		Token:       token,
		Portal:      claims.Portal,
		PrincipalID: claims.Subject,
		IssuedAt:    iat,
		ExpiresAt:   iat.Add(i.ttl),
		Nonce:       claims.ID,
	}, nil
}
