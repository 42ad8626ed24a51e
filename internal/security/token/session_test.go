package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func issuerAt(t *testing.T, at time.Time) *Issuer {
	t.Helper()
	i, err := NewIssuer(testSecret, WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	return i
}

func TestIssuer_ExpiryIsAbsolute(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	old, err := issuerAt(t, now.Add(-25*time.Hour)).Mint(types.PortalAdmin, "p1")
	require.NoError(t, err)
	recent, err := issuerAt(t, now.Add(-1*time.Hour)).Mint(types.PortalAdmin, "p1")
	require.NoError(t, err)

	v := issuerAt(t, now)
	for _, portal := range []types.Portal{types.PortalAdmin, types.PortalClient} {
		_, err = v.Parse(old.Token, portal)
		assert.Error(t, err)
	}
	_, err = v.Parse(old.Token, types.PortalAdmin)
	assert.ErrorIs(t, err, ErrExpired)

	s, err := v.Parse(recent.Token, types.PortalAdmin)
	require.NoError(t, err)
	assert.Equal(t, "p1", s.PrincipalID)
	assert.Equal(t, types.PortalAdmin, s.Portal)
}

func TestIssuer_RejectsOtherPortal(t *testing.T) {
	i := issuerAt(t, time.Now())
	s, err := i.Mint(types.PortalClient, "c1")
	require.NoError(t, err)

	_, err = i.Parse(s.Token, types.PortalAdmin)
	assert.ErrorIs(t, err, ErrWrongPortal)
}

func TestIssuer_RejectsTamperedAndForeignTokens(t *testing.T) {
	i := issuerAt(t, time.Now())
	s, err := i.Mint(types.PortalClient, "c1")
	require.NoError(t, err)

	parts := strings.Split(s.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	_, err = i.Parse(tampered, types.PortalClient)
	assert.ErrorIs(t, err, ErrMalformed)

	other, err := NewIssuer([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	_, err = other.Parse(s.Token, types.PortalClient)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = i.Parse("client_c1_123_abc", types.PortalClient)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIssuer_NonceMakesTokensUnique(t *testing.T) {
	i := issuerAt(t, time.Now())
	a, err := i.Mint(types.PortalAdmin, "p1")
	require.NoError(t, err)
	b, err := i.Mint(types.PortalAdmin, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.Nonce, b.Nonce)
}

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := NewIssuer([]byte("short"))
	assert.Error(t, err)
}
