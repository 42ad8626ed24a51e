package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashVerify(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}
	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hashed)
	assert.True(t, h.Verify("s3cret", hashed))
	assert.False(t, h.Verify("wrong", hashed))

	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestAuto_VerifiesBothFormats(t *testing.T) {
	cheap := Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}
	argon, err := Argon2id{Params: cheap}.Hash("pw-123")
	require.NoError(t, err)
	bc, err := Bcrypt{Cost: bcrypt.MinCost}.Hash("pw-123")
	require.NoError(t, err)

	h := NewHasher("bcrypt", bcrypt.MinCost)
	assert.True(t, h.Verify("pw-123", argon))
	assert.True(t, h.Verify("pw-123", bc))
	assert.False(t, h.Verify("pw-124", argon))
	assert.False(t, h.Verify("pw-123", "garbage"))
}

func TestPolicy_Validate(t *testing.T) {
	ok, reasons := DefaultPolicy.Validate("abc")
	assert.False(t, ok)
	assert.Equal(t, []string{"too_short"}, reasons)

	ok, _ = Policy{MinLength: 4, RequireDigit: true}.Validate("abcd1")
	assert.True(t, ok)
}
