package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_VerifiesOnlyTheSameSecret(t *testing.T) {
	h := HashSecret([]byte("admin123"))
	require.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, err := VerifySecret([]byte("admin123"), h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret([]byte("admin124"), h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecret_SaltedPerCall(t *testing.T) {
	a := HashSecret([]byte("same"))
	b := HashSecret([]byte("same"))
	assert.NotEqual(t, a, b)
}

func TestVerifySecret_Malformed(t *testing.T) {
	for _, h := range []string{"", "plaintext", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=x$salt$hash", "$argon2id$v=19$m=1,t=1,p=1$!!$AAAA"} {
		_, err := VerifySecret([]byte("x"), h)
		assert.ErrorIs(t, err, ErrMalformedHash, h)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	sealed, err := Seal([]byte("id-front.jpg bytes"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "id-front")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "id-front.jpg bytes", string(plain))
}

func TestOpen_Errors(t *testing.T) {
	key := make([]byte, 32)
	_, err := Open([]byte{1, 2}, key)
	require.Error(t, err)

	sealed, err := Seal([]byte("x"), key)
	require.NoError(t, err)
	other := make([]byte, 32)
	other[0] = 1
	_, err = Open(sealed, other)
	require.Error(t, err)

	_, err = Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
