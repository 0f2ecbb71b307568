package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	a, err := New(make([]byte, 32))
	require.NoError(t, err)

	sealed, err := a.EncryptToString("igms-token-123")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "igms-token-123")

	got, err := a.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "igms-token-123", got)

	// Fresh nonce per seal.
	sealed2, err := a.EncryptToString("igms-token-123")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, sealed2)
}

func TestDecryptString_Rejects(t *testing.T) {
	a, err := New(make([]byte, 32))
	require.NoError(t, err)

	_, err = a.DecryptString("not-base64!!!")
	assert.Error(t, err)

	_, err = a.DecryptString("c2hvcnQ")
	assert.Error(t, err)

	// Tampered ciphertext fails authentication.
	sealed, err := a.EncryptToString("secret")
	require.NoError(t, err)
	raw := []byte(sealed)
	if raw[20] == 'A' {
		raw[20] = 'B'
	} else {
		raw[20] = 'A'
	}
	_, err = a.DecryptString(string(raw))
	assert.Error(t, err)
}

func TestNew_BadKeySize(t *testing.T) {
	_, err := New(make([]byte, 15))
	assert.Error(t, err)
}
