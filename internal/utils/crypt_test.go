package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptorRoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	blob, err := enc.Encrypt([]byte(`{"user_id":"abc"}`))
	require.NoError(t, err)

	plain, err := enc.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, `{"user_id":"abc"}`, string(plain))
}

func TestEncryptorNonceUniqueness(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptFailuresCollapse(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	require.NoError(t, err)

	blob, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)

	for _, input := range []string{
		"not base64 !!!",
		"dG9vc2hvcnQ",
		blob[:len(blob)-2],
		blob + "xx",
	} {
		_, err := enc.Decrypt(input)
		assert.ErrorIs(t, err, ErrCannotDecrypt, input)
	}

	other, err := NewEncryptor([]byte("another-32-byte-key-another-32-b"))
	require.NoError(t, err)
	_, err = other.Decrypt(blob)
	assert.ErrorIs(t, err, ErrCannotDecrypt)
}

func TestNewEncryptorKeySize(t *testing.T) {
	_, err := NewEncryptor([]byte("short"))
	assert.Error(t, err)
}
