package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func TestSealOpenRoundtrip(t *testing.T) {
	a, err := New(testKey())
	require.NoError(t, err)

	sealed, err := a.SealToString("hunter2")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "hunter2")

	got, err := a.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestSealIsNonDeterministic(t *testing.T) {
	a, err := New(testKey())
	require.NoError(t, err)

	s1, err := a.SealToString("same value")
	require.NoError(t, err)
	s2, err := a.SealToString("same value")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2, "nonce must differ per seal")
}

func TestOpenRejectsWrongKey(t *testing.T) {
	a, err := New(testKey())
	require.NoError(t, err)
	b, err := New(make([]byte, KeySize))
	require.NoError(t, err)

	sealed, err := a.SealToString("hunter2")
	require.NoError(t, err)
	_, err = b.OpenString(sealed)
	assert.Error(t, err)
}

func TestOpenRejectsGarbage(t *testing.T) {
	a, err := New(testKey())
	require.NoError(t, err)

	_, err = a.OpenString("!!not base64!!")
	assert.Error(t, err)
	_, err = a.OpenString("c2hvcnQ") // valid base64, shorter than a nonce
	assert.Error(t, err)
}

func TestNewRejectsBadKeySize(t *testing.T) {
	_, err := New(make([]byte, 16))
	assert.Error(t, err)
	_, err = New(nil)
	assert.Error(t, err)
}

func TestNewFromPassphrase(t *testing.T) {
	salt := []byte("0123456789abcdef")

	a, err := NewFromPassphrase("open sesame", salt)
	require.NoError(t, err)
	b, err := NewFromPassphrase("open sesame", salt)
	require.NoError(t, err)

	// Same passphrase and salt derive the same key.
	sealed, err := a.SealToString("hunter2")
	require.NoError(t, err)
	got, err := b.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	// A different passphrase cannot read it.
	c, err := NewFromPassphrase("wrong", salt)
	require.NoError(t, err)
	_, err = c.OpenString(sealed)
	assert.Error(t, err)
}

func TestNewFromPassphraseValidation(t *testing.T) {
	_, err := NewFromPassphrase("", []byte("0123456789abcdef"))
	assert.Error(t, err)
	_, err = NewFromPassphrase("pass", []byte("short"))
	assert.Error(t, err)
}
