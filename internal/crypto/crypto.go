// Package crypto seals account passwords for storage in the accounts file.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/scrypt"
)

const KeySize = 32 // AES-256-GCM

type AEAD struct{ aead cipher.AEAD }

func New(key []byte) (*AEAD, error) {
	if len(key) != KeySize {
		return nil, errors.Newf("key must be %d bytes (got %d)", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	a, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AEAD{aead: a}, nil
}

// NewFromPassphrase derives the sealing key from a passphrase with scrypt.
// The salt must be stable across invocations or sealed values become
// unreadable.
func NewFromPassphrase(passphrase string, salt []byte) (*AEAD, error) {
	if passphrase == "" {
		return nil, errors.New("empty passphrase")
	}
	if len(salt) < 16 {
		return nil, errors.Newf("salt too short (%d bytes, want >= 16)", len(salt))
	}
	key, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, KeySize)
	if err != nil {
		return nil, err
	}
	return New(key)
}

func (a *AEAD) SealToString(plaintext string) (string, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := a.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.RawStdEncoding.EncodeToString(append(nonce, ct...)), nil
}

func (a *AEAD) OpenString(sealedB64 string) (string, error) {
	buf, err := base64.RawStdEncoding.DecodeString(sealedB64)
	if err != nil {
		return "", err
	}
	ns := a.aead.NonceSize()
	if len(buf) < ns {
		return "", errors.New("ciphertext too short")
	}
	pt, err := a.aead.Open(nil, buf[:ns], buf[ns:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
