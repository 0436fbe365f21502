package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrCannotDecrypt covers every decryption failure: bad encoding, wrong key,
// truncated or tampered ciphertext. Callers treat it as an invalid credential,
// never as a system error.
var ErrCannotDecrypt = errors.New("cannot decrypt payload")

var errInvalidKeySize = errors.New("encryption key must be 32 bytes")

// Encryptor is an AES-256-GCM symmetric cipher for self-describing tokens.
type Encryptor struct {
	aead cipher.AEAD
}

func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, errInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encryptor{aead: aead}, nil
}

// Encrypt returns base64url(nonce || ciphertext).
func (e *Encryptor) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (e *Encryptor) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrCannotDecrypt
	}
	nonceSize := e.aead.NonceSize()
	if len(raw) < nonceSize {
		return nil, ErrCannotDecrypt
	}
	plaintext, err := e.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, ErrCannotDecrypt
	}
	return plaintext, nil
}
