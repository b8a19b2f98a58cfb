// Package cryptox implements the field cipher used to keep entry titles,
// bodies and tags encrypted at rest, plus small crypto helpers.
//
// Fields are sealed with AES-256-GCM under a single process-wide key derived
// once from a configured password/salt pair via argon2id. Each sealed blob
// carries its own random nonce as a prefix, so the stored layout is
//
//	nonce (12 bytes) || ciphertext+tag
//
// and decryption of a tampered blob fails closed.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/nkarpov/entrypad/internal/common"
)

// DeriveKey derives a 32-byte AES key from the given password and salt using
// argon2id. Same inputs always produce the same key, so the derived key is
// stable across process restarts and existing ciphertexts stay readable.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Cipher performs authenticated encryption of entry fields. It is safe for
// concurrent use; the key is fixed at construction and never mutated.
type Cipher struct {
	aead cipher.AEAD
}

// New constructs a Cipher from a derived key. The key must be a valid AES
// key length (16, 24 or 32 bytes).
func New(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// EncryptString seals the plaintext with a fresh random nonce and returns
// the nonce-prefixed blob.
func (c *Cipher) EncryptString(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// DecryptString opens a nonce-prefixed blob produced by EncryptString.
//
// An empty or unset blob decrypts to an empty string without touching the
// AEAD, which would otherwise reject the short input. Any other blob that
// fails authentication (flipped byte, truncation, wrong key) yields
// common.ErrDecryptionFailed.
func (c *Cipher) DecryptString(blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", nil
	}

	if len(blob) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: blob shorter than nonce", common.ErrDecryptionFailed)
	}

	nonce, sealed := blob[:c.aead.NonceSize()], blob[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// RandHexString generates a random hexadecimal string from size random
// bytes; the resulting string is twice as long as size. It returns an error
// only if the random number generator fails.
func RandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing key material from memory after use. A nil
// slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
