package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// sealInfo binds derived keys to this use so the same key material can't be
// replayed against another consumer.
const sealInfo = "storefront/session-seal/v1"

var (
	ErrEmptyKey         = errors.New("cryptox: empty seal key")
	ErrCiphertextShort  = errors.New("cryptox: ciphertext too short")
	ErrDecryptionFailed = errors.New("cryptox: decryption failed")
)

// Sealer encrypts small values (session tokens, cached profiles) before they
// are written to local storage.
type Sealer struct {
	key []byte
}

// NewSealer derives a 256-bit XChaCha20-Poly1305 key from keyMaterial with
// HKDF-SHA256. keyMaterial may be any length, a passphrase works.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, ErrEmptyKey
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, keyMaterial, nil, []byte(sealInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive seal key: %w", err)
	}

	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext. The output format is [24-byte nonce][ciphertext+tag].
// additionalData is authenticated but not encrypted, callers pass the storage
// key so a sealed value can't be moved to another slot.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open decrypts data produced by Seal with the same additionalData.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aead: %w", err)
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrCiphertextShort
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
