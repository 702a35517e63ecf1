package clientstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrUnseal is returned for values that were not sealed with this key
var ErrUnseal = errors.New("clientstore: cannot unseal value")

// Sealer protects cookie values at rest in the browser
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// PlainSealer stores values as is (development only).
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext string) (string, error) { return plaintext, nil }
func (PlainSealer) Open(sealed string) (string, error)    { return sealed, nil }

// SecretBoxSealer seals values with NaCl secretbox
type SecretBoxSealer struct {
	key [keySize]byte
}

// NewSecretBoxSealer accepts a 32 byte key given either as 64 hex characters
// or as 32 raw bytes.
func NewSecretBoxSealer(key string) (*SecretBoxSealer, error) {
	var raw []byte
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == keySize {
		raw = decoded
	} else if len(key) == keySize {
		raw = []byte(key)
	} else {
		return nil, fmt.Errorf("clientstore: seal key must be %d bytes or %d hex characters", keySize, keySize*2)
	}

	s := &SecretBoxSealer{}
	copy(s.key[:], raw)
	return s, nil
}

// Seal returns base64url(nonce || box)
func (s *SecretBoxSealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("clientstore: generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal
func (s *SecretBoxSealer) Open(sealed string) (string, error) {
	buf, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(buf) < nonceSize+secretbox.Overhead {
		return "", ErrUnseal
	}

	var nonce [nonceSize]byte
	copy(nonce[:], buf[:nonceSize])
	plain, ok := secretbox.Open(nil, buf[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}

// NewSealer picks the secretbox sealer when a key is configured
func NewSealer(key string) (Sealer, error) {
	if key == "" {
		return PlainSealer{}, nil
	}
	return NewSecretBoxSealer(key)
}
