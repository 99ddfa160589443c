package sealedbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// KeySize is the length of a decoded Curve25519 public key.
const KeySize = 32

// ErrInvalidKey is returned when public key material cannot be used for sealing.
var ErrInvalidKey = errors.New("invalid public key")

// randReader is swapped in tests to simulate entropy failures.
var randReader io.Reader = rand.Reader

// DecodePublicKey decodes a standard base64 public key as returned by the
// GitHub public-key endpoints.
func DecodePublicKey(publicKeyBase64 string) (*[KeySize]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidKey, err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeySize)
	}

	var key [KeySize]byte
	copy(key[:], raw)
	return &key, nil
}

// Seal encrypts plaintext for the holder of the private key matching
// publicKeyBase64 and returns the base64 encoded sealed box. A fresh
// ephemeral keypair is generated on every call, so repeated calls with the
// same input produce different ciphertexts.
func Seal(publicKeyBase64, plaintext string) (string, error) {
	key, err := DecodePublicKey(publicKeyBase64)
	if err != nil {
		return "", err
	}

	sealed, err := box.SealAnonymous(nil, []byte(plaintext), key, randReader)
	if err != nil {
		return "", fmt.Errorf("failed to seal value: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal using the recipient keypair.
func Open(ciphertextBase64 string, publicKey, privateKey *[KeySize]byte) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertextBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plain, ok := box.OpenAnonymous(nil, sealed, publicKey, privateKey)
	if !ok {
		return "", errors.New("failed to open sealed box")
	}

	return string(plain), nil
}
