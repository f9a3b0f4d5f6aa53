// Package sealbox wraps NaCl anonymous sealed boxes with base64 key and
// ciphertext encoding, as exchanged through the key-exchange relay.
package sealbox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// KeyBytes is the length of both X25519 public and private keys.
const KeyBytes = 32

// KeyPair holds a base64-encoded X25519 key pair. The public key is what the
// receiver publishes on the relay.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewKeyPair generates a fresh X25519 key pair for opening sealed boxes.
func NewKeyPair() (KeyPair, error) {
	publicKey, privateKey, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(publicKey[:]),
		PrivateKey: base64.StdEncoding.EncodeToString(privateKey[:]),
	}, nil
}

// Seal encrypts plaintext to the given base64-encoded recipient public key
// using an anonymous sealed box and returns base64 ciphertext. The sender is
// not authenticated: only the matching private key can open the box, and the
// ciphertext reveals nothing about who sealed it. Every call draws fresh
// randomness, so sealing the same plaintext twice yields different
// ciphertexts.
func Seal(plaintext []byte, recipientPublicKey string) (string, error) {
	key, keyErr := decodeKey(recipientPublicKey)
	if keyErr != nil {
		return "", fmt.Errorf("invalid recipient public key: %w", keyErr)
	}
	sealed, sealErr := box.SealAnonymous(nil, plaintext, key, rand.Reader)
	if sealErr != nil {
		return "", fmt.Errorf("failed to seal payload: %w", sealErr)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts base64 ciphertext previously produced by Seal using the
// recipient key pair.
func Open(ciphertext string, kp KeyPair) ([]byte, error) {
	publicKey, pubErr := decodeKey(kp.PublicKey)
	if pubErr != nil {
		return nil, fmt.Errorf("invalid public key: %w", pubErr)
	}
	privateKey, privErr := decodeKey(kp.PrivateKey)
	if privErr != nil {
		return nil, fmt.Errorf("invalid private key: %w", privErr)
	}
	sealed, decodeErr := base64.StdEncoding.DecodeString(ciphertext)
	if decodeErr != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", decodeErr)
	}
	plaintext, ok := box.OpenAnonymous(nil, sealed, publicKey, privateKey)
	if !ok {
		return nil, fmt.Errorf("failed to open sealed box")
	}
	return plaintext, nil
}

func decodeKey(encoded string) (*[KeyBytes]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(raw) != KeyBytes {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeyBytes, len(raw))
	}
	var key [KeyBytes]byte
	copy(key[:], raw)
	return &key, nil
}
