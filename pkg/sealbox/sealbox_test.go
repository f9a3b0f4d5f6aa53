package sealbox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSealedPayloadCanBeOpenedWithMatchingKeyPair(t *testing.T) {
	// given
	kp, kpErr := NewKeyPair()
	plaintext := []byte(`{"sessionKey":"hunter2"}`)

	// when
	ciphertext, sealErr := Seal(plaintext, kp.PublicKey)
	opened, openErr := Open(ciphertext, kp)

	// then
	assert.NoError(t, kpErr)
	assert.NoError(t, sealErr)
	assert.NoError(t, openErr)
	assert.Equal(t, plaintext, opened)
}

func TestSealingIsNonDeterministic(t *testing.T) {
	// given
	kp, _ := NewKeyPair()
	plaintext := []byte("the same plaintext")

	// when
	first, firstErr := Seal(plaintext, kp.PublicKey)
	second, secondErr := Seal(plaintext, kp.PublicKey)

	// then
	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
	assert.NotEqual(t, first, second)

	firstOpened, _ := Open(first, kp)
	secondOpened, _ := Open(second, kp)
	assert.Equal(t, firstOpened, secondOpened)
}

func TestSealFailsLoudlyOnMalformedKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{
			name: "not base64",
			key:  "definitely%%%not-base64",
		},
		{
			name: "too short",
			key:  base64.StdEncoding.EncodeToString([]byte("shortkey")),
		},
		{
			name: "too long",
			key:  base64.StdEncoding.EncodeToString(make([]byte, 64)),
		},
		{
			name: "empty",
			key:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := Seal([]byte("payload"), tc.key)
			assert.Error(t, err)
			assert.Empty(t, ciphertext)
		})
	}
}

func TestOpenFailsWithWrongPrivateKey(t *testing.T) {
	// given
	receiver, _ := NewKeyPair()
	eavesdropper, _ := NewKeyPair()
	ciphertext, _ := Seal([]byte("secret"), receiver.PublicKey)

	// when
	opened, err := Open(ciphertext, KeyPair{
		PublicKey:  receiver.PublicKey,
		PrivateKey: eavesdropper.PrivateKey,
	})

	// then
	assert.Error(t, err)
	assert.Nil(t, opened)
}
