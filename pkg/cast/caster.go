package cast

import (
	"errors"

	"github.com/glothriel/castlink/pkg/kex"
	"github.com/glothriel/castlink/pkg/sealbox"
	"github.com/sirupsen/logrus"
)

// PinSubmitter performs a single pairing attempt for a PIN
type PinSubmitter interface {
	SubmitPin(pin string, collectionID int64) error
}

// Caster executes the pairing handshake against the relay. One attempt is
// exactly one relay read and, if the receiver's key was found, exactly one
// relay write. There are no retries, a failed attempt requires explicit user
// resubmission.
type Caster struct {
	kex     kex.Client
	encoder Encoder
	source  ExportSource
}

// SubmitPin looks up the receiver's public key advertised under the PIN,
// seals the current session export to it and publishes the sealed blob under
// the payload key of the same PIN. The PIN format is not validated, the
// relay lookup is the de facto validator: an empty or mistyped PIN simply
// resolves to nothing.
func (c *Caster) SubmitPin(pin string, collectionID int64) error {
	publicKey, getErr := c.kex.Get(PubkeyKey(pin))
	if getErr != nil {
		if errors.Is(getErr, kex.ErrKeyNotFound) {
			return NewTVNotFoundError(pin)
		}
		return NewUnknownError(getErr)
	}

	export, exportErr := c.source.Export()
	if exportErr != nil {
		return NewUnknownError(exportErr)
	}
	export.TargetCollectionID = collectionID

	encoded, encodeErr := c.encoder.Encode(export)
	if encodeErr != nil {
		return NewUnknownError(encodeErr)
	}

	sealed, sealErr := sealbox.Seal(encoded, publicKey)
	if sealErr != nil {
		return NewUnknownError(sealErr)
	}

	if setErr := c.kex.Set(PayloadKey(pin), sealed); setErr != nil {
		return NewUnknownError(setErr)
	}
	logrus.Infof("Published sealed payload for pin %s, collection %d", pin, collectionID)
	return nil
}

// NewCaster creates a new Caster instance
func NewCaster(client kex.Client, encoder Encoder, source ExportSource) *Caster {
	return &Caster{
		kex:     client,
		encoder: encoder,
		source:  source,
	}
}
