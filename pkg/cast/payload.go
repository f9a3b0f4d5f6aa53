// Package cast implements the sender side of the TV pairing handshake: the
// receiver shows a PIN and publishes its public key on the key-exchange
// relay, the sender looks the key up by PIN, seals its session export to it
// and publishes the sealed blob back on the relay.
package cast

import (
	"encoding/json"
)

const (
	pubkeySuffix  = "_pubkey"
	payloadSuffix = "_payload"

	sessionKeyField         = "sessionKey"
	targetCollectionIDField = "targetCollectionId"
)

// PubkeyKey derives the relay key under which the receiver advertises its
// public key. Read-only from the sender's perspective.
func PubkeyKey(pin string) string {
	return pin + pubkeySuffix
}

// PayloadKey derives the relay key under which the sender publishes the
// sealed payload. Write-only from the sender's perspective. Both keys of a
// pairing attempt are scoped under the same PIN.
func PayloadKey(pin string) string {
	return pin + payloadSuffix
}

// SessionExport is the session material the target device adopts after
// pairing: the session encryption key, the collection to show and any extra
// tokens the client needs to hand over. The fields are enumerated on purpose,
// nothing outside this structure is ever exported. It contains session
// secrets and must never leave the device unsealed.
type SessionExport struct {
	SessionKey         string
	TargetCollectionID int64
	State              map[string]string
}

// MarshalJSON flattens State entries to the top level of the JSON object,
// next to sessionKey and targetCollectionId. The named fields win on key
// collision.
func (e SessionExport) MarshalJSON() ([]byte, error) {
	flattened := make(map[string]interface{}, len(e.State)+2)
	for key, value := range e.State {
		flattened[key] = value
	}
	flattened[sessionKeyField] = e.SessionKey
	flattened[targetCollectionIDField] = e.TargetCollectionID
	return json.Marshal(flattened)
}

// UnmarshalJSON is the inverse of MarshalJSON. Top-level string entries other
// than the named fields land in State; entries of other types are dropped.
func (e *SessionExport) UnmarshalJSON(data []byte) error {
	var flattened map[string]json.RawMessage
	if err := json.Unmarshal(data, &flattened); err != nil {
		return err
	}
	export := SessionExport{State: map[string]string{}}
	for key, raw := range flattened {
		switch key {
		case sessionKeyField:
			if err := json.Unmarshal(raw, &export.SessionKey); err != nil {
				return err
			}
		case targetCollectionIDField:
			if err := json.Unmarshal(raw, &export.TargetCollectionID); err != nil {
				return err
			}
		default:
			var value string
			if err := json.Unmarshal(raw, &value); err == nil {
				export.State[key] = value
			}
		}
	}
	*e = export
	return nil
}

// Encoder translates session exports to and from the wire representation
// that gets sealed
type Encoder interface {
	Encode(SessionExport) ([]byte, error)
	Decode([]byte) (SessionExport, error)
}

type jsonEncoder struct{}

func (e *jsonEncoder) Encode(export SessionExport) ([]byte, error) {
	return json.Marshal(export)
}

func (e *jsonEncoder) Decode(data []byte) (SessionExport, error) {
	var export SessionExport
	err := json.Unmarshal(data, &export)
	return export, err
}

// NewJSONEncoder creates the JSON Encoder used on the wire
func NewJSONEncoder() Encoder {
	return &jsonEncoder{}
}

// ExportSource provides the current session export at submission time
type ExportSource interface {
	Export() (SessionExport, error)
}

type staticExportSource struct {
	export SessionExport
}

func (s *staticExportSource) Export() (SessionExport, error) {
	return s.export, nil
}

// NewStaticExportSource creates an ExportSource that always returns the same
// session export
func NewStaticExportSource(export SessionExport) ExportSource {
	return &staticExportSource{export: export}
}
