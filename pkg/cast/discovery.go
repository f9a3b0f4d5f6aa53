package cast

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// PairRequestNamespace is the message channel both sides of auto-discovery
// talk on. The sender opens with an empty-body pair-request, the receiver
// answers with its pairing code.
const PairRequestNamespace = "urn:x-cast:pair-request"

// Message is a single frame on the device channel
type Message struct {
	Namespace string          `json:"namespace"`
	Data      json.RawMessage `json:"data"`
}

// DeviceChannel is a bidirectional message channel to a discovered receiver.
// Messages is closed when the channel goes away, Close unsubscribes and
// releases the underlying connection.
type DeviceChannel interface {
	Send(namespace string, payload []byte) error
	Messages() <-chan Message
	Close() error
}

// ChannelDialer establishes a device channel to a discovered receiver. The
// discovery itself (which device, user consent) is the dialer's business.
type ChannelDialer interface {
	Dial() (DeviceChannel, error)
}

type pairRequestBody struct {
	Code string `json:"code"`
}

// BeginAutoDiscovery transitions to auto-discover and tries to establish a
// channel to a receiver. When the channel delivers a pair-request carrying a
// non-empty code, the code is submitted exactly like a manually typed PIN.
// Failure to establish a channel at all is logged and swallowed: the state
// machine stays in auto-discover and the user navigates back manually, no
// timeout is enforced.
func (s *Session) BeginAutoDiscovery(dialer ChannelDialer, collectionID int64) {
	s.transition(StateAutoDiscover)

	channel, dialErr := dialer.Dial()
	if dialErr != nil {
		logrus.Errorf("Session %s: failed to establish device channel: %v", s.id, dialErr)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if closeErr := channel.Close(); closeErr != nil {
			logrus.Errorf("Session %s: failed to close device channel: %v", s.id, closeErr)
		}
		return
	}
	s.channel = channel
	s.mu.Unlock()

	if sendErr := channel.Send(PairRequestNamespace, []byte("{}")); sendErr != nil {
		logrus.Errorf("Session %s: failed to send pair request: %v", s.id, sendErr)
	}

	go s.watchPairRequests(channel, collectionID)
}

func (s *Session) watchPairRequests(channel DeviceChannel, collectionID int64) {
	for message := range channel.Messages() {
		if message.Namespace != PairRequestNamespace {
			continue
		}
		var body pairRequestBody
		if unmarshalErr := json.Unmarshal(message.Data, &body); unmarshalErr != nil {
			logrus.Debugf("Session %s: ignoring malformed pair request: %v", s.id, unmarshalErr)
			continue
		}
		if body.Code == "" {
			continue
		}
		if beginErr := s.begin(); beginErr != nil {
			logrus.Debugf("Session %s: ignoring pairing code %s: %v", s.id, body.Code, beginErr)
			continue
		}
		s.complete(s.submitter.SubmitPin(body.Code, collectionID), StateAutoFailure)
	}
}
