package cast

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeChannel struct {
	mu       sync.Mutex
	sent     []Message
	inbound  chan Message
	closed   bool
	closeErr error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{inbound: make(chan Message)}
}

func (c *fakeChannel) Send(namespace string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Message{Namespace: namespace, Data: json.RawMessage(payload)})
	return nil
}

func (c *fakeChannel) Messages() <-chan Message {
	return c.inbound
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.inbound)
	}
	return c.closeErr
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) deliver(namespace, body string) {
	c.inbound <- Message{Namespace: namespace, Data: json.RawMessage(body)}
}

type fakeDialer struct {
	channel *fakeChannel
	err     error
}

func (d *fakeDialer) Dial() (DeviceChannel, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.channel, nil
}

// resultSubmitter answers every submission with a canned result
type resultSubmitter struct {
	mu     sync.Mutex
	pins   []string
	result error
}

func (s *resultSubmitter) SubmitPin(pin string, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins = append(s.pins, pin)
	return s.result
}

func (s *resultSubmitter) submittedPins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.pins...)
}

func TestAutoDiscoverySendsEmptyPairRequest(t *testing.T) {
	// given
	channel := newFakeChannel()
	session := NewSession(&resultSubmitter{})

	// when
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// then
	assert.Equal(t, StateAutoDiscover, session.State())
	channel.mu.Lock()
	defer channel.mu.Unlock()
	assert.Len(t, channel.sent, 1)
	assert.Equal(t, PairRequestNamespace, channel.sent[0].Namespace)
	assert.JSONEq(t, "{}", string(channel.sent[0].Data))
}

func TestInboundCodeTriggersSubmission(t *testing.T) {
	// given
	channel := newFakeChannel()
	submitter := &resultSubmitter{}
	session := NewSession(submitter)
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// when
	channel.deliver(PairRequestNamespace, `{"code": "482913"}`)

	// then
	assert.Eventually(t, func() bool {
		return session.State() == StateSuccess
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"482913"}, submitter.submittedPins())
}

func TestInboundMessagesWithoutCodeAreIgnored(t *testing.T) {
	// given
	channel := newFakeChannel()
	submitter := &resultSubmitter{}
	session := NewSession(submitter)
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// when
	channel.deliver(PairRequestNamespace, `{}`)
	channel.deliver(PairRequestNamespace, `{"code": ""}`)
	channel.deliver("urn:x-cast:unrelated", `{"code": "482913"}`)
	channel.deliver(PairRequestNamespace, `not json at all`)

	// then
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, StateAutoDiscover, session.State())
	assert.Empty(t, submitter.submittedPins())
}

func TestFailedAutoSubmissionEndsInAutoFailure(t *testing.T) {
	// given
	channel := newFakeChannel()
	submitter := &resultSubmitter{result: NewTVNotFoundError("482913")}
	session := NewSession(submitter)
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// when
	channel.deliver(PairRequestNamespace, `{"code": "482913"}`)

	// then
	assert.Eventually(t, func() bool {
		return session.State() == StateAutoFailure
	}, time.Second, time.Millisecond)
	assert.Equal(t, CodeTVNotFound, session.FieldError())
}

func TestDialFailureLeavesSessionInAutoDiscover(t *testing.T) {
	// given
	session := NewSession(&resultSubmitter{})

	// when
	session.BeginAutoDiscovery(&fakeDialer{err: fmt.Errorf("no receiver consented")}, 42)

	// then no timeout is enforced, the user has to navigate back manually
	assert.Equal(t, StateAutoDiscover, session.State())
	session.Back()
	assert.Equal(t, StateChoose, session.State())
}

func TestClosingSessionClosesDeviceChannel(t *testing.T) {
	// given
	channel := newFakeChannel()
	session := NewSession(&resultSubmitter{})
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// when
	assert.NoError(t, session.Close())

	// then
	assert.True(t, channel.isClosed())
}

func TestChannelEstablishedAfterCloseIsReleased(t *testing.T) {
	// given
	channel := newFakeChannel()
	session := NewSession(&resultSubmitter{})
	assert.NoError(t, session.Close())

	// when
	session.BeginAutoDiscovery(&fakeDialer{channel: channel}, 42)

	// then
	assert.True(t, channel.isClosed())
}
