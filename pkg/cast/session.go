package cast

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ViewState is the state of the pairing dialog flow
type ViewState string

const (
	// StateChoose is the initial state, the user picks manual PIN entry or
	// auto-discovery
	StateChoose ViewState = "choose"
	// StateManualPin is the PIN entry form
	StateManualPin ViewState = "manual-pin"
	// StateAutoDiscover is active while a receiver is being discovered
	StateAutoDiscover ViewState = "auto-discover"
	// StateSuccess is terminal, the dialog closes
	StateSuccess ViewState = "success"
	// StateFailure is recoverable, the user navigates back to choose
	StateFailure ViewState = "failure"
	// StateAutoFailure is the failure state of the auto-discovery flow
	StateAutoFailure ViewState = "auto-failure"
)

// ErrSessionClosed is returned when operating on a torn-down session.
var ErrSessionClosed = errors.New("pairing session is closed")

// ErrSubmissionPending is returned when a submission is already in flight.
// Resubmission is disabled while one is pending, concurrent attempts for the
// same session are never raced against each other.
var ErrSubmissionPending = errors.New("a submission is already pending")

// Session is the in-memory pairing state machine owned by the cast dialog.
// It is created when the dialog opens and closed when the dialog closes or
// pairing succeeds. All completions arriving after Close are dropped, a late
// result never mutates a torn-down session.
type Session struct {
	id        string
	submitter PinSubmitter

	mu      sync.Mutex
	state   ViewState
	pending bool
	closed  bool
	lastErr error

	channel DeviceChannel

	onSuccess func()
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// State returns the current view state
func (s *Session) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure of the last completed submission, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FieldError returns the user-facing code for the last failure, empty when
// there is none
func (s *Session) FieldError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return ""
	}
	return UserFacingCode(s.lastErr)
}

// ChoosePinEntry moves to the manual PIN entry form
func (s *Session) ChoosePinEntry() {
	s.transition(StateManualPin)
}

// Back returns to the initial state from any recoverable one
func (s *Session) Back() {
	s.transition(StateChoose)
}

func (s *Session) transition(to ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state == StateSuccess {
		return
	}
	s.state = to
}

// SubmitPin starts an asynchronous pairing attempt for the given PIN. It
// returns immediately, the outcome is observed through State and Err. While
// an attempt is pending further submissions are rejected.
func (s *Session) SubmitPin(pin string, collectionID int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	go func() {
		s.complete(s.submitter.SubmitPin(pin, collectionID), StateFailure)
	}()
	return nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.pending {
		return ErrSubmissionPending
	}
	s.pending = true
	s.lastErr = nil
	return nil
}

// complete records the result of a finished submission. failState
// distinguishes the manual flow from auto-discovery, which fails into a
// state of its own.
func (s *Session) complete(err error, failState ViewState) {
	s.mu.Lock()
	s.pending = false
	if s.closed {
		s.mu.Unlock()
		logrus.Debugf("Session %s: dropping late pairing result after teardown", s.id)
		return
	}
	var onSuccess func()
	if err != nil {
		s.lastErr = err
		s.state = failState
		logrus.Warnf("Session %s: pairing failed: %v", s.id, err)
	} else {
		s.state = StateSuccess
		onSuccess = s.onSuccess
		logrus.Infof("Session %s: pairing succeeded", s.id)
	}
	s.mu.Unlock()
	if onSuccess != nil {
		onSuccess()
	}
}

// Close tears the session down. Any in-flight submission keeps running but
// its result is ignored. The discovery channel, if one was established, is
// closed and unsubscribed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	channel := s.channel
	s.channel = nil
	s.mu.Unlock()
	if channel != nil {
		return channel.Close()
	}
	return nil
}

// SessionOption customizes a Session
type SessionOption func(*Session)

// OnSuccess registers the callback that closes the dialog once pairing
// succeeds
func OnSuccess(callback func()) SessionOption {
	return func(s *Session) {
		s.onSuccess = callback
	}
}

// NewSession creates a pairing session in the initial state
func NewSession(submitter PinSubmitter, options ...SessionOption) *Session {
	s := &Session{
		id:        uuid.NewString(),
		submitter: submitter,
		state:     StateChoose,
	}
	for _, option := range options {
		option(s)
	}
	return s
}
