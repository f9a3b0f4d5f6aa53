package kex

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

type pollingClient struct {
	child    Client
	attempts uint
	delay    time.Duration
}

// Get retries the child lookup while the key is still absent. Transport
// errors are not retried, only ErrKeyNotFound is.
func (c *pollingClient) Get(key string) (string, error) {
	var value string
	err := retry.Do(func() error {
		var getErr error
		value, getErr = c.child.Get(key)
		return getErr
	},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrKeyNotFound)
		}),
	)
	return value, err
}

func (c *pollingClient) Set(key string, value string) error {
	return c.child.Set(key, value)
}

// NewPollingClient is a decorator that polls the relay until a key appears.
// The pairing flow itself never retries - a failed attempt requires explicit
// user resubmission - so this is only used by parties waiting for their
// counterpart to publish, for example a receiver waiting for the sealed
// payload.
func NewPollingClient(child Client, attempts uint, delay time.Duration) Client {
	return &pollingClient{
		child:    child,
		attempts: attempts,
		delay:    delay,
	}
}
