package serial

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueNeverRunsTwoTasksAtOnce(t *testing.T) {
	// given
	queue := NewQueue()
	defer queue.Close()
	var inFlight int32
	var maxInFlight int32

	// when
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, queue.Do(func() error {
				current := atomic.AddInt32(&inFlight, 1)
				if current > atomic.LoadInt32(&maxInFlight) {
					atomic.StoreInt32(&maxInFlight, current)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			}))
		}()
	}
	wg.Wait()

	// then
	assert.Equal(t, int32(1), maxInFlight)
}

func TestQueuePreservesSubmissionOrder(t *testing.T) {
	// given
	queue := NewQueue()
	defer queue.Close()
	var mu sync.Mutex
	executed := []int{}

	// when
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, queue.Do(func() error {
				mu.Lock()
				executed = append(executed, n)
				mu.Unlock()
				return nil
			}))
		}(i)
		// Stagger the submissions so arrival order is well defined
		time.Sleep(2 * time.Millisecond)
	}
	wg.Wait()

	// then
	assert.Equal(t, []int{0, 1, 2, 3, 4}, executed)
}

func TestQueuePropagatesTaskErrors(t *testing.T) {
	// given
	queue := NewQueue()
	defer queue.Close()

	// when
	err := queue.Do(func() error {
		return assert.AnError
	})

	// then
	assert.ErrorIs(t, err, assert.AnError)
}

func TestQueueRejectsTasksAfterClose(t *testing.T) {
	// given
	queue := NewQueue()
	queue.Close()

	// when
	err := queue.Do(func() error { return nil })

	// then
	assert.ErrorIs(t, err, ErrQueueClosed)
}
