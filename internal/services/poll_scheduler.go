package services

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// PollScheduler decides the delay before the next poll. It returns the fixed
// interval while fetches succeed and backs off exponentially, up to a cap,
// across consecutive failures. The first success resets it.
type PollScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	failures int
	backoff  *backoff.ExponentialBackOff
}

func NewPollScheduler(interval, maxInterval time.Duration, randomization float64) *PollScheduler {
	if maxInterval < interval {
		maxInterval = interval
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = maxInterval
	b.Multiplier = 2
	b.RandomizationFactor = randomization
	b.MaxElapsedTime = 0
	b.Reset()

	return &PollScheduler{
		interval: interval,
		backoff:  b,
	}
}

func (ps *PollScheduler) Success() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.failures = 0
	ps.backoff.Reset()
}

func (ps *PollScheduler) Failure() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.failures++
}

func (ps *PollScheduler) Failures() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.failures
}

func (ps *PollScheduler) Next() time.Duration {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.failures == 0 {
		return ps.interval
	}
	return ps.backoff.NextBackOff()
}
