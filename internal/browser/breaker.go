package browser

import (
	"context"
	"errors"
	"sync"
	"time"
)

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
	stateHalfOpen
)

// circuitBreaker перестает снимать страницу после maxFailures ошибок подряд
// и пропускает одну пробную попытку по истечении resetTimeout.
type circuitBreaker struct {
	mu           sync.Mutex
	maxFailures  int
	resetTimeout time.Duration
	state        circuitState
	failures     int
	lastFailure  time.Time
	// trial - пробная попытка в полуоткрытом состоянии уже идет
	trial bool
	now   func() time.Time
}

func newCircuitBreaker(maxFailures int, resetTimeout time.Duration) *circuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &circuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

func (cb *circuitBreaker) call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == stateOpen {
		if cb.now().Sub(cb.lastFailure) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = stateHalfOpen
	}
	trial := cb.state == stateHalfOpen
	if trial {
		if cb.trial {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.trial = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trial = false
	}

	if err != nil {
		if !countsAsFailure(err) {
			return err
		}
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == stateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = stateOpen
		}
		return err
	}

	cb.state = stateClosed
	cb.failures = 0
	return nil
}

// countsAsFailure: отмена запроса и незапущенный браузер не говорят о проблемах страницы.
func countsAsFailure(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrNotLaunched)
}

func (cb *circuitBreaker) current() circuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = stateClosed
	cb.failures = 0
	cb.trial = false
}
