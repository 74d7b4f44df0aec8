package resilience

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/kbukum/podscribe/errors"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows calls through.
	StateClosed State = iota
	// StateOpen rejects calls.
	StateOpen
	// StateHalfOpen lets a probe call through.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is the cause of every call rejected by an open breaker.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the guarded dependency in errors and callbacks.
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int
	// Timeout is how long the circuit stays open before a probe is allowed.
	Timeout time.Duration
	// OnStateChange is called on every transition.
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker stops calling a dependency after repeated failures and
// probes it again once Timeout has passed. Errors marked non-retryable
// (bad input, not found) do not count as failures.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{config: config, now: time.Now}
}

// Execute runs fn unless the circuit is open. A rejected call returns a
// SERVICE_UNAVAILABLE AppError wrapping ErrCircuitOpen.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return apperrors.ServiceUnavailable(cb.config.Name).WithCause(ErrCircuitOpen)
	}
	err := fn()
	cb.record(err)
	return err
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

// Failures returns the consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the circuit.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transition(StateClosed)
	cb.failures = 0
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.current() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.current()
	if err == nil || !countsAsFailure(err) {
		cb.failures = 0
		if state == StateHalfOpen {
			cb.transition(StateClosed)
		}
		return
	}

	cb.failures++
	if state == StateHalfOpen || cb.failures >= cb.config.MaxFailures {
		cb.openedAt = cb.now()
		cb.transition(StateOpen)
	}
}

func countsAsFailure(err error) bool {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Retryable
	}
	return true
}

// current applies the open to half-open transition once Timeout has elapsed.
func (cb *CircuitBreaker) current() State {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.Timeout {
		cb.transition(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transition(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.probing = false
	if to == StateClosed {
		cb.failures = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
