package speech

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for a circuit-broken Listener.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip after this many consecutive failures.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns the configuration used by the terminal
// calculator.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         1,
		Interval:            0,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// BreakerListener stops calling a recognizer that keeps failing, so a missing
// microphone costs one timeout rather than one per request.
type BreakerListener struct {
	next Listener
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerListener wraps next in a circuit breaker.
func NewBreakerListener(next Listener, config BreakerConfig, logger *zap.Logger) *BreakerListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("recognizer circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerListener{next: next, cb: cb}
}

// Listen forwards to the wrapped Listener unless the breaker is open, in which
// case it fails fast with gobreaker.ErrOpenState.
func (b *BreakerListener) Listen(ctx context.Context) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Listen(ctx)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker's current state.
func (b *BreakerListener) State() gobreaker.State {
	return b.cb.State()
}
