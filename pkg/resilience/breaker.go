package resilience

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"graphrag-chatbot-be/internal/pkg/logger"
)

// ErrCircuitOpen is returned without touching the downstream while the
// breaker is open or the half-open probe slot is taken.
var ErrCircuitOpen = errors.New("circuit open")

const (
	DefaultFailureThreshold = 5
	DefaultCooldown         = 30 * time.Second
)

// Breaker guards one downstream endpoint. It opens after a run of
// consecutive failures, fails fast while open, and lets a single probe
// through after the cooldown.
type Breaker struct {
	cb  *gobreaker.CircuitBreaker[any]
	log logger.ILogger
}

func NewBreaker(name string, failureThreshold uint32, cooldown time.Duration, log logger.ILogger) *Breaker {
	if failureThreshold == 0 {
		failureThreshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // single probe in half-open
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("RESILIENCE", "Circuit state changed", map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			}
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings), log: log}
}

// Execute runs op under the breaker. Open-circuit rejections come back as
// ErrCircuitOpen so callers can branch with errors.Is.
func (b *Breaker) Execute(op func() (any, error)) (any, error) {
	result, err := b.cb.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", b.cb.Name(), ErrCircuitOpen)
	}
	return result, err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
