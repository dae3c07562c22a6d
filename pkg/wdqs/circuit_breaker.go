package wdqs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akngs/k-families-data/pkg/alert"
	"github.com/akngs/k-families-data/pkg/config"
	"github.com/sony/gobreaker"
)

// CircuitBreakerQuerier wraps a Querier with circuit breaking logic
type CircuitBreakerQuerier struct {
	querier Querier
	cb      *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps q when cfg.Enabled and returns q unchanged otherwise.
func WithCircuitBreaker(q Querier, cfg config.CircuitBreakerConfig, alerter alert.Alerter, logger *slog.Logger) Querier {
	if !cfg.Enabled {
		return q
	}
	return NewCircuitBreakerQuerier(q, cfg, alerter, "wdqs", logger)
}

// NewCircuitBreakerQuerier creates a new circuit breaker querier. Tripping the
// breaker sends an alert.
func NewCircuitBreakerQuerier(q Querier, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string, logger *slog.Logger) *CircuitBreakerQuerier {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if to != gobreaker.StateOpen || alerter == nil {
				return
			}
			msg := fmt.Sprintf("Circuit breaker '%s' changed status from %s to %s. Too many failed queries.", name, from, to)
			if err := alerter.Alert(fmt.Sprintf("Circuit breaker tripped - %s", name), msg); err != nil {
				logger.Error("Failed to send alert", "error", err)
			}
		},
	}

	return &CircuitBreakerQuerier{
		querier: q,
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

// Query implements Querier
func (c *CircuitBreakerQuerier) Query(ctx context.Context, name, sparql string) ([]byte, error) {
	body, err := c.cb.Execute(func() (interface{}, error) {
		return c.querier.Query(ctx, name, sparql)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// State reports the breaker state.
func (c *CircuitBreakerQuerier) State() gobreaker.State {
	return c.cb.State()
}
