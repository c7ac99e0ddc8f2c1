package blob

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"speshway-platform/internal/logger"
	"speshway-platform/internal/telemetry"
)

// guarded wraps a Store with a circuit breaker and operation metrics so a
// dead image host fails fast instead of stalling every upload.
type guarded struct {
	store   Store
	cb      *gobreaker.CircuitBreaker
	metrics *telemetry.Metrics
}

func NewGuarded(store Store, metrics *telemetry.Metrics) Store {
	settings := gobreaker.Settings{
		Name:        "blob-" + store.Driver(),
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidKey)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordCircuitBreakerState(name, to.String())
		},
	}

	return &guarded{
		store:   store,
		cb:      gobreaker.NewCircuitBreaker(settings),
		metrics: metrics,
	}
}

func (g *guarded) Driver() string { return g.store.Driver() }

func (g *guarded) Put(ctx context.Context, key, contentType string, data []byte) (Ref, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		return g.store.Put(ctx, key, contentType, data)
	})
	g.metrics.RecordBlobOperation("upload", g.store.Driver(), int64(len(data)), err == nil)
	if err != nil {
		return Ref{}, breakerErr(err)
	}
	return res.(Ref), nil
}

func (g *guarded) Delete(ctx context.Context, publicID string) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, g.store.Delete(ctx, publicID)
	})
	g.metrics.RecordBlobOperation("delete", g.store.Driver(), 0, err == nil)
	return breakerErr(err)
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
