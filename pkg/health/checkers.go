package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// Pinger is the subset of a connection pool used for readiness probes.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck returns a CheckFunc that probes a database pool.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping database")
		}
		return nil
	}
}

// GoroutineCountCheck returns a CheckFunc that fails when the goroutine
// count exceeds threshold. Useful as a liveness check for leak detection.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}
