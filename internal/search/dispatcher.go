package search

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs fire-and-forget calls in the background. Failures are
// logged and otherwise ignored. Close waits for calls in flight.
type Dispatcher struct {
	logger  *slog.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(logger *slog.Logger, timeout time.Duration) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{logger: logger, timeout: timeout, ctx: ctx, cancel: cancel}
}

// Go starts fn detached from any request context.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.logger.Warn("background call failed", "call", name, "error", err)
			return
		}
		d.logger.Debug("background call done", "call", name)
	}()
}

// Close waits for pending calls until ctx ends, then cancels the rest.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
