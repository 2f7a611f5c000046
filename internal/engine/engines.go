// Package engine implements the four transport engines: TCP and UDP, each in
// a sink role (receive and validate frames) or a source role (generate and
// send frames). Engines run until their context is canceled. Peer misbehavior
// is logged and counted, never propagated; only local failures such as a
// failed bind end an engine early.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine is one transport/role pairing.
type Engine interface {
	Name() string
	Run(ctx context.Context) error
}

// Run starts every engine in its own goroutine and blocks until all have
// returned. A failing engine does not stop its siblings; the errors of all
// failed engines are joined and returned once the last one exits.
func Run(ctx context.Context, logger *slog.Logger, engines ...Engine) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, e := range engines {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Debug("engine starting", "engine", e.Name())
			if err := e.Run(ctx); err != nil {
				logger.Error("engine failed", "engine", e.Name(), "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// sleepCtx waits for d or until ctx is canceled, reporting false on cancel.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
