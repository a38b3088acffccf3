package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// ErrInterrupted is returned when the process received SIGINT or SIGTERM
var ErrInterrupted = errors.New("interrupted")

// withInterrupt runs fn until it returns or the process is interrupted
func withInterrupt(parent context.Context, fn func(ctx context.Context) error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runInterruptible(parent, sigCh, fn)
}

// runInterruptible cancels the context given to fn when a signal arrives.
// The work in flight is abandoned and ErrInterrupted is returned.
func runInterruptible(parent context.Context, sigCh <-chan os.Signal, fn func(ctx context.Context) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Releases the watcher below once the work is done
		defer cancel()
		return fn(gctx)
	})

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("Interrupt received, stopping")
			return ErrInterrupted
		case <-gctx.Done():
			return nil
		}
	})

	return g.Wait()
}
