// Package dispatch implements the driver loop: pull one event at a time
// from the gateway source and fan each one out to its own handler task
// without ever waiting on a handler to finish.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/keepmind9/slashd/internal/client"
	"github.com/keepmind9/slashd/internal/gateway"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/keepmind9/slashd/internal/router"
	"github.com/keepmind9/slashd/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Dispatcher pulls events from a gateway source and launches one handler
// goroutine per event. The loop's iteration time is independent of any
// handler's processing time; handlers share nothing but the cloned client
// handle each one carries.
type Dispatcher struct {
	source       gateway.Source
	handle       *client.Handle
	router       *router.Router
	drainTimeout time.Duration

	wg sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithDrainTimeout bounds how long Run waits for in-flight handlers after
// the event loop exits. Zero means abandon them immediately.
func WithDrainTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		dp.drainTimeout = d
	}
}

// New creates a dispatcher. All collaborators are explicit constructor
// arguments; the dispatcher keeps no process-wide state.
func New(source gateway.Source, handle *client.Handle, r *router.Router, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:       source,
		handle:       handle,
		router:       r,
		drainTimeout: constants.DefaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes events until the context is done or the source reports a
// fatal error. Transient source errors are logged and the loop continues.
// On exit, in-flight handlers are drained for up to the configured timeout,
// then abandoned; they are never retracted mid-flight.
func (d *Dispatcher) Run(ctx context.Context) error {
	logger.Info("dispatcher-started")
	defer d.drain()

	for {
		ev, err := d.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("dispatcher-stopping")
				return nil
			}
			if gateway.IsFatal(err) {
				logger.WithField("error", err).Error("fatal-gateway-error")
				return err
			}
			logger.WithField("error", err).Warn("transient-gateway-error")
			continue
		}

		d.spawn(ctx, ev)
	}
}

// spawn launches an independently scheduled handler task for one event.
// Each task carries its own clone of the shared handle; the loop never
// blocks on the task's completion.
func (d *Dispatcher) spawn(ctx context.Context, ev gateway.Event) {
	d.wg.Add(1)
	h := d.handle.Clone()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"kind":  ev.Kind.String(),
					"panic": r,
				}).Error("handler-panic-recovered")
			}
		}()

		d.router.Dispatch(ctx, ev, h)
	}()
}

// drain waits for in-flight handlers up to the drain timeout. Handlers
// still running after that are abandoned; their outbound calls may still
// complete, but the process no longer waits for them.
func (d *Dispatcher) drain() {
	if d.drainTimeout <= 0 {
		logger.Info("abandoning-in-flight-handlers")
		return
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all-handlers-drained")
	case <-time.After(d.drainTimeout):
		logger.WithField("timeout", d.drainTimeout).Warn("drain-timeout-abandoning-handlers")
	}
}
