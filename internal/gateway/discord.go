package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrSourceClosed is returned by Next after the source has been closed
var ErrSourceClosed = errors.New("gateway source closed")

// SessionInterface defines the interface we need from discordgo.Session
// This allows us to mock it in tests without depending on concrete types
type SessionInterface interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

// dispatchTypesWithDedicatedKind lists raw dispatch type names that already
// arrive through a typed handler, so the catch-all must not emit them twice.
var dispatchTypesWithDedicatedKind = map[string]bool{
	"READY":              true,
	"INTERACTION_CREATE": true,
}

// Discord is a Source backed by a discordgo gateway session. It registers
// typed handlers on the session and funnels every delivery into a single
// channel so callers can pull events one at a time in arrival order.
type Discord struct {
	mu       sync.Mutex
	session  SessionInterface
	events   chan Event
	errs     chan error
	done     chan struct{}
	removers []func()
	opened   bool
	closed   bool
}

// NewDiscord creates a gateway source over an existing session.
// queueSize bounds how many deliveries may be buffered ahead of the consumer.
func NewDiscord(session SessionInterface, queueSize int) *Discord {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Discord{
		session: session,
		events:  make(chan Event, queueSize),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Open registers event handlers and opens the gateway connection.
// A connect failure is fatal: it means the credential was rejected or a
// requested capability was refused, and retrying cannot help.
func (d *Discord) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		return fmt.Errorf("gateway source already open")
	}

	d.removers = append(d.removers,
		d.session.AddHandler(func(s *discordgo.Session, c *discordgo.Connect) {
			d.push(Event{Kind: KindHello, Payload: c})
		}),
		d.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
			logger.WithField("session_id", r.SessionID).Info("gateway-ready")
			d.push(Event{Kind: KindReady, Payload: r})
		}),
		d.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			d.push(Event{Kind: KindInteraction, Interaction: i})
		}),
		d.session.AddHandler(func(s *discordgo.Session, dc *discordgo.Disconnect) {
			// discordgo reconnects on its own; surface the gap as transient
			d.pushErr(NewConnError(errors.New("gateway connection lost, reconnecting"), false))
		}),
		d.session.AddHandler(func(s *discordgo.Session, e *discordgo.Event) {
			if dispatchTypesWithDedicatedKind[e.Type] {
				return
			}
			d.push(Event{Kind: KindUnknown, Payload: e})
		}),
	)

	if err := d.session.Open(); err != nil {
		return NewConnError(fmt.Errorf("failed to open gateway connection: %w", err), true)
	}

	d.opened = true
	logger.Info("gateway-connection-opened")
	return nil
}

// Next fetches the next event in arrival order. It blocks until an event
// arrives, a connection error surfaces, the context is done, or the source
// is closed.
func (d *Discord) Next(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case <-d.done:
		return Event{}, NewConnError(ErrSourceClosed, true)
	case err := <-d.errs:
		return Event{}, err
	case ev := <-d.events:
		return ev, nil
	}
}

// Close removes the registered handlers and closes the gateway connection
func (d *Discord) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	removers := d.removers
	d.removers = nil
	d.mu.Unlock()

	close(d.done)
	for _, remove := range removers {
		remove()
	}

	if err := d.session.Close(); err != nil {
		return fmt.Errorf("failed to close gateway connection: %w", err)
	}

	logger.Info("gateway-connection-closed")
	return nil
}

// push delivers an event to the consumer without leaking the producing
// goroutine if the source is closed first
func (d *Discord) push(ev Event) {
	select {
	case d.events <- ev:
	case <-d.done:
		logger.WithFields(logrus.Fields{
			"kind": ev.Kind.String(),
		}).Debug("dropping-event-after-close")
	}
}

func (d *Discord) pushErr(err error) {
	select {
	case d.errs <- err:
	case <-d.done:
	default:
		// An unread error is already pending; the consumer will see it first
	}
}
