package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/keepmind9/slashd/internal/logger"
	"github.com/keepmind9/slashd/internal/router"
	"github.com/sirupsen/logrus"
)

// helloHandler produces its greeting slowly, so it must defer: the
// placeholder acknowledgment goes out right away, and the real content
// follows whenever the work finishes, long past the initial response
// window if need be.
type helloHandler struct {
	delay time.Duration
}

func (h *helloHandler) Handle(ctx context.Context, inv *router.Invocation) error {
	if err := inv.Responder.Defer(); err != nil {
		return fmt.Errorf("failed to acknowledge hello: %w", err)
	}

	greeting, err := h.compose(ctx, inv)
	if err != nil {
		// The interaction is acknowledged, so the user sees a loading
		// placeholder until something replaces it. Deliver the failure
		// rather than leaving it hanging.
		logger.WithFields(logrus.Fields{
			"interaction_id": inv.Responder.Interaction().ID,
			"error":          err,
		}).Error("hello-work-failed")
		if uerr := inv.Responder.Update("Sorry, something went wrong composing your greeting."); uerr != nil {
			return fmt.Errorf("failed to deliver error followup: %w", uerr)
		}
		return err
	}

	return inv.Responder.Update(greeting)
}

// compose is the slow part. The wait parks only this handler task; other
// interactions keep flowing while it sleeps.
func (h *helloHandler) compose(ctx context.Context, inv *router.Invocation) (string, error) {
	select {
	case <-time.After(h.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if inv.User != nil && inv.User.Username != "" {
		return fmt.Sprintf("Hello, %s! Worth the wait, right?", inv.User.Username), nil
	}
	return "Hello there! Worth the wait, right?", nil
}
