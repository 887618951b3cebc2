package commands

import (
	"context"

	"github.com/keepmind9/slashd/internal/router"
)

// handleEcho repeats the required "text" option back immediately
func handleEcho(ctx context.Context, inv *router.Invocation) error {
	for _, opt := range inv.Data.Options {
		if opt.Name == "text" {
			return inv.Responder.Reply(opt.StringValue())
		}
	}
	// Registration marks the option required, so a missing one means the
	// payload is malformed; still answer rather than leave the user hanging.
	return inv.Responder.ReplyEphemeral("Nothing to echo.")
}
