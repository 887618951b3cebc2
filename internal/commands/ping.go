package commands

import (
	"context"
	"fmt"

	"github.com/keepmind9/slashd/internal/router"
)

// handlePing answers the chat-input /ping immediately. The result is
// available synchronously, well within the response window, so no deferral
// is needed.
func handlePing(ctx context.Context, inv *router.Invocation) error {
	return inv.Responder.Reply("Pong!")
}

// handleUserPing answers the user context-menu "ping". Same name as the
// chat-input command, different invocation kind, distinct handler.
func handleUserPing(ctx context.Context, inv *router.Invocation) error {
	target := inv.Data.TargetID
	if target == "" {
		return inv.Responder.Reply("Pong!")
	}
	return inv.Responder.Reply(fmt.Sprintf("Pong, <@%s>!", target))
}
