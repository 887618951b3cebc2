// Package router selects command handling logic for incoming gateway events.
//
// Routing is pure dispatch: a single table lookup keyed by the command's
// (name, invocation kind) pair. Two commands may share a name as long as
// their kinds differ (a chat-input "ping" and a user context-menu "ping"
// are distinct commands). The router never issues outbound calls itself;
// responding is the handler's job through the Invocation it receives.
package router

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/client"
	"github.com/keepmind9/slashd/internal/gateway"
	"github.com/keepmind9/slashd/internal/interaction"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/sirupsen/logrus"
)

// Key uniquely identifies a command. Name alone is not enough: invocation
// kinds form separate namespaces on the platform side.
type Key struct {
	Name string
	Kind discordgo.ApplicationCommandType
}

// Invocation carries everything a handler needs for one interaction:
// the parsed command payload, a responder driving the response protocol,
// and a cloned API handle. It is owned exclusively by the one handler
// task processing the interaction.
type Invocation struct {
	Data      discordgo.ApplicationCommandInteractionData
	Responder *interaction.Responder
	Client    *client.Handle
	User      *discordgo.User // invoking user; may be nil for malformed payloads
}

// Handler processes one command invocation
type Handler interface {
	Handle(ctx context.Context, inv *Invocation) error
}

// HandlerFunc adapts a plain function to the Handler interface
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Handle calls f
func (f HandlerFunc) Handle(ctx context.Context, inv *Invocation) error {
	return f(ctx, inv)
}

// Authorizer decides whether a user may invoke commands. A nil Authorizer
// allows everyone.
type Authorizer func(userID string) bool

// Router is a dispatch table from command keys to handlers
type Router struct {
	handlers   map[Key]Handler
	authorizer Authorizer
}

// New creates an empty router
func New() *Router {
	return &Router{handlers: make(map[Key]Handler)}
}

// SetAuthorizer installs a user allow check applied before any handler runs.
// Unauthorized users get an ephemeral refusal as the initial response.
func (r *Router) SetAuthorizer(authorizer Authorizer) {
	r.authorizer = authorizer
}

// Register adds a handler for a command key. Registering the same key twice
// is a programming error.
func (r *Router) Register(key Key, handler Handler) error {
	if key.Name == "" {
		return fmt.Errorf("command name must not be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for command %q must not be nil", key.Name)
	}
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("command (%s, kind %d) already registered", key.Name, key.Kind)
	}
	r.handlers[key] = handler
	return nil
}

// Dispatch routes one gateway event to its handler. Events that are not
// application command interactions, interactions with no payload data, and
// unmatched (name, kind) pairs are dropped without error; that is deliberate
// policy, not a failure.
func (r *Router) Dispatch(ctx context.Context, ev gateway.Event, h *client.Handle) {
	if ev.Kind != gateway.KindInteraction {
		logger.WithField("kind", ev.Kind.String()).Debug("dropping-non-interaction-event")
		return
	}

	ic := ev.Interaction
	if ic == nil || ic.Interaction == nil {
		logger.Warn("dropping-interaction-event-without-payload")
		return
	}
	if ic.Type != discordgo.InteractionApplicationCommand || ic.Data == nil {
		logger.WithFields(logrus.Fields{
			"interaction_id":   ic.ID,
			"interaction_type": ic.Type,
		}).Warn("dropping-interaction-without-command-data")
		return
	}

	data := ic.ApplicationCommandData()
	key := Key{Name: data.Name, Kind: data.CommandType}

	handler, ok := r.handlers[key]
	if !ok {
		logger.WithFields(logrus.Fields{
			"command": key.Name,
			"kind":    key.Kind,
		}).Debug("no-handler-for-command")
		return
	}

	user := invokingUser(ic.Interaction)
	responder := interaction.NewResponder(h.Interactions(), ic.Interaction)

	if r.authorizer != nil && user != nil && !r.authorizer(user.ID) {
		logger.WithFields(logrus.Fields{
			"command": key.Name,
			"user_id": user.ID,
		}).Warn("unauthorized-command-invocation")
		if err := responder.ReplyEphemeral("You are not allowed to use this command."); err != nil {
			logger.WithField("error", err).Error("failed-to-send-refusal")
		}
		return
	}

	inv := &Invocation{
		Data:      data,
		Responder: responder,
		Client:    h,
		User:      user,
	}

	logger.WithFields(logrus.Fields{
		"command":        key.Name,
		"kind":           key.Kind,
		"interaction_id": ic.ID,
	}).Info("dispatching-command")

	if err := handler.Handle(ctx, inv); err != nil {
		logger.WithFields(logrus.Fields{
			"command":        key.Name,
			"interaction_id": ic.ID,
			"error":          err,
		}).Error("command-handler-failed")
	}
}

// invokingUser extracts the user behind an interaction. Guild interactions
// carry it in Member, direct-message interactions in User.
func invokingUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
