// Package gateway adapts the Discord gateway's push-style callback dispatch
// into a pull-style event stream that the dispatcher owns and drives.
//
// The gateway connection itself (heartbeating, resume, reconnect backoff) is
// handled entirely by discordgo; this package classifies what comes out of it:
// a tagged Event per delivery, and connection errors marked fatal or transient.
package gateway

import "github.com/bwmarrin/discordgo"

// Kind identifies the variant of a gateway event
type Kind int

const (
	// KindHello is the gateway's connection greeting
	KindHello Kind = iota
	// KindReady signals the session completed its handshake
	KindReady
	// KindHeartbeatAck acknowledges a heartbeat; carries no payload of interest
	KindHeartbeatAck
	// KindInteraction carries a user-triggered interaction requiring a response
	KindInteraction
	// KindUnknown is any delivery this core does not act on
	KindUnknown
)

// String returns the event kind name for logging
func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindReady:
		return "ready"
	case KindHeartbeatAck:
		return "heartbeat_ack"
	case KindInteraction:
		return "interaction_create"
	default:
		return "unknown"
	}
}

// Event is one delivery from the gateway. Interaction is set only when
// Kind == KindInteraction; Payload holds the raw delivery otherwise and
// may be nil. An Event is immutable once received and owned solely by
// the handler task it is dispatched to.
type Event struct {
	Kind        Kind
	Interaction *discordgo.InteractionCreate
	Payload     interface{}
}
