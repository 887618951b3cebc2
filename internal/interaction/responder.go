package interaction

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/keepmind9/slashd/pkg/constants"
	"github.com/sirupsen/logrus"
)

// State represents the response lifecycle position of one interaction
type State int

const (
	// StateUnanswered means no initial response has been issued yet
	StateUnanswered State = iota
	// StateAnswered means a complete immediate response was issued (terminal)
	StateAnswered
	// StateDeferred means a placeholder acknowledgment was issued and a
	// follow-up update is still owed
	StateDeferred
	// StateUpdated means the deferred interaction received its follow-up
	// update (terminal)
	StateUpdated
)

// String returns the state name for logging
func (s State) String() string {
	switch s {
	case StateUnanswered:
		return "unanswered"
	case StateAnswered:
		return "answered"
	case StateDeferred:
		return "deferred"
	case StateUpdated:
		return "updated"
	default:
		return "invalid"
	}
}

// Responder drives the response protocol for a single interaction.
//
// Discord requires the initial response within a short window of the
// interaction being created (3 seconds observed); after that the
// interaction is permanently unanswerable. A handler either replies
// immediately (Reply) or acknowledges with a placeholder (Defer) and
// delivers content later (Update), which may happen long after the window.
//
// Transitions are one-directional and attempted at most once each;
// violations are rejected locally before any network call is made.
// A Responder is owned by the single handler task processing its
// interaction and must not be shared across goroutines.
type Responder struct {
	client      *Client
	interaction *discordgo.Interaction
	state       State
}

// NewResponder creates a responder for one interaction
func NewResponder(client *Client, i *discordgo.Interaction) *Responder {
	return &Responder{client: client, interaction: i, state: StateUnanswered}
}

// State returns the current lifecycle state
func (r *Responder) State() State {
	return r.state
}

// Interaction returns the interaction this responder is bound to
func (r *Responder) Interaction() *discordgo.Interaction {
	return r.interaction
}

// Reply issues a complete message as the initial response. Use when the
// result is available well within the response window.
func (r *Responder) Reply(content string) error {
	return r.reply(content, 0)
}

// ReplyEphemeral issues an initial response visible only to the invoking user
func (r *Responder) ReplyEphemeral(content string) error {
	return r.reply(content, discordgo.MessageFlagsEphemeral)
}

func (r *Responder) reply(content string, flags discordgo.MessageFlags) error {
	if r.state != StateUnanswered {
		return ErrAlreadyAcknowledged
	}

	err := r.client.respond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncate(content),
			Flags:   flags,
		},
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"interaction_id": r.interaction.ID,
			"error":          err,
		}).Error("failed-to-send-initial-response")
		return err
	}

	r.state = StateAnswered
	return nil
}

// Defer issues a placeholder acknowledgment as the initial response,
// buying time for slow work. The real content must follow via Update.
func (r *Responder) Defer() error {
	if r.state != StateUnanswered {
		return ErrAlreadyAcknowledged
	}

	err := r.client.respond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"interaction_id": r.interaction.ID,
			"error":          err,
		}).Error("failed-to-send-deferred-acknowledgment")
		return err
	}

	r.state = StateDeferred
	return nil
}

// Update replaces the deferred placeholder with the real content. The call
// is addressed by the interaction token, so it works long after the initial
// response window as long as the token itself is still valid.
func (r *Responder) Update(content string) error {
	switch r.state {
	case StateDeferred:
	case StateUpdated:
		return ErrAlreadyUpdated
	default:
		return ErrNotDeferred
	}

	truncated := truncate(content)
	err := r.client.editOriginal(r.interaction, &discordgo.WebhookEdit{
		Content: &truncated,
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"interaction_id": r.interaction.ID,
			"error":          err,
		}).Error("failed-to-send-followup-update")
		return err
	}

	r.state = StateUpdated
	return nil
}

// Followup posts an additional standalone message after the interaction has
// been answered or deferred
func (r *Responder) Followup(content string) (*discordgo.Message, error) {
	if r.state == StateUnanswered {
		return nil, ErrNotDeferred
	}

	return r.client.followup(r.interaction, &discordgo.WebhookParams{
		Content: truncate(content),
	})
}

// truncate enforces the platform's message length limit, keeping the head
// of the content. The limit counts characters, not bytes, and the cut must
// not split a multi-byte rune.
func truncate(content string) string {
	if len(content) <= constants.MaxMessageLength {
		return content
	}
	runes := []rune(content)
	if len(runes) <= constants.MaxMessageLength {
		return content
	}
	logger.WithFields(logrus.Fields{
		"original_length": len(runes),
		"max_length":      constants.MaxMessageLength,
	}).Info("truncating-message-for-discord-limit")
	return string(runes[:constants.MaxMessageLength-3]) + "..."
}
