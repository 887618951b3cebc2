package interaction

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrUnknownInteraction means the response window has lapsed and the
	// interaction can no longer be answered. Retrying cannot succeed.
	ErrUnknownInteraction = errors.New("interaction expired before it was answered")

	// ErrAlreadyAcknowledged means an initial response was already issued
	// for this interaction
	ErrAlreadyAcknowledged = errors.New("interaction already received its initial response")

	// ErrNotDeferred means an update was attempted before the interaction
	// was acknowledged with a deferral
	ErrNotDeferred = errors.New("interaction must be deferred before it can be updated")

	// ErrAlreadyUpdated means the deferred interaction already received its
	// follow-up update
	ErrAlreadyUpdated = errors.New("interaction already received its follow-up update")
)

// classify maps platform REST errors onto the package's sentinel errors so
// callers can use errors.Is instead of digging through response codes
func classify(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownInteraction:
			return fmt.Errorf("%w: %v", ErrUnknownInteraction, err)
		case discordgo.ErrCodeInteractionHasAlreadyBeenAcknowledged:
			return fmt.Errorf("%w: %v", ErrAlreadyAcknowledged, err)
		}
	}

	return err
}

// IsExpired reports whether err means the interaction's response window
// has lapsed
func IsExpired(err error) bool {
	return errors.Is(err, ErrUnknownInteraction)
}
