package constants

import "time"

// Interaction response timing
const (
	// ResponseDeadline is the window Discord allows for the initial response
	// to an interaction. A response attempted after this window fails with
	// an unknown-interaction error.
	ResponseDeadline = 3 * time.Second
	// FollowupWindow is how long a deferred interaction's token stays valid
	// for follow-up edits after the acknowledgment.
	FollowupWindow = 15 * time.Minute
)

// Message length limits
const (
	// MaxMessageLength is Discord's message character limit
	MaxMessageLength = 2000
)

// Dispatch configuration
const (
	// EventChannelBufferSize is the buffer size for the gateway event channel
	EventChannelBufferSize = 100
	// DefaultDrainTimeout bounds how long the dispatcher waits for in-flight
	// handlers when the event loop exits
	DefaultDrainTimeout = 10 * time.Second
)

// Secret masking limits for log output
const (
	// MinSecretLengthForMasking is the minimum length before partial masking is used
	MinSecretLengthForMasking = 8
	// SecretMaskPrefixLength is how many leading characters remain visible
	SecretMaskPrefixLength = 4
	// SecretMaskSuffixLength is how many trailing characters remain visible
	SecretMaskSuffixLength = 4
)
