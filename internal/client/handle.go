// Package client provides the shared outbound API handle: one client plus
// the application identity resolved once at startup, cheap to clone into
// every concurrently running handler task.
package client

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/interaction"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/sirupsen/logrus"
)

// ClientAPI defines the interface we need from discordgo.Session for
// outbound calls. This allows us to mock it in tests without depending
// on concrete types.
type ClientAPI interface {
	Application(appID string) (*discordgo.Application, error)
	interaction.API
}

// New hands a *discordgo.Session straight to NewWithClient
var _ ClientAPI = (*discordgo.Session)(nil)

// Handle bundles the outbound API client with the application identity
// cached at construction. It is immutable after construction: every clone
// shares the same underlying client, and the underlying resources live as
// long as the longest-lived holder. No locking is needed because nothing
// is ever mutated.
type Handle struct {
	api     ClientAPI
	session *discordgo.Session // nil when constructed over a mock client
	appID   string
}

// New creates a session from the credential and resolves the application
// identity with a single lookup call. It fails if the credential is
// rejected or the lookup call fails.
func New(token string) (*Handle, error) {
	if token == "" {
		return nil, fmt.Errorf("credential must not be empty")
	}

	logger.WithField("token", maskSecret(token)).Info("creating-client-handle")

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	h, err := NewWithClient(session)
	if err != nil {
		return nil, err
	}
	h.session = session
	return h, nil
}

// NewWithClient builds a handle over an existing outbound client,
// performing the one identity lookup
func NewWithClient(api ClientAPI) (*Handle, error) {
	app, err := api.Application("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve application identity: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"application":    app.Name,
	}).Info("application-identity-resolved")

	return &Handle{api: api, appID: app.ID}, nil
}

// Clone yields a new handle sharing the same underlying client and cached
// identity. It performs no network I/O and no deep copy.
func (h *Handle) Clone() *Handle {
	c := *h
	return &c
}

// ApplicationID returns the application identity cached at construction
func (h *Handle) ApplicationID() string {
	return h.appID
}

// Rest returns the raw outbound API client
func (h *Handle) Rest() ClientAPI {
	return h.api
}

// Session returns the underlying discordgo session, or nil when the handle
// was constructed over a mock client
func (h *Handle) Session() *discordgo.Session {
	return h.session
}

// Interactions returns the interaction-scoped sub-client bound to the
// cached application identity
func (h *Handle) Interactions() *interaction.Client {
	return interaction.NewClient(h.api, h.appID)
}
