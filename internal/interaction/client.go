// Package interaction implements the response side of Discord's interaction
// protocol: the interaction-scoped API client and the per-interaction
// responder state machine that enforces the ack-before-deadline contract.
package interaction

import (
	"github.com/bwmarrin/discordgo"
)

// API defines the interface we need from discordgo.Session for responding
// to interactions. This allows us to mock it in tests without depending on
// concrete types.
type API interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client is an interaction-scoped API client bound to the application
// identity cached at startup. It is immutable and safe to share.
type Client struct {
	api   API
	appID string
}

// NewClient binds an outbound API client to a cached application ID
func NewClient(api API, appID string) *Client {
	return &Client{api: api, appID: appID}
}

// ApplicationID returns the application identity this client is bound to
func (c *Client) ApplicationID() string {
	return c.appID
}

// scoped fills in the bound application ID when the interaction payload
// omits it. Follow-up calls address the interaction by (app ID, token).
func (c *Client) scoped(i *discordgo.Interaction) *discordgo.Interaction {
	if i.AppID != "" {
		return i
	}
	cp := *i
	cp.AppID = c.appID
	return &cp
}

func (c *Client) respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return classify(c.api.InteractionRespond(c.scoped(i), resp))
}

func (c *Client) editOriginal(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := c.api.InteractionResponseEdit(c.scoped(i), edit)
	return classify(err)
}

func (c *Client) followup(i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	msg, err := c.api.FollowupMessageCreate(c.scoped(i), true, params)
	return msg, classify(err)
}
