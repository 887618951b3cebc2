// Package commands provides the built-in command set: the platform-side
// command definitions used by the one-time registration bootstrap, and the
// handlers the router dispatches to at runtime.
package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/router"
)

// Registration pairs a platform-side command definition with its handler
type Registration struct {
	Command *discordgo.ApplicationCommand
	Handler router.Handler
}

// Key returns the routing key for this registration
func (r Registration) Key() router.Key {
	return router.Key{Name: r.Command.Name, Kind: r.Command.Type}
}

// All returns every built-in command. The two "ping" entries share a name
// deliberately: invocation kinds are separate namespaces, and each kind
// routes to its own handler.
func All() []Registration {
	return []Registration{
		{
			Command: &discordgo.ApplicationCommand{
				Name:        "ping",
				Type:        discordgo.ChatApplicationCommand,
				Description: "Check that the bot is alive",
			},
			Handler: router.HandlerFunc(handlePing),
		},
		{
			Command: &discordgo.ApplicationCommand{
				Name: "ping",
				Type: discordgo.UserApplicationCommand,
			},
			Handler: router.HandlerFunc(handleUserPing),
		},
		{
			Command: &discordgo.ApplicationCommand{
				Name:        "hello",
				Type:        discordgo.ChatApplicationCommand,
				Description: "Get a slow, warm greeting",
			},
			Handler: &helloHandler{delay: defaultHelloDelay},
		},
		{
			Command: &discordgo.ApplicationCommand{
				Name:        "echo",
				Type:        discordgo.ChatApplicationCommand,
				Description: "Repeat a message back",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "text",
						Description: "The text to repeat",
						Required:    true,
					},
				},
			},
			Handler: router.HandlerFunc(handleEcho),
		},
	}
}

// RegisterEnabled installs the enabled built-in commands into the router.
// enabled may be nil to install everything.
func RegisterEnabled(r *router.Router, enabled func(name string) bool) error {
	for _, reg := range All() {
		if enabled != nil && !enabled(reg.Command.Name) {
			continue
		}
		if err := r.Register(reg.Key(), reg.Handler); err != nil {
			return fmt.Errorf("failed to register command %s: %w", reg.Command.Name, err)
		}
	}
	return nil
}

// Definitions returns the platform-side definitions for the enabled
// commands, for use by the registration bootstrap
func Definitions(enabled func(name string) bool) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, reg := range All() {
		if enabled != nil && !enabled(reg.Command.Name) {
			continue
		}
		defs = append(defs, reg.Command)
	}
	return defs
}

const defaultHelloDelay = 10 * time.Second
