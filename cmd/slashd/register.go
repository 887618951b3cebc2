package main

import (
	"fmt"
	"log"

	"github.com/keepmind9/slashd/internal/client"
	"github.com/keepmind9/slashd/internal/commands"
	"github.com/keepmind9/slashd/internal/core"
	"github.com/spf13/cobra"
)

var (
	registerConfig string

	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Register the enabled commands with Discord",
		Long: `Register the enabled built-in commands with Discord.

This is a one-time bootstrap step, separate from 'start' on purpose:
Discord rate-limits command registration, so it must not run on every
process start. Run it once after changing the enabled command set.

With discord.guild_id set, commands are registered to that guild and
appear immediately. Without it, they are registered globally, which can
take up to an hour to propagate.`,
		Run: func(cmd *cobra.Command, args []string) {
			config, err := core.LoadConfig(registerConfig)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			handle, err := client.New(config.Discord.Token)
			if err != nil {
				log.Fatalf("Failed to create client handle: %v", err)
			}

			defs := commands.Definitions(config.CommandEnabled)
			if len(defs) == 0 {
				log.Fatal("No commands enabled; nothing to register")
			}

			// Bulk overwrite is idempotent: the full set replaces whatever
			// was registered before.
			created, err := handle.Session().ApplicationCommandBulkOverwrite(
				handle.ApplicationID(), config.Discord.GuildID, defs)
			if err != nil {
				log.Fatalf("Failed to register commands: %v", err)
			}

			scope := "globally"
			if config.Discord.GuildID != "" {
				scope = fmt.Sprintf("in guild %s", config.Discord.GuildID)
			}
			fmt.Printf("Registered %d commands %s:\n", len(created), scope)
			for _, c := range created {
				fmt.Printf("  - %s (kind %d)\n", c.Name, c.Type)
			}
		},
	}
)

func init() {
	registerCmd.Flags().StringVarP(&registerConfig, "config", "c", "config.yaml", "Configuration file path")
}
