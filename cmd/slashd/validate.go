package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keepmind9/slashd/internal/core"
	"github.com/spf13/cobra"
)

var (
	validateConfig string
	validateJSON   bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Config   string   `json:"config"`
	Commands int      `json:"commands"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate slashd configuration file",
	Long: `Validate the slashd configuration file without starting the daemon.

This command checks:
  - YAML syntax
  - Required fields (discord.token)
  - Dispatch settings
  - Security whitelist settings

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	Run: func(cmd *cobra.Command, args []string) {
		// Get config file path
		configFile := validateConfig
		if configFile == "" {
			// Try default locations
			for _, loc := range []string{
				"config.yaml",
				filepath.Join(os.Getenv("HOME"), ".config/slashd/config.yaml"),
				"/etc/slashd/config.yaml",
			} {
				if _, err := os.Stat(loc); err == nil {
					configFile = loc
					break
				}
			}
		}

		if configFile == "" {
			fmt.Println("No configuration file found")
			fmt.Println("\nSpecify a config file with --config or ensure one exists at:")
			fmt.Println("  - ./config.yaml")
			fmt.Println("  - ~/.config/slashd/config.yaml")
			fmt.Println("  - /etc/slashd/config.yaml")
			os.Exit(1)
		}

		// Load configuration
		cfg, err := core.LoadConfig(configFile)
		if err != nil {
			result := ValidationResult{
				Valid:  false,
				Config: configFile,
				Errors: []string{err.Error()},
			}
			outputValidationResult(result, validateJSON)
			os.Exit(1)
		}

		result := ValidationResult{
			Valid:    true,
			Config:   configFile,
			Commands: len(cfg.Commands.Enabled),
		}
		if !cfg.Security.WhitelistEnabled {
			result.Warnings = append(result.Warnings,
				"whitelist is disabled; any user can invoke commands")
		}
		if cfg.Discord.GuildID == "" {
			result.Warnings = append(result.Warnings,
				"no guild_id set; 'register' will register commands globally (slow to propagate)")
		}

		outputValidationResult(result, validateJSON)
	},
}

// outputValidationResult prints the result in text or JSON form
func outputValidationResult(result ValidationResult, asJSON bool) {
	if asJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Printf("{\"error\": \"failed to marshal json: %v\"}\n", err)
			return
		}
		fmt.Println(string(output))
		return
	}

	if result.Valid {
		fmt.Printf("Configuration %s is valid\n", result.Config)
	} else {
		fmt.Printf("Configuration %s is invalid\n", result.Config)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
