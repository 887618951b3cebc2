package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keepmind9/slashd/internal/client"
	"github.com/keepmind9/slashd/internal/commands"
	"github.com/keepmind9/slashd/internal/core"
	"github.com/keepmind9/slashd/internal/dispatch"
	"github.com/keepmind9/slashd/internal/gateway"
	"github.com/keepmind9/slashd/internal/logger"
	"github.com/keepmind9/slashd/internal/router"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the slashd daemon",
		Long:  "Connect to the Discord gateway and dispatch incoming interactions to command handlers",
		Run: func(cmd *cobra.Command, args []string) {
			// Load configuration
			config, err := core.LoadConfig(configFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			// Initialize logger
			logConfig := logger.Config{
				Level:        config.Logging.Level,
				File:         config.Logging.File,
				MaxSize:      config.Logging.MaxSize,
				MaxBackups:   config.Logging.MaxBackups,
				MaxAge:       config.Logging.MaxAge,
				Compress:     *config.Logging.Compress,
				EnableStdout: *config.Logging.EnableStdout,
			}
			if err := logger.InitLogger(logConfig); err != nil {
				log.Fatalf("Failed to initialize logger: %v", err)
			}

			logger.WithFields(logrus.Fields{
				"config_file": configFile,
				"log_level":   config.Logging.Level,
			}).Info("logger-initialized")

			// One identity lookup; every handler task shares this handle
			handle, err := client.New(config.Discord.Token)
			if err != nil {
				log.Fatalf("Failed to create client handle: %v", err)
			}

			// Build the routing table from the enabled built-in commands
			rt := router.New()
			rt.SetAuthorizer(config.IsUserAuthorized)
			if err := commands.RegisterEnabled(rt, config.CommandEnabled); err != nil {
				log.Fatalf("Failed to register commands: %v", err)
			}

			source := gateway.NewDiscord(handle.Session(), config.Dispatch.QueueSize)
			if err := source.Open(); err != nil {
				log.Fatalf("Failed to open gateway: %v", err)
			}
			defer source.Close()

			dispatcher := dispatch.New(source, handle, rt,
				dispatch.WithDrainTimeout(config.DrainTimeout()))

			// Setup signal handling for graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Run the dispatcher in a goroutine
			errChan := make(chan error, 1)
			go func() {
				fmt.Println("\nslashd dispatcher starting...")
				fmt.Println("Press Ctrl+C to stop")
				errChan <- dispatcher.Run(ctx)
			}()

			// Wait for signal or dispatcher error
			select {
			case sig := <-sigChan:
				log.Printf("Received signal: %v, shutting down gracefully...", sig)
				cancel()
				if err := <-errChan; err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			case err := <-errChan:
				if err != nil {
					log.Fatalf("Dispatcher error: %v", err)
				}
			}

			log.Println("slashd stopped")
		},
	}
)

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
}
