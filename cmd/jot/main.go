// Package main is the entry point for the jot CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"jot/internal/backend/firebase"
	"jot/internal/backend/taskapi"
	"jot/internal/cli"
	"jot/internal/commands"
	"jot/internal/config"
	"jot/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	backends := cli.Backends{
		Tasks: func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error) {
			return taskapi.New(cfg, log)
		},
		Identity: func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.IdentityProvider, error) {
			return firebase.New(ctx, cfg, log)
		},
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backends)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
