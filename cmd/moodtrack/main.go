// Package main is the entry point for the moodtrack CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/satishbabariya/moodtrack/cmd/moodtrack/commands"
	"github.com/satishbabariya/moodtrack/internal/adapters/database/postgres"
	"github.com/satishbabariya/moodtrack/internal/cli/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		ui.PrintError("%s", postgres.Describe(err))
		stop()
		os.Exit(1)
	}
}
