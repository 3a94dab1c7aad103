package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/config"
)

func newCheckEnvCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Report the environment variables moodtrack reads",
		Long: `Check every environment variable moodtrack reads, after merging .env,
the process environment and .env.local. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckEnv(app.cfg)
		},
	}
}

func runCheckEnv(cfg *config.Config) error {
	failed := 0
	group := ""
	for _, check := range cfg.CheckEnv() {
		if check.Group != group {
			group = check.Group
			ui.PrintSection(group)
		}
		switch check.Status {
		case config.EnvSet:
			ui.PrintCheck(ui.StatusOK, check.Name, check.Display)
		case config.EnvMissing:
			ui.PrintCheck(ui.StatusWarn, check.Name, "not set (optional)")
		case config.EnvRequiredMissing:
			failed++
			ui.PrintCheck(ui.StatusFail, check.Name, "not set (required)")
		case config.EnvInvalid:
			failed++
			ui.PrintCheck(ui.StatusFail, check.Name, "invalid value")
		}
	}

	fmt.Fprintln(ui.Out)
	if cfg.Configured() {
		ui.PrintSuccess("database: %s (from %s)", config.MaskedURL(cfg.DatabaseURL), cfg.DatabaseURLSource)
	} else {
		ui.PrintWarning("no database URL set; database commands run in mock mode")
	}
	if cfg.ConfigFile != "" {
		ui.PrintInfo("config file: %s", cfg.ConfigFile)
	}

	if failed > 0 {
		return errors.New("environment check failed")
	}
	ui.PrintSuccess("environment check complete")
	return nil
}
