package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/adapters/database/postgres"
	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/config"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/pkg/client"
)

func newVerifyCommand(app *App) *cobra.Command {
	var showMetrics bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the database connection",
		Long: `Connect to the configured database, check the server version and read
the latest mood entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runVerify(ctx, app, showMetrics)
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the collected metrics")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")

	return cmd
}

func runVerify(ctx context.Context, app *App, showMetrics bool) error {
	const steps = 4

	ui.PrintStep(1, steps, "Reading configuration")
	if !app.cfg.Configured() {
		ui.PrintError("DATABASE_URL is not set")
		mock := client.NewWithQuerier(nil)
		envelope, _ := json.Marshal(mock.Execute(ctx, mock.From(repository.TableMoodEntries).Select()))
		ui.PrintInfo("queries resolve to %s", envelope)
		return client.ErrNotConfigured
	}
	ui.PrintInfo("URL found: %s (%s)", config.MaskedURL(app.cfg.DatabaseURL), app.cfg.DatabaseURLSource)

	ui.PrintStep(2, steps, "Connecting")
	c, err := app.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	ui.PrintSuccess("connected")

	ui.PrintStep(3, steps, "Checking server version")
	v, err := postgres.ServerVersion(ctx, c.Pool())
	if err != nil {
		return err
	}
	if err := postgres.CheckCompatibility(v); err != nil {
		return err
	}
	ui.PrintSuccess("PostgreSQL %s", v)

	ui.PrintStep(4, steps, "Querying mood entries")
	result := c.Execute(ctx, c.From(repository.TableMoodEntries).Select().Order("created_at", false))
	if err := result.AsError(); err != nil {
		ui.PrintError("query failed: %s", postgres.Describe(err))
		if postgres.Code(err) == postgres.CodeUndefinedTable {
			ui.PrintInfo("run `moodtrack schema apply` to create the tables")
		}
		return err
	}
	ui.PrintSuccess("found %d entries", len(result.Rows))
	if len(result.Rows) > 0 {
		sample, err := json.MarshalIndent(result.Rows[0], "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(ui.Out, "Sample entry:\n%s\n", sample)
	}

	stats := c.Pool().Stats()
	ui.PrintInfo("pool: %d open, %d idle, %d in use", stats.OpenConnections, stats.Idle, stats.InUse)

	if showMetrics {
		return printMetrics(app)
	}
	return nil
}

func printMetrics(app *App) error {
	families, err := app.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	ui.PrintSection("Metrics")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(ui.Out, mf); err != nil {
			return err
		}
	}
	return nil
}
