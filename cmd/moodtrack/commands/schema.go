package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/pkg/client"
)

func newSchemaCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create missing tables and indexes",
		Long: `Create the moodtrack tables and indexes. Every statement is idempotent,
so running apply against an up to date database changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			return runSchemaApply(ctx, app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sql",
		Short: "Print the DDL without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range repository.Migrations {
				ui.PrintSection(m.Name)
				if err := ui.PrintSQL(strings.Join(m.Statements, ";\n\n")+";", nil); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return cmd
}

func runSchemaApply(ctx context.Context, app *App) error {
	c, err := app.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.Mocked() {
		return fmt.Errorf("schema apply: %w", client.ErrNotConfigured)
	}

	total := len(repository.Migrations)
	step := 0
	err = repository.Apply(ctx, c.Pool(), func(m repository.Migration) {
		step++
		ui.PrintStep(step, total, m.Name)
	})
	if err != nil {
		return err
	}
	ui.PrintSuccess("schema is up to date")
	return nil
}
