// Package commands implements the moodtrack CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/config"
	"github.com/satishbabariya/moodtrack/internal/debug"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/internal/service"
	"github.com/satishbabariya/moodtrack/pkg/client"
)

// errNoUser is returned by commands that act on a user when none is set.
var errNoUser = errors.New("no user selected: pass --user or set MOODTRACK_USER_ID")

// App carries state shared by the commands of one invocation.
type App struct {
	UserID string
	Debug  bool

	// Load reads the configuration. Tests replace it.
	Load func() (*config.Config, error)

	cfg      *config.Config
	registry *prometheus.Registry
}

// NewRootCommand creates the moodtrack command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&App{Load: config.Load})
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "moodtrack",
		Short: "Mood tracking backend",
		Long: `moodtrack records mood, energy and stress ratings together with
emergency contacts, therapist details, tasks and appointments.

Without DATABASE_URL (or NEON_DATABASE_URL) every database command runs in
mock mode and reports "database not configured".`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	root.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&app.UserID, "user", "u", "", "User id (default $MOODTRACK_USER_ID)")

	root.AddCommand(NewVersionCommand())
	root.AddCommand(newCheckEnvCommand(app))
	root.AddCommand(newVerifyCommand(app))
	root.AddCommand(newSchemaCommand(app))
	root.AddCommand(newMoodCommand(app))
	root.AddCommand(newContactsCommand(app))
	root.AddCommand(newTherapistCommand(app))
	root.AddCommand(newTasksCommand(app))
	root.AddCommand(newAppointmentsCommand(app))
	root.AddCommand(newSettingsCommand(app))
	root.AddCommand(newOverviewCommand(app))
	root.AddCommand(newQueryCommand(app))

	return root
}

func (a *App) init() error {
	cfg, err := a.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	debug.Init(a.Debug || cfg.Debug)
	if a.UserID == "" {
		a.UserID = cfg.UserID
	}
	return nil
}

func (a *App) user() (string, error) {
	if a.UserID == "" {
		return "", errNoUser
	}
	return a.UserID, nil
}

// connect creates a client for the loaded configuration. The client is in
// mock mode when no database URL is set.
func (a *App) connect(ctx context.Context) (*client.Client, error) {
	a.registry = prometheus.NewRegistry()
	c, err := client.New(ctx, a.cfg,
		client.WithLogger(debug.Logger()),
		client.WithQueryLogging(debug.Enabled()),
		client.WithSchema(repository.Schema()),
		client.WithMetrics(a.registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return c, nil
}

// services wires the mood and profile services over a new client. The
// returned func closes the client.
func (a *App) services(ctx context.Context) (*service.MoodService, *service.ProfileService, func(), error) {
	c, err := a.connect(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	store := repository.New(c.Executor())
	closeFn := func() {
		if err := c.Close(); err != nil {
			debug.Warn("failed to close client", "error", err)
		}
	}
	return service.NewMoodService(store), service.NewProfileService(store), closeFn, nil
}
