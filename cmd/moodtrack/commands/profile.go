package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/internal/service"
)

// withProfile runs fn with the profile service of the selected user.
func withProfile(app *App, cmd *cobra.Command, fn func(ctx context.Context, userID string, p *service.ProfileService) error) error {
	userID, err := app.user()
	if err != nil {
		return err
	}
	_, profile, closeFn, err := app.services(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(cmd.Context(), userID, profile)
}

func newContactsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage emergency contacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, listContacts)
		},
	}

	var contact repository.EmergencyContact
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an emergency contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				contact.UserID = userID
				saved, err := p.AddEmergencyContact(ctx, contact)
				if err != nil {
					return err
				}
				ui.PrintSuccess("added %s (%s)", saved.Name, saved.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&contact.Name, "name", "", "Contact name")
	add.Flags().StringVar(&contact.Phone, "phone", "", "Phone number")
	add.Flags().StringVar(&contact.Relation, "relation", "", "Relation to the user")

	remove := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an emergency contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				if err := p.DeleteEmergencyContact(ctx, userID, args[0]); err != nil {
					return err
				}
				ui.PrintSuccess("removed %s", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func listContacts(ctx context.Context, userID string, p *service.ProfileService) error {
	contacts, err := p.ListEmergencyContacts(ctx, userID)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		ui.PrintInfo("no emergency contacts")
		return nil
	}
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{c.ID, c.Name, c.Phone, c.Relation})
	}
	return ui.PrintTable([]string{"ID", "Name", "Phone", "Relation"}, rows)
}

func newTherapistCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "therapist",
		Short: "Show or set therapist details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				info, err := p.GetTherapistInfo(ctx, userID)
				if err != nil {
					return err
				}
				if info == nil {
					ui.PrintInfo("no therapist set")
					return nil
				}
				return ui.PrintTable([]string{"Name", "Phone", "Email"}, [][]string{{info.Name, info.Phone, info.Email}})
			})
		},
	}

	var info repository.TherapistInfo
	set := &cobra.Command{
		Use:   "set",
		Short: "Set therapist details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				info.UserID = userID
				saved, err := p.UpdateTherapistInfo(ctx, info)
				if err != nil {
					return err
				}
				ui.PrintSuccess("therapist set to %s", saved.Name)
				return nil
			})
		},
	}
	set.Flags().StringVar(&info.Name, "name", "", "Therapist name")
	set.Flags().StringVar(&info.Phone, "phone", "", "Phone number")
	set.Flags().StringVar(&info.Email, "email", "", "Email address")

	cmd.AddCommand(set)
	return cmd
}

func newTasksCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks from the therapist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, listTasks)
		},
	}

	var description string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				task, err := p.AddTherapistTask(ctx, userID, args[0], description)
				if err != nil {
					return err
				}
				ui.PrintSuccess("added task %s", task.ID)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "Task description")

	cmd.AddCommand(add, toggleTaskCommand(app, "done", true), toggleTaskCommand(app, "undo", false))
	return cmd
}

func toggleTaskCommand(app *App, use string, completed bool) *cobra.Command {
	short := "Mark a task done"
	if !completed {
		short = "Mark a task open"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				task, err := p.ToggleTherapistTask(ctx, userID, args[0], completed)
				if err != nil {
					return err
				}
				ui.PrintSuccess("%s: %s", task.Title, taskState(task.Completed))
				return nil
			})
		},
	}
}

func taskState(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}

func listTasks(ctx context.Context, userID string, p *service.ProfileService) error {
	tasks, err := p.ListTherapistTasks(ctx, userID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ui.PrintInfo("no tasks")
		return nil
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.ID, t.Title, t.Description, taskState(t.Completed)})
	}
	return ui.PrintTable([]string{"ID", "Title", "Description", "State"}, rows)
}

func newAppointmentsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appointment"},
		Short:   "Manage appointments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				appointments, err := p.ListAppointments(ctx, userID)
				if err != nil {
					return err
				}
				if len(appointments) == 0 {
					ui.PrintInfo("no appointments")
					return nil
				}
				rows := make([][]string, 0, len(appointments))
				for _, a := range appointments {
					rows = append(rows, []string{a.Date, a.Time, a.Title, a.Notes})
				}
				return ui.PrintTable([]string{"Date", "Time", "Title", "Notes"}, rows)
			})
		},
	}

	var a repository.Appointment
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				a.UserID, a.Title = userID, args[0]
				saved, err := p.AddAppointment(ctx, a)
				if err != nil {
					return err
				}
				ui.PrintSuccess("added %s on %s", saved.Title, saved.Date)
				return nil
			})
		},
	}
	add.Flags().StringVar(&a.Date, "date", "", "Date as YYYY-MM-DD")
	add.Flags().StringVar(&a.Time, "time", "", "Time as HH:MM")
	add.Flags().StringVar(&a.Notes, "notes", "", "Notes")

	cmd.AddCommand(add)
	return cmd
}

func newSettingsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				s, err := p.GetSettings(ctx, userID)
				if err != nil {
					return err
				}
				return printSettings(s)
			})
		},
	}

	var theme, language string
	var notifications, reminders bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Change user settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(app, cmd, func(ctx context.Context, userID string, p *service.ProfileService) error {
				s, err := p.GetSettings(ctx, userID)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("theme") {
					s.Theme = theme
				}
				if flags.Changed("language") {
					s.Language = language
				}
				if flags.Changed("notifications") {
					s.Notifications = notifications
				}
				if flags.Changed("reminders") {
					s.DailyReminders = reminders
				}
				saved, err := p.UpdateSettings(ctx, s)
				if err != nil {
					return err
				}
				return printSettings(saved)
			})
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "system, light or dark")
	set.Flags().StringVar(&language, "language", "", "Interface language")
	set.Flags().BoolVar(&notifications, "notifications", true, "Enable notifications")
	set.Flags().BoolVar(&reminders, "reminders", true, "Enable daily reminders")

	cmd.AddCommand(set)
	return cmd
}

func printSettings(s repository.Settings) error {
	return ui.PrintTable([]string{"Setting", "Value"}, [][]string{
		{"theme", s.Theme},
		{"language", s.Language},
		{"notifications", fmt.Sprint(s.Notifications)},
		{"daily reminders", fmt.Sprint(s.DailyReminders)},
	})
}
