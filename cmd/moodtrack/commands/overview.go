package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/service"
)

func newOverviewCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the dashboard of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}
			moods, profile, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ov, err := service.NewDashboard(moods, profile).Overview(cmd.Context(), userID)
			if err != nil {
				return err
			}
			printOverview(userID, ov)
			return nil
		},
	}
}

func printOverview(userID string, ov service.Overview) {
	ui.PrintHeader("moodtrack", userID)

	ui.PrintSection("Mood")
	if ov.Latest == nil {
		ui.PrintInfo("no mood entries yet")
	} else {
		ui.PrintInfo("latest %s: mood %s %d, energy %s %d, stress %s %d",
			ov.Latest.CreatedAt.Local().Format("2006-01-02 15:04"),
			ui.MoodEmoji(ov.Latest.MoodLevel), ov.Latest.MoodLevel,
			ui.EnergyEmoji(ov.Latest.EnergyLevel), ov.Latest.EnergyLevel,
			ui.StressEmoji(ov.Latest.StressLevel), ov.Latest.StressLevel)
		ui.PrintInfo("%d entries, average mood %.1f", ov.Summary.Count, ov.Summary.AverageMood)
	}

	ui.PrintSection("Support")
	if ov.Therapist != nil {
		ui.PrintInfo("therapist: %s %s", ov.Therapist.Name, ov.Therapist.Phone)
	}
	for _, c := range ov.Contacts {
		ui.PrintInfo("contact: %s %s", c.Name, c.Phone)
	}
	ui.PrintInfo("%d open tasks", len(ov.OpenTasks))
	if len(ov.Appointments) > 0 {
		next := ov.Appointments[0]
		ui.PrintInfo("next appointment: %s", fmt.Sprintf("%s %s %s", next.Date, next.Time, next.Title))
	}
}
