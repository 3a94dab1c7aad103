package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/moodtrack/internal/cli/ui"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/internal/service"
)

// Prompt hooks. Tests replace them.
var (
	askMood    = surveyMood
	askConfirm = surveyConfirm
)

func newMoodCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Log and review mood entries",
	}
	cmd.AddCommand(newMoodLogCommand(app))
	cmd.AddCommand(newMoodListCommand(app))
	cmd.AddCommand(newMoodShowCommand(app))
	cmd.AddCommand(newMoodNoteCommand(app))
	cmd.AddCommand(newMoodClearCommand(app))
	return cmd
}

func newMoodLogCommand(app *App) *cobra.Command {
	var in service.MoodInput
	var email string
	var metrics []string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a mood entry",
		Long: `Log mood, energy and stress ratings from 1 to 10. Ratings not given as
flags are asked for interactively.`,
		Example: `  moodtrack mood log --mood 7 --energy 6 --stress 3 --notes "slept well"
  moodtrack mood log --metric sleep=8 --metric appetite=5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}

			var missing []string
			for _, name := range ratingFlags {
				if !cmd.Flags().Changed(name) {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				if err := askMood(&in, missing); err != nil {
					return err
				}
			}
			if in.CustomMetrics, err = parseMetrics(metrics); err != nil {
				return err
			}

			moods, _, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := moods.LogMoodEntry(cmd.Context(), userID, email, in)
			if entry.ID != "" {
				ui.PrintSuccess("logged %s mood %d, %s energy %d, %s stress %d",
					ui.MoodEmoji(entry.MoodLevel), entry.MoodLevel,
					ui.EnergyEmoji(entry.EnergyLevel), entry.EnergyLevel,
					ui.StressEmoji(entry.StressLevel), entry.StressLevel)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&in.MoodLevel, "mood", 0, "Mood rating (1-10)")
	flags.IntVar(&in.EnergyLevel, "energy", 0, "Energy rating (1-10)")
	flags.IntVar(&in.StressLevel, "stress", 0, "Stress rating (1-10)")
	flags.StringVar(&in.Notes, "notes", "", "Free-form notes")
	flags.StringVar(&email, "email", "", "Email recorded for the user")
	flags.StringArrayVar(&metrics, "metric", nil, "Custom rating as name=value (repeatable)")

	return cmd
}

var ratingFlags = []string{"mood", "energy", "stress"}

func parseMetrics(raw []string) ([]repository.CustomMetric, error) {
	var out []repository.CustomMetric
	for _, m := range raw {
		name, value, ok := strings.Cut(m, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("metric %q: want name=value", m)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", m, err)
		}
		out = append(out, repository.CustomMetric{Name: name, Value: n})
	}
	return out, nil
}

func newMoodListCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mood entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}
			moods, _, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := moods.ListMoodEntries(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(ui.Out).Encode(entries)
			}
			return printMoodEntries(entries)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func printMoodEntries(entries []repository.MoodEntry) error {
	if len(entries) == 0 {
		ui.PrintInfo("no mood entries yet")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%s %d", ui.MoodEmoji(e.MoodLevel), e.MoodLevel),
			fmt.Sprintf("%s %d", ui.EnergyEmoji(e.EnergyLevel), e.EnergyLevel),
			fmt.Sprintf("%s %d", ui.StressEmoji(e.StressLevel), e.StressLevel),
			e.Notes,
		})
	}
	if err := ui.PrintTable([]string{"When", "Mood", "Energy", "Stress", "Notes"}, rows); err != nil {
		return err
	}

	sum := service.Summarize(entries)
	ui.PrintInfo("%d entries, average mood %.1f, energy %.1f, stress %.1f",
		sum.Count, sum.AverageMood, sum.AverageEnergy, sum.AverageStress)
	return nil
}

func newMoodShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one mood entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}
			moods, _, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := moods.GetMoodEntry(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			printMoodEntry(entry)
			return nil
		},
	}
}

func newMoodNoteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> [notes]",
		Short: "Replace the notes of a mood entry",
		Long:  "Replace the notes of a mood entry. Without notes the existing notes are cleared.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}
			notes := ""
			if len(args) == 2 {
				notes = args[1]
			}
			moods, _, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := moods.UpdateMoodNotes(cmd.Context(), userID, args[0], notes)
			if err != nil {
				return err
			}
			ui.PrintSuccess("updated notes of %s", entry.ID)
			return nil
		},
	}
}

func printMoodEntry(e repository.MoodEntry) {
	ui.PrintSection(e.CreatedAt.Local().Format("2006-01-02 15:04"))
	ui.PrintInfo("mood %s %d, energy %s %d, stress %s %d",
		ui.MoodEmoji(e.MoodLevel), e.MoodLevel,
		ui.EnergyEmoji(e.EnergyLevel), e.EnergyLevel,
		ui.StressEmoji(e.StressLevel), e.StressLevel)
	if e.Notes != "" {
		ui.PrintInfo("notes: %s", e.Notes)
	}
	for _, m := range e.CustomMetrics {
		ui.PrintInfo("%s: %d", m.Name, m.Value)
	}
}

func newMoodClearCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all mood entries of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.user()
			if err != nil {
				return err
			}
			if !yes {
				ok, err := askConfirm(fmt.Sprintf("Delete all mood entries of %s?", userID))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintInfo("nothing deleted")
					return nil
				}
			}

			moods, _, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := moods.DeleteAllMoodEntries(cmd.Context(), userID); err != nil {
				return err
			}
			ui.PrintSuccess("deleted all mood entries")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func levelValidator(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if n < service.MinLevel || n > service.MaxLevel {
		return fmt.Errorf("enter a number from %d to %d", service.MinLevel, service.MaxLevel)
	}
	return nil
}

var ratingPrompts = map[string]string{
	"mood":   "Mood (1 bad - 10 good):",
	"energy": "Energy (1 low - 10 high):",
	"stress": "Stress (1 low - 10 high):",
}

// surveyMood asks for the named ratings and, when unset, the notes.
func surveyMood(in *service.MoodInput, ratings []string) error {
	answers := map[string]interface{}{}
	qs := make([]*survey.Question, 0, len(ratings)+1)
	for _, name := range ratings {
		qs = append(qs, &survey.Question{
			Name:     name,
			Prompt:   &survey.Input{Message: ratingPrompts[name], Default: "5"},
			Validate: levelValidator,
		})
	}
	if in.Notes == "" {
		qs = append(qs, &survey.Question{Name: "notes", Prompt: &survey.Input{Message: "Notes:"}})
	}
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}

	level := func(name string, dst *int) {
		if s, ok := answers[name].(string); ok {
			*dst, _ = strconv.Atoi(strings.TrimSpace(s))
		}
	}
	level("mood", &in.MoodLevel)
	level("energy", &in.EnergyLevel)
	level("stress", &in.StressLevel)
	if notes, ok := answers["notes"].(string); ok && notes != "" {
		in.Notes = notes
	}
	return nil
}

func surveyConfirm(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message}, &ok)
	return ok, err
}
