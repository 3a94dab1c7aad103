// Package ui renders command output for the moodtrack CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Output destinations. Tests replace them.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

func terminalWidth() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 120 {
		return w
	}
	return 80
}

// PrintHeader prints a boxed title.
func PrintHeader(title, subtitle string) {
	header := lipgloss.NewStyle().
		Width(terminalWidth()-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			TitleStyle.Render(title),
			SecondaryStyle.Render(subtitle),
		))
	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message to Err.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintStep prints a step indicator
func PrintStep(step, total int, message string) {
	fmt.Fprintf(Out, "%s %s\n", SecondaryStyle.Render(fmt.Sprintf("[%d/%d]", step, total)), message)
}

// PrintSection prints an underlined section title.
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)
	fmt.Fprintln(Out, section)
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	text, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, text)
	return nil
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// SQLMarkdown formats a statement and its arguments as markdown.
func SQLMarkdown(query string, args []interface{}) string {
	var b strings.Builder
	b.WriteString("```sql\n")
	b.WriteString(query)
	b.WriteString("\n```\n")
	if len(args) > 0 {
		b.WriteString("\n| # | value |\n|---|---|\n")
		for i, arg := range args {
			fmt.Fprintf(&b, "| $%d | `%v` |\n", i+1, arg)
		}
	}
	return b.String()
}

// PrintSQL renders a compiled statement with its arguments.
func PrintSQL(query string, args []interface{}) error {
	out, err := RenderMarkdown(SQLMarkdown(query, args))
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// Status printers used for checklists.
var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// Status is the outcome shown next to a checklist line.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// PrintCheck prints one checklist line.
func PrintCheck(status Status, label, detail string) {
	var mark string
	switch status {
	case StatusOK:
		mark = okColor.Sprint("✓")
	case StatusWarn:
		mark = warnColor.Sprint("⚠")
	default:
		mark = failColor.Sprint("✗")
	}
	if detail != "" {
		fmt.Fprintf(Out, "  %s %s: %s\n", mark, label, detail)
		return
	}
	fmt.Fprintf(Out, "  %s %s\n", mark, label)
}

// MoodEmoji maps a 1..10 mood rating to an emoji.
func MoodEmoji(level int) string {
	switch {
	case level <= 3:
		return "😢"
	case level <= 5:
		return "😐"
	case level <= 7:
		return "🙂"
	default:
		return "😄"
	}
}

// EnergyEmoji maps a 1..10 energy rating to an emoji.
func EnergyEmoji(level int) string {
	switch {
	case level <= 3:
		return "🔋"
	case level <= 6:
		return "⚡"
	default:
		return "⚡⚡"
	}
}

// StressEmoji maps a 1..10 stress rating to an emoji.
func StressEmoji(level int) string {
	switch {
	case level <= 3:
		return "😌"
	case level <= 6:
		return "😰"
	default:
		return "🤯"
	}
}
