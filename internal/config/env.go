package config

import (
	"regexp"
	"strings"

	"github.com/satishbabariya/moodtrack/internal/adapters/database/postgres"
)

var userinfoPassword = regexp.MustCompile(`:([^@/]+)@`)

// MaskedURL hides the password of a connection string.
func MaskedURL(raw string) string {
	return userinfoPassword.ReplaceAllString(raw, ":****@")
}

// EnvStatus is the outcome of checking one environment variable.
type EnvStatus int

const (
	// EnvSet means the variable is set and valid.
	EnvSet EnvStatus = iota
	// EnvMissing means an optional variable is unset.
	EnvMissing
	// EnvRequiredMissing means a required variable is unset.
	EnvRequiredMissing
	// EnvInvalid means the variable is set but fails validation.
	EnvInvalid
)

// EnvCheck reports on one variable.
type EnvCheck struct {
	Group    string
	Name     string
	Required bool
	Status   EnvStatus
	// Display is the value safe to print.
	Display string
}

// OK reports whether the check passes.
func (c EnvCheck) OK() bool {
	return c.Status == EnvSet || c.Status == EnvMissing
}

type envVar struct {
	group    string
	name     string
	required bool
	validate func(string) bool
}

var checkedVars = []envVar{
	{group: "Database", name: "DATABASE_URL", validate: validURL},
	{group: "Database", name: "NEON_DATABASE_URL", validate: validURL},
	{group: "Email", name: "RESEND_API_KEY", validate: func(v string) bool { return strings.HasPrefix(v, "re_") }},
	{group: "CLI", name: envPrefix + "_USER_ID"},
	{group: "CLI", name: envPrefix + "_DEBUG"},
}

func validURL(v string) bool {
	return postgres.ValidateURL(v) == nil
}

// CheckEnv reports on every variable moodtrack reads.
func (c *Config) CheckEnv() []EnvCheck {
	checks := make([]EnvCheck, 0, len(checkedVars))
	for _, ev := range checkedVars {
		check := EnvCheck{Group: ev.group, Name: ev.name, Required: ev.required}
		value, ok := c.Lookup(ev.name)
		switch {
		case !ok && ev.required:
			check.Status = EnvRequiredMissing
		case !ok:
			check.Status = EnvMissing
		case ev.validate != nil && !ev.validate(value):
			check.Status = EnvInvalid
		default:
			check.Status = EnvSet
			check.Display = displayValue(ev.name, value)
		}
		checks = append(checks, check)
	}
	return checks
}

func displayValue(name, value string) string {
	switch {
	case strings.HasSuffix(name, "_URL"):
		return MaskedURL(value)
	case strings.Contains(name, "SECRET"), strings.Contains(name, "KEY"), strings.Contains(name, "PASSWORD"):
		if len(value) <= 12 {
			return "****"
		}
		return value[:8] + "..." + value[len(value)-4:]
	}
	return value
}
