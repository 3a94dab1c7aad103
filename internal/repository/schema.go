// Package repository maps the mood-tracking tables to typed records. Every
// statement is built with the query builder; nothing here writes SQL except
// the schema DDL.
package repository

import (
	"context"
	"fmt"

	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/core/query/compiler"
)

// Table names.
const (
	TableUsers             = "users"
	TableUserSettings      = "user_settings"
	TableMoodEntries       = "mood_entries"
	TableEmergencyContacts = "emergency_contacts"
	TableTherapistInfo     = "therapist_info"
	TableTherapistTasks    = "therapist_tasks"
	TableAppointments      = "appointments"
)

// Migration is one named group of DDL statements.
type Migration struct {
	Name       string
	Statements []string
}

// Migrations create the schema. Every statement is idempotent. user_id
// columns are TEXT because identity-provider ids are not UUIDs, and every
// table keys on a single id column so that upserts conflict on id.
var Migrations = []Migration{
	{
		Name: "001_users_and_moods",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT,
  name TEXT,
  created_at TIMESTAMPTZ DEFAULT NOW(),
  updated_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE TABLE IF NOT EXISTS mood_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  mood_level INTEGER NOT NULL CHECK (mood_level BETWEEN 1 AND 10),
  energy_level INTEGER NOT NULL CHECK (energy_level BETWEEN 1 AND 10),
  stress_level INTEGER NOT NULL CHECK (stress_level BETWEEN 1 AND 10),
  notes TEXT,
  custom_metrics JSONB,
  created_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE INDEX IF NOT EXISTS idx_mood_entries_user_id ON mood_entries(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_mood_entries_created_at ON mood_entries(created_at DESC)`,
		},
	},
	{
		Name: "002_settings_and_contacts",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS user_settings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  theme TEXT DEFAULT 'system',
  language TEXT DEFAULT 'he',
  notifications BOOLEAN DEFAULT TRUE,
  daily_reminders BOOLEAN DEFAULT TRUE,
  updated_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE TABLE IF NOT EXISTS emergency_contacts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  relation TEXT,
  created_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE INDEX IF NOT EXISTS idx_emergency_contacts_user_id ON emergency_contacts(user_id)`,
		},
	},
	{
		Name: "003_therapist",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS therapist_info (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  created_at TIMESTAMPTZ DEFAULT NOW(),
  updated_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE TABLE IF NOT EXISTS therapist_tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  completed BOOLEAN DEFAULT FALSE,
  created_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE TABLE IF NOT EXISTS appointments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  date DATE NOT NULL,
  time TEXT,
  notes TEXT,
  created_at TIMESTAMPTZ DEFAULT NOW()
)`,
			`CREATE INDEX IF NOT EXISTS idx_therapist_tasks_user_id ON therapist_tasks(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_user_id ON appointments(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
		},
	},
}

// ApplyFunc is called after each migration is applied.
type ApplyFunc func(m Migration)

// Apply runs every migration in order and stops at the first failure.
func Apply(ctx context.Context, db database.Execer, onApplied ApplyFunc) error {
	for _, m := range Migrations {
		for i, stmt := range m.Statements {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s statement %d: %w", m.Name, i+1, err)
			}
		}
		if onApplied != nil {
			onApplied(m)
		}
	}
	return nil
}

// Schema returns the allow-list of every table and column above.
func Schema() *compiler.Schema {
	return compiler.NewSchema().
		Table(TableUsers, "id", "email", "name", "created_at", "updated_at").
		Table(TableMoodEntries, "id", "user_id", "mood_level", "energy_level", "stress_level",
			"notes", "custom_metrics", "created_at").
		Table(TableUserSettings, "id", "user_id", "theme", "language", "notifications",
			"daily_reminders", "updated_at").
		Table(TableEmergencyContacts, "id", "user_id", "name", "phone", "relation", "created_at").
		Table(TableTherapistInfo, "id", "user_id", "name", "phone", "email", "created_at", "updated_at").
		Table(TableTherapistTasks, "id", "user_id", "title", "description", "completed", "created_at").
		Table(TableAppointments, "id", "user_id", "title", "date", "time", "notes", "created_at")
}
