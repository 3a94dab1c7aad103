package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// User is a row of users.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomMetric is a user-defined rating stored with a mood entry.
type CustomMetric struct {
	Name      string `json:"name"`
	Value     int    `json:"value"`
	LowLabel  string `json:"lowLabel,omitempty"`
	HighLabel string `json:"highLabel,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
}

// MoodEntry is a row of mood_entries.
type MoodEntry struct {
	ID            string
	UserID        string
	MoodLevel     int
	EnergyLevel   int
	StressLevel   int
	Notes         string
	CustomMetrics []CustomMetric
	CreatedAt     time.Time
}

// Settings is a row of user_settings.
type Settings struct {
	UserID         string
	Theme          string
	Language       string
	Notifications  bool
	DailyReminders bool
	UpdatedAt      time.Time
}

// EmergencyContact is a row of emergency_contacts.
type EmergencyContact struct {
	ID        string
	UserID    string
	Name      string
	Phone     string
	Relation  string
	CreatedAt time.Time
}

// TherapistInfo is a row of therapist_info.
type TherapistInfo struct {
	UserID    string
	Name      string
	Phone     string
	Email     string
	UpdatedAt time.Time
}

// TherapistTask is a row of therapist_tasks.
type TherapistTask struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// Appointment is a row of appointments. Date is YYYY-MM-DD and Time is HH:MM.
type Appointment struct {
	ID        string
	UserID    string
	Title     string
	Date      string
	Time      string
	Notes     string
	CreatedAt time.Time
}

const dateLayout = "2006-01-02"

func decodeUser(r domain.Record) (User, error) {
	return User{
		ID:        str(r, "id"),
		Email:     str(r, "email"),
		Name:      str(r, "name"),
		CreatedAt: timestamp(r, "created_at"),
		UpdatedAt: timestamp(r, "updated_at"),
	}, nil
}

func (e MoodEntry) record() (domain.Record, error) {
	rec := domain.Record{
		"id":           e.ID,
		"user_id":      e.UserID,
		"mood_level":   e.MoodLevel,
		"energy_level": e.EnergyLevel,
		"stress_level": e.StressLevel,
		"notes":        nullable(e.Notes),
	}
	if len(e.CustomMetrics) > 0 {
		metrics, err := json.Marshal(e.CustomMetrics)
		if err != nil {
			return nil, fmt.Errorf("failed to encode custom metrics: %w", err)
		}
		rec["custom_metrics"] = string(metrics)
	}
	return rec, nil
}

func decodeMoodEntry(r domain.Record) (MoodEntry, error) {
	e := MoodEntry{
		ID:          str(r, "id"),
		UserID:      str(r, "user_id"),
		MoodLevel:   integer(r, "mood_level"),
		EnergyLevel: integer(r, "energy_level"),
		StressLevel: integer(r, "stress_level"),
		Notes:       str(r, "notes"),
		CreatedAt:   timestamp(r, "created_at"),
	}
	if raw := str(r, "custom_metrics"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &e.CustomMetrics); err != nil {
			return MoodEntry{}, fmt.Errorf("mood entry %s: failed to decode custom metrics: %w", e.ID, err)
		}
	}
	return e, nil
}

func (s Settings) record() domain.Record {
	return domain.Record{
		"id":              s.UserID,
		"user_id":         s.UserID,
		"theme":           nullable(s.Theme),
		"language":        nullable(s.Language),
		"notifications":   s.Notifications,
		"daily_reminders": s.DailyReminders,
		"updated_at":      time.Now().UTC(),
	}
}

func decodeSettings(r domain.Record) (Settings, error) {
	return Settings{
		UserID:         str(r, "user_id"),
		Theme:          str(r, "theme"),
		Language:       str(r, "language"),
		Notifications:  boolean(r, "notifications"),
		DailyReminders: boolean(r, "daily_reminders"),
		UpdatedAt:      timestamp(r, "updated_at"),
	}, nil
}

func (c EmergencyContact) record() domain.Record {
	return domain.Record{
		"id":       c.ID,
		"user_id":  c.UserID,
		"name":     c.Name,
		"phone":    c.Phone,
		"relation": nullable(c.Relation),
	}
}

func decodeEmergencyContact(r domain.Record) (EmergencyContact, error) {
	return EmergencyContact{
		ID:        str(r, "id"),
		UserID:    str(r, "user_id"),
		Name:      str(r, "name"),
		Phone:     str(r, "phone"),
		Relation:  str(r, "relation"),
		CreatedAt: timestamp(r, "created_at"),
	}, nil
}

func (t TherapistInfo) record() domain.Record {
	return domain.Record{
		"id":         t.UserID,
		"user_id":    t.UserID,
		"name":       t.Name,
		"phone":      t.Phone,
		"email":      nullable(t.Email),
		"updated_at": time.Now().UTC(),
	}
}

func decodeTherapistInfo(r domain.Record) (TherapistInfo, error) {
	return TherapistInfo{
		UserID:    str(r, "user_id"),
		Name:      str(r, "name"),
		Phone:     str(r, "phone"),
		Email:     str(r, "email"),
		UpdatedAt: timestamp(r, "updated_at"),
	}, nil
}

func (t TherapistTask) record() domain.Record {
	return domain.Record{
		"id":          t.ID,
		"user_id":     t.UserID,
		"title":       t.Title,
		"description": nullable(t.Description),
		"completed":   t.Completed,
	}
}

func decodeTherapistTask(r domain.Record) (TherapistTask, error) {
	return TherapistTask{
		ID:          str(r, "id"),
		UserID:      str(r, "user_id"),
		Title:       str(r, "title"),
		Description: str(r, "description"),
		Completed:   boolean(r, "completed"),
		CreatedAt:   timestamp(r, "created_at"),
	}, nil
}

func (a Appointment) record() domain.Record {
	return domain.Record{
		"id":      a.ID,
		"user_id": a.UserID,
		"title":   a.Title,
		"date":    a.Date,
		"time":    nullable(a.Time),
		"notes":   nullable(a.Notes),
	}
}

func decodeAppointment(r domain.Record) (Appointment, error) {
	date := str(r, "date")
	if t, ok := r["date"].(time.Time); ok {
		date = t.Format(dateLayout)
	}
	return Appointment{
		ID:        str(r, "id"),
		UserID:    str(r, "user_id"),
		Title:     str(r, "title"),
		Date:      date,
		Time:      str(r, "time"),
		Notes:     str(r, "notes"),
		CreatedAt: timestamp(r, "created_at"),
	}, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func str(r domain.Record, key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func integer(r domain.Record, key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func boolean(r domain.Record, key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	dateLayout,
}

func timestamp(r domain.Record, key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
