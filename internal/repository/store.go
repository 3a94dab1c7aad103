package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/satishbabariya/moodtrack/internal/core/query/builder"
	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// Executor resolves queries. *executor.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, q domain.Query) domain.Result
}

// Store reads and writes the mood-tracking tables.
type Store struct {
	exec  Executor
	newID func() string
}

// New creates a store resolving queries with exec.
func New(exec Executor) *Store {
	return &Store{exec: exec, newID: uuid.NewString}
}

func (s *Store) run(ctx context.Context, op string, b builder.Builder) (domain.Result, error) {
	result := s.exec.Execute(ctx, b.Query())
	if err := result.AsError(); err != nil {
		return result, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func decodeRows[T any](rows []domain.Record, decode func(domain.Record) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeSingle decodes a Single result; a missing row gives nil.
func decodeSingle[T any](result domain.Result, decode func(domain.Record) (T, error)) (*T, error) {
	if result.Row == nil {
		return nil, nil
	}
	v, err := decode(result.Row)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeReturned decodes the first RETURNING row, or returns fallback when
// the statement returned nothing.
func decodeReturned[T any](result domain.Result, decode func(domain.Record) (T, error), fallback T) (T, error) {
	if len(result.Rows) == 0 {
		return fallback, nil
	}
	return decode(result.Rows[0])
}

// UpsertUser creates the user or refreshes its email and name. Empty fields
// leave the stored values untouched.
func (s *Store) UpsertUser(ctx context.Context, u User) (User, error) {
	rec := domain.Record{"id": u.ID}
	if u.Email != "" {
		rec["email"] = u.Email
	}
	if u.Name != "" {
		rec["name"] = u.Name
	}
	result, err := s.run(ctx, "upsert user", builder.ForTable(TableUsers).Upsert(rec))
	if err != nil {
		return User{}, err
	}
	return decodeReturned(result, decodeUser, u)
}

// InsertMoodEntry stores e, assigning an id when it has none.
func (s *Store) InsertMoodEntry(ctx context.Context, e MoodEntry) (MoodEntry, error) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	rec, err := e.record()
	if err != nil {
		return MoodEntry{}, err
	}
	result, err := s.run(ctx, "insert mood entry", builder.ForTable(TableMoodEntries).Insert(rec))
	if err != nil {
		return MoodEntry{}, err
	}
	return decodeReturned(result, decodeMoodEntry, e)
}

// ListMoodEntries returns the user's entries, newest first.
func (s *Store) ListMoodEntries(ctx context.Context, userID string) ([]MoodEntry, error) {
	result, err := s.run(ctx, "list mood entries", builder.ForTable(TableMoodEntries).
		Select().
		Eq("user_id", userID).
		Order("created_at", false))
	if err != nil {
		return nil, err
	}
	return decodeRows(result.Rows, decodeMoodEntry)
}

// GetMoodEntry returns one of the user's entries, or nil.
func (s *Store) GetMoodEntry(ctx context.Context, userID, id string) (*MoodEntry, error) {
	result, err := s.run(ctx, "get mood entry", builder.ForTable(TableMoodEntries).
		Select().
		Eq("id", id).
		Eq("user_id", userID).
		Single())
	if err != nil {
		return nil, err
	}
	return decodeSingle(result, decodeMoodEntry)
}

// UpdateMoodNotes replaces the notes of one entry. It returns nil when the
// user has no such entry.
func (s *Store) UpdateMoodNotes(ctx context.Context, userID, id, notes string) (*MoodEntry, error) {
	result, err := s.run(ctx, "update mood entry", builder.ForTable(TableMoodEntries).
		Update(domain.Record{"notes": nullable(notes)}).
		Eq("id", id).
		Eq("user_id", userID))
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, nil
	}
	entry, err := decodeMoodEntry(result.Rows[0])
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteMoodEntries removes every entry of the user.
func (s *Store) DeleteMoodEntries(ctx context.Context, userID string) error {
	_, err := s.run(ctx, "delete mood entries", builder.ForTable(TableMoodEntries).
		Delete().
		Eq("user_id", userID))
	return err
}

// GetSettings returns the user's settings, or nil when none are stored.
func (s *Store) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	result, err := s.run(ctx, "get settings", builder.ForTable(TableUserSettings).
		Select().
		Eq("user_id", userID).
		Single())
	if err != nil {
		return nil, err
	}
	return decodeSingle(result, decodeSettings)
}

// UpsertSettings stores the user's settings.
func (s *Store) UpsertSettings(ctx context.Context, settings Settings) (Settings, error) {
	result, err := s.run(ctx, "upsert settings", builder.ForTable(TableUserSettings).Upsert(settings.record()))
	if err != nil {
		return Settings{}, err
	}
	return decodeReturned(result, decodeSettings, settings)
}

// ListEmergencyContacts returns the user's contacts in creation order.
func (s *Store) ListEmergencyContacts(ctx context.Context, userID string) ([]EmergencyContact, error) {
	result, err := s.run(ctx, "list emergency contacts", builder.ForTable(TableEmergencyContacts).
		Select().
		Eq("user_id", userID).
		Order("created_at", true))
	if err != nil {
		return nil, err
	}
	return decodeRows(result.Rows, decodeEmergencyContact)
}

// InsertEmergencyContact stores c, assigning an id when it has none.
func (s *Store) InsertEmergencyContact(ctx context.Context, c EmergencyContact) (EmergencyContact, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	result, err := s.run(ctx, "insert emergency contact", builder.ForTable(TableEmergencyContacts).Insert(c.record()))
	if err != nil {
		return EmergencyContact{}, err
	}
	return decodeReturned(result, decodeEmergencyContact, c)
}

// DeleteEmergencyContact removes one of the user's contacts.
func (s *Store) DeleteEmergencyContact(ctx context.Context, userID, id string) error {
	_, err := s.run(ctx, "delete emergency contact", builder.ForTable(TableEmergencyContacts).
		Delete().
		Eq("id", id).
		Eq("user_id", userID))
	return err
}

// GetTherapistInfo returns the user's therapist, or nil.
func (s *Store) GetTherapistInfo(ctx context.Context, userID string) (*TherapistInfo, error) {
	result, err := s.run(ctx, "get therapist info", builder.ForTable(TableTherapistInfo).
		Select().
		Eq("user_id", userID).
		Single())
	if err != nil {
		return nil, err
	}
	return decodeSingle(result, decodeTherapistInfo)
}

// UpsertTherapistInfo stores the user's therapist.
func (s *Store) UpsertTherapistInfo(ctx context.Context, info TherapistInfo) (TherapistInfo, error) {
	result, err := s.run(ctx, "upsert therapist info", builder.ForTable(TableTherapistInfo).Upsert(info.record()))
	if err != nil {
		return TherapistInfo{}, err
	}
	return decodeReturned(result, decodeTherapistInfo, info)
}

// ListTherapistTasks returns the user's tasks, newest first.
func (s *Store) ListTherapistTasks(ctx context.Context, userID string) ([]TherapistTask, error) {
	result, err := s.run(ctx, "list therapist tasks", builder.ForTable(TableTherapistTasks).
		Select().
		Eq("user_id", userID).
		Order("created_at", false))
	if err != nil {
		return nil, err
	}
	return decodeRows(result.Rows, decodeTherapistTask)
}

// InsertTherapistTask stores t, assigning an id when it has none.
func (s *Store) InsertTherapistTask(ctx context.Context, t TherapistTask) (TherapistTask, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	result, err := s.run(ctx, "insert therapist task", builder.ForTable(TableTherapistTasks).Insert(t.record()))
	if err != nil {
		return TherapistTask{}, err
	}
	return decodeReturned(result, decodeTherapistTask, t)
}

// SetTaskCompleted marks one task done or open. It returns nil when the
// user has no such task.
func (s *Store) SetTaskCompleted(ctx context.Context, userID, id string, completed bool) (*TherapistTask, error) {
	result, err := s.run(ctx, "update therapist task", builder.ForTable(TableTherapistTasks).
		Update(domain.Record{"completed": completed}).
		Eq("id", id).
		Eq("user_id", userID))
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, nil
	}
	task, err := decodeTherapistTask(result.Rows[0])
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAppointments returns the user's appointments by date.
func (s *Store) ListAppointments(ctx context.Context, userID string) ([]Appointment, error) {
	result, err := s.run(ctx, "list appointments", builder.ForTable(TableAppointments).
		Select().
		Eq("user_id", userID).
		Order("date", true))
	if err != nil {
		return nil, err
	}
	return decodeRows(result.Rows, decodeAppointment)
}

// InsertAppointment stores a, assigning an id when it has none.
func (s *Store) InsertAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	if a.ID == "" {
		a.ID = s.newID()
	}
	result, err := s.run(ctx, "insert appointment", builder.ForTable(TableAppointments).Insert(a.record()))
	if err != nil {
		return Appointment{}, err
	}
	return decodeReturned(result, decodeAppointment, a)
}
