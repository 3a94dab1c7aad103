package service

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/moodtrack/internal/repository"
)

// DefaultSettings are returned for users who never saved settings.
func DefaultSettings(userID string) repository.Settings {
	return repository.Settings{
		UserID:         userID,
		Theme:          "system",
		Language:       "he",
		Notifications:  true,
		DailyReminders: true,
	}
}

// ProfileService manages settings, emergency contacts, the therapist,
// therapist tasks and appointments.
type ProfileService struct {
	store *repository.Store
}

// NewProfileService creates a ProfileService.
func NewProfileService(store *repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

// GetSettings returns the stored settings or the defaults.
func (s *ProfileService) GetSettings(ctx context.Context, userID string) (repository.Settings, error) {
	if err := required("user id", userID); err != nil {
		return repository.Settings{}, err
	}
	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return repository.Settings{}, err
	}
	if settings == nil {
		return DefaultSettings(userID), nil
	}
	return *settings, nil
}

// UpdateSettings replaces the user's settings.
func (s *ProfileService) UpdateSettings(ctx context.Context, settings repository.Settings) (repository.Settings, error) {
	if err := required("user id", settings.UserID); err != nil {
		return repository.Settings{}, err
	}
	switch settings.Theme {
	case "", "system", "light", "dark":
	default:
		return repository.Settings{}, fmt.Errorf("theme %q: %w", settings.Theme, ErrInvalidInput)
	}
	return s.store.UpsertSettings(ctx, settings)
}

// ListEmergencyContacts returns the user's contacts.
func (s *ProfileService) ListEmergencyContacts(ctx context.Context, userID string) ([]repository.EmergencyContact, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return s.store.ListEmergencyContacts(ctx, userID)
}

// AddEmergencyContact stores a new contact.
func (s *ProfileService) AddEmergencyContact(ctx context.Context, c repository.EmergencyContact) (repository.EmergencyContact, error) {
	for _, check := range []error{
		required("user id", c.UserID),
		required("name", c.Name),
		required("phone", c.Phone),
	} {
		if check != nil {
			return repository.EmergencyContact{}, check
		}
	}
	return s.store.InsertEmergencyContact(ctx, c)
}

// DeleteEmergencyContact removes one of the user's contacts.
func (s *ProfileService) DeleteEmergencyContact(ctx context.Context, userID, contactID string) error {
	if err := required("user id", userID); err != nil {
		return err
	}
	if err := required("contact id", contactID); err != nil {
		return err
	}
	return s.store.DeleteEmergencyContact(ctx, userID, contactID)
}

// GetTherapistInfo returns the user's therapist, or nil when none is stored.
func (s *ProfileService) GetTherapistInfo(ctx context.Context, userID string) (*repository.TherapistInfo, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return s.store.GetTherapistInfo(ctx, userID)
}

// UpdateTherapistInfo replaces the user's therapist.
func (s *ProfileService) UpdateTherapistInfo(ctx context.Context, info repository.TherapistInfo) (repository.TherapistInfo, error) {
	for _, check := range []error{
		required("user id", info.UserID),
		required("name", info.Name),
		required("phone", info.Phone),
	} {
		if check != nil {
			return repository.TherapistInfo{}, check
		}
	}
	return s.store.UpsertTherapistInfo(ctx, info)
}

// ListTherapistTasks returns the user's tasks.
func (s *ProfileService) ListTherapistTasks(ctx context.Context, userID string) ([]repository.TherapistTask, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return s.store.ListTherapistTasks(ctx, userID)
}

// AddTherapistTask stores a new open task.
func (s *ProfileService) AddTherapistTask(ctx context.Context, userID, title, description string) (repository.TherapistTask, error) {
	if err := required("user id", userID); err != nil {
		return repository.TherapistTask{}, err
	}
	if err := required("title", title); err != nil {
		return repository.TherapistTask{}, err
	}
	return s.store.InsertTherapistTask(ctx, repository.TherapistTask{
		UserID:      userID,
		Title:       title,
		Description: description,
	})
}

// ToggleTherapistTask sets the completion state of a task.
func (s *ProfileService) ToggleTherapistTask(ctx context.Context, userID, taskID string, completed bool) (repository.TherapistTask, error) {
	if err := required("task id", taskID); err != nil {
		return repository.TherapistTask{}, err
	}
	task, err := s.store.SetTaskCompleted(ctx, userID, taskID, completed)
	if err != nil {
		return repository.TherapistTask{}, err
	}
	if task == nil {
		return repository.TherapistTask{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return *task, nil
}

// ListAppointments returns the user's appointments by date.
func (s *ProfileService) ListAppointments(ctx context.Context, userID string) ([]repository.Appointment, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return s.store.ListAppointments(ctx, userID)
}

// AddAppointment stores a new appointment. Date must be YYYY-MM-DD and
// Time, when set, HH:MM.
func (s *ProfileService) AddAppointment(ctx context.Context, a repository.Appointment) (repository.Appointment, error) {
	for _, check := range []error{
		required("user id", a.UserID),
		required("title", a.Title),
		required("date", a.Date),
	} {
		if check != nil {
			return repository.Appointment{}, check
		}
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return repository.Appointment{}, fmt.Errorf("date %q: %w", a.Date, ErrInvalidInput)
	}
	if a.Time != "" {
		if _, err := time.Parse("15:04", a.Time); err != nil {
			return repository.Appointment{}, fmt.Errorf("time %q: %w", a.Time, ErrInvalidInput)
		}
	}
	return s.store.InsertAppointment(ctx, a)
}
