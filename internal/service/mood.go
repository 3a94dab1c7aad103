package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/satishbabariya/moodtrack/internal/debug"
	"github.com/satishbabariya/moodtrack/internal/repository"
)

// MoodInput is a new mood rating.
type MoodInput struct {
	MoodLevel     int
	EnergyLevel   int
	StressLevel   int
	Notes         string
	CustomMetrics []repository.CustomMetric
}

// Validate checks every rating is within range.
func (in MoodInput) Validate() error {
	return errors.Join(
		checkLevel("mood_level", in.MoodLevel),
		checkLevel("energy_level", in.EnergyLevel),
		checkLevel("stress_level", in.StressLevel),
	)
}

// MoodService logs, lists and clears mood entries.
type MoodService struct {
	store *repository.Store
}

// NewMoodService creates a MoodService.
func NewMoodService(store *repository.Store) *MoodService {
	return &MoodService{store: store}
}

// LogMoodEntry stores a mood entry and then records the user. The two
// writes are independent: when the user write fails the entry is kept and
// returned together with the error.
func (s *MoodService) LogMoodEntry(ctx context.Context, userID, email string, in MoodInput) (repository.MoodEntry, error) {
	if err := required("user id", userID); err != nil {
		return repository.MoodEntry{}, err
	}
	if err := in.Validate(); err != nil {
		return repository.MoodEntry{}, err
	}

	entry, err := s.store.InsertMoodEntry(ctx, repository.MoodEntry{
		UserID:        userID,
		MoodLevel:     in.MoodLevel,
		EnergyLevel:   in.EnergyLevel,
		StressLevel:   in.StressLevel,
		Notes:         in.Notes,
		CustomMetrics: in.CustomMetrics,
	})
	if err != nil {
		return repository.MoodEntry{}, err
	}

	if _, err := s.store.UpsertUser(ctx, repository.User{ID: userID, Email: email}); err != nil {
		debug.Warn("mood entry saved without user sync", "entry", entry.ID, "error", err)
		return entry, fmt.Errorf("mood entry %s saved: %w", entry.ID, err)
	}

	debug.Debug("mood entry logged", "entry", entry.ID, "user", userID)
	return entry, nil
}

// ListMoodEntries returns the user's entries, newest first.
func (s *MoodService) ListMoodEntries(ctx context.Context, userID string) ([]repository.MoodEntry, error) {
	if err := required("user id", userID); err != nil {
		return nil, err
	}
	return s.store.ListMoodEntries(ctx, userID)
}

// GetMoodEntry returns one of the user's entries.
func (s *MoodService) GetMoodEntry(ctx context.Context, userID, entryID string) (repository.MoodEntry, error) {
	if err := required("user id", userID); err != nil {
		return repository.MoodEntry{}, err
	}
	if err := required("entry id", entryID); err != nil {
		return repository.MoodEntry{}, err
	}
	entry, err := s.store.GetMoodEntry(ctx, userID, entryID)
	if err != nil {
		return repository.MoodEntry{}, err
	}
	if entry == nil {
		return repository.MoodEntry{}, fmt.Errorf("mood entry %s: %w", entryID, ErrNotFound)
	}
	return *entry, nil
}

// UpdateMoodNotes replaces the notes of one entry. Empty notes clear them.
func (s *MoodService) UpdateMoodNotes(ctx context.Context, userID, entryID, notes string) (repository.MoodEntry, error) {
	if err := required("user id", userID); err != nil {
		return repository.MoodEntry{}, err
	}
	if err := required("entry id", entryID); err != nil {
		return repository.MoodEntry{}, err
	}
	entry, err := s.store.UpdateMoodNotes(ctx, userID, entryID, notes)
	if err != nil {
		return repository.MoodEntry{}, err
	}
	if entry == nil {
		return repository.MoodEntry{}, fmt.Errorf("mood entry %s: %w", entryID, ErrNotFound)
	}
	return *entry, nil
}

// DeleteAllMoodEntries removes every entry of the user.
func (s *MoodService) DeleteAllMoodEntries(ctx context.Context, userID string) error {
	if err := required("user id", userID); err != nil {
		return err
	}
	return s.store.DeleteMoodEntries(ctx, userID)
}

// Summary aggregates a list of entries.
type Summary struct {
	Count         int
	AverageMood   float64
	AverageEnergy float64
	AverageStress float64
	Latest        time.Time
}

// Summarize averages the ratings of entries.
func Summarize(entries []repository.MoodEntry) Summary {
	var sum Summary
	if len(entries) == 0 {
		return sum
	}
	for _, e := range entries {
		sum.AverageMood += float64(e.MoodLevel)
		sum.AverageEnergy += float64(e.EnergyLevel)
		sum.AverageStress += float64(e.StressLevel)
		if e.CreatedAt.After(sum.Latest) {
			sum.Latest = e.CreatedAt
		}
	}
	n := float64(len(entries))
	sum.Count = len(entries)
	sum.AverageMood /= n
	sum.AverageEnergy /= n
	sum.AverageStress /= n
	return sum
}
