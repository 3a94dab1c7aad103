package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/satishbabariya/moodtrack/internal/repository"
)

// Overview is everything the dashboard shows for one user.
type Overview struct {
	Summary      Summary
	Latest       *repository.MoodEntry
	Settings     repository.Settings
	Contacts     []repository.EmergencyContact
	Therapist    *repository.TherapistInfo
	OpenTasks    []repository.TherapistTask
	Appointments []repository.Appointment
}

// Dashboard reads the user's data in parallel. The first failing read
// cancels the others and its error is returned.
type Dashboard struct {
	moods   *MoodService
	profile *ProfileService
}

// NewDashboard creates a Dashboard over the mood and profile services.
func NewDashboard(moods *MoodService, profile *ProfileService) *Dashboard {
	return &Dashboard{moods: moods, profile: profile}
}

// Overview loads the dashboard of userID.
func (d *Dashboard) Overview(ctx context.Context, userID string) (Overview, error) {
	if err := required("user id", userID); err != nil {
		return Overview{}, err
	}

	var (
		ov      Overview
		entries []repository.MoodEntry
		tasks   []repository.TherapistTask
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entries, err = d.moods.ListMoodEntries(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		ov.Settings, err = d.profile.GetSettings(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		ov.Contacts, err = d.profile.ListEmergencyContacts(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		ov.Therapist, err = d.profile.GetTherapistInfo(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = d.profile.ListTherapistTasks(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		ov.Appointments, err = d.profile.ListAppointments(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	ov.Summary = Summarize(entries)
	if len(entries) > 0 {
		ov.Latest = &entries[0]
	}
	for _, t := range tasks {
		if !t.Completed {
			ov.OpenTasks = append(ov.OpenTasks, t)
		}
	}
	return ov, nil
}
