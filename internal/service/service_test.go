package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
	"github.com/satishbabariya/moodtrack/internal/core/query/executor"
	"github.com/satishbabariya/moodtrack/internal/repository"
	"github.com/satishbabariya/moodtrack/internal/service"
)

// scriptedExecutor answers queries in order and records them.
type scriptedExecutor struct {
	results []domain.Result
	queries []domain.Query
}

func (s *scriptedExecutor) Execute(_ context.Context, q domain.Query) domain.Result {
	s.queries = append(s.queries, q)
	if len(s.results) == 0 {
		return domain.Success(q.Single, nil)
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func TestLogMoodEntry(t *testing.T) {
	exec := &scriptedExecutor{}
	moods := service.NewMoodService(repository.New(exec))

	entry, err := moods.LogMoodEntry(context.Background(), "user_1", "a@b.c", service.MoodInput{
		MoodLevel: 7, EnergyLevel: 6, StressLevel: 3, Notes: "fine",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	require.Len(t, exec.queries, 2)
	assert.Equal(t, repository.TableMoodEntries, exec.queries[0].Table)
	assert.Equal(t, domain.Insert, exec.queries[0].Operation)
	assert.Equal(t, repository.TableUsers, exec.queries[1].Table)
	assert.Equal(t, domain.Upsert, exec.queries[1].Operation)
	assert.Equal(t, "a@b.c", exec.queries[1].Payload["email"])
}

func TestLogMoodEntry_UserSyncFailureKeepsEntry(t *testing.T) {
	exec := &scriptedExecutor{results: []domain.Result{
		domain.Success(false, nil),
		domain.Failure(domain.NewError(domain.KindDriver, errors.New("connection reset"))),
	}}
	moods := service.NewMoodService(repository.New(exec))

	entry, err := moods.LogMoodEntry(context.Background(), "user_1", "", service.MoodInput{
		MoodLevel: 5, EnergyLevel: 5, StressLevel: 5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotEmpty(t, entry.ID, "the inserted entry is returned")
}

func TestLogMoodEntry_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		in     service.MoodInput
		want   error
	}{
		{"mood too low", "user_1", service.MoodInput{MoodLevel: 0, EnergyLevel: 5, StressLevel: 5}, service.ErrInvalidLevel},
		{"stress too high", "user_1", service.MoodInput{MoodLevel: 5, EnergyLevel: 5, StressLevel: 11}, service.ErrInvalidLevel},
		{"missing user", "", service.MoodInput{MoodLevel: 5, EnergyLevel: 5, StressLevel: 5}, service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &scriptedExecutor{}
			_, err := service.NewMoodService(repository.New(exec)).LogMoodEntry(context.Background(), tt.userID, "", tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, exec.queries, "invalid input issues no query")
		})
	}
}

func TestMoodService_NotConfigured(t *testing.T) {
	moods := service.NewMoodService(repository.New(executor.Mock()))

	_, err := moods.ListMoodEntries(context.Background(), "user_1")
	require.Error(t, err)
	assert.True(t, domain.IsNotConfigured(err))

	err = moods.DeleteAllMoodEntries(context.Background(), "user_1")
	assert.True(t, domain.IsNotConfigured(err))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, service.Summary{}, service.Summarize(nil))

	latest := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	sum := service.Summarize([]repository.MoodEntry{
		{MoodLevel: 8, EnergyLevel: 4, StressLevel: 2, CreatedAt: latest},
		{MoodLevel: 6, EnergyLevel: 6, StressLevel: 5, CreatedAt: latest.Add(-24 * time.Hour)},
	})
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 7.0, sum.AverageMood, 0.001)
	assert.InDelta(t, 5.0, sum.AverageEnergy, 0.001)
	assert.InDelta(t, 3.5, sum.AverageStress, 0.001)
	assert.Equal(t, latest, sum.Latest)
}

func TestGetSettings_Defaults(t *testing.T) {
	profile := service.NewProfileService(repository.New(&scriptedExecutor{}))

	settings, err := profile.GetSettings(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, service.DefaultSettings("user_1"), settings)
}

func TestUpdateSettings_RejectsTheme(t *testing.T) {
	profile := service.NewProfileService(repository.New(&scriptedExecutor{}))

	_, err := profile.UpdateSettings(context.Background(), repository.Settings{UserID: "user_1", Theme: "neon"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestToggleTherapistTask(t *testing.T) {
	ctx := context.Background()

	missing := service.NewProfileService(repository.New(&scriptedExecutor{}))
	_, err := missing.ToggleTherapistTask(ctx, "user_1", "t1", true)
	require.ErrorIs(t, err, service.ErrNotFound)

	found := service.NewProfileService(repository.New(&scriptedExecutor{results: []domain.Result{
		domain.Success(false, []domain.Record{{"id": "t1", "user_id": "user_1", "title": "Journal", "completed": true}}),
	}}))
	task, err := found.ToggleTherapistTask(ctx, "user_1", "t1", true)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, "Journal", task.Title)
}

func TestGetMoodEntry(t *testing.T) {
	ctx := context.Background()

	missing := service.NewMoodService(repository.New(&scriptedExecutor{}))
	_, err := missing.GetMoodEntry(ctx, "user_1", "m1")
	require.ErrorIs(t, err, service.ErrNotFound)

	exec := &scriptedExecutor{results: []domain.Result{
		domain.Success(true, []domain.Record{{"id": "m1", "user_id": "user_1", "mood_level": int64(6), "notes": "ok"}}),
	}}
	entry, err := service.NewMoodService(repository.New(exec)).GetMoodEntry(ctx, "user_1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 6, entry.MoodLevel)
	assert.Equal(t, "ok", entry.Notes)
	assert.True(t, exec.queries[0].Single)

	_, err = missing.GetMoodEntry(ctx, "user_1", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestUpdateMoodNotes(t *testing.T) {
	ctx := context.Background()

	missing := service.NewMoodService(repository.New(&scriptedExecutor{}))
	_, err := missing.UpdateMoodNotes(ctx, "user_1", "m1", "better")
	require.ErrorIs(t, err, service.ErrNotFound)

	exec := &scriptedExecutor{results: []domain.Result{
		domain.Success(false, []domain.Record{{"id": "m1", "user_id": "user_1", "notes": "better"}}),
	}}
	entry, err := service.NewMoodService(repository.New(exec)).UpdateMoodNotes(ctx, "user_1", "m1", "better")
	require.NoError(t, err)
	assert.Equal(t, "better", entry.Notes)
	assert.Equal(t, domain.Update, exec.queries[0].Operation)
	assert.Equal(t, "better", exec.queries[0].Payload["notes"])
}

func TestProfileValidation(t *testing.T) {
	ctx := context.Background()
	exec := &scriptedExecutor{}
	profile := service.NewProfileService(repository.New(exec))

	_, err := profile.AddEmergencyContact(ctx, repository.EmergencyContact{UserID: "user_1", Name: "Mom"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = profile.UpdateTherapistInfo(ctx, repository.TherapistInfo{UserID: "user_1", Phone: "050"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = profile.AddTherapistTask(ctx, "user_1", "", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = profile.AddAppointment(ctx, repository.Appointment{UserID: "user_1", Title: "Session", Date: "02/06/2024"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = profile.AddAppointment(ctx, repository.Appointment{UserID: "user_1", Title: "Session", Date: "2024-06-02", Time: "25:00"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	assert.Empty(t, exec.queries)

	a, err := profile.AddAppointment(ctx, repository.Appointment{UserID: "user_1", Title: "Session", Date: "2024-06-02", Time: "10:30"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, repository.TableAppointments, exec.queries[0].Table)
}

// tableExecutor answers by table and is safe for concurrent use.
type tableExecutor struct {
	mu     sync.Mutex
	rows   map[string][]domain.Record
	fail   string
	tables []string
}

func (e *tableExecutor) Execute(_ context.Context, q domain.Query) domain.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables = append(e.tables, q.Table)
	if q.Table == e.fail {
		return domain.Failure(domain.NewError(domain.KindDriver, errors.New("relation does not exist")))
	}
	return domain.Success(q.Single, e.rows[q.Table])
}

func newDashboard(exec repository.Executor) *service.Dashboard {
	store := repository.New(exec)
	return service.NewDashboard(service.NewMoodService(store), service.NewProfileService(store))
}

func TestDashboardOverview(t *testing.T) {
	latest := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	exec := &tableExecutor{rows: map[string][]domain.Record{
		repository.TableMoodEntries: {
			{"id": "m2", "mood_level": int64(8), "energy_level": int64(6), "stress_level": int64(2), "created_at": latest},
			{"id": "m1", "mood_level": int64(4), "energy_level": int64(4), "stress_level": int64(6), "created_at": latest.Add(-time.Hour)},
		},
		repository.TableTherapistTasks: {
			{"id": "t1", "title": "Journal", "completed": true},
			{"id": "t2", "title": "Walk", "completed": false},
		},
		repository.TableTherapistInfo: {{"user_id": "user_1", "name": "Dr. Levi"}},
		repository.TableEmergencyContacts: {{"id": "c1", "name": "Mom", "phone": "050"}},
	}}

	ov, err := newDashboard(exec).Overview(context.Background(), "user_1")
	require.NoError(t, err)

	assert.Len(t, exec.tables, 6)
	assert.Equal(t, 2, ov.Summary.Count)
	assert.InDelta(t, 6.0, ov.Summary.AverageMood, 0.001)
	require.NotNil(t, ov.Latest)
	assert.Equal(t, "m2", ov.Latest.ID)
	assert.Equal(t, service.DefaultSettings("user_1"), ov.Settings)
	require.NotNil(t, ov.Therapist)
	assert.Equal(t, "Dr. Levi", ov.Therapist.Name)
	require.Len(t, ov.OpenTasks, 1)
	assert.Equal(t, "Walk", ov.OpenTasks[0].Title)
	assert.Len(t, ov.Contacts, 1)
	assert.Empty(t, ov.Appointments)
}

func TestDashboardOverview_Failure(t *testing.T) {
	exec := &tableExecutor{fail: repository.TableAppointments}

	_, err := newDashboard(exec).Overview(context.Background(), "user_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list appointments")

	_, err = newDashboard(executor.Mock()).Overview(context.Background(), "user_1")
	assert.True(t, domain.IsNotConfigured(err))
}
