package timer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

type fakeSessionRepo struct {
	sessions []*models.TimerSession
}

func (r *fakeSessionRepo) GetCurrentSession(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	var current *models.TimerSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			current = s
		}
	}
	return current, nil
}

func (r *fakeSessionRepo) CreateSession(ctx context.Context, params CreateSessionParams) (*models.TimerSession, error) {
	session := &models.TimerSession{
		ID:              uuid.New(),
		UserID:          params.UserID,
		TaskID:          params.TaskID,
		Status:          params.Status,
		Phase:           params.Phase,
		StartTime:       params.StartTime,
		DurationSeconds: params.DurationSeconds,
		CreatedAt:       time.Now(),
	}
	r.sessions = append(r.sessions, session)
	return session, nil
}

func (r *fakeSessionRepo) find(id uuid.UUID) *models.TimerSession {
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *fakeSessionRepo) StartSession(ctx context.Context, id uuid.UUID, phase models.TimerPhase, startTime int64, durationSeconds int, taskID *uuid.UUID) (*models.TimerSession, error) {
	s := r.find(id)
	s.Status = models.TimerRunning
	s.Phase = phase
	s.StartTime = &startTime
	s.DurationSeconds = durationSeconds
	s.TaskID = taskID
	return s, nil
}

func (r *fakeSessionRepo) SetSessionStatus(ctx context.Context, id uuid.UUID, status models.TimerStatus) (*models.TimerSession, error) {
	s := r.find(id)
	s.Status = status
	return s, nil
}

func (r *fakeSessionRepo) ResumeSession(ctx context.Context, id uuid.UUID, startTime int64, durationSeconds int) (*models.TimerSession, error) {
	s := r.find(id)
	s.Status = models.TimerRunning
	s.StartTime = &startTime
	s.DurationSeconds = durationSeconds
	return s, nil
}

type fakeActiveTask struct {
	task *models.Task
}

func (f *fakeActiveTask) GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error) {
	return f.task, nil
}

func newTestApp(active *models.Task) (*App, *fakeSessionRepo, *clockwork.FakeClock) {
	repo := &fakeSessionRepo{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	app := NewApp(repo, &fakeActiveTask{task: active}, clock)
	return app, repo, clock
}

func TestGet_LazilyCreatesStoppedWorkSession(t *testing.T) {
	app, repo, _ := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	session, err := app.Get(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, models.TimerStopped, session.Status)
	assert.Equal(t, models.PhaseWork, session.Phase)
	assert.Equal(t, DefaultDurationSeconds, session.DurationSeconds)
	assert.Nil(t, session.StartTime)
	assert.Len(t, repo.sessions, 1)

	// A second read reuses the same row.
	again, err := app.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestStart_AttachesActiveTaskAndSetsStartTime(t *testing.T) {
	task := &models.Task{ID: uuid.New(), Title: "focus", IsActive: true}
	app, _, clock := newTestApp(task)
	ctx := context.Background()
	userID := uuid.New()

	session, err := app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)

	assert.Equal(t, models.TimerRunning, session.Status)
	require.NotNil(t, session.StartTime)
	assert.Equal(t, clock.Now().UnixMilli(), *session.StartTime)
	require.NotNil(t, session.TaskID)
	assert.Equal(t, task.ID, *session.TaskID)
}

func TestStart_ReusesExistingRowFromAnyState(t *testing.T) {
	app, repo, _ := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := app.Get(ctx, userID) // creates the stopped row
	require.NoError(t, err)

	session, err := app.Start(ctx, userID, models.PhaseBreak, 300)
	require.NoError(t, err)
	assert.Len(t, repo.sessions, 1)
	assert.Equal(t, models.PhaseBreak, session.Phase)
	assert.Equal(t, 300, session.DurationSeconds)

	// Start is never guarded by current state: restarting while running
	// just rewrites the row.
	session, err = app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)
	assert.Len(t, repo.sessions, 1)
	assert.Equal(t, models.PhaseWork, session.Phase)
	assert.Equal(t, 1500, session.DurationSeconds)
}

func TestStart_RejectsBadInput(t *testing.T) {
	app, _, _ := newTestApp(nil)
	ctx := context.Background()

	_, err := app.Start(ctx, uuid.New(), "lunch", 1500)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = app.Start(ctx, uuid.New(), models.PhaseWork, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPause_OnlyFromRunning(t *testing.T) {
	app, _, _ := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	// No session at all.
	_, err := app.Pause(ctx, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)

	session, err := app.Pause(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TimerPaused, session.Status)

	// Pausing twice is illegal.
	_, err = app.Pause(ctx, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestPause_LeavesStartTimeAndBudgetStale(t *testing.T) {
	app, _, clock := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	started, err := app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)
	originalStart := *started.StartTime

	clock.Advance(10 * time.Second)
	paused, err := app.Pause(ctx, userID)
	require.NoError(t, err)

	require.NotNil(t, paused.StartTime)
	assert.Equal(t, originalStart, *paused.StartTime)
	assert.Equal(t, 1500, paused.DurationSeconds)
}

func TestResume_OnlyFromPaused(t *testing.T) {
	app, _, _ := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := app.Resume(ctx, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)

	_, err = app.Resume(ctx, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestPauseResume_PreservesRemainingBudget(t *testing.T) {
	app, _, clock := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	// Start a 1500s work session at t=0, pause at t=10.
	_, err := app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	paused, err := app.Pause(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1490, Remaining(paused, clock.Now()))

	// Resume immediately: no wall clock has passed, remaining unchanged.
	resumed, err := app.Resume(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1490, resumed.DurationSeconds)
	assert.Equal(t, 1490, Remaining(resumed, clock.Now()))

	// Five seconds later the budget drains normally.
	clock.Advance(5 * time.Second)
	assert.Equal(t, 1485, Remaining(resumed, clock.Now()))
}

func TestStop_FromAnyState(t *testing.T) {
	app, _, _ := newTestApp(nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := app.Start(ctx, userID, models.PhaseWork, 1500)
	require.NoError(t, err)

	session, err := app.Stop(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TimerStopped, session.Status)

	// Stopping a stopped session is still legal.
	session, err = app.Stop(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TimerStopped, session.Status)
}

func TestStop_WithoutSessionIsNotFound(t *testing.T) {
	app, _, _ := newTestApp(nil)

	_, err := app.Stop(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
