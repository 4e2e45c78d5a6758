package timer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// DefaultDurationSeconds is the classic 25-minute work budget used when a
// session is lazily created or start is called without a duration.
const DefaultDurationSeconds = 1500

// SessionRepository defines what the app layer needs from the repository.
type SessionRepository interface {
	GetCurrentSession(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
	CreateSession(ctx context.Context, params CreateSessionParams) (*models.TimerSession, error)
	StartSession(ctx context.Context, id uuid.UUID, phase models.TimerPhase, startTime int64, durationSeconds int, taskID *uuid.UUID) (*models.TimerSession, error)
	SetSessionStatus(ctx context.Context, id uuid.UUID, status models.TimerStatus) (*models.TimerSession, error)
	ResumeSession(ctx context.Context, id uuid.UUID, startTime int64, durationSeconds int) (*models.TimerSession, error)
}

// ActiveTaskGetter resolves the task a starting session gets attached to.
type ActiveTaskGetter interface {
	GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error)
}

// App governs timer state transitions. All wall-clock reads go through the
// injected clock so transitions stay testable.
type App struct {
	repo  SessionRepository
	tasks ActiveTaskGetter
	clock clockwork.Clock
}

// NewApp creates a new timer App.
func NewApp(repo SessionRepository, tasks ActiveTaskGetter, clock clockwork.Clock) *App {
	return &App{repo: repo, tasks: tasks, clock: clock}
}

// Get returns the user's current session, lazily creating a stopped work
// session on first read.
func (a *App) Get(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	session, err := a.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session != nil {
		return session, nil
	}

	session, err = a.repo.CreateSession(ctx, CreateSessionParams{
		UserID:          userID,
		Status:          models.TimerStopped,
		Phase:           models.PhaseWork,
		DurationSeconds: DefaultDurationSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create initial session: %w", err)
	}
	return session, nil
}

// Start moves the session to running from any state. The start timestamp
// and budget are rewritten, the phase is set, and the caller's currently
// active task (or none) is attached. Inserts a row only when the user has
// no session yet.
func (a *App) Start(ctx context.Context, userID uuid.UUID, phase models.TimerPhase, durationSeconds int) (*models.TimerSession, error) {
	if phase != models.PhaseWork && phase != models.PhaseBreak {
		return nil, fmt.Errorf("phase must be work or break: %w", apperrors.ErrValidation)
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", apperrors.ErrValidation)
	}

	activeTask, err := a.tasks.GetActiveTask(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active task: %w", err)
	}
	var taskID *uuid.UUID
	if activeTask != nil {
		taskID = &activeTask.ID
	}

	now := a.clock.Now().UnixMilli()

	session, err := a.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session == nil {
		session, err = a.repo.CreateSession(ctx, CreateSessionParams{
			UserID:          userID,
			TaskID:          taskID,
			Status:          models.TimerRunning,
			Phase:           phase,
			StartTime:       &now,
			DurationSeconds: durationSeconds,
		})
	} else {
		session, err = a.repo.StartSession(ctx, session.ID, phase, now, durationSeconds, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("phase", string(phase)).
		Int("duration_seconds", durationSeconds).
		Msg("timer started")

	return session, nil
}

// Pause flips a running session to paused. The stale start_time and budget
// are left untouched; resume reconciles them.
func (a *App) Pause(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	session, err := a.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.Status != models.TimerRunning {
		return nil, fmt.Errorf("timer is not running: %w", apperrors.ErrInvalidTransition)
	}

	session, err = a.repo.SetSessionStatus(ctx, session.ID, models.TimerPaused)
	if err != nil {
		return nil, fmt.Errorf("failed to pause timer: %w", err)
	}
	return session, nil
}

// Resume moves a paused session back to running, backdating start_time so
// the remaining budget picks up where the pause left off.
func (a *App) Resume(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	session, err := a.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.Status != models.TimerPaused {
		return nil, fmt.Errorf("timer is not paused: %w", apperrors.ErrInvalidTransition)
	}

	startTime, remaining := Reconcile(session, a.clock.Now())

	session, err = a.repo.ResumeSession(ctx, session.ID, startTime, remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to resume timer: %w", err)
	}
	return session, nil
}

// Stop moves the session to stopped from any state.
func (a *App) Stop(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	session, err := a.repo.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("no timer session: %w", apperrors.ErrNotFound)
	}

	session, err = a.repo.SetSessionStatus(ctx, session.ID, models.TimerStopped)
	if err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}
	return session, nil
}
