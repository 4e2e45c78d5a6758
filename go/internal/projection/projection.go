package projection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/timer"
)

// UserInfo is the partner-visible slice of a user.
type UserInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SessionView is a timer session plus the remaining budget computed at
// projection time. Remaining is derived, never stored.
type SessionView struct {
	models.TimerSession
	RemainingSeconds int `json:"remaining_seconds"`
}

// Snapshot is the outward-facing state pushed to every room member and
// served on the partner read path.
type Snapshot struct {
	User         UserInfo     `json:"user"`
	ActiveTask   *models.Task `json:"activeTask"`
	TimerSession *SessionView `json:"timerSession"`
}

// UserGetter resolves the projected user.
type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ActiveTaskGetter resolves the projected user's active task.
type ActiveTaskGetter interface {
	GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error)
}

// SessionGetter resolves the projected user's current timer session.
type SessionGetter interface {
	GetCurrentSession(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
}

// App assembles snapshots. Everything is read fresh from the store on each
// call, no caching, so a broadcast always carries current state.
type App struct {
	users    UserGetter
	tasks    ActiveTaskGetter
	sessions SessionGetter
	clock    clockwork.Clock
}

// NewApp creates a new projection App.
func NewApp(users UserGetter, tasks ActiveTaskGetter, sessions SessionGetter, clock clockwork.Clock) *App {
	return &App{users: users, tasks: tasks, sessions: sessions, clock: clock}
}

// Snapshot builds the {user, activeTask, timerSession} view for a user.
// ActiveTask and TimerSession are null (not zero-valued) when absent.
func (a *App) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to project user: %w", err)
	}

	activeTask, err := a.tasks.GetActiveTask(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to project active task: %w", err)
	}

	session, err := a.sessions.GetCurrentSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to project timer session: %w", err)
	}

	snapshot := &Snapshot{
		User:       UserInfo{ID: user.ID, Name: user.Name},
		ActiveTask: activeTask,
	}
	if session != nil {
		snapshot.TimerSession = &SessionView{
			TimerSession:     *session,
			RemainingSeconds: timer.Remaining(session, a.clock.Now()),
		}
	}

	return snapshot, nil
}
