package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/projection"
)

// PairingApp resolves an invite code into a paired user.
type PairingApp interface {
	Resolve(ctx context.Context, inviteCode, name string) (*models.User, error)
}

// UsersApp covers identity resolution and partner lookup.
type UsersApp interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetPartner(ctx context.Context, user *models.User) (*models.User, error)
}

// TasksApp covers the task operations the HTTP surface exposes.
type TasksApp interface {
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	CreateTask(ctx context.Context, userID uuid.UUID, title string) (*models.Task, error)
	ActivateTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*models.Task, error)
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) error
}

// TimerApp covers the timer lifecycle operations.
type TimerApp interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
	Start(ctx context.Context, userID uuid.UUID, phase models.TimerPhase, durationSeconds int) (*models.TimerSession, error)
	Pause(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
	Resume(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
	Stop(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error)
}

// ProjectionApp builds the state snapshot served on the partner read path.
type ProjectionApp interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*projection.Snapshot, error)
}

// Notifier queues a realtime state push for a user's room. Every task and
// timer mutation goes through it.
type Notifier interface {
	NotifyUserState(ctx context.Context, userID uuid.UUID)
}

// API is the HTTP surface of the service.
type API struct {
	pairing    PairingApp
	users      UsersApp
	tasks      TasksApp
	timer      TimerApp
	projection ProjectionApp
	notifier   Notifier

	defaultDurationSeconds int
}

// NewAPI creates the HTTP API.
func NewAPI(pairing PairingApp, users UsersApp, tasks TasksApp, timer TimerApp, proj ProjectionApp, notifier Notifier, defaultDurationSeconds int) *API {
	return &API{
		pairing:                pairing,
		users:                  users,
		tasks:                  tasks,
		timer:                  timer,
		projection:             proj,
		notifier:               notifier,
		defaultDurationSeconds: defaultDurationSeconds,
	}
}

// Routes assembles the /api router.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/auth/login", a.handleLogin)
	r.Post("/auth/logout", a.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(a.requireAuth)

		r.Get("/auth/me", a.handleMe)
		r.Get("/partner/state", a.handlePartnerState)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.handleListTasks)
			r.Post("/", a.handleCreateTask)
			r.Post("/{taskID}/activate", a.handleActivateTask)
			r.Delete("/{taskID}", a.handleDeleteTask)
		})

		r.Route("/timer", func(r chi.Router) {
			r.Get("/", a.handleGetTimer)
			r.Post("/start", a.handleStartTimer)
			r.Post("/pause", a.handlePauseTimer)
			r.Post("/resume", a.handleResumeTimer)
			r.Post("/stop", a.handleStopTimer)
		})
	})

	return r
}

// notify queues a room broadcast for the user after a successful mutation.
func (a *API) notify(r *http.Request, userID uuid.UUID) {
	a.notifier.NotifyUserState(r.Context(), userID)
}
