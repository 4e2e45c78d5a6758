package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FaneD1/Pomadoro/go/internal/db"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// CreateSessionParams carries the fields needed to persist a new session.
type CreateSessionParams struct {
	UserID          uuid.UUID
	TaskID          *uuid.UUID
	Status          models.TimerStatus
	Phase           models.TimerPhase
	StartTime       *int64
	DurationSeconds int
}

// Repository implements timer session data access on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new timer repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `id, user_id, task_id, status, phase, start_time, duration_seconds, created_at`

// GetCurrentSession returns the user's most recently created session, or
// (nil, nil) when they have none yet. The id tiebreak keeps the choice
// stable when two rows share a creation timestamp.
func (r *Repository) GetCurrentSession(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	query := `
        SELECT ` + sessionColumns + `
        FROM timer_sessions
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `

	var session models.TimerSession
	if err := db.Get(ctx, r.pool, &session, query, userID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}

	return &session, nil
}

// CreateSession inserts a new session row.
func (r *Repository) CreateSession(ctx context.Context, params CreateSessionParams) (*models.TimerSession, error) {
	session := &models.TimerSession{
		ID:              uuid.New(),
		UserID:          params.UserID,
		TaskID:          params.TaskID,
		Status:          params.Status,
		Phase:           params.Phase,
		StartTime:       params.StartTime,
		DurationSeconds: params.DurationSeconds,
		CreatedAt:       time.Now().UTC(),
	}

	query := `
        INSERT INTO timer_sessions (id, user_id, task_id, status, phase, start_time, duration_seconds, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := db.Exec(ctx, r.pool, query,
		session.ID, session.UserID, session.TaskID, session.Status,
		session.Phase, session.StartTime, session.DurationSeconds, session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// StartSession rewrites a session for a start transition: running status,
// fresh start time and budget, the given phase, and the caller's active
// task (or none).
func (r *Repository) StartSession(ctx context.Context, id uuid.UUID, phase models.TimerPhase, startTime int64, durationSeconds int, taskID *uuid.UUID) (*models.TimerSession, error) {
	query := `
        UPDATE timer_sessions
        SET status = $2, phase = $3, start_time = $4, duration_seconds = $5, task_id = $6
        WHERE id = $1
        RETURNING ` + sessionColumns

	var session models.TimerSession
	if err := db.Get(ctx, r.pool, &session, query, id, models.TimerRunning, phase, startTime, durationSeconds, taskID); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return &session, nil
}

// SetSessionStatus flips only the status, leaving start_time and
// duration_seconds as-is (pause and stop both rely on this).
func (r *Repository) SetSessionStatus(ctx context.Context, id uuid.UUID, status models.TimerStatus) (*models.TimerSession, error) {
	query := `
        UPDATE timer_sessions
        SET status = $2
        WHERE id = $1
        RETURNING ` + sessionColumns

	var session models.TimerSession
	if err := db.Get(ctx, r.pool, &session, query, id, status); err != nil {
		return nil, fmt.Errorf("failed to set session status: %w", err)
	}

	return &session, nil
}

// ResumeSession rewrites the reconciled start time and budget and flips the
// session back to running.
func (r *Repository) ResumeSession(ctx context.Context, id uuid.UUID, startTime int64, durationSeconds int) (*models.TimerSession, error) {
	query := `
        UPDATE timer_sessions
        SET status = $2, start_time = $3, duration_seconds = $4
        WHERE id = $1
        RETURNING ` + sessionColumns

	var session models.TimerSession
	if err := db.Get(ctx, r.pool, &session, query, id, models.TimerRunning, startTime, durationSeconds); err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}

	return &session, nil
}
