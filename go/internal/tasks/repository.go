package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FaneD1/Pomadoro/go/internal/db"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// Repository implements task data access on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new tasks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListTasks returns all tasks owned by the user, newest first.
func (r *Repository) ListTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `
        SELECT id, user_id, title, is_active, created_at
        FROM tasks
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	var tasks []*models.Task
	if err := db.Select(ctx, r.pool, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask inserts a new inactive task for the user.
func (r *Repository) CreateTask(ctx context.Context, userID uuid.UUID, title string) (*models.Task, error) {
	task := &models.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		IsActive:  false,
		CreatedAt: time.Now().UTC(),
	}

	query := `
        INSERT INTO tasks (id, user_id, title, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := db.Exec(ctx, r.pool, query, task.ID, task.UserID, task.Title, task.IsActive, task.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask retrieves a task by ID scoped to its owner. Returns (nil, nil)
// when the task is absent or owned by someone else.
func (r *Repository) GetTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Task, error) {
	query := `
        SELECT id, user_id, title, is_active, created_at
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `

	var task models.Task
	if err := db.Get(ctx, r.pool, &task, query, id, userID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// GetActiveTask returns the user's active task, or (nil, nil) when none is.
func (r *Repository) GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error) {
	query := `
        SELECT id, user_id, title, is_active, created_at
        FROM tasks
        WHERE user_id = $1 AND is_active = TRUE
        LIMIT 1
    `

	var task models.Task
	if err := db.Get(ctx, r.pool, &task, query, userID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active task: %w", err)
	}

	return &task, nil
}

// ActivateTask marks one task active and all of the user's other tasks
// inactive, in a single transaction so no interleaving can leave two
// active rows.
func (r *Repository) ActivateTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*models.Task, error) {
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE tasks SET is_active = FALSE WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE tasks SET is_active = TRUE WHERE id = $1 AND user_id = $2`, taskID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate task: %w", err)
	}

	return r.GetTask(ctx, taskID, userID)
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := db.Exec(ctx, r.pool, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
