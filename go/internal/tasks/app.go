package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// TasksRepository defines what the app layer needs from the repository.
type TasksRepository interface {
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	CreateTask(ctx context.Context, userID uuid.UUID, title string) (*models.Task, error)
	GetTask(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Task, error)
	GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error)
	ActivateTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// App handles task business logic.
type App struct {
	repo TasksRepository
}

// NewApp creates a new tasks App.
func NewApp(repo TasksRepository) *App {
	return &App{repo: repo}
}

// ListTasks returns all of the user's tasks, newest first.
func (a *App) ListTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	tasks, err := a.repo.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a new inactive task with a trimmed, non-empty title.
func (a *App) CreateTask(ctx context.Context, userID uuid.UUID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("task title is required: %w", apperrors.ErrValidation)
	}

	task, err := a.repo.CreateTask(ctx, userID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Debug().Str("task_id", task.ID.String()).Str("user_id", userID.String()).Msg("task created")
	return task, nil
}

// GetActiveTask returns the user's active task, nil when none is active.
func (a *App) GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error) {
	task, err := a.repo.GetActiveTask(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active task: %w", err)
	}
	return task, nil
}

// ActivateTask makes the task the user's single active one, deactivating
// every sibling first.
func (a *App) ActivateTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*models.Task, error) {
	task, err := a.repo.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}

	activated, err := a.repo.ActivateTask(ctx, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to activate task: %w", err)
	}
	return activated, nil
}

// DeleteTask removes the task if the caller owns it. Deleting the active
// task simply leaves the user with none.
func (a *App) DeleteTask(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) error {
	task, err := a.repo.GetTask(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
	}

	if err := a.repo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	log.Debug().Str("task_id", taskID.String()).Str("user_id", userID.String()).Msg("task deleted")
	return nil
}
