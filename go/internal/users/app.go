package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// UsersRepository defines what the app layer needs from the repository.
type UsersRepository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByInviteCode(ctx context.Context, code string) (*models.User, error)
	GetPartner(ctx context.Context, roomID uuid.UUID, selfID uuid.UUID) (*models.User, error)
}

// App handles user lookup logic shared by the HTTP surface and the
// realtime gateway.
type App struct {
	repo UsersRepository
}

// NewApp creates a new users App.
func NewApp(repo UsersRepository) *App {
	return &App{repo: repo}
}

// GetUser retrieves a user by ID, mapping an absent row to a
// not-authenticated failure since the ID comes from the identity cookie.
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotAuthenticated)
	}
	return user, nil
}

// GetPartner retrieves the other member of the user's room, or nil when
// the user is unpaired or still alone.
func (a *App) GetPartner(ctx context.Context, user *models.User) (*models.User, error) {
	if user.RoomID == nil {
		return nil, nil
	}

	partner, err := a.repo.GetPartner(ctx, *user.RoomID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return partner, nil
}
