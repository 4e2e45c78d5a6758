package pairing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/users"
)

// RoomsRepository defines what the resolver needs from the rooms store.
type RoomsRepository interface {
	CreateRoom(ctx context.Context) (*models.Room, error)
	FindRoomWithOneMember(ctx context.Context) (*models.Room, error)
}

// UsersRepository defines what the resolver needs from the users store.
type UsersRepository interface {
	CreateUser(ctx context.Context, params users.CreateUserParams) (*models.User, error)
	GetUserByInviteCode(ctx context.Context, code string) (*models.User, error)
}

// App assigns a fresh invite code to an under-full room, or creates a new
// room when none has a free seat. Known codes resolve to the existing user
// unchanged.
type App struct {
	rooms RoomsRepository
	users UsersRepository

	// Serializes the find-room/create-user window so two concurrent fresh
	// logins cannot both land in new rooms. Single-process only, which is
	// all this system targets.
	mu sync.Mutex
}

// NewApp creates a new pairing App.
func NewApp(rooms RoomsRepository, users UsersRepository) *App {
	return &App{rooms: rooms, users: users}
}

// Resolve returns the user for the invite code, creating and pairing a new
// one when the code is fresh. The name is only used on first login; an
// existing user's name is never updated here.
func (a *App) Resolve(ctx context.Context, inviteCode, name string) (*models.User, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	name = strings.TrimSpace(name)
	if inviteCode == "" || name == "" {
		return nil, fmt.Errorf("invite code and name are required: %w", apperrors.ErrValidation)
	}

	existing, err := a.users.GetUserByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Re-check under the lock: another login may have claimed the code
	// while we waited.
	existing, err = a.users.GetUserByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	room, err := a.rooms.FindRoomWithOneMember(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for under-full room: %w", err)
	}
	if room == nil {
		room, err = a.rooms.CreateRoom(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}
		log.Info().Str("room_id", room.ID.String()).Msg("created new room")
	}

	user, err := a.users.CreateUser(ctx, users.CreateUserParams{
		Name:       name,
		InviteCode: inviteCode,
		RoomID:     room.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("room_id", room.ID.String()).
		Msg("paired new user")

	return user, nil
}
