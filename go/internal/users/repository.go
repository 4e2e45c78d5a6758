package users

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

// CreateUserParams carries the fields needed to persist a new user.
type CreateUserParams struct {
	Name       string
	InviteCode string
	RoomID     uuid.UUID
}

// Repository implements user data access on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new user bound to a room.
func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	user := &models.User{
		ID:         uuid.New(),
		Name:       params.Name,
		InviteCode: params.InviteCode,
		RoomID:     &params.RoomID,
		CreatedAt:  time.Now().UTC(),
	}

	query := `
        INSERT INTO users (id, name, invite_code, room_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := db.Exec(ctx, r.pool, query, user.ID, user.Name, user.InviteCode, user.RoomID, user.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, name, invite_code, room_id, created_at FROM users WHERE id = $1`

	var user models.User
	if err := db.Get(ctx, r.pool, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByInviteCode retrieves a user by invite code. Returns (nil, nil)
// when no user has claimed the code yet.
func (r *Repository) GetUserByInviteCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT id, name, invite_code, room_id, created_at FROM users WHERE invite_code = $1`

	var user models.User
	if err := db.Get(ctx, r.pool, &user, query, code); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by invite code: %w", err)
	}

	return &user, nil
}

// GetPartner retrieves the other member of a room, or (nil, nil) when the
// caller is alone in it.
func (r *Repository) GetPartner(ctx context.Context, roomID uuid.UUID, selfID uuid.UUID) (*models.User, error) {
	query := `
        SELECT id, name, invite_code, room_id, created_at
        FROM users
        WHERE room_id = $1 AND id != $2
        LIMIT 1
    `

	var user models.User
	if err := db.Get(ctx, r.pool, &user, query, roomID, selfID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return &user, nil
}
