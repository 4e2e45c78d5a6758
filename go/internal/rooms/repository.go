package rooms

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

// Repository implements room data access on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new rooms repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRoom inserts a new empty room.
func (r *Repository) CreateRoom(ctx context.Context) (*models.Room, error) {
	room := &models.Room{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO rooms (id, created_at) VALUES ($1, $2)`
	if _, err := db.Exec(ctx, r.pool, query, room.ID, room.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// FindRoomWithOneMember returns a room that currently has exactly one user,
// or nil when every room is empty or full. The oldest matching room wins so
// pairing stays deterministic.
func (r *Repository) FindRoomWithOneMember(ctx context.Context) (*models.Room, error) {
	query := `
        SELECT r.id, r.created_at
        FROM rooms r
        JOIN users u ON u.room_id = r.id
        GROUP BY r.id, r.created_at
        HAVING COUNT(u.id) = 1
        ORDER BY r.created_at
        LIMIT 1
    `

	var room models.Room
	if err := db.Get(ctx, r.pool, &room, query); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find under-full room: %w", err)
	}

	return &room, nil
}

// GetRoom retrieves a room by ID.
func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	query := `SELECT id, created_at FROM rooms WHERE id = $1`

	var room models.Room
	if err := db.Get(ctx, r.pool, &room, query, id); err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}
