package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a user-owned work item. At most one task per user is active
// at any time.
type Task struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
