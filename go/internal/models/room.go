package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is the pairing unit binding two partnered users.
type Room struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
