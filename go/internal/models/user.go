package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. The invite code doubles as the
// durable login secret; RoomID is nil only for rows predating pairing.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	InviteCode string     `json:"invite_code"`
	RoomID     *uuid.UUID `json:"room_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
