package models

import (
	"time"

	"github.com/google/uuid"
)

// TimerStatus is the lifecycle state of a timer session.
type TimerStatus string

const (
	TimerStopped TimerStatus = "stopped"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

// TimerPhase is the pomodoro mode of a session.
type TimerPhase string

const (
	PhaseWork  TimerPhase = "work"
	PhaseBreak TimerPhase = "break"
)

// TimerSession is one user's pomodoro timer state.
//
// StartTime is a millisecond epoch timestamp set when the session last
// became running; pause leaves it untouched and resume rewrites it.
// DurationSeconds is the remaining budget at the moment the session last
// became running. The most recently created session per user is the one
// treated as current.
type TimerSession struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	TaskID          *uuid.UUID  `json:"task_id"`
	Status          TimerStatus `json:"status"`
	Phase           TimerPhase  `json:"phase"`
	StartTime       *int64      `json:"start_time"`
	DurationSeconds int         `json:"duration_seconds"`
	CreatedAt       time.Time   `json:"created_at"`
}
