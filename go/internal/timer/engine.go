package timer

import (
	"time"

	"github.com/FaneD1/Pomadoro/go/internal/models"
)

// Elapsed-time model: nothing ticks server-side. A running session stores a
// millisecond start timestamp and the seconds budget it had when it last
// became running; remaining time is derived from wall clock at read time.
// Pause leaves start_time/duration_seconds stale on purpose; the resume
// transition reconciles them (see Reconcile).

// Remaining computes the seconds left on a session at the reference time.
// Running sessions derive it from start_time. Paused sessions report what a
// resume at the reference time would reconcile to: the stale start_time
// keeps draining the budget while paused, matching the resume formula, so a
// read at the pause instant equals the value the client froze its display
// at. Stopped sessions report the untouched budget.
func Remaining(s *models.TimerSession, now time.Time) int {
	if s == nil {
		return 0
	}

	if s.Status == models.TimerStopped || s.StartTime == nil {
		return s.DurationSeconds
	}

	remaining := s.DurationSeconds - elapsedSeconds(*s.StartTime, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reconcile computes the rewritten (startTime, durationSeconds) pair for a
// resume transition. The new start time is backdated so that a later
// remaining-time read against the new pair reproduces the correct budget:
//
//	startTime = now - (duration - remaining) * 1000
//	durationSeconds = remaining
//
// which preserves the projection a continuous run would have produced at
// the same wall-clock instant, within 1-second truncation.
func Reconcile(s *models.TimerSession, now time.Time) (startTime int64, durationSeconds int) {
	remaining := s.DurationSeconds
	if s.StartTime != nil {
		remaining = s.DurationSeconds - elapsedSeconds(*s.StartTime, now)
		if remaining < 0 {
			remaining = 0
		}
	}

	startTime = now.UnixMilli() - int64(s.DurationSeconds-remaining)*1000
	return startTime, remaining
}

// elapsedSeconds floors to whole seconds; all arithmetic stays integral.
func elapsedSeconds(startMs int64, now time.Time) int {
	elapsed := (now.UnixMilli() - startMs) / 1000
	if elapsed < 0 {
		return 0
	}
	return int(elapsed)
}
