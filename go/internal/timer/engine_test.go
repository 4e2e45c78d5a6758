package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FaneD1/Pomadoro/go/internal/models"
)

func msPtr(v int64) *int64 { return &v }

func TestRemaining_RunningDerivesFromStartTime(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	session := &models.TimerSession{
		Status:          models.TimerRunning,
		StartTime:       msPtr(start.UnixMilli()),
		DurationSeconds: 1500,
	}

	assert.Equal(t, 1500, Remaining(session, start))
	assert.Equal(t, 1490, Remaining(session, start.Add(10*time.Second)))
	assert.Equal(t, 1, Remaining(session, start.Add(1499*time.Second)))
	assert.Equal(t, 0, Remaining(session, start.Add(1500*time.Second)))
}

func TestRemaining_ClampedAtZeroPastDeadline(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	session := &models.TimerSession{
		Status:          models.TimerRunning,
		StartTime:       msPtr(start.UnixMilli()),
		DurationSeconds: 60,
	}

	assert.Equal(t, 0, Remaining(session, start.Add(2*time.Hour)))
}

func TestRemaining_TruncatesSubSecondElapsed(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	session := &models.TimerSession{
		Status:          models.TimerRunning,
		StartTime:       msPtr(start.UnixMilli()),
		DurationSeconds: 100,
	}

	// 999ms elapsed floors to 0 whole seconds.
	assert.Equal(t, 100, Remaining(session, start.Add(999*time.Millisecond)))
	assert.Equal(t, 99, Remaining(session, start.Add(1999*time.Millisecond)))
}

func TestRemaining_PausedMatchesWhatResumeWouldReconcileTo(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	session := &models.TimerSession{
		Status:          models.TimerPaused,
		StartTime:       msPtr(start.UnixMilli()), // stale by design
		DurationSeconds: 1500,
	}

	// Read at the pause instant (t=10) reports the value the client froze.
	pausedAt := start.Add(10 * time.Second)
	assert.Equal(t, 1490, Remaining(session, pausedAt))

	// The paused read always agrees with the resume reconciliation at the
	// same instant.
	later := start.Add(42 * time.Second)
	_, reconciled := Reconcile(session, later)
	assert.Equal(t, reconciled, Remaining(session, later))
}

func TestRemaining_StoppedReportsDuration(t *testing.T) {
	session := &models.TimerSession{
		Status:          models.TimerStopped,
		DurationSeconds: 1500,
	}

	assert.Equal(t, 1500, Remaining(session, time.Now()))
}

func TestRemaining_NilSessionIsZero(t *testing.T) {
	assert.Equal(t, 0, Remaining(nil, time.Now()))
}

func TestReconcile_MatchesContinuousRun(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	// Paused at t=10 with the original stale fields still stored.
	paused := &models.TimerSession{
		Status:          models.TimerPaused,
		StartTime:       msPtr(start.UnixMilli()),
		DurationSeconds: 1500,
	}

	// Resume at the same wall-clock instant the pause happened.
	resumeAt := start.Add(10 * time.Second)
	newStart, newDuration := Reconcile(paused, resumeAt)

	assert.Equal(t, 1490, newDuration)

	resumed := &models.TimerSession{
		Status:          models.TimerRunning,
		StartTime:       &newStart,
		DurationSeconds: newDuration,
	}

	// Immediately after resume nothing further has elapsed.
	assert.Equal(t, 1490, Remaining(resumed, resumeAt))
	// Five seconds later the budget drains as a continuous run would.
	assert.Equal(t, 1485, Remaining(resumed, resumeAt.Add(5*time.Second)))
}

func TestReconcile_ClampsRemainingAtZeroAfterLongPause(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	paused := &models.TimerSession{
		Status:          models.TimerPaused,
		StartTime:       msPtr(start.UnixMilli()),
		DurationSeconds: 300,
	}

	// The stale start_time makes a naive elapsed computation huge; the
	// reconciliation clamps remaining at zero instead of going negative.
	newStart, newDuration := Reconcile(paused, start.Add(24*time.Hour))
	assert.Equal(t, 0, newDuration)

	resumed := &models.TimerSession{
		Status:          models.TimerRunning,
		StartTime:       &newStart,
		DurationSeconds: newDuration,
	}
	assert.Equal(t, 0, Remaining(resumed, start.Add(24*time.Hour)))
}
