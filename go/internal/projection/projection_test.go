package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaneD1/Pomadoro/go/internal/models"
)

type fakeSources struct {
	user    *models.User
	task    *models.Task
	session *models.TimerSession
}

func (f *fakeSources) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.user, nil
}

func (f *fakeSources) GetActiveTask(ctx context.Context, userID uuid.UUID) (*models.Task, error) {
	return f.task, nil
}

func (f *fakeSources) GetCurrentSession(ctx context.Context, userID uuid.UUID) (*models.TimerSession, error) {
	return f.session, nil
}

func TestSnapshot_IncludesRemainingComputedAtProjectionTime(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	userID := uuid.New()
	start := clock.Now().Add(-20 * time.Second).UnixMilli()

	src := &fakeSources{
		user: &models.User{ID: userID, Name: "Alice"},
		task: &models.Task{ID: uuid.New(), UserID: userID, Title: "focus", IsActive: true},
		session: &models.TimerSession{
			ID:              uuid.New(),
			UserID:          userID,
			Status:          models.TimerRunning,
			Phase:           models.PhaseWork,
			StartTime:       &start,
			DurationSeconds: 1500,
		},
	}

	app := NewApp(src, src, src, clock)
	snap, err := app.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Alice", snap.User.Name)
	require.NotNil(t, snap.ActiveTask)
	require.NotNil(t, snap.TimerSession)
	assert.Equal(t, 1480, snap.TimerSession.RemainingSeconds)
}

func TestSnapshot_AbsentPiecesMarshalAsNull(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	userID := uuid.New()
	src := &fakeSources{user: &models.User{ID: userID, Name: "Bob"}}

	app := NewApp(src, src, src, clock)
	snap, err := app.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, "null", string(decoded["activeTask"]))
	assert.JSONEq(t, "null", string(decoded["timerSession"]))
}
