package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaneD1/Pomadoro/go/internal/metrics"
	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/projection"
)

type fakeBackend struct {
	users     map[uuid.UUID]*models.User
	snapshots map[uuid.UUID]*projection.Snapshot
}

func (f *fakeBackend) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeBackend) Snapshot(ctx context.Context, userID uuid.UUID) (*projection.Snapshot, error) {
	return f.snapshots[userID], nil
}

func newTestHub(backend *fakeBackend) *Hub {
	return NewHub(backend, backend, metrics.New(prometheus.NewRegistry()), DefaultConnectionConfig())
}

func newTestConnection(hub *Hub, userID, roomID uuid.UUID) *Connection {
	return &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		RoomID: roomID,
		Send:   make(chan []byte, 8),
		Hub:    hub,
	}
}

func pairedBackend(roomID uuid.UUID, userIDs ...uuid.UUID) *fakeBackend {
	backend := &fakeBackend{
		users:     make(map[uuid.UUID]*models.User),
		snapshots: make(map[uuid.UUID]*projection.Snapshot),
	}
	for _, id := range userIDs {
		rid := roomID
		user := &models.User{ID: id, Name: "user-" + id.String()[:8], RoomID: &rid}
		backend.users[id] = user
		backend.snapshots[id] = &projection.Snapshot{
			User: projection.UserInfo{ID: id, Name: user.Name},
		}
	}
	return backend
}

func TestBroadcast_ReachesWholeRoomIncludingSender(t *testing.T) {
	roomID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	backend := pairedBackend(roomID, alice, bob)
	hub := newTestHub(backend)

	aliceConn := newTestConnection(hub, alice, roomID)
	bobConn := newTestConnection(hub, bob, roomID)
	hub.registerConnection(aliceConn)
	hub.registerConnection(bobConn)

	hub.broadcastUserState(context.Background(), alice)

	for _, conn := range []*Connection{aliceConn, bobConn} {
		select {
		case raw := <-conn.Send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, EventUserState, event.Type)
			assert.Equal(t, alice.String(), event.UserID)
			require.NotNil(t, event.Data)
			assert.Equal(t, alice, event.Data.User.ID)
		default:
			t.Fatalf("connection %s received nothing", conn.ID)
		}
	}
}

func TestBroadcast_DoesNotLeakOutsideRoom(t *testing.T) {
	roomA, roomB := uuid.New(), uuid.New()
	alice := uuid.New()
	carol := uuid.New()

	backend := pairedBackend(roomA, alice)
	other := pairedBackend(roomB, carol)
	backend.users[carol] = other.users[carol]
	backend.snapshots[carol] = other.snapshots[carol]

	hub := newTestHub(backend)
	aliceConn := newTestConnection(hub, alice, roomA)
	carolConn := newTestConnection(hub, carol, roomB)
	hub.registerConnection(aliceConn)
	hub.registerConnection(carolConn)

	hub.broadcastUserState(context.Background(), alice)

	assert.Len(t, aliceConn.Send, 1)
	assert.Len(t, carolConn.Send, 0)
}

func TestBroadcast_SkipsClosedConnection(t *testing.T) {
	roomID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	backend := pairedBackend(roomID, alice, bob)
	hub := newTestHub(backend)

	aliceConn := newTestConnection(hub, alice, roomID)
	bobConn := newTestConnection(hub, bob, roomID)
	hub.registerConnection(aliceConn)
	hub.registerConnection(bobConn)

	bobConn.shutdown()

	// Must not panic on the closed partner and still deliver to the sender.
	hub.broadcastUserState(context.Background(), alice)

	assert.Len(t, aliceConn.Send, 1)
}

func TestRegister_ReconnectReplacesPreviousConnection(t *testing.T) {
	roomID := uuid.New()
	alice := uuid.New()
	backend := pairedBackend(roomID, alice)
	hub := newTestHub(backend)

	first := newTestConnection(hub, alice, roomID)
	second := newTestConnection(hub, alice, roomID)
	hub.registerConnection(first)
	hub.registerConnection(second)

	// The first connection is closed and no longer a broadcast target.
	assert.False(t, first.trySend([]byte("x")))

	hub.broadcastUserState(context.Background(), alice)
	assert.Len(t, second.Send, 1)

	// The replaced connection's dying pump must not evict the replacement.
	hub.unregisterConnection(first)
	hub.broadcastUserState(context.Background(), alice)
	assert.Len(t, second.Send, 2)
}

func TestUnregister_RemovesFromBothRegistries(t *testing.T) {
	roomID := uuid.New()
	alice := uuid.New()
	backend := pairedBackend(roomID, alice)
	hub := newTestHub(backend)

	conn := newTestConnection(hub, alice, roomID)
	hub.registerConnection(conn)
	hub.unregisterConnection(conn)

	hub.mu.RLock()
	_, inByUser := hub.byUser[alice]
	_, inRooms := hub.rooms[roomID]
	hub.mu.RUnlock()

	assert.False(t, inByUser)
	assert.False(t, inRooms)
	assert.False(t, conn.trySend([]byte("x")))
}

func TestTrySend_FullBufferDropsMessage(t *testing.T) {
	conn := &Connection{Send: make(chan []byte, 1)}

	assert.True(t, conn.trySend([]byte("first")))
	assert.False(t, conn.trySend([]byte("second")))
	assert.Len(t, conn.Send, 1)
}

func TestShutdown_IsIdempotent(t *testing.T) {
	conn := &Connection{Send: make(chan []byte, 1)}
	conn.shutdown()
	conn.shutdown()
	assert.False(t, conn.trySend([]byte("x")))
}

func TestHandleClientMessage_PingAnswersSenderOnly(t *testing.T) {
	roomID := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	backend := pairedBackend(roomID, alice, bob)
	hub := newTestHub(backend)

	aliceConn := newTestConnection(hub, alice, roomID)
	bobConn := newTestConnection(hub, bob, roomID)
	hub.registerConnection(aliceConn)
	hub.registerConnection(bobConn)

	aliceConn.handleClientMessage([]byte(`{"type":"ping"}`))

	require.Len(t, aliceConn.Send, 1)
	assert.Len(t, bobConn.Send, 0)

	var event Event
	require.NoError(t, json.Unmarshal(<-aliceConn.Send, &event))
	assert.Equal(t, EventPong, event.Type)
	assert.Nil(t, event.Data)
}

func TestHandleClientMessage_MalformedAndUnknownAreDropped(t *testing.T) {
	roomID := uuid.New()
	alice := uuid.New()
	backend := pairedBackend(roomID, alice)
	hub := newTestHub(backend)

	conn := newTestConnection(hub, alice, roomID)
	hub.registerConnection(conn)

	conn.handleClientMessage([]byte(`not json`))
	conn.handleClientMessage([]byte(`{"type":"timer:hijack"}`))

	assert.Len(t, conn.Send, 0)
}

func TestStateRequest_QueuesBroadcastForRequester(t *testing.T) {
	roomID := uuid.New()
	alice := uuid.New()
	backend := pairedBackend(roomID, alice)
	hub := newTestHub(backend)

	conn := newTestConnection(hub, alice, roomID)
	hub.registerConnection(conn)

	conn.handleClientMessage([]byte(`{"type":"state:request"}`))

	select {
	case req := <-hub.broadcastCh:
		assert.Equal(t, alice, req.userID)
	default:
		t.Fatal("no broadcast request queued")
	}
}
