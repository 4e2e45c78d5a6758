package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/FaneD1/Pomadoro/go/internal/metrics"
	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/projection"
)

// SnapshotProvider computes the state projection pushed to room members.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*projection.Snapshot, error)
}

// UserGetter resolves a user's room for fan-out targeting.
type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ConnectionConfig holds websocket tuning for the hub.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// broadcastRequest asks the hub to re-project and fan out one user's state.
type broadcastRequest struct {
	userID uuid.UUID
}

// Hub owns the two realtime registries: connection-by-user (at most one
// live connection per user) and room membership sets. All registry state
// lives on the instance, so its lifecycle is exactly connect-to-disconnect.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]*Connection
	rooms  map[uuid.UUID]map[uuid.UUID]*Connection

	upgrader websocket.Upgrader
	config   ConnectionConfig

	snapshots SnapshotProvider
	users     UserGetter
	metrics   *metrics.Metrics

	broadcastCh chan broadcastRequest
}

// NewHub creates a new realtime hub.
func NewHub(snapshots SnapshotProvider, users UserGetter, m *metrics.Metrics, config ConnectionConfig) *Hub {
	return &Hub{
		byUser: make(map[uuid.UUID]*Connection),
		rooms:  make(map[uuid.UUID]map[uuid.UUID]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		snapshots:   snapshots,
		users:       users,
		metrics:     m,
		broadcastCh: make(chan broadcastRequest, 256),
	}
}

// Start processes broadcast requests until the context is cancelled.
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("realtime hub started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("realtime hub shutting down")
			return
		case req := <-h.broadcastCh:
			h.broadcastUserState(ctx, req.userID)
		}
	}
}

// NotifyUserState queues a room-wide push of the user's state projection.
// Called after every task or timer mutation and on connect. Non-blocking;
// a full queue drops the request with a warning.
func (h *Hub) NotifyUserState(ctx context.Context, userID uuid.UUID) {
	select {
	case h.broadcastCh <- broadcastRequest{userID: userID}:
	default:
		log.Warn().Str("user_id", userID.String()).Msg("broadcast queue full, dropping state push")
	}
}

// UpgradeConnection upgrades an HTTP request to a websocket for an
// authenticated, paired user and pushes the initial room-wide snapshot.
func (h *Hub) UpgradeConnection(w http.ResponseWriter, r *http.Request, user *models.User) error {
	if user.RoomID == nil {
		return fmt.Errorf("user %s has no room", user.ID)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		RoomID:      *user.RoomID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Hub:         h,
		ConnectedAt: time.Now(),
	}

	h.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	// The whole room gets a fresh snapshot so a partner who was already
	// connected also refreshes this user's side of the view.
	h.NotifyUserState(r.Context(), user.ID)

	log.Info().
		Str("connection_id", connection.ID).
		Str("user_id", user.ID.String()).
		Str("room_id", user.RoomID.String()).
		Msg("websocket connection established")

	return nil
}

// registerConnection adds a connection to both registries, replacing and
// closing any previous connection the same user had.
func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()

	var replaced *Connection
	if prev, ok := h.byUser[conn.UserID]; ok {
		replaced = prev
		h.removeLocked(prev)
	}

	h.byUser[conn.UserID] = conn
	if h.rooms[conn.RoomID] == nil {
		h.rooms[conn.RoomID] = make(map[uuid.UUID]*Connection)
	}
	h.rooms[conn.RoomID][conn.UserID] = conn

	total := len(h.byUser)
	h.mu.Unlock()

	if replaced != nil {
		replaced.shutdown()
		log.Info().
			Str("user_id", conn.UserID.String()).
			Msg("replaced previous connection on reconnect")
	}

	h.metrics.ActiveConnections.Set(float64(total))

	log.Debug().
		Str("connection_id", conn.ID).
		Str("room_id", conn.RoomID.String()).
		Int("total_connections", total).
		Msg("connection registered")
}

// unregisterConnection purges a connection from both registries. No
// broadcast is sent; the partner simply stops receiving updates until the
// next mutation or reconnect.
func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	// Only purge if this exact connection is still the registered one; a
	// reconnect may already have replaced it.
	current, ok := h.byUser[conn.UserID]
	if ok && current == conn {
		h.removeLocked(conn)
	}
	total := len(h.byUser)
	h.mu.Unlock()

	conn.shutdown()

	if ok && current == conn {
		h.metrics.ActiveConnections.Set(float64(total))
		log.Info().
			Str("connection_id", conn.ID).
			Str("user_id", conn.UserID.String()).
			Msg("connection unregistered")
	}
}

// removeLocked drops a connection from both maps. Caller holds h.mu.
func (h *Hub) removeLocked(conn *Connection) {
	delete(h.byUser, conn.UserID)
	if members, ok := h.rooms[conn.RoomID]; ok {
		if members[conn.UserID] == conn {
			delete(members, conn.UserID)
		}
		if len(members) == 0 {
			delete(h.rooms, conn.RoomID)
		}
	}
}

// broadcastUserState recomputes the user's projection and fans it out to
// every connection registered in their room, including the user's own.
// Each recipient is isolated: a dead or backed-up target is skipped.
func (h *Hub) broadcastUserState(ctx context.Context, userID uuid.UUID) {
	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to resolve user for broadcast")
		return
	}
	if user.RoomID == nil {
		return
	}

	snapshot, err := h.snapshots.Snapshot(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to compute state projection")
		return
	}

	event := Event{
		Type:   EventUserState,
		UserID: userID.String(),
		Data:   snapshot,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal state event")
		return
	}

	// Snapshot the recipient list so the lock isn't held during sends.
	h.mu.RLock()
	members := h.rooms[*user.RoomID]
	targets := make([]*Connection, 0, len(members))
	for _, conn := range members {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if conn.trySend(data) {
			delivered++
			continue
		}
		h.metrics.DroppedSends.Inc()
		log.Warn().
			Str("connection_id", conn.ID).
			Str("user_id", conn.UserID.String()).
			Msg("skipped send to closed or backed-up connection")
	}

	h.metrics.BroadcastsTotal.Inc()

	log.Debug().
		Str("user_id", userID.String()).
		Str("room_id", user.RoomID.String()).
		Int("delivered", delivered).
		Msg("state broadcast")
}
