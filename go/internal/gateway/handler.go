package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler serves the websocket entrypoint. Authentication reuses the same
// cookie the HTTP API sets at login; the upgrade is refused before any
// websocket handshake when it is missing or stale.
type Handler struct {
	hub   *Hub
	users UserGetter
}

// NewHandler creates the websocket HTTP handler.
func NewHandler(hub *Hub, users UserGetter) *Handler {
	return &Handler{hub: hub, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("userId")
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(cookie.Value)
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.hub.UpgradeConnection(w, r, user); err != nil {
		// Upgrade failures already wrote a response via the upgrader.
		log.Error().Err(err).Str("user_id", userID.String()).Msg("websocket upgrade failed")
	}
}
