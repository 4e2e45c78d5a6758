package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/FaneD1/Pomadoro/go/internal/models"
	"github.com/FaneD1/Pomadoro/go/internal/projection"
)

// partnerPayload flattens the partner's identity with their projected state.
type partnerPayload struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	ActiveTask   *models.Task            `json:"activeTask"`
	TimerSession *projection.SessionView `json:"timerSession"`
}

// handlePartnerState serves the partner's current state, or null when the
// user is still alone in their room.
func (a *API) handlePartnerState(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	partner, err := a.users.GetPartner(r.Context(), user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if partner == nil {
		respondJSON(w, http.StatusOK, map[string]any{"partner": nil})
		return
	}

	snapshot, err := a.projection.Snapshot(r.Context(), partner.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"partner": partnerPayload{
		ID:           partner.ID,
		Name:         partner.Name,
		ActiveTask:   snapshot.ActiveTask,
		TimerSession: snapshot.TimerSession,
	}})
}
