package httpapi

import (
	"net/http"

	"github.com/FaneD1/Pomadoro/go/internal/models"
)

type startTimerRequest struct {
	Phase           string `json:"phase"`
	DurationSeconds int    `json:"durationSeconds"`
}

func (a *API) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	session, err := a.timer.Get(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (a *API) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	// An empty body is a valid "start with defaults" request.
	req := startTimerRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if req.Phase == "" {
		req.Phase = string(models.PhaseWork)
	}
	if req.DurationSeconds == 0 {
		req.DurationSeconds = a.defaultDurationSeconds
	}

	session, err := a.timer.Start(r.Context(), user.ID, models.TimerPhase(req.Phase), req.DurationSeconds)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (a *API) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	session, err := a.timer.Pause(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (a *API) handleResumeTimer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	session, err := a.timer.Resume(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (a *API) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	session, err := a.timer.Stop(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}
