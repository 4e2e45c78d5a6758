package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FaneD1/Pomadoro/go/internal/models"
)

const cookieMaxAge = 30 * 24 * time.Hour

// userPayload is the client-facing user shape. Field names follow the
// frontend's camelCase convention rather than the stored layout.
type userPayload struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	InviteCode string     `json:"inviteCode"`
	RoomID     *uuid.UUID `json:"roomId"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:         u.ID,
		Name:       u.Name,
		InviteCode: u.InviteCode,
		RoomID:     u.RoomID,
	}
}

type loginRequest struct {
	InviteCode string `json:"inviteCode"`
	Name       string `json:"name"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := a.pairing.Resolve(r.Context(), req.InviteCode, req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	setIdentityCookies(w, user)

	log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	respondJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearIdentityCookies(w)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	respondJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func setIdentityCookies(w http.ResponseWriter, user *models.User) {
	expires := time.Now().Add(cookieMaxAge)
	http.SetCookie(w, &http.Cookie{
		Name:     "userId",
		Value:    user.ID.String(),
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "inviteCode",
		Value:    user.InviteCode,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearIdentityCookies(w http.ResponseWriter) {
	for _, name := range []string{"userId", "inviteCode"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
