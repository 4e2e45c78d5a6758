package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FaneD1/Pomadoro/go/internal/apperrors"
)

type createTaskRequest struct {
	Title string `json:"title"`
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	tasks, err := a.tasks.ListTasks(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	task, err := a.tasks.CreateTask(r.Context(), user.ID, req.Title)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (a *API) handleActivateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	taskID, err := taskIDFrom(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	task, err := a.tasks.ActivateTask(r.Context(), user.ID, taskID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	taskID, err := taskIDFrom(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := a.tasks.DeleteTask(r.Context(), user.ID, taskID); err != nil {
		respondError(w, r, err)
		return
	}

	a.notify(r, user.ID)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func taskIDFrom(r *http.Request) (uuid.UUID, error) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task id: %w", apperrors.ErrValidation)
	}
	return taskID, nil
}
