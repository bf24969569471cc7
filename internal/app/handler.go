package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type reminderHandler struct {
	service *reminder.Service
	logger  *logger.Logger
}

func newReminderHandler(service *reminder.Service, l *logger.Logger) *reminderHandler {
	return &reminderHandler{
		service: service,
		logger:  l,
	}
}

// reminderDraft is the request body for create and update.
type reminderDraft struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	DueAt          time.Time          `json:"date"`
	Image          string             `json:"image,omitempty"`
	Frequency      reminder.Frequency `json:"frequency"`
	CustomSchedule []reminder.DayTime `json:"customSchedule,omitempty"`
}

func (d reminderDraft) toDomain(id string) reminder.Reminder {
	freq := d.Frequency
	if freq == "" {
		freq = reminder.FrequencyNone
	}
	return reminder.Reminder{
		ID:             id,
		Title:          d.Title,
		Description:    d.Description,
		DueAt:          d.DueAt,
		Image:          d.Image,
		Frequency:      freq,
		CustomSchedule: d.CustomSchedule,
	}
}

// reminderResponse adds the silent flag: a reminder persisted without a
// single live trigger (denied permission or total scheduling failure).
type reminderResponse struct {
	reminder.Reminder
	Silent bool `json:"silent,omitempty"`
}

func newReminderResponse(r reminder.Reminder) reminderResponse {
	return reminderResponse{
		Reminder: r,
		Silent:   len(r.NotificationIDs) == 0,
	}
}

func (h *reminderHandler) list(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, reminders)
}

func (h *reminderHandler) get(w http.ResponseWriter, r *http.Request) {
	rem, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rem)
}

func (h *reminderHandler) create(w http.ResponseWriter, r *http.Request) {
	var draft reminderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
		return
	}

	created, err := h.service.Create(r.Context(), draft.toDomain(""))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newReminderResponse(created))
}

func (h *reminderHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var draft reminderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
		return
	}

	previous, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.service.Edit(r.Context(), previous, draft.toDomain(id))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReminderResponse(updated))
}

func (h *reminderHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *reminderHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, reminder.ErrInvalidReminder):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, reminder.ErrNotFound):
		status = http.StatusNotFound
		message = "reminder not found"
	case errors.Is(err, reminder.ErrPersistenceFailed):
		// Triggers may already be live; the client should retry the save.
		status = http.StatusServiceUnavailable
		message = "there was a problem saving your reminder"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("reminderHandler - writeError", logger.Err(err))
	}
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *reminderHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("reminderHandler - writeJSON", logger.Err(err))
	}
}
