package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bearcat-ticketing/internal/auth"
	"bearcat-ticketing/internal/events"
	"bearcat-ticketing/internal/utils"
)

type Handler struct {
	EventService *events.EventService
}

func NewHandler(service *events.EventService) *Handler {
	return &Handler{EventService: service}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req events.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", event))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event found", event))
}

// ListEvents returns upcoming events, filtered by ?q= when present.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.EventService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events", list))
}
