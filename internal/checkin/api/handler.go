package api

import (
	"context"
	"encoding/json"
	"net/http"

	"bearcat-ticketing/internal/auth"
	"bearcat-ticketing/internal/models"
	"bearcat-ticketing/internal/utils"
)

// CheckInService is what the handler needs from the check-in core.
type CheckInService interface {
	CheckIn(ctx context.Context, staffID, eventID, code string) (*models.Ticket, error)
	CheckInScanned(ctx context.Context, staffID, selectedEventID, payload string) (*models.Ticket, error)
}

type Handler struct {
	Service CheckInService
}

func NewHandler(service CheckInService) *Handler {
	return &Handler{Service: service}
}

type checkInRequest struct {
	// Payload is the scanned QR content; EventID+Code is the manual path.
	Payload string `json:"payload,omitempty"`
	EventID string `json:"event_id,omitempty"`
	Code    string `json:"code,omitempty"`
}

// CheckIn validates a scanned payload or a typed code and applies the
// one-time transition. The staff identity comes from the verified token.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	staffID := auth.UserID(r.Context())

	var (
		ticket *models.Ticket
		err    error
	)
	if req.Payload != "" {
		ticket, err = h.Service.CheckInScanned(r.Context(), staffID, req.EventID, req.Payload)
	} else {
		ticket, err = h.Service.CheckIn(r.Context(), staffID, req.EventID, req.Code)
	}
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Check-in successful", ticket))
}
