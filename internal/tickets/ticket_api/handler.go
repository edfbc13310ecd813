package ticket_api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/auth"
	"bearcat-ticketing/internal/models"
	"bearcat-ticketing/internal/tickets"
	"bearcat-ticketing/internal/utils"
)

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	TicketService *tickets.TicketService
	Users         UserStore
}

func NewHandler(service *tickets.TicketService, users UserStore) *Handler {
	return &Handler{TicketService: service, Users: users}
}

type purchaseRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// PurchaseTickets issues tickets for the authenticated buyer.
func (h *Handler) PurchaseTickets(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	issued, err := h.TicketService.Purchase(r.Context(), req.EventID, auth.UserID(r.Context()), req.Quantity)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Tickets purchased", issued))
}

// MyTickets lists the caller's tickets.
func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	list, err := h.TicketService.GetTicketsByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets", list))
}

// ViewTicket returns one ticket; only the owner or staff may see it.
func (h *Handler) ViewTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.TicketService.GetTicket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	callerID := auth.UserID(r.Context())
	if ticket.UserID != callerID {
		caller, err := h.Users.GetUserByID(r.Context(), callerID)
		if err != nil || !caller.CanCheckIn() {
			utils.WriteError(w, apperr.New(apperr.KindUnauthorized, "You do not have access to this ticket"))
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket", ticket))
}

// ListTicketsByEvent is the staff attendance view.
func (h *Handler) ListTicketsByEvent(w http.ResponseWriter, r *http.Request) {
	if !h.callerIsStaff(r) {
		utils.WriteError(w, apperr.New(apperr.KindUnauthorized, "Only staff can view event tickets"))
		return
	}

	list, err := h.TicketService.GetTicketsByEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets", list))
}

// CheckedInCount reports how many tickets have been used for an event.
func (h *Handler) CheckedInCount(w http.ResponseWriter, r *http.Request) {
	if !h.callerIsStaff(r) {
		utils.WriteError(w, apperr.New(apperr.KindUnauthorized, "Only staff can view attendance"))
		return
	}

	eventID := chi.URLParam(r, "eventID")
	count, err := h.TicketService.GetCheckedInCount(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Checked-in count", map[string]interface{}{
		"event_id":         eventID,
		"checked_in_count": count,
	}))
}

func (h *Handler) callerIsStaff(r *http.Request) bool {
	caller, err := h.Users.GetUserByID(r.Context(), auth.UserID(r.Context()))
	return err == nil && caller.CanCheckIn()
}
