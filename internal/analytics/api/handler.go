package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bearcat-ticketing/internal/analytics"
	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/auth"
	"bearcat-ticketing/internal/models"
	"bearcat-ticketing/internal/utils"
)

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	Service *analytics.Service
	Users   UserStore
}

func NewHandler(service *analytics.Service, users UserStore) *Handler {
	return &Handler{Service: service, Users: users}
}

// EventSummary serves the organizer dashboard; staff/admin only.
func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Users.GetUserByID(r.Context(), auth.UserID(r.Context()))
	if err != nil || !caller.CanCheckIn() {
		utils.WriteError(w, apperr.New(apperr.KindUnauthorized, "Only staff can view analytics"))
		return
	}

	summary, err := h.Service.EventSummary(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event summary", summary))
}
