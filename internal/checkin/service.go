// Package checkin validates scanned or typed check-in codes and applies the
// one-time active -> used transition on the matching ticket.
package checkin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/metrics"
	"bearcat-ticketing/internal/models"
	"bearcat-ticketing/internal/tickets/qr"
)

type TicketStore interface {
	GetTicketByEventAndCode(ctx context.Context, eventID, code string) (*models.Ticket, error)
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
	MarkCheckedIn(ctx context.Context, ticketID, staffID string, at time.Time) (bool, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

type Service struct {
	Tickets   TicketStore
	Users     UserStore
	Events    EventStore
	Publisher NotificationPublisher
	Logger    *logger.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewService(tickets TicketStore, users UserStore, events EventStore, publisher NotificationPublisher, log *logger.Logger) *Service {
	return &Service{
		Tickets:   tickets,
		Users:     users,
		Events:    events,
		Publisher: publisher,
		Logger:    log,
		now:       time.Now,
	}
}

// CheckInScanned parses a scanned payload and checks the ticket in. When
// the staff member pre-selected an event, a payload from a different event
// is rejected before any ticket state is touched.
func (s *Service) CheckInScanned(ctx context.Context, staffID, selectedEventID, payload string) (*models.Ticket, error) {
	eventID, code, err := qr.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	if selectedEventID != "" && selectedEventID != eventID {
		return nil, apperr.New(apperr.KindEventMismatch, "Ticket belongs to a different event")
	}
	return s.CheckIn(ctx, staffID, eventID, code)
}

// CheckIn applies the active -> used transition exactly once. Privilege is
// re-read from the users table on every call; of N concurrent attempts
// against the same ticket exactly one succeeds and the rest observe
// AlreadyCheckedIn with the winner's timestamp and staff id.
func (s *Service) CheckIn(ctx context.Context, staffID, eventID, code string) (*models.Ticket, error) {
	if staffID == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "Only staff can check in tickets")
	}

	staff, err := s.Users.GetUserByID(ctx, staffID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindUnauthorized, "Only staff can check in tickets")
		}
		return nil, err
	}
	if !staff.CanCheckIn() {
		metrics.CheckIns.WithLabelValues("unauthorized").Inc()
		return nil, apperr.New(apperr.KindUnauthorized, "Only staff can check in tickets")
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if eventID == "" || code == "" {
		return nil, apperr.New(apperr.KindInvalidFormat, "Invalid check-in code")
	}

	ticket, err := s.Tickets.GetTicketByEventAndCode(ctx, eventID, code)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			metrics.CheckIns.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if ticket.Status == models.TicketStatusUsed {
		metrics.CheckIns.WithLabelValues("duplicate").Inc()
		return nil, apperr.AlreadyCheckedIn(ticket.CheckedInAt, ticket.CheckedInBy)
	}

	at := s.now()
	won, err := s.Tickets.MarkCheckedIn(ctx, ticket.ID, staffID, at)
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent scan got there first; report who and when.
		current, readErr := s.Tickets.GetTicketByID(ctx, ticket.ID)
		if readErr != nil {
			return nil, apperr.Wrap(apperr.KindTransientStore, "Check-in state unknown, re-scan the ticket", readErr)
		}
		metrics.CheckIns.WithLabelValues("duplicate").Inc()
		return nil, apperr.AlreadyCheckedIn(current.CheckedInAt, current.CheckedInBy)
	}

	ticket.CheckedIn = true
	ticket.CheckedInAt = at
	ticket.CheckedInBy = staffID
	ticket.Status = models.TicketStatusUsed

	s.Logger.LogCheckIn("CHECKIN", ticket.ID, fmt.Sprintf("checked in by %s", staffID))
	metrics.CheckIns.WithLabelValues("success").Inc()

	s.notifyCheckIn(ctx, ticket)

	return ticket, nil
}

// notifyCheckIn emails the ticket holder a confirmation. Best-effort: any
// failure here is logged and never unwinds the transition.
func (s *Service) notifyCheckIn(ctx context.Context, ticket *models.Ticket) {
	if s.Publisher == nil {
		return
	}

	buyer, err := s.Users.GetUserByID(ctx, ticket.UserID)
	if err != nil {
		s.Logger.Warn("CHECKIN", fmt.Sprintf("cannot notify buyer %s: %v", ticket.UserID, err))
		return
	}
	event, err := s.Events.GetEventByID(ctx, ticket.EventID)
	if err != nil {
		s.Logger.Warn("CHECKIN", fmt.Sprintf("cannot load event %s for notification: %v", ticket.EventID, err))
		return
	}

	n := models.Notification{
		Kind:          models.NotificationCheckIn,
		Recipient:     buyer.Email,
		EventID:       event.ID,
		EventTitle:    event.Title,
		EventLocation: event.Location,
		EventStartsAt: event.StartsAt,
		CheckedInAt:   ticket.CheckedInAt,
	}
	if err := s.Publisher.PublishNotification(ctx, n); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish check-in notification for ticket %s: %v", ticket.ID, err))
	}
}
