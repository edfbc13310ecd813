package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/models"
)

const maxCapacity = 100_000

type EventDBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error)
	Search(ctx context.Context, query string) ([]models.Event, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	StartsAt    time.Time       `json:"starts_at"`
	Capacity    int             `json:"capacity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type EventService struct {
	DB     EventDBLayer
	Users  UserStore
	Logger *logger.Logger
}

func NewEventService(db EventDBLayer, users UserStore, log *logger.Logger) *EventService {
	return &EventService{DB: db, Users: users, Logger: log}
}

// CreateEvent validates the request and persists a new event. Only admins
// (organizers) may create events; the role is read fresh from the store.
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, req CreateEventRequest) (*models.Event, error) {
	organizer, err := s.Users.GetUserByID(ctx, organizerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindUnauthorized, "Only organizers can create events")
		}
		return nil, err
	}
	if organizer.Role != models.RoleAdmin {
		return nil, apperr.New(apperr.KindUnauthorized, "Only organizers can create events")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" {
		return nil, apperr.New(apperr.KindInvalidFormat, "Event title is required")
	}
	if req.Location == "" {
		return nil, apperr.New(apperr.KindInvalidFormat, "Event location is required")
	}
	if req.StartsAt.IsZero() {
		return nil, apperr.New(apperr.KindInvalidFormat, "Event start time is required")
	}
	if req.Capacity < 1 || req.Capacity > maxCapacity {
		return nil, apperr.New(apperr.KindInvalidFormat, fmt.Sprintf("Capacity must be between 1 and %d", maxCapacity))
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperr.New(apperr.KindInvalidFormat, "Ticket price cannot be negative")
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		TicketsSold: 0,
		UnitPrice:   req.UnitPrice,
		CreatedBy:   organizer.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.Logger.Info("EVENT", fmt.Sprintf("event %s created by %s (capacity %d)", event.ID, organizer.ID, event.Capacity))
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEventByID(ctx, id)
}

func (s *EventService) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListUpcoming(ctx, time.Now())
}

// Search falls back to the upcoming listing when the query is blank.
func (s *EventService) Search(ctx context.Context, query string) ([]models.Event, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListUpcoming(ctx)
	}
	return s.DB.Search(ctx, query)
}
