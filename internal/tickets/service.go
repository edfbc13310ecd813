package tickets

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/metrics"
	"bearcat-ticketing/internal/models"
	"bearcat-ticketing/internal/tickets/qr"
	"bearcat-ticketing/internal/utils"
)

type TicketDBLayer interface {
	CreatePurchase(ctx context.Context, eventID string, quantity int, tickets []models.Ticket) error
	CodesInUse(ctx context.Context, eventID string, codes []string) ([]string, error)
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
	GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	GetTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	CheckedInCountByEvent(ctx context.Context, eventID string) (int, error)
}

type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type PurchaseLock interface {
	Acquire(ctx context.Context, eventID, ownerID string) (bool, error)
	Release(ctx context.Context, eventID, ownerID string) error
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

type TicketService struct {
	DB        TicketDBLayer
	Events    EventStore
	Users     UserStore
	Lock      PurchaseLock
	Publisher NotificationPublisher
	Logger    *logger.Logger

	CodeLength   int
	MaxCodeRetry int
}

func NewTicketService(db TicketDBLayer, events EventStore, users UserStore, lock PurchaseLock, publisher NotificationPublisher, log *logger.Logger) *TicketService {
	return &TicketService{
		DB:           db,
		Events:       events,
		Users:        users,
		Lock:         lock,
		Publisher:    publisher,
		Logger:       log,
		CodeLength:   6,
		MaxCodeRetry: 5,
	}
}

// Purchase issues quantity tickets for an event to the buyer. The inventory
// advance and the ticket inserts commit in one transaction; on any failure
// before commit, no event or ticket state changes and the whole call is
// safe to retry.
func (s *TicketService) Purchase(ctx context.Context, eventID, buyerID string, quantity int) ([]models.Ticket, error) {
	if buyerID == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "You must be logged in to purchase tickets")
	}
	if quantity < 1 {
		return nil, apperr.New(apperr.KindInvalidFormat, "Quantity must be at least 1")
	}

	buyer, err := s.Users.GetUserByID(ctx, buyerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindUnauthorized, "You must be logged in to purchase tickets")
		}
		return nil, err
	}

	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Early rejection for the common case. The transaction's conditional
	// update is the authoritative check.
	if event.TicketsAvailable() < quantity {
		metrics.PurchaseFailures.WithLabelValues(string(apperr.KindInsufficientInventory)).Inc()
		return nil, apperr.New(apperr.KindInsufficientInventory, "Not enough tickets available")
	}

	purchaseID := uuid.NewString()
	if s.Lock != nil {
		ok, lockErr := s.Lock.Acquire(ctx, eventID, purchaseID)
		if lockErr != nil {
			// Lock is an optimization only; the conditional update still
			// prevents overselling without it.
			s.Logger.Warn("TICKET", fmt.Sprintf("purchase lock unavailable for event %s: %v", eventID, lockErr))
		} else if !ok {
			return nil, apperr.New(apperr.KindTransientStore, "Another purchase for this event is in progress, please retry")
		} else {
			defer func() {
				if relErr := s.Lock.Release(context.WithoutCancel(ctx), eventID, purchaseID); relErr != nil {
					s.Logger.Warn("TICKET", fmt.Sprintf("failed to release purchase lock for event %s: %v", eventID, relErr))
				}
			}()
		}
	}

	tickets, err := s.buildTickets(ctx, event, buyer.ID, quantity)
	if err != nil {
		return nil, err
	}

	if err := s.DB.CreatePurchase(ctx, eventID, quantity, tickets); err != nil {
		metrics.PurchaseFailures.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return nil, err
	}

	s.Logger.LogTicket("PURCHASE", eventID, fmt.Sprintf("%d ticket(s) issued to %s", quantity, buyer.ID))
	metrics.TicketsIssued.Add(float64(quantity))

	s.notifyPurchase(ctx, event, buyer, tickets)

	return tickets, nil
}

// buildTickets generates one ticket per unit with a check-in code unique
// within the event. Codes clashing with existing tickets are regenerated a
// bounded number of times; the unique index backs this up at insert time.
func (s *TicketService) buildTickets(ctx context.Context, event *models.Event, buyerID string, quantity int) ([]models.Ticket, error) {
	codes := make([]string, 0, quantity)
	seen := make(map[string]bool, quantity)

	for len(codes) < quantity {
		code, err := utils.GenerateCheckInCode(s.CodeLength)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to generate check-in code", err)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	for attempt := 0; ; attempt++ {
		used, err := s.DB.CodesInUse(ctx, event.ID, codes)
		if err != nil {
			return nil, err
		}
		if len(used) == 0 {
			break
		}
		if attempt >= s.MaxCodeRetry {
			return nil, apperr.New(apperr.KindTransientStore, "Failed to allocate unique check-in codes, please retry")
		}
		usedSet := make(map[string]bool, len(used))
		for _, c := range used {
			usedSet[c] = true
		}
		for i, code := range codes {
			if !usedSet[code] {
				continue
			}
			for {
				fresh, err := utils.GenerateCheckInCode(s.CodeLength)
				if err != nil {
					return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to generate check-in code", err)
				}
				if seen[fresh] {
					continue
				}
				delete(seen, code)
				seen[fresh] = true
				codes[i] = fresh
				break
			}
		}
	}

	now := time.Now()
	tickets := make([]models.Ticket, 0, quantity)
	for _, code := range codes {
		payload := qr.EncodePayload(event.ID, code)
		png, err := qr.RenderPNG(payload)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to render ticket QR", err)
		}
		tickets = append(tickets, models.Ticket{
			ID:          uuid.NewString(),
			EventID:     event.ID,
			UserID:      buyerID,
			CheckInCode: code,
			ScanPayload: payload,
			QRCode:      png,
			PricePaid:   event.UnitPrice,
			Status:      models.TicketStatusActive,
			PurchasedAt: now,
		})
	}
	return tickets, nil
}

// notifyPurchase hands the confirmation email off to the notification
// topic. Failures are logged and swallowed: the tickets are already valid.
func (s *TicketService) notifyPurchase(ctx context.Context, event *models.Event, buyer *models.User, tickets []models.Ticket) {
	if s.Publisher == nil {
		return
	}

	attachments := make([]models.TicketAttachment, 0, len(tickets))
	for _, t := range tickets {
		attachments = append(attachments, models.TicketAttachment{
			CheckInCode: t.CheckInCode,
			QRCodePNG:   t.QRCode,
		})
	}

	n := models.Notification{
		Kind:          models.NotificationPurchase,
		Recipient:     buyer.Email,
		EventID:       event.ID,
		EventTitle:    event.Title,
		EventLocation: event.Location,
		EventStartsAt: event.StartsAt,
		Tickets:       attachments,
	}
	if err := s.Publisher.PublishNotification(ctx, n); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish purchase notification for event %s: %v", event.ID, err))
	}
}

func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	return s.DB.GetTicketByID(ctx, ticketID)
}

func (s *TicketService) GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.DB.GetTicketsByUser(ctx, userID)
}

func (s *TicketService) GetTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	if _, err := s.Events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.DB.GetTicketsByEvent(ctx, eventID)
}

func (s *TicketService) GetCheckedInCount(ctx context.Context, eventID string) (int, error) {
	return s.DB.CheckedInCountByEvent(ctx, eventID)
}
