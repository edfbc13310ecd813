// Package analytics aggregates per-event sales and attendance figures for
// the organizer dashboard.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/models"
)

// EventSummary is the aggregated view backing the attendance dashboard.
type EventSummary struct {
	EventID     string          `json:"event_id"`
	Title       string          `json:"title"`
	StartsAt    time.Time       `json:"starts_at"`
	Capacity    int             `json:"capacity"`
	TicketsSold int             `json:"tickets_sold"`
	CheckedIn   int             `json:"checked_in"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// EventSummary aggregates capacity, sales, attendance, and revenue for one
// event.
func (s *Service) EventSummary(ctx context.Context, eventID string) (*EventSummary, error) {
	var event models.Event
	err := s.db.NewSelect().
		Model(&event).
		Where("id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Event not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to load event", err)
	}

	checkedIn, err := s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("event_id = ?", eventID).
		Where("checked_in = ?", true).
		Count(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to count check-ins", err)
	}

	var revenue decimal.Decimal
	err = s.db.NewSelect().
		Model((*models.Ticket)(nil)).
		ColumnExpr("COALESCE(SUM(price_paid), 0)").
		Where("event_id = ?", eventID).
		Scan(ctx, &revenue)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to sum revenue", err)
	}

	return &EventSummary{
		EventID:     event.ID,
		Title:       event.Title,
		StartsAt:    event.StartsAt,
		Capacity:    event.Capacity,
		TicketsSold: event.TicketsSold,
		CheckedIn:   checkedIn,
		Revenue:     revenue,
	}, nil
}
