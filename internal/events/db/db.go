package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindTransientStore, "Failed to create event", err)
	}
	return nil
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Event not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to load event", err)
	}
	return &event, nil
}

func (d *DB) ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("starts_at >= ?", now).
		Order("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to list events", err)
	}
	return events, nil
}

// Search matches events whose title or location contains the query,
// case-insensitively.
func (d *DB) Search(ctx context.Context, query string) ([]models.Event, error) {
	pattern := "%" + query + "%"
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("LOWER(title) LIKE LOWER(?)", pattern).
		WhereOr("LOWER(location) LIKE LOWER(?)", pattern).
		Order("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to search events", err)
	}
	return events, nil
}
