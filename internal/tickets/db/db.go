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

// CreatePurchase commits a purchase as one transaction: the inventory
// advance on the event row and the ticket inserts either both land or
// neither does, so tickets_sold always equals the ticket count for the
// event.
//
// The inventory advance is conditioned on capacity inside the UPDATE
// itself. Two concurrent purchases cannot both pass the check, because the
// second one re-evaluates tickets_sold after the first commits.
func (d *DB) CreatePurchase(ctx context.Context, eventID string, quantity int, tickets []models.Ticket) error {
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("tickets_sold = tickets_sold + ?", quantity).
			Where("id = ?", eventID).
			Where("tickets_sold + ? <= capacity", quantity).
			Exec(ctx)
		if err != nil {
			return apperr.Wrap(apperr.KindTransientStore, "Failed to reserve tickets", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperr.Wrap(apperr.KindTransientStore, "Failed to reserve tickets", err)
		}
		if affected == 0 {
			exists, err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Where("id = ?", eventID).
				Exists(ctx)
			if err != nil {
				return apperr.Wrap(apperr.KindTransientStore, "Failed to reserve tickets", err)
			}
			if !exists {
				return apperr.New(apperr.KindNotFound, "Event not found")
			}
			return apperr.New(apperr.KindInsufficientInventory, "Not enough tickets available")
		}

		if _, err := tx.NewInsert().Model(&tickets).Exec(ctx); err != nil {
			return apperr.Wrap(apperr.KindTransientStore, "Failed to create tickets", err)
		}
		return nil
	})
	return err
}

// CodesInUse returns which of the candidate codes already exist for the
// event, so issuance can regenerate before inserting. The unique index on
// (event_id, check_in_code) remains the backstop.
func (d *DB) CodesInUse(ctx context.Context, eventID string, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var used []string
	err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("check_in_code").
		Where("event_id = ?", eventID).
		Where("check_in_code IN (?)", bun.In(codes)).
		Scan(ctx, &used)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to check code uniqueness", err)
	}
	return used, nil
}

func (d *DB) GetTicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Ticket not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to load ticket", err)
	}
	return &ticket, nil
}

func (d *DB) GetTicketByEventAndCode(ctx context.Context, eventID, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("event_id = ?", eventID).
		Where("check_in_code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Invalid check-in code")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to load ticket", err)
	}
	return &ticket, nil
}

func (d *DB) GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to fetch tickets", err)
	}
	return tickets, nil
}

func (d *DB) GetTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("event_id = ?", eventID).
		Order("purchased_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransientStore, "Failed to fetch tickets", err)
	}
	return tickets, nil
}

// MarkCheckedIn applies the active -> used transition with a conditional
// write. Returns false when the ticket was not in the active state, which
// is how a concurrent loser finds out it lost.
func (d *DB) MarkCheckedIn(ctx context.Context, ticketID, staffID string, at time.Time) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("checked_in = ?", true).
		Set("checked_in_at = ?", at).
		Set("checked_in_by = ?", staffID).
		Set("status = ?", models.TicketStatusUsed).
		Where("id = ?", ticketID).
		Where("status = ?", models.TicketStatusActive).
		Exec(ctx)
	if err != nil {
		return false, apperr.Wrap(apperr.KindTransientStore, "Failed to update ticket", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(apperr.KindTransientStore, "Failed to update ticket", err)
	}
	return affected == 1, nil
}

// CheckedInCountByEvent counts used tickets for the attendance dashboard.
func (d *DB) CheckedInCountByEvent(ctx context.Context, eventID string) (int, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("event_id = ?", eventID).
		Where("checked_in = ?", true).
		Count(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindTransientStore, "Failed to count check-ins", err)
	}
	return count, nil
}
