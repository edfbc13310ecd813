package mailer

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"bearcat-ticketing/internal/models"
)

// EmailLogStore records delivery attempts so operators can audit what was
// (or wasn't) sent without digging through logs.
type EmailLogStore interface {
	Create(ctx context.Context, log *models.EmailLog) error
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type DB struct {
	Bun *bun.DB
}

func (d *DB) Create(ctx context.Context, log *models.EmailLog) error {
	_, err := d.Bun.NewInsert().Model(log).Exec(ctx)
	return err
}

func (d *DB) MarkSent(ctx context.Context, id string, at time.Time) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.EmailLog)(nil)).
		Set("status = ?", models.EmailStatusSent).
		Set("sent_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.EmailLog)(nil)).
		Set("status = ?", models.EmailStatusFailed).
		Set("error = ?", reason).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
