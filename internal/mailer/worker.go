package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/models"
)

const sendTimeout = 30 * time.Second

// Worker turns notification events into emails. It sits behind the Kafka
// notification topic, so email latency and outages never touch the purchase
// or check-in request paths.
type Worker struct {
	Mailer Mailer
	Store  EmailLogStore
	Logger *logger.Logger
}

func NewWorker(m Mailer, store EmailLogStore, log *logger.Logger) *Worker {
	return &Worker{Mailer: m, Store: store, Logger: log}
}

// Handle processes one notification: record the attempt, render, send,
// record the outcome. Errors are returned for logging only; the consumer
// never retries, matching the fire-and-forget contract.
func (w *Worker) Handle(ctx context.Context, n models.Notification) error {
	subject, html, err := Render(n)
	if err != nil {
		return fmt.Errorf("render notification for %s: %w", n.Recipient, err)
	}

	entry := &models.EmailLog{
		ID:        uuid.NewString(),
		Recipient: n.Recipient,
		Subject:   subject,
		Status:    models.EmailStatusPending,
		CreatedAt: time.Now(),
	}
	if err := w.Store.Create(ctx, entry); err != nil {
		// Audit row failing is not a reason to drop the email itself.
		w.Logger.Warn("EMAIL", fmt.Sprintf("failed to record email log for %s: %v", n.Recipient, err))
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := w.Mailer.Send(sendCtx, n.Recipient, subject, html, ""); err != nil {
		if markErr := w.Store.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
			w.Logger.Warn("EMAIL", fmt.Sprintf("failed to mark email %s failed: %v", entry.ID, markErr))
		}
		return fmt.Errorf("send %s email to %s: %w", n.Kind, n.Recipient, err)
	}

	if err := w.Store.MarkSent(ctx, entry.ID, time.Now()); err != nil {
		w.Logger.Warn("EMAIL", fmt.Sprintf("failed to mark email %s sent: %v", entry.ID, err))
	}
	return nil
}
