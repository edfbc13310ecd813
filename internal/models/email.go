package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailLog records every outbound email attempt so delivery can be audited
// without blocking the operation that triggered it.
type EmailLog struct {
	bun.BaseModel `bun:"table:emails"`

	ID        string    `bun:"id,pk" json:"id"`
	Recipient string    `bun:"recipient,notnull" json:"recipient"`
	Subject   string    `bun:"subject,notnull" json:"subject"`
	Status    string    `bun:"status,notnull" json:"status"`
	Error     string    `bun:"error" json:"error,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	SentAt    time.Time `bun:"sent_at,nullzero" json:"sent_at,omitempty"`
}
