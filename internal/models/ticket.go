package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	TicketStatusActive = "active"
	TicketStatusUsed   = "used"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID          string          `bun:"id,pk" json:"id"`
	EventID     string          `bun:"event_id,notnull" json:"event_id"`
	UserID      string          `bun:"user_id,notnull" json:"user_id"`
	CheckInCode string          `bun:"check_in_code,notnull" json:"check_in_code"`
	ScanPayload string          `bun:"scan_payload,notnull" json:"scan_payload"`
	QRCode      []byte          `bun:"qr_code" json:"qr_code,omitempty"`
	PricePaid   decimal.Decimal `bun:"price_paid,notnull" json:"price_paid"`
	Status      string          `bun:"status,notnull,default:'active'" json:"status"`
	PurchasedAt time.Time       `bun:"purchased_at,notnull" json:"purchased_at"`
	CheckedIn   bool            `bun:"checked_in,notnull,default:false" json:"checked_in"`
	CheckedInAt time.Time       `bun:"checked_in_at,nullzero" json:"checked_in_at,omitempty"`
	CheckedInBy string          `bun:"checked_in_by,nullzero" json:"checked_in_by,omitempty"`
}
