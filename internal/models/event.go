package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string          `bun:"id,pk" json:"id"`
	Title       string          `bun:"title,notnull" json:"title"`
	Description string          `bun:"description" json:"description"`
	Location    string          `bun:"location,notnull" json:"location"`
	StartsAt    time.Time       `bun:"starts_at,notnull" json:"starts_at"`
	Capacity    int             `bun:"capacity,notnull" json:"capacity"`
	TicketsSold int             `bun:"tickets_sold,notnull,default:0" json:"tickets_sold"`
	UnitPrice   decimal.Decimal `bun:"unit_price,notnull" json:"unit_price"`
	CreatedBy   string          `bun:"created_by,notnull" json:"created_by"`
	CreatedAt   time.Time       `bun:"created_at,notnull" json:"created_at"`
}

// TicketsAvailable is derived; tickets_sold is the authoritative counter.
func (e *Event) TicketsAvailable() int {
	return e.Capacity - e.TicketsSold
}
