package models

import "time"

const (
	NotificationPurchase = "ticket.purchased"
	NotificationCheckIn  = "ticket.checked_in"
)

// TicketAttachment is one ticket's worth of email content: the human-typeable
// code plus the rendered QR image.
type TicketAttachment struct {
	CheckInCode string `json:"check_in_code"`
	QRCodePNG   []byte `json:"qr_code_png"`
}

// Notification is the message published to the notification topic after a
// purchase or check-in commits. It carries everything the email worker needs
// so the worker never has to read the database for rendering.
type Notification struct {
	Kind          string             `json:"kind"`
	Recipient     string             `json:"recipient"`
	EventID       string             `json:"event_id"`
	EventTitle    string             `json:"event_title"`
	EventLocation string             `json:"event_location"`
	EventStartsAt time.Time          `json:"event_starts_at"`
	CheckedInAt   time.Time          `json:"checked_in_at,omitzero"`
	Tickets       []TicketAttachment `json:"tickets,omitempty"`
}
