// Package mailer delivers purchase and check-in confirmation emails. It is
// strictly best-effort: nothing here can fail a purchase or a check-in.
package mailer

import "context"

// Mailer sends one email. Implementations must respect ctx deadlines.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}
