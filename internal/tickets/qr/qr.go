// Package qr builds and parses the scan payload carried by every ticket's
// QR image. The payload is the authoritative pair (event id, check-in code)
// joined by a delimiter; the PNG is derived data and regenerable.
package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"bearcat-ticketing/internal/apperr"
)

// Delimiter separates event id and check-in code. Event ids are UUIDs and
// codes are alphanumeric, so the first colon is unambiguous.
const Delimiter = ":"

const imageSize = 256

// EncodePayload joins an event id and check-in code into the scannable
// payload string.
func EncodePayload(eventID, code string) string {
	return eventID + Delimiter + code
}

// ParsePayload recovers (eventID, code) from a scanned payload.
func ParsePayload(payload string) (string, string, error) {
	payload = strings.TrimSpace(payload)
	eventID, code, found := strings.Cut(payload, Delimiter)
	if !found || eventID == "" || code == "" {
		return "", "", apperr.New(apperr.KindInvalidFormat, "Invalid check-in code")
	}
	return eventID, code, nil
}

// RenderPNG encodes the payload into a 256px PNG with medium error
// correction, matching what phone cameras scan reliably.
func RenderPNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR image: %w", err)
	}
	return png, nil
}
