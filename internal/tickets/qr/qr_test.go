package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcat-ticketing/internal/apperr"
)

func TestEncodeParseRoundtrip(t *testing.T) {
	payload := EncodePayload("event-123", "AB12CD")
	assert.Equal(t, "event-123:AB12CD", payload)

	eventID, code, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "event-123", eventID)
	assert.Equal(t, "AB12CD", code)
}

func TestParsePayloadTrimsWhitespace(t *testing.T) {
	eventID, code, err := ParsePayload("  event-1:XYZ789\n")
	require.NoError(t, err)
	assert.Equal(t, "event-1", eventID)
	assert.Equal(t, "XYZ789", code)
}

func TestParsePayloadSplitsOnFirstDelimiter(t *testing.T) {
	// Codes never contain a colon, but a corrupt scan might.
	eventID, code, err := ParsePayload("event-1:AB:CD")
	require.NoError(t, err)
	assert.Equal(t, "event-1", eventID)
	assert.Equal(t, "AB:CD", code)
}

func TestParsePayloadRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"no-delimiter",
		":CODE00",
		"event-1:",
		":",
	}
	for _, payload := range cases {
		_, _, err := ParsePayload(payload)
		require.Error(t, err, "payload %q should be rejected", payload)
		assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG("event-1:AB12CD")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}))
}
