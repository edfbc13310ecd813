package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindTransientStore, KindOf(errors.New("plain error")))

	wrapped := fmt.Errorf("outer: %w", New(KindInsufficientInventory, "sold out"))
	assert.Equal(t, KindInsufficientInventory, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:              http.StatusNotFound,
		KindUnauthorized:          http.StatusForbidden,
		KindInvalidFormat:         http.StatusBadRequest,
		KindInsufficientInventory: http.StatusConflict,
		KindEventMismatch:         http.StatusConflict,
		KindAlreadyCheckedIn:      http.StatusConflict,
		KindTransientStore:        http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(kind, "x")), "kind %s", kind)
	}

	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(errors.New("unclassified")))
}

func TestAlreadyCheckedInCarriesDetail(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	err := AlreadyCheckedIn(at, "staff-1")

	assert.Equal(t, KindAlreadyCheckedIn, KindOf(err))

	detail := DetailOf(err)
	require.NotNil(t, detail)
	assert.Equal(t, at, detail.CheckedInAt)
	assert.Equal(t, "staff-1", detail.CheckedInBy)

	// Detail survives wrapping.
	assert.NotNil(t, DetailOf(fmt.Errorf("handler: %w", err)))
	assert.Nil(t, DetailOf(New(KindNotFound, "missing")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindTransientStore, "Failed to reserve tickets", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Failed to reserve tickets")
	assert.Contains(t, err.Error(), "connection reset")
}
