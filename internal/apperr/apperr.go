package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failure so handlers can map it to an HTTP status and
// callers can decide whether a retry is safe. Only KindTransientStore is
// retryable, and only for purchases.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindInsufficientInventory Kind = "insufficient_inventory"
	KindUnauthorized          Kind = "unauthorized"
	KindInvalidFormat         Kind = "invalid_format"
	KindEventMismatch         Kind = "event_mismatch"
	KindAlreadyCheckedIn      Kind = "already_checked_in"
	KindTransientStore        Kind = "transient_store_failure"
)

// CheckInDetail reports who performed the first check-in and when, so door
// staff can resolve a duplicate scan without a second lookup.
type CheckInDetail struct {
	CheckedInAt time.Time `json:"checked_in_at"`
	CheckedInBy string    `json:"checked_in_by"`
}

type Error struct {
	Kind    Kind
	Message string
	Detail  *CheckInDetail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// AlreadyCheckedIn builds the rejection for a duplicate check-in attempt,
// exposing the winning check-in's staff id and timestamp.
func AlreadyCheckedIn(at time.Time, by string) *Error {
	return &Error{
		Kind:    KindAlreadyCheckedIn,
		Message: "Ticket has already been checked in",
		Detail:  &CheckInDetail{CheckedInAt: at, CheckedInBy: by},
	}
}

// KindOf extracts the Kind from an error chain; unknown errors are treated
// as transient store failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransientStore
}

// DetailOf returns the check-in detail attached to an error, if any.
func DetailOf(err error) *CheckInDetail {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return nil
}

// HTTPStatus maps an error to the status code its kind warrants.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidFormat:
		return http.StatusBadRequest
	case KindInsufficientInventory, KindEventMismatch, KindAlreadyCheckedIn:
		return http.StatusConflict
	case KindTransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
