package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrSeatOutOfRange       = errors.New("seat out of range")
	ErrInvalidTicketType    = errors.New("invalid ticket type")
	ErrNoPendingSelection   = errors.New("no pending selection for seat")
	ErrSelectionClosed      = errors.New("selection already booked")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// ErrorKind classifies every booking failure the client can see.
type ErrorKind string

const (
	KindEmptySelection     ErrorKind = "empty_selection"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindInvalidBookingData ErrorKind = "invalid_booking_data"
	KindLoginRequired      ErrorKind = "login_required"
	KindNotAuthorized      ErrorKind = "not_authorized"
	KindAlreadyBooked      ErrorKind = "already_booked"
	KindGeneric            ErrorKind = "booking_error"
)

// MessageKey is the translation key for the kind's user-facing message.
func (k ErrorKind) MessageKey() string {
	switch k {
	case KindEmptySelection:
		return "seat.selectSeatsAndTypes"
	case KindUnauthenticated, KindLoginRequired:
		return "auth.loginRequired"
	case KindInvalidBookingData:
		return "seat.invalidBookingData"
	case KindNotAuthorized:
		return "auth.notAuthorized"
	case KindAlreadyBooked:
		return "seat.alreadyBooked"
	default:
		return "seat.bookingError"
	}
}

// Navigation is where the client must go after the failure.
func (k ErrorKind) Navigation() Navigation {
	switch k {
	case KindUnauthenticated, KindLoginRequired:
		return NavigateLogin
	}
	return NavigateNone
}

// Local kinds are detected before any request leaves the gateway.
func (k ErrorKind) Local() bool {
	return k == KindEmptySelection || k == KindUnauthenticated
}

// BookingError is the single typed failure returned by a submission.
type BookingError struct {
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *BookingError) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BookingError) Unwrap() error { return e.Err }

// Is matches any *BookingError of the same kind.
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind) *BookingError {
	return &BookingError{Kind: kind}
}

// Sentinels for errors.Is.
var (
	ErrEmptySelection     = newError(KindEmptySelection)
	ErrUnauthenticated    = newError(KindUnauthenticated)
	ErrInvalidBookingData = newError(KindInvalidBookingData)
	ErrLoginRequired      = newError(KindLoginRequired)
	ErrNotAuthorized      = newError(KindNotAuthorized)
	ErrAlreadyBooked      = newError(KindAlreadyBooked)
	ErrGeneric            = newError(KindGeneric)
)

// BackendError carries a non-success status from the booking backend.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// Classify converts any submission failure into exactly one BookingError.
func Classify(err error) *BookingError {
	if err == nil {
		return nil
	}

	var be *BookingError
	if errors.As(err, &be) {
		return be
	}

	var backend *BackendError
	if errors.As(err, &backend) {
		out := &BookingError{Status: backend.StatusCode, Err: err}
		switch backend.StatusCode {
		case http.StatusBadRequest:
			out.Kind = KindInvalidBookingData
			out.Detail = backend.Detail
		case http.StatusUnauthorized:
			out.Kind = KindLoginRequired
		case http.StatusForbidden:
			out.Kind = KindNotAuthorized
		case http.StatusConflict:
			out.Kind = KindAlreadyBooked
		default:
			out.Kind = KindGeneric
		}
		return out
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &BookingError{Kind: KindGeneric, Detail: "timeout", Err: err}
	}

	return &BookingError{Kind: KindGeneric, Err: err}
}

// KindOf returns the kind of a classified error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
