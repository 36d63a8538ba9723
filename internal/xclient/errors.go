package xclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies failures of the search API boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindRejectedQuery
	KindRateLimited
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRejectedQuery:
		return "rejected_query"
	case KindRateLimited:
		return "rate_limited"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// titleUsageCap is the problem title X returns once the monthly post cap is spent.
const titleUsageCap = "UsageCapExceeded"

// Error is returned by every HTTPClient call that fails.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Title      string
	Detail     string
	// ResetAt is set for KindRateLimited when the API reported a reset time.
	ResetAt time.Time
	Err     error
}

func (e *Error) Error() string {
	msg := "x api " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if !e.ResetAt.IsZero() {
		msg += ", resets at " + e.ResetAt.UTC().Format(time.RFC3339)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool { return KindOf(err) == KindRateLimited }

// IsQuotaExhausted reports whether err is the monthly usage cap rather than the 15 minute window.
func IsQuotaExhausted(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindRateLimited && apiErr.Title == titleUsageCap
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindRejectedQuery
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindConfiguration
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindTransport
	default:
		return KindUnknown
	}
}
