package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrPermissionDenied is returned by location providers when the user
	// refused to share a position. It is never retried.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrLocationUnavailable is returned by location providers when no
	// position could be determined right now.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrFieldLocked is returned when editing a form field that was filled
	// in from the device position.
	ErrFieldLocked = errors.New("field is locked")

	// ErrSuperseded is returned by a search whose results were discarded
	// because a newer search was submitted.
	ErrSuperseded = errors.New("search superseded by a newer submission")

	// ErrNotFound is returned by repositories for missing rows.
	ErrNotFound = errors.New("not found")
)

// UserMessager is implemented by errors that carry a message fit for
// showing to the user.
type UserMessager interface {
	UserMessage() string
}

// LocationErrorKind classifies terminal geolocation failures.
type LocationErrorKind int

const (
	LocationPermissionDenied LocationErrorKind = iota + 1
	LocationUnavailable
)

func (k LocationErrorKind) String() string {
	switch k {
	case LocationPermissionDenied:
		return "permission_denied"
	case LocationUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// LocationError is the terminal failure of a geolocation probe.
type LocationError struct {
	Kind     LocationErrorKind
	Attempts int
	Err      error
}

func (e *LocationError) Error() string {
	msg := fmt.Sprintf("location %s after %d attempt(s)", e.Kind, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LocationError) Unwrap() error { return e.Err }

// SearchErrorKind classifies parking search failures.
type SearchErrorKind int

const (
	SearchMalformedResponse SearchErrorKind = iota + 1
	SearchRequestFailed
)

func (k SearchErrorKind) String() string {
	switch k {
	case SearchMalformedResponse:
		return "malformed_response"
	case SearchRequestFailed:
		return "request_failed"
	default:
		return "unknown"
	}
}

// SearchError is returned by the parking search client.
// StatusCode is zero when the request never got a response.
type SearchError struct {
	Kind       SearchErrorKind
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *SearchError) Error() string {
	var b strings.Builder
	b.WriteString("parking search: ")
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	} else if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *SearchError) Unwrap() error { return e.Err }

// UserMessage describes request failures; malformed responses have no
// specific message and leave the choice of wording to the caller.
func (e *SearchError) UserMessage() string {
	if e.Kind != SearchRequestFailed {
		return ""
	}
	switch {
	case e.Status != "":
		return "parking search failed: " + e.Status
	case e.StatusCode != 0:
		return fmt.Sprintf("parking search failed: HTTP %d", e.StatusCode)
	default:
		return "parking search failed: server unreachable"
	}
}

// ValidationError lists the rejected fields of a search query.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid search query: " + e.UserMessage()
}

// UserMessage joins the field problems in a stable order.
func (e *ValidationError) UserMessage() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return strings.Join(parts, "; ")
}
