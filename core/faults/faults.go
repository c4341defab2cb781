// Package faults defines the closed error taxonomy surfaced by the service.
// Every operation failure maps to one of the kinds below so callers can handle
// them exhaustively.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidTransition
	KindConflictingLink
	KindValidation
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindConflictingLink:
		return "conflicting_link"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Fault is an error with a kind attached.
type Fault struct {
	Kind Kind
	Msg  string
}

func (f *Fault) Error() string { return f.Msg }

// NotFound reports a missing site, tank, order or delivery.
func NotFound(format string, args ...any) error {
	return &Fault{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a blocked or impossible order status change.
func InvalidTransition(format string, args ...any) error {
	return &Fault{Kind: KindInvalidTransition, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a delivery link that collides with an existing one.
func Conflict(format string, args ...any) error {
	return &Fault{Kind: KindConflictingLink, Msg: fmt.Sprintf(format, args...)}
}

// Invalid reports a malformed or incomplete request.
func Invalid(format string, args ...any) error {
	return &Fault{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain. Errors outside the taxonomy
// report KindUnknown.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
