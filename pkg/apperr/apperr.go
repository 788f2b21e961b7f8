package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the operation that produced it
type Kind int

const (
	ParseInvalid Kind = iota
	ConnectionFailed
	ListingFailed
	TransferFailed
	ClipboardFailed
)

func (k Kind) String() string {
	switch k {
	case ParseInvalid:
		return "parse invalid"
	case ConnectionFailed:
		return "connection failed"
	case ListingFailed:
		return "listing failed"
	case TransferFailed:
		return "transfer failed"
	case ClipboardFailed:
		return "clipboard failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error wraps an underlying error with its Kind and the operation it came from
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New creates a new Error
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err and whether err carries one
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
