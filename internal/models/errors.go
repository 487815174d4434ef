package models

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell an empty result apart from a
// network fault without matching on strings.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindTransport
	KindDecode
	KindEmptyResult
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindEmptyResult:
		return "empty result"
	default:
		return "unknown"
	}
}

var (
	ErrNoChannel = errors.New("no channel found")
	ErrNoVideos  = errors.New("no videos found")
)

// Error is the error type returned by every stage of the report pipeline.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with the given kind and operation name.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsEmptyResult reports whether err means the API answered but had nothing to report.
func IsEmptyResult(err error) bool {
	return KindOf(err) == KindEmptyResult
}
