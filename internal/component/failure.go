package component

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks reducer errors caused by a message that cannot be valid
// in the current state. They indicate a programming defect, not a user-facing failure.
var ErrContractViolation = errors.New("component contract violation")

// ErrClosed is returned by queue operations once the component has been closed.
var ErrClosed = errors.New("component closed")

// Source identifies where a failure originated.
type Source int

const (
	// SourceQuery is a transport or decoding failure of an initiated query.
	SourceQuery Source = iota + 1
	// SourceMessage is an error returned by the reducer for a domain message.
	SourceMessage
	// SourceInternal is a contract violation tolerated outside strict mode.
	SourceInternal
)

func (s Source) String() string {
	switch s {
	case SourceQuery:
		return "query"
	case SourceMessage:
		return "message"
	case SourceInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Failure is the tagged error stored in a component's failure slot.
type Failure struct {
	Source  Source
	Context string // human-readable context of a failed query
	QueryID string
	Err     error
}

// Error returns the context-qualified message shown to operators.
func (f *Failure) Error() string {
	if f.Context == "" {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Context, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
