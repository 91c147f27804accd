// Package errs classifies errors that cross component boundaries in the
// node so callers can tell a dropped message from a reason to shut down.
package errs

import (
	"github.com/pkg/errors"
)

// Kind distinguishes retriable conditions from permanent ones, per the
// error handling design: invalid input and protocol violations recover
// locally, resource exhaustion retries, storage failures keep state in
// memory, and only Fatal aborts the node.
type Kind int

const (
	// Invalid covers deserialization failures, bad signatures, malformed
	// hashes. The offending message is dropped; never fatal.
	Invalid Kind = iota
	// Protocol covers handshake-out-of-order and similar violations.
	// Logged and the peer may be dropped, never a crash.
	Protocol
	// ResourceExhausted covers a full channel; the caller should await
	// backpressure or treat a timeout as retriable.
	ResourceExhausted
	// StorageIO covers disk failures; state stays in memory, retried on
	// the next successful I/O.
	StorageIO
	// Fatal covers corruption of internal invariants. Aborts the node.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Protocol:
		return "protocol"
	case ResourceExhausted:
		return "resource_exhausted"
	case StorageIO:
		return "storage_io"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Retriable reports whether a caller may reasonably try the operation
// again, as opposed to dropping it permanently.
func (k Kind) Retriable() bool {
	switch k {
	case ResourceExhausted, StorageIO:
		return true
	default:
		return false
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Cause() error  { return e.err }
func (e *kindError) Unwrap() error { return e.err }

// Wrap annotates err with a Kind and a stack trace via pkg/errors, or
// returns nil if err is nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: errors.Wrap(err, msg)}
}

// New creates a Kind-tagged error carrying a stack trace.
func New(kind Kind, msg string) error {
	return &kindError{kind: kind, err: errors.New(msg)}
}

// Newf creates a Kind-tagged, formatted error carrying a stack trace.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: errors.Errorf(format, args...)}
}

// KindOf extracts the Kind tagged onto err, defaulting to Fatal for
// errors that were never classified — an unclassified error crossing a
// component boundary is itself a bug worth treating conservatively.
func KindOf(err error) Kind {
	if err == nil {
		return Fatal
	}
	var ke *kindError
	for e := err; e != nil; {
		if k, ok := e.(*kindError); ok {
			ke = k
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if ke == nil {
		return Fatal
	}
	return ke.kind
}
