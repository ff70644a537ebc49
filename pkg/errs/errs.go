// Package errs defines the failure taxonomy shared by every handle package.
//
// Sentinel kinds satisfy errors.As via *Error; each failure site wraps its
// message with stackerr so a caller can recover the allocation/failure
// site from the returned error without a logging sidecar.
package errs

import (
	"errors"
	"fmt"

	"github.com/facebookgo/stackerr"
)

// Kind is one of the fixed failure kinds a handle operation can report.
type Kind int

const (
	_ Kind = iota
	// KindBadObjectCast: exact/polymorphic cast to an incompatible type,
	// or dereference of a null aliasing pointer/reference.
	KindBadObjectCast
	// KindObjectNotFn: callable invocation, or callable-reference
	// construction, against a non-callable or empty handle.
	KindObjectNotFn
	// KindBadWeakObject: promotion of an expired weak handle.
	KindBadWeakObject
	// KindOutOfRange: indexed access past an array handle's length.
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindBadObjectCast:
		return "BadObjectCast"
	case KindObjectNotFn:
		return "ObjectNotFn"
	case KindBadWeakObject:
		return "BadWeakObject"
	case KindOutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every rcbox failure is returned as.
// cause is a stackerr-wrapped error so the formatted message carries the
// stack of the call that raised the failure.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }

func wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: stackerr.Wrap(cause)}
}

// KindOf reports which taxonomy bucket err belongs to, or 0 if err was
// not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// BadObjectCast returns a stack-carrying error for an incompatible cast,
// naming the requested and actual type tags.
func BadObjectCast(requested, actual string) error {
	return wrap(KindBadObjectCast, fmt.Errorf("rcbox: bad object cast: requested %q, holder is %q", requested, actual))
}

// BadObjectCastNil returns a stack-carrying error for dereferencing a null
// aliasing pointer/reference.
func BadObjectCastNil() error {
	return wrap(KindBadObjectCast, errors.New("rcbox: bad object cast: null aliasing pointer"))
}

// ObjectNotFn returns a stack-carrying error for calling, or building a
// reference to, a handle that does not hold a callable.
func ObjectNotFn() error {
	return wrap(KindObjectNotFn, errors.New("rcbox: object is not callable"))
}

// BadWeakObject returns a stack-carrying error for promoting an expired
// weak handle.
func BadWeakObject() error {
	return wrap(KindBadWeakObject, errors.New("rcbox: weak handle has expired"))
}

// OutOfRange returns a stack-carrying error for an out-of-bounds index.
func OutOfRange(index, length int) error {
	return wrap(KindOutOfRange, fmt.Errorf("rcbox: index %d out of range [0,%d)", index, length))
}
