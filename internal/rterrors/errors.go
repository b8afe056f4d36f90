// Package rterrors defines the error surface shared by every solver and
// data-loading entry point in colorcore: a closed set of Kinds, wrapped
// in an *Error that satisfies errors.Is/errors.As.
package rterrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories a core entry point can report.
type Kind int

const (
	// NotConfigured means a required input slot (camera, illuminant,
	// observer, training data, or a metadata field) is absent or has
	// the wrong channel arity when a solve was invoked.
	NotConfigured Kind = iota
	// DataShape means Spectra have mismatched step, a vector/matrix has
	// the wrong length/size, or a channel lookup missed.
	DataShape
	// DomainRange means a scalar argument lies outside its documented
	// range (CCT out of bounds, a negative integration weight, ...).
	DomainRange
	// LoadFailure means a named database file could not be parsed.
	LoadFailure
	// SolveFailed means the IDT nonlinear optimizer terminated with no
	// successful step.
	SolveFailed
	// Unmatched means a find_camera/find_illuminant(name) search
	// returned no matching candidate.
	Unmatched
)

func (k Kind) String() string {
	switch k {
	case NotConfigured:
		return "NotConfigured"
	case DataShape:
		return "DataShape"
	case DomainRange:
		return "DomainRange"
	case LoadFailure:
		return "LoadFailure"
	case SolveFailed:
		return "SolveFailed"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every core entry point.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same Kind, whatever its
// Op and Err, so errors.Is(err, rterrors.Sentinel(rterrors.DataShape))
// matches every DataShape error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error for the given op/kind, optionally wrapping a
// lower-level cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Sentinel returns a comparison target for errors.Is, e.g.
// errors.Is(err, rterrors.Sentinel(rterrors.DataShape)).
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// Is is a convenience wrapper around errors.Is for callers outside this
// package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
