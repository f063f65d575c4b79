package sgp4

import (
	"fmt"
)

// ErrorCode classifies the failures of the propagator. The numbering follows the
// historical SGP4 error codes.
type ErrorCode uint8

const (
	// ErrNone means no error.
	ErrNone ErrorCode = iota
	// ErrMeanElements is a mean eccentricity out of [-0.001, 1) or a semi-major axis too small.
	ErrMeanElements
	// ErrMeanMotion is a non positive mean motion.
	ErrMeanMotion
	// ErrPerturbedEccentricity is a perturbed eccentricity out of [0, 1].
	ErrPerturbedEccentricity
	// ErrSemiLatusRectum is a negative semi-latus rectum.
	ErrSemiLatusRectum
	// ErrSuborbital flags epoch elements which are suborbital. Informational only.
	ErrSuborbital
	// ErrDecayed is a satellite below the surface of the Earth. The vectors are still computed.
	ErrDecayed
	// ErrTLERead is a TLE which could not be decoded.
	ErrTLERead
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "no error"
	case ErrMeanElements:
		return "mean elements invalid"
	case ErrMeanMotion:
		return "mean motion not positive"
	case ErrPerturbedEccentricity:
		return "perturbed eccentricity invalid"
	case ErrSemiLatusRectum:
		return "semi-latus rectum negative"
	case ErrSuborbital:
		return "suborbital at epoch"
	case ErrDecayed:
		return "satellite decayed"
	case ErrTLERead:
		return "TLE read error"
	default:
		return fmt.Sprintf("error code %d", uint8(c))
	}
}

// Fatal returns whether propagation results for this code are unusable.
func (c ErrorCode) Fatal() bool {
	return c != ErrNone && c != ErrSuborbital && c != ErrDecayed
}

// PropagationError is returned by Propagate and NewSatellite.
type PropagationError struct {
	Code   ErrorCode
	Tsince float64 // minutes since epoch
	Value  float64 // offending value (eccentricity, mean motion, radius in Earth radii, ...)
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("sgp4: %s at %.6f min since epoch (value %g)", e.Code, e.Tsince, e.Value)
}

// TLEError is returned when a two-line element set cannot be decoded.
type TLEError struct {
	Line  int
	Field string
	Err   error
}

func (e *TLEError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("tle: line %d: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("tle: line %d: field %s: %s", e.Line, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *TLEError) Unwrap() error {
	return e.Err
}

// Code always returns ErrTLERead.
func (e *TLEError) Code() ErrorCode {
	return ErrTLERead
}
