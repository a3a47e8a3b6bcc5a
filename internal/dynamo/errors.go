package dynamo

import (
	"errors"
	"fmt"
)

// Configuration errors, reported before the first tick.
var (
	// ErrNegativeMass indicates a body configured with mass < 0.
	ErrNegativeMass = errors.New("dynamo: negative mass")

	// ErrNonFinite indicates a NaN or Inf in a body or constant.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf)")

	// ErrFixedMoving indicates a fixed body configured with a nonzero velocity.
	ErrFixedMoving = errors.New("dynamo: fixed body has nonzero velocity")

	// ErrInvalidSize indicates a negative visual size.
	ErrInvalidSize = errors.New("dynamo: negative body size")

	// ErrInvalidConstant indicates a simulation constant outside its valid range.
	ErrInvalidConstant = errors.New("dynamo: simulation constant out of valid range")

	// ErrInvalidColor indicates a color tag that cannot be parsed.
	ErrInvalidColor = errors.New("dynamo: invalid color")
)

// BodyError wraps a configuration error with the offending body.
type BodyError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *BodyError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("body %d (%s): %v", e.Index, e.Name, e.Wrapped)
	}
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// ConstantError wraps ErrInvalidConstant or ErrNonFinite with the constant name.
type ConstantError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("constant %s=%g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ConstantError) Unwrap() error {
	return e.Wrapped
}
