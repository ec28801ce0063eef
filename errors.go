package sparsekit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArguments is returned when a precondition on an operation's
	// arguments is violated (nil callback, zero size, negative position).
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrOutOfRange is returned when a position does not address a live
	// element of the container.
	ErrOutOfRange = errors.New("position out of range")

	// ErrUnderflow is returned when a remove/pop is attempted on an empty
	// container.
	ErrUnderflow = errors.New("container underflow")

	// ErrCapacityOverflow is returned when a growth step would exceed the
	// maximum representable capacity. The container is left unchanged.
	ErrCapacityOverflow = errors.New("capacity overflow")

	// ErrInvalidObject is returned when an internally-created sub-structure
	// failed to construct.
	ErrInvalidObject = errors.New("invalid object")
)

// LifecyclePairError indicates a half-specified lifecycle policy: exactly one
// of the clone/dispose callbacks was provided. Callbacks must be supplied
// together or omitted together.
//
// Unwraps to ErrInvalidArguments.
type LifecyclePairError struct {
	HasClone   bool
	HasDispose bool
}

func (e *LifecyclePairError) Error() string {
	return fmt.Sprintf("half-specified lifecycle policy: clone=%t dispose=%t", e.HasClone, e.HasDispose)
}

func (e *LifecyclePairError) Unwrap() error { return ErrInvalidArguments }

// PositionError indicates a position that does not address a live element.
//
// Unwraps to ErrOutOfRange.
type PositionError struct {
	Pos    int
	Length int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position out of range: pos %d, length %d", e.Pos, e.Length)
}

func (e *PositionError) Unwrap() error { return ErrOutOfRange }

// CapacityOverflowError indicates a growth request that cannot be represented.
//
// Unwraps to ErrCapacityOverflow.
type CapacityOverflowError struct {
	Requested int
}

func (e *CapacityOverflowError) Error() string {
	return fmt.Sprintf("capacity overflow: requested %d elements", e.Requested)
}

func (e *CapacityOverflowError) Unwrap() error { return ErrCapacityOverflow }
