package graph

import "errors"

// Stable error codes raised by core operations. Operations either succeed
// and mutate, or fail with one of these and leave state unchanged.
var (
	// ErrTypeMismatch is returned when a property is accessed through the
	// wrong-typed accessor.
	ErrTypeMismatch = errors.New("graph: property type mismatch")

	// ErrRange is returned for an unknown slot or an out-of-bounds index.
	ErrRange = errors.New("graph: slot or index out of range")

	// ErrPropertyReadOnly is returned when writing a read-only property.
	ErrPropertyReadOnly = errors.New("graph: property is read-only")

	// ErrCannotConnectToProperty is returned when the target property has
	// no modulation input.
	ErrCannotConnectToProperty = errors.New("graph: property does not accept audio modulation")

	// ErrCausesCycle is returned when a connection would make the graph
	// cyclic.
	ErrCausesCycle = errors.New("graph: connection would cause a cycle")

	// ErrInvalidHandle is returned for operations on destroyed objects.
	ErrInvalidHandle = errors.New("graph: invalid handle")

	// ErrInternal signals an invariant violation; the host should treat it
	// as a bug.
	ErrInternal = errors.New("graph: internal invariant violation")
)
