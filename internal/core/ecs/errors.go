package ecs

import "errors"

// Contract-violation errors. Every structural operation either succeeds or
// fails with one of these before any mutation becomes visible. Negative
// lookups (an archetype that does not exist yet, Has returning false) are
// normal results, not errors.
var (
	// ErrInvalidEntity is returned when an identifier does not name a live
	// entity or component type.
	ErrInvalidEntity = errors.New("invalid entity identifier")

	// ErrNotRegistered is returned when no foundation component id exists
	// for a requested underlying type.
	ErrNotRegistered = errors.New("component type not registered")

	// ErrTypeMismatch is returned when a caller pairs a component id with
	// the wrong concrete type.
	ErrTypeMismatch = errors.New("component type mismatch")

	// ErrMissingComponent is returned when an operation names a component
	// the entity (or archetype) does not carry.
	ErrMissingComponent = errors.New("component not present")

	// ErrAlreadyPresent is returned when adding a component the entity
	// already carries.
	ErrAlreadyPresent = errors.New("component already present")

	// ErrNoBaseArchetype is returned when a clone is requested against a
	// signature no archetype was ever built for. It indicates an internal
	// inconsistency or a remove of a component the entity never had.
	ErrNoBaseArchetype = errors.New("no base archetype for signature")

	// ErrSignatureMismatch is returned when an ordered signature does not
	// align position-for-position with the declared component types.
	ErrSignatureMismatch = errors.New("signature does not match declared types")
)
