package ecs

import (
	"fmt"
	"reflect"
)

// Entity is a 64-bit identifier: a 32-bit serial in the low bits, a
// generation field above it, and a kind flag in the top byte. Entities and
// component ids are allocated from the same identifier space; the kind flag
// tells them apart.
type Entity uint64

// ComponentID identifies a registered component type. It shares Entity's
// encoding with the component kind flag set.
type ComponentID = Entity

const (
	serialMask      = 0x00000000FFFFFFFF
	generationShift = 32
	generationMask  = 0x00FFFFFF00000000
	kindShift       = 56
)

// Kind distinguishes what an identifier names.
type Kind uint8

const (
	KindInvalid   Kind = 0
	KindEntity    Kind = 1
	KindComponent Kind = 2
)

func makeID(serial uint32, generation uint32, kind Kind) Entity {
	return Entity(serial) |
		Entity(generation)<<generationShift&generationMask |
		Entity(kind)<<kindShift
}

// Serial returns the low 32-bit allocation counter of the identifier.
func (e Entity) Serial() uint32 { return uint32(e & serialMask) }

// Generation returns the identifier's generation field.
func (e Entity) Generation() uint32 { return uint32(e & generationMask >> generationShift) }

// Kind returns the identifier's kind flag.
func (e Entity) Kind() Kind { return Kind(e >> kindShift) }

// EntityManager allocates entity and component identifiers, remembers which
// underlying Go type each component id stands for, and keeps the foundation
// registry: the default component id per underlying type, used when a caller
// omits an explicit id. It holds no component data.
type EntityManager struct {
	types       map[Entity]reflect.Type
	foundations map[reflect.Type]ComponentID

	nextEntity    uint32
	nextComponent uint32
	generation    uint32
}

// NewEntityManager returns an empty manager. Serials start at 1 so the zero
// Entity is never valid.
func NewEntityManager() *EntityManager {
	return &EntityManager{
		types:         make(map[Entity]reflect.Type, 1024),
		foundations:   make(map[reflect.Type]ComponentID, 64),
		nextEntity:    1,
		nextComponent: 1,
		generation:    1,
	}
}

// CreateEntity allocates a fresh entity identifier.
func (em *EntityManager) CreateEntity() Entity {
	id := makeID(em.nextEntity, em.generation, KindEntity)
	em.nextEntity++
	em.types[id] = nil
	return id
}

// CreateComponentID allocates an identifier naming the given underlying type.
func (em *EntityManager) CreateComponentID(t reflect.Type) ComponentID {
	id := makeID(em.nextComponent, em.generation, KindComponent)
	em.nextComponent++
	em.types[id] = t
	return id
}

// Destroy invalidates an identifier. Serials are never reused.
func (em *EntityManager) Destroy(id Entity) {
	delete(em.types, id)
}

// IsValid reports whether id names a live entity or component type.
func (em *EntityManager) IsValid(id Entity) bool {
	_, ok := em.types[id]
	return ok
}

// IsValidFor reports whether id is live and stands for the given underlying
// type.
func (em *EntityManager) IsValidFor(id Entity, t reflect.Type) bool {
	have, ok := em.types[id]
	return ok && have == t
}

// UnderlyingType returns the Go type a component id stands for, or nil for
// plain entities and dead ids.
func (em *EntityManager) UnderlyingType(id Entity) reflect.Type {
	return em.types[id]
}

// MakeFoundation marks id as the default component id for its underlying
// type. A later registration for the same type replaces the earlier one.
func (em *EntityManager) MakeFoundation(id ComponentID) error {
	t, ok := em.types[id]
	if !ok || t == nil {
		return fmt.Errorf("make foundation %#x: %w", uint64(id), ErrInvalidEntity)
	}
	em.foundations[t] = id
	return nil
}

// FoundationFor resolves the default component id registered for t.
func (em *EntityManager) FoundationFor(t reflect.Type) (ComponentID, error) {
	id, ok := em.foundations[t]
	if !ok {
		return 0, fmt.Errorf("foundation for %s: %w", t, ErrNotRegistered)
	}
	return id, nil
}
