package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// location records where an entity's data currently lives: which archetype
// (by signature) and which row. Exactly one record exists per entity that
// owns at least one component; no record means no components.
type location struct {
	sig   Signature
	index int
}

// ArchetypeManager owns every archetype, keyed by signature, and the
// authoritative entity→location map. It is the sole writer of both. All
// structural mutation — adding and removing components, destroying rows —
// routes through it.
type ArchetypeManager struct {
	archetypes map[string]*Archetype
	order      []*Archetype // creation order, scanned by subset queries
	locations  map[Entity]location
	log        *zap.Logger
}

// NewArchetypeManager returns an empty manager. A nil logger disables
// logging.
func NewArchetypeManager(log *zap.Logger) *ArchetypeManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArchetypeManager{
		archetypes: make(map[string]*Archetype, 64),
		locations:  make(map[Entity]location, 1024),
		log:        log,
	}
}

// FindArchetype returns the archetype with exactly the given signature, or
// nil. A nil result is a normal outcome, not an error; callers use it to
// decide between creating and reusing.
func (m *ArchetypeManager) FindArchetype(sig Signature) *Archetype {
	return m.archetypes[sig.Key()]
}

// ArchetypesWithSubset returns every archetype whose signature is a superset
// of the requested ids. Plain linear scan; archetype count stays small
// relative to entity count.
func (m *ArchetypeManager) ArchetypesWithSubset(ids []ComponentID) []*Archetype {
	var out []*Archetype
	for _, a := range m.order {
		if a.sig.Includes(ids) {
			out = append(out, a)
		}
	}
	return out
}

// Location returns the entity's current signature and row index.
func (m *ArchetypeManager) Location(e Entity) (Signature, int, bool) {
	loc, ok := m.locations[e]
	return loc.sig, loc.index, ok
}

// HasComponent reports whether id is part of the entity's current signature.
func (m *ArchetypeManager) HasComponent(e Entity, id ComponentID) bool {
	loc, ok := m.locations[e]
	return ok && loc.sig.Contains(id)
}

// ArchetypeCount returns how many archetypes exist.
func (m *ArchetypeManager) ArchetypeCount() int {
	return len(m.order)
}

// EntityCount returns how many entities currently own components.
func (m *ArchetypeManager) EntityCount() int {
	return len(m.locations)
}

func (m *ArchetypeManager) insert(a *Archetype) {
	m.archetypes[a.sig.Key()] = a
	m.order = append(m.order, a)
	m.log.Debug("archetype created",
		zap.String("signature", a.sig.Key()),
		zap.Int("components", a.sig.Len()),
		zap.Int("total", len(m.order)))
}

// subClone locates or lazily builds the archetype for sub by cloning the
// kept columns of the archetype for base. Memoized by signature: repeated
// removals reuse the same destination.
func (m *ArchetypeManager) subClone(sub, base Signature) (*Archetype, error) {
	if a := m.FindArchetype(sub); a != nil {
		return a, nil
	}
	src := m.FindArchetype(base)
	if src == nil {
		return nil, fmt.Errorf("sub clone of %q: %w", base.Key(), ErrNoBaseArchetype)
	}
	a, err := cloneLayoutSubset(src, sub)
	if err != nil {
		return nil, err
	}
	m.insert(a)
	return a, nil
}

// fixLocation repoints the entity that backfilled a vacated row. prevIndex
// is the row the entity occupied before the swap, newIndex the slot it
// fills now. Implemented once and shared by the add and remove paths.
func (m *ArchetypeManager) fixLocation(a *Archetype, prevIndex, newIndex int) {
	if prevIndex == newIndex {
		return // the vacated row was the last one; nothing moved
	}
	moved := a.entities[newIndex]
	loc := m.locations[moved]
	loc.index = newIndex
	m.locations[moved] = loc
}

// AddComponent attaches a typed value to an entity, migrating its row to
// the archetype for (current signature ∪ {id}). Fresh entities get a
// minimal single-component archetype directly.
func AddComponent[T any](m *ArchetypeManager, e Entity, id ComponentID, v T) error {
	loc, ok := m.locations[e]
	if !ok {
		return addNew(m, e, id, v)
	}
	return addExisting(m, e, id, v, loc)
}

func addNew[T any](m *ArchetypeManager, e Entity, id ComponentID, v T) error {
	sig := NewSignature(id)
	a := m.FindArchetype(sig)
	if a == nil {
		a = newArchetype(sig)
		a.setColumn(id, NewColumn[T]())
		m.insert(a)
	}
	index, err := appendValue(a, id, v)
	if err != nil {
		return fmt.Errorf("add %#x to fresh entity: %w", uint64(id), err)
	}
	a.pushEntity(e)
	m.locations[e] = location{sig: sig, index: index}
	return nil
}

func addExisting[T any](m *ArchetypeManager, e Entity, id ComponentID, v T, loc location) error {
	if loc.sig.Contains(id) {
		return fmt.Errorf("add %#x: %w", uint64(id), ErrAlreadyPresent)
	}
	src := m.FindArchetype(loc.sig)
	if src == nil {
		return fmt.Errorf("add %#x: location names %q: %w", uint64(id), loc.sig.Key(), ErrNoBaseArchetype)
	}

	newSig := loc.sig.With(id)
	dst := m.FindArchetype(newSig)
	if dst == nil {
		dst = cloneLayout(src)
		dst.sig = newSig
		dst.setColumn(id, NewColumn[T]())
		m.insert(dst)
	}
	// Reject a mistyped value before touching any row.
	if _, err := columnAs[T](dst, id); err != nil {
		return fmt.Errorf("add %#x: %w", uint64(id), err)
	}

	backfill, err := src.transferRowTo(dst, loc.index)
	if err != nil {
		return fmt.Errorf("add %#x: %w", uint64(id), err)
	}
	m.fixLocation(src, backfill, loc.index)

	index, err := appendValue(dst, id, v)
	if err != nil {
		return fmt.Errorf("add %#x: %w", uint64(id), err)
	}
	m.locations[e] = location{sig: newSig, index: index}
	return nil
}

// RemoveComponent detaches a component, migrating the entity's remaining
// row to the archetype for (current signature \ {id}). The dropped column
// has no transfer destination, so its backfill is mirrored separately;
// the order of the two steps keeps every column's row layout aligned for
// the displaced-entity fix-up. Removing the last component deletes the
// entity's location record entirely.
func (m *ArchetypeManager) RemoveComponent(e Entity, id ComponentID) error {
	loc, ok := m.locations[e]
	if !ok || !loc.sig.Contains(id) {
		return fmt.Errorf("remove %#x: %w", uint64(id), ErrMissingComponent)
	}
	src := m.FindArchetype(loc.sig)
	if src == nil {
		return fmt.Errorf("remove %#x: location names %q: %w", uint64(id), loc.sig.Key(), ErrNoBaseArchetype)
	}

	newSig := loc.sig.Without(id)
	if newSig.Len() == 0 {
		backfill := src.removeRow(loc.index)
		m.fixLocation(src, backfill, loc.index)
		delete(m.locations, e)
		return nil
	}

	dst, err := m.subClone(newSig, loc.sig)
	if err != nil {
		return fmt.Errorf("remove %#x: %w", uint64(id), err)
	}

	backfill, newRows, err := dst.transferRowFrom(src, loc.index)
	if err != nil {
		return fmt.Errorf("remove %#x: %w", uint64(id), err)
	}
	if err := src.moveLastInto(id, loc.index); err != nil {
		return fmt.Errorf("remove %#x: %w", uint64(id), err)
	}
	m.fixLocation(src, backfill, loc.index)

	m.locations[e] = location{sig: newSig, index: newRows - 1}
	return nil
}

// RemoveAll discards every component an entity owns in one step.
func (m *ArchetypeManager) RemoveAll(e Entity) {
	loc, ok := m.locations[e]
	if !ok {
		return
	}
	a := m.FindArchetype(loc.sig)
	backfill := a.removeRow(loc.index)
	m.fixLocation(a, backfill, loc.index)
	delete(m.locations, e)
}
