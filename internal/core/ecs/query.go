package ecs

import "fmt"

// Subset querying and iteration. A query is a pure function of the
// archetype map: it collects every archetype whose signature is a superset
// of the requested ids, then walks their rows. The ordered id list pairs
// position-for-position with the caller's type parameters; the pairing is
// verified once per archetype, at the typed boundary, before any row is
// visited.

// ArchetypesWithSubset returns every archetype carrying at least the given
// component ids.
func (c *Core) ArchetypesWithSubset(ids []ComponentID) []*Archetype {
	return c.archetypes.ArchetypesWithSubset(ids)
}

// ProcessMatching invokes fn once per matching row across all superset
// archetypes. The type-erased entry point; typed access goes through the
// Each helpers, schedulers that only need entity ids use this directly.
func (c *Core) ProcessMatching(ids []ComponentID, fn func(e Entity, a *Archetype, row int)) {
	for _, a := range c.archetypes.ArchetypesWithSubset(ids) {
		for i := 0; i < a.Rows(); i++ {
			fn(a.entities[i], a, i)
		}
	}
}

// Each1 iterates every entity carrying idA, passing a pointer to its value.
// The callback must not add or remove components; structural mutation
// relocates rows mid-walk.
func Each1[A any](c *Core, idA ComponentID, fn func(Entity, *A)) error {
	for _, arch := range c.archetypes.ArchetypesWithSubset([]ComponentID{idA}) {
		ca, err := columnAs[A](arch, idA)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		for i := 0; i < arch.Rows(); i++ {
			fn(arch.entities[i], ca.At(i))
		}
	}
	return nil
}

// Each2 iterates every entity carrying both idA and idB.
func Each2[A, B any](c *Core, idA, idB ComponentID, fn func(Entity, *A, *B)) error {
	for _, arch := range c.archetypes.ArchetypesWithSubset([]ComponentID{idA, idB}) {
		ca, err := columnAs[A](arch, idA)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		cb, err := columnAs[B](arch, idB)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		for i := 0; i < arch.Rows(); i++ {
			fn(arch.entities[i], ca.At(i), cb.At(i))
		}
	}
	return nil
}

// Each3 iterates every entity carrying idA, idB and idC.
func Each3[A, B, C any](c *Core, idA, idB, idC ComponentID, fn func(Entity, *A, *B, *C)) error {
	for _, arch := range c.archetypes.ArchetypesWithSubset([]ComponentID{idA, idB, idC}) {
		ca, err := columnAs[A](arch, idA)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		cb, err := columnAs[B](arch, idB)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		cc, err := columnAs[C](arch, idC)
		if err != nil {
			return fmt.Errorf("each: %w", err)
		}
		for i := 0; i < arch.Rows(); i++ {
			fn(arch.entities[i], ca.At(i), cb.At(i), cc.At(i))
		}
	}
	return nil
}
