package ecs

import "fmt"

// Archetype stores every entity sharing one exact component signature. It
// owns one column per component id plus the entity column; all of them are
// kept at the same length at all times, so row i across every column is one
// entity's full data. Archetypes are never destroyed: an emptied archetype
// stays registered in case an entity re-enters its signature.
type Archetype struct {
	sig      Signature
	slots    map[ComponentID]int
	columns  []Array
	entities []Entity
}

func newArchetype(sig Signature) *Archetype {
	return &Archetype{
		sig:   sig,
		slots: make(map[ComponentID]int, sig.Len()),
	}
}

// cloneLayout builds an empty archetype with the same signature and sibling
// columns of the same element types.
func cloneLayout(src *Archetype) *Archetype {
	a := newArchetype(src.sig)
	for _, id := range src.sig.ids {
		a.setColumn(id, src.columns[src.slots[id]].NewEmpty())
	}
	return a
}

// cloneLayoutSubset builds an empty archetype keeping only the columns named
// by keep. Every id in keep must exist in src.
func cloneLayoutSubset(src *Archetype, keep Signature) (*Archetype, error) {
	a := newArchetype(keep)
	for _, id := range keep.ids {
		slot, ok := src.slots[id]
		if !ok {
			return nil, fmt.Errorf("subset clone: id %#x: %w", uint64(id), ErrMissingComponent)
		}
		a.setColumn(id, src.columns[slot].NewEmpty())
	}
	return a, nil
}

// setColumn establishes the column slot for a component id. Called once per
// id during construction.
func (a *Archetype) setColumn(id ComponentID, arr Array) {
	a.slots[id] = len(a.columns)
	a.columns = append(a.columns, arr)
}

// column returns the type-erased column for id.
func (a *Archetype) column(id ComponentID) (Array, error) {
	slot, ok := a.slots[id]
	if !ok {
		return nil, fmt.Errorf("column %#x: %w", uint64(id), ErrMissingComponent)
	}
	return a.columns[slot], nil
}

// Signature returns the archetype's component signature.
func (a *Archetype) Signature() Signature {
	return a.sig
}

// Rows returns the current row count.
func (a *Archetype) Rows() int {
	return len(a.entities)
}

// EntityAt returns the entity occupying the given row.
func (a *Archetype) EntityAt(index int) Entity {
	return a.entities[index]
}

// pushEntity completes a logical row: every column must have received
// exactly one append for this row before the entity id lands here.
func (a *Archetype) pushEntity(e Entity) {
	a.entities = append(a.entities, e)
}

func (a *Archetype) swapRemoveEntity(index int) {
	last := len(a.entities) - 1
	a.entities[index] = a.entities[last]
	a.entities = a.entities[:last]
}

// transferRowTo moves the row at index into dst, whose signature must be a
// superset of this archetype's. Each shared column swap-backfills its
// vacated slot; the entity column mirrors the same swap. Returns the
// previous index of the row that backfilled the vacated slot (identical
// across all columns).
func (a *Archetype) transferRowTo(dst *Archetype, index int) (int, error) {
	backfill := index
	for _, id := range a.sig.ids {
		dcol, err := dst.column(id)
		if err != nil {
			return 0, fmt.Errorf("transfer row to %q: %w", dst.sig.Key(), err)
		}
		backfill, err = a.columns[a.slots[id]].TransferTo(dcol, index)
		if err != nil {
			return 0, fmt.Errorf("transfer row to %q: %w", dst.sig.Key(), err)
		}
	}
	dst.pushEntity(a.entities[index])
	a.swapRemoveEntity(index)
	return backfill, nil
}

// transferRowFrom moves the row at index in src into this archetype, for
// every component id this archetype carries; src's signature must be a
// superset. Returns the backfill index in src and this archetype's new row
// count — the inserted row always lands at the end, so newRows-1 is its
// index.
func (a *Archetype) transferRowFrom(src *Archetype, index int) (backfill, newRows int, err error) {
	backfill = index
	for _, id := range a.sig.ids {
		scol, err := src.column(id)
		if err != nil {
			return 0, 0, fmt.Errorf("transfer row from %q: %w", src.sig.Key(), err)
		}
		backfill, err = scol.TransferTo(a.columns[a.slots[id]], index)
		if err != nil {
			return 0, 0, fmt.Errorf("transfer row from %q: %w", src.sig.Key(), err)
		}
	}
	a.pushEntity(src.entities[index])
	src.swapRemoveEntity(index)
	return backfill, len(a.entities), nil
}

// moveLastInto mirrors an already-performed backfill on the one column that
// had no transfer destination: the component being removed.
func (a *Archetype) moveLastInto(id ComponentID, index int) error {
	col, err := a.column(id)
	if err != nil {
		return err
	}
	col.MoveLastInto(index)
	return nil
}

// removeRow discards the row at index outright, swap-backfilling every
// column. Used when an entity loses its last component or is destroyed.
// Returns the previous index of the row that filled the slot.
func (a *Archetype) removeRow(index int) int {
	last := len(a.entities) - 1
	for _, col := range a.columns {
		col.MoveLastInto(index)
	}
	a.swapRemoveEntity(index)
	return last
}

// appendValue pushes one typed value into the named column and returns its
// row index. The checked downcast here is the single boundary where a
// caller-supplied type meets a column; a mismatch fails before any mutation.
func appendValue[T any](a *Archetype, id ComponentID, v T) (int, error) {
	c, err := columnAs[T](a, id)
	if err != nil {
		return 0, err
	}
	return c.Append(v), nil
}

// rowValue returns a pointer to the stored value at (id, index). The pointer
// must not outlive the next structural mutation.
func rowValue[T any](a *Archetype, id ComponentID, index int) (*T, error) {
	c, err := columnAs[T](a, id)
	if err != nil {
		return nil, err
	}
	return c.At(index), nil
}

func columnAs[T any](a *Archetype, id ComponentID) (*Column[T], error) {
	col, err := a.column(id)
	if err != nil {
		return nil, err
	}
	c, ok := col.(*Column[T])
	if !ok {
		return nil, fmt.Errorf("column %#x holds %T: %w", uint64(id), col, ErrTypeMismatch)
	}
	return c, nil
}
