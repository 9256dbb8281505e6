package ecs

import "fmt"

// Array is the type-erased surface of a component column. It is the only
// view the rest of the storage layer has of a column: enough to build empty
// siblings for new archetypes and to relocate rows between archetypes of
// the same element type, nothing more. One interface, one generic
// implementation.
type Array interface {
	// NewEmpty returns a new empty column of the identical element type.
	NewEmpty() Array

	// TransferTo appends the value at index to dst, swap-backfills the
	// vacated slot with the column's current last element and shrinks by
	// one. It returns the previous index of the element that now occupies
	// the vacated slot, which equals the post-shrink length. dst must hold
	// the same element type.
	TransferTo(dst Array, index int) (int, error)

	// MoveLastInto overwrites the value at index with the current last
	// element and shrinks by one. Used to mirror a backfill on a column
	// that has no transfer destination.
	MoveLastInto(index int)

	// Len returns the current element count.
	Len() int
}

// Column is a packed, growable sequence of one component type. Out-of-range
// indices are caller contract violations; the spatial bookkeeping above this
// layer is what keeps them in range.
type Column[T any] struct {
	data []T
}

// NewColumn returns an empty column of T.
func NewColumn[T any]() *Column[T] {
	return &Column[T]{}
}

// NewEmpty returns a new empty column of the same element type.
func (c *Column[T]) NewEmpty() Array {
	return &Column[T]{}
}

// TransferTo moves the value at index into dst and swap-backfills the slot.
func (c *Column[T]) TransferTo(dst Array, index int) (int, error) {
	d, ok := dst.(*Column[T])
	if !ok {
		return 0, fmt.Errorf("transfer %T into %T: %w", c, dst, ErrTypeMismatch)
	}
	d.data = append(d.data, c.data[index])
	last := len(c.data) - 1
	c.data[index] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	return last, nil
}

// MoveLastInto overwrites index with the last element and shrinks by one.
func (c *Column[T]) MoveLastInto(index int) {
	last := len(c.data) - 1
	c.data[index] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

// Len returns the number of stored elements.
func (c *Column[T]) Len() int {
	return len(c.data)
}

// Append adds one value at the end and returns its index.
func (c *Column[T]) Append(v T) int {
	c.data = append(c.data, v)
	return len(c.data) - 1
}

// At returns a pointer to the value at index. The pointer is only valid
// until the next structural mutation anywhere in the store.
func (c *Column[T]) At(index int) *T {
	return &c.data[index]
}
