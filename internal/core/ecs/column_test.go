package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnTransferBackfills(t *testing.T) {
	src := NewColumn[int]()
	dst := src.NewEmpty()
	for _, v := range []int{10, 11, 12} {
		src.Append(v)
	}

	moved, err := src.TransferTo(dst, 0)
	require.NoError(t, err)

	// 12 was at index 2 and now fills slot 0.
	assert.Equal(t, 2, moved)
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, 12, *src.At(0))
	assert.Equal(t, 11, *src.At(1))

	d := dst.(*Column[int])
	require.Equal(t, 1, d.Len())
	assert.Equal(t, 10, *d.At(0))
}

func TestColumnTransferLastSlot(t *testing.T) {
	src := NewColumn[string]()
	src.Append("a")
	src.Append("b")
	dst := NewColumn[string]()

	moved, err := src.TransferTo(dst, 1)
	require.NoError(t, err)

	// Vacated slot was already last: the reported index equals the
	// post-shrink length, signalling that nothing was displaced.
	assert.Equal(t, 1, moved)
	assert.Equal(t, 1, src.Len())
	assert.Equal(t, "a", *src.At(0))
}

func TestColumnTransferTypeMismatch(t *testing.T) {
	src := NewColumn[int]()
	src.Append(1)
	dst := NewColumn[float64]()

	_, err := src.TransferTo(dst, 0)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 1, src.Len(), "failed transfer must not mutate")
	assert.Equal(t, 0, dst.Len())
}

func TestColumnMoveLastInto(t *testing.T) {
	c := NewColumn[int]()
	for _, v := range []int{1, 2, 3} {
		c.Append(v)
	}
	c.MoveLastInto(0)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, *c.At(0))
	assert.Equal(t, 2, *c.At(1))
}
