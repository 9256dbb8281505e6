package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierEncoding(t *testing.T) {
	em := NewEntityManager()

	e := em.CreateEntity()
	assert.Equal(t, KindEntity, e.Kind())
	assert.Equal(t, uint32(1), e.Serial())
	assert.Equal(t, uint32(1), e.Generation())

	c := em.CreateComponentID(reflect.TypeOf(pos{}))
	assert.Equal(t, KindComponent, c.Kind())
	assert.Equal(t, uint32(1), c.Serial(), "entity and component serials are independent")
	assert.NotEqual(t, e, c)

	assert.Equal(t, KindInvalid, Entity(0).Kind())
}

func TestIdentifierValidity(t *testing.T) {
	em := NewEntityManager()

	e := em.CreateEntity()
	assert.True(t, em.IsValid(e))
	assert.False(t, em.IsValid(Entity(0)))

	em.Destroy(e)
	assert.False(t, em.IsValid(e))

	again := em.CreateEntity()
	assert.NotEqual(t, e, again, "serials are never reused")
}

func TestIsValidFor(t *testing.T) {
	em := NewEntityManager()
	posType := reflect.TypeOf(pos{})
	velType := reflect.TypeOf(vel{})

	c := em.CreateComponentID(posType)
	assert.True(t, em.IsValidFor(c, posType))
	assert.False(t, em.IsValidFor(c, velType))
	assert.False(t, em.IsValidFor(Entity(12345), posType))
	assert.Equal(t, posType, em.UnderlyingType(c))
}

func TestFoundationRegistry(t *testing.T) {
	em := NewEntityManager()
	posType := reflect.TypeOf(pos{})

	_, err := em.FoundationFor(posType)
	assert.ErrorIs(t, err, ErrNotRegistered)

	c := em.CreateComponentID(posType)
	require.NoError(t, em.MakeFoundation(c))

	got, err := em.FoundationFor(posType)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	// Plain entities cannot be foundations.
	e := em.CreateEntity()
	assert.ErrorIs(t, em.MakeFoundation(e), ErrInvalidEntity)

	// A later registration for the same type wins.
	c2 := em.CreateComponentID(posType)
	require.NoError(t, em.MakeFoundation(c2))
	got, err = em.FoundationFor(posType)
	require.NoError(t, err)
	assert.Equal(t, c2, got)
}
