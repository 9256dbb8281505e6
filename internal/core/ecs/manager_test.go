package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *ArchetypeManager {
	return NewArchetypeManager(nil)
}

// checkInvariants asserts the storage-wide invariants after a mutation
// sequence: equal column lengths per archetype, in-bounds location records,
// and (signature, index) uniqueness.
func checkInvariants(t *testing.T, m *ArchetypeManager) {
	t.Helper()
	for _, a := range m.order {
		for id, slot := range a.slots {
			require.Equal(t, len(a.entities), a.columns[slot].Len(),
				"archetype %q column %#x misaligned", a.sig.Key(), uint64(id))
		}
	}
	seen := make(map[string]map[int]Entity)
	for e, loc := range m.locations {
		a := m.FindArchetype(loc.sig)
		require.NotNil(t, a, "location names unknown archetype %q", loc.sig.Key())
		require.Less(t, loc.index, a.Rows(), "entity %#x index out of bounds", uint64(e))
		require.Equal(t, e, a.EntityAt(loc.index), "entity column disagrees with location map")

		rows, ok := seen[loc.sig.Key()]
		if !ok {
			rows = make(map[int]Entity)
			seen[loc.sig.Key()] = rows
		}
		prev, taken := rows[loc.index]
		require.False(t, taken, "entities %#x and %#x share (%q, %d)",
			uint64(prev), uint64(e), loc.sig.Key(), loc.index)
		rows[loc.index] = e
	}
}

func TestAddFreshEntity(t *testing.T) {
	m := newTestManager()
	e := Entity(1)

	require.NoError(t, AddComponent(m, e, idPos, pos{X: 4}))

	assert.Equal(t, 1, m.ArchetypeCount(), "fresh add builds a minimal one-type archetype")
	sig, index, ok := m.Location(e)
	require.True(t, ok)
	assert.True(t, sig.Equal(NewSignature(idPos)))
	assert.Equal(t, 0, index)
	checkInvariants(t, m)
}

func TestAddMigratesAcrossArchetypes(t *testing.T) {
	m := newTestManager()
	e := Entity(1)

	require.NoError(t, AddComponent(m, e, idVel, vel{DX: 1}))
	require.NoError(t, AddComponent(m, e, idPos, pos{X: 2}))

	assert.Equal(t, 2, m.ArchetypeCount())
	sig, _, _ := m.Location(e)
	assert.True(t, sig.Equal(NewSignature(idPos, idVel)))

	old := m.FindArchetype(NewSignature(idVel))
	require.NotNil(t, old, "archetypes are never destroyed")
	assert.Equal(t, 0, old.Rows())

	cur := m.FindArchetype(sig)
	v, err := rowValue[vel](cur, idVel, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.DX, "value survives the migration")
	checkInvariants(t, m)
}

func TestAddDuplicateRejected(t *testing.T) {
	m := newTestManager()
	e := Entity(1)

	require.NoError(t, AddComponent(m, e, idPos, pos{X: 1}))
	err := AddComponent(m, e, idPos, pos{X: 2})
	assert.ErrorIs(t, err, ErrAlreadyPresent)

	p, err := rowValue[pos](m.FindArchetype(NewSignature(idPos)), idPos, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X, "rejected add must not mutate")
	checkInvariants(t, m)
}

func TestAddWrongTypeForReusedID(t *testing.T) {
	m := newTestManager()
	require.NoError(t, AddComponent(m, Entity(1), idPos, pos{}))

	// Same id, different concrete type: rejected before any row moves.
	err := AddComponent(m, Entity(2), idPos, vel{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, _, ok := m.Location(Entity(2))
	assert.False(t, ok)
	checkInvariants(t, m)
}

func TestRemoveAbsentRejected(t *testing.T) {
	m := newTestManager()
	e := Entity(1)

	assert.ErrorIs(t, m.RemoveComponent(e, idPos), ErrMissingComponent)

	require.NoError(t, AddComponent(m, e, idPos, pos{}))
	assert.ErrorIs(t, m.RemoveComponent(e, idVel), ErrMissingComponent)
	checkInvariants(t, m)
}

func TestRemoveLastComponentClearsLocation(t *testing.T) {
	m := newTestManager()
	e := Entity(1)

	require.NoError(t, AddComponent(m, e, idPos, pos{X: 9}))
	require.NoError(t, m.RemoveComponent(e, idPos))

	_, _, ok := m.Location(e)
	assert.False(t, ok, "no components means no location record")
	assert.False(t, m.HasComponent(e, idPos))
	assert.Equal(t, 0, m.FindArchetype(NewSignature(idPos)).Rows())
	checkInvariants(t, m)
}

func TestBackfillUpdatesDisplacedEntity(t *testing.T) {
	m := newTestManager()
	e1, e2, e3 := Entity(1), Entity(2), Entity(3)

	for i, e := range []Entity{e1, e2, e3} {
		require.NoError(t, AddComponent(m, e, idPos, pos{X: float64(i + 1)}))
		require.NoError(t, AddComponent(m, e, idVel, vel{DX: float64(i + 1)}))
	}
	// All three share one archetype at rows 0,1,2.
	both := NewSignature(idPos, idVel)
	for i, e := range []Entity{e1, e2, e3} {
		sig, index, _ := m.Location(e)
		require.True(t, sig.Equal(both))
		require.Equal(t, i, index)
	}

	// Removing e1's vel vacates row 0; e3 (last row) must backfill it.
	require.NoError(t, m.RemoveComponent(e1, idVel))

	_, index, _ := m.Location(e3)
	assert.Equal(t, 0, index, "displaced entity repointed to the vacated row")

	p, err := rowValue[pos](m.FindArchetype(both), idPos, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.X, "e3's values, not e1's stale ones")
	v, err := rowValue[vel](m.FindArchetype(both), idVel, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.DX)
	checkInvariants(t, m)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	m := newTestManager()
	e := Entity(7)

	require.NoError(t, AddComponent(m, e, idPos, pos{X: 5, Y: 6}))
	before, _, _ := m.Location(e)

	require.NoError(t, AddComponent(m, e, idVel, vel{DX: 1}))
	require.NoError(t, m.RemoveComponent(e, idVel))

	after, _, _ := m.Location(e)
	assert.True(t, before.Equal(after), "add then remove restores the signature")

	p, err := rowValue[pos](m.FindArchetype(after), idPos, 0)
	require.NoError(t, err)
	assert.Equal(t, pos{X: 5, Y: 6}, *p, "retained values unchanged")
	checkInvariants(t, m)
}

func TestSubCloneMissingBase(t *testing.T) {
	m := newTestManager()
	_, err := m.subClone(NewSignature(idPos), NewSignature(idPos, idVel))
	assert.ErrorIs(t, err, ErrNoBaseArchetype)
}

func TestRemoveAll(t *testing.T) {
	m := newTestManager()
	e1, e2 := Entity(1), Entity(2)
	for _, e := range []Entity{e1, e2} {
		require.NoError(t, AddComponent(m, e, idPos, pos{X: float64(e)}))
		require.NoError(t, AddComponent(m, e, idVel, vel{}))
	}

	m.RemoveAll(e1)

	_, _, ok := m.Location(e1)
	assert.False(t, ok)
	_, index, _ := m.Location(e2)
	assert.Equal(t, 0, index, "survivor backfilled down")
	assert.Equal(t, 1, m.EntityCount())
	checkInvariants(t, m)
}

// TestChurnKeepsInvariants drives a longer deterministic add/remove
// sequence across three component types and re-checks the invariants
// after every step.
func TestChurnKeepsInvariants(t *testing.T) {
	const idHp ComponentID = 103
	m := newTestManager()

	entities := make([]Entity, 12)
	for i := range entities {
		entities[i] = Entity(i + 1)
	}
	for i, e := range entities {
		require.NoError(t, AddComponent(m, e, idPos, pos{X: float64(i)}))
		if i%2 == 0 {
			require.NoError(t, AddComponent(m, e, idVel, vel{DX: float64(i)}))
		}
		if i%3 == 0 {
			require.NoError(t, AddComponent(m, e, idHp, 100-i))
		}
		checkInvariants(t, m)
	}
	for i, e := range entities {
		if i%2 == 0 {
			require.NoError(t, m.RemoveComponent(e, idVel))
		}
		if i%4 == 0 {
			require.NoError(t, m.RemoveComponent(e, idPos))
		}
		checkInvariants(t, m)
	}
	// Values still belong to their owners after all relocations.
	for i, e := range entities {
		if i%4 == 0 {
			continue
		}
		sig, index, ok := m.Location(e)
		require.True(t, ok)
		p, err := rowValue[pos](m.FindArchetype(sig), idPos, index)
		require.NoError(t, err)
		assert.Equal(t, float64(i), p.X, "entity %d", i)
	}
}
