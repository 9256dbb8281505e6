package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/core/ecs"
	"github.com/strata-ecs/strata/internal/core/event"
	"github.com/strata-ecs/strata/internal/scripting"
)

func newTestCore(t *testing.T) *ecs.Core {
	t.Helper()
	c := ecs.NewCore(zap.NewNop())
	ecs.RegisterComponent[component.Position](c, true)
	ecs.RegisterComponent[component.Velocity](c, true)
	ecs.RegisterComponent[component.Acceleration](c, true)
	ecs.RegisterComponent[component.Health](c, true)
	ecs.RegisterComponent[component.Lifetime](c, true)
	return c
}

func TestMovementIntegrates(t *testing.T) {
	c := newTestCore(t)
	e := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, e, component.Position{X: 1, Y: 1}))
	require.NoError(t, ecs.AddDefault(c, e, component.Velocity{DX: 2, DY: 0}))
	require.NoError(t, ecs.AddDefault(c, e, component.Acceleration{AX: 0, AY: 4}))

	sys, err := NewMovementSystem(c, zap.NewNop())
	require.NoError(t, err)
	sys.Update(500 * time.Millisecond)

	v, err := ecs.GetDefault[component.Velocity](c, e)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.DX, 1e-9)
	assert.InDelta(t, 2.0, v.DY, 1e-9)

	p, err := ecs.GetDefault[component.Position](c, e)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.X, 1e-9)
	assert.InDelta(t, 2.0, p.Y, 1e-9)
}

func TestMovementWithoutAcceleration(t *testing.T) {
	c := newTestCore(t)
	e := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, e, component.Position{}))
	require.NoError(t, ecs.AddDefault(c, e, component.Velocity{DX: 1, DY: -1}))

	sys, err := NewMovementSystem(c, zap.NewNop())
	require.NoError(t, err)
	sys.Update(time.Second)

	p, err := ecs.GetDefault[component.Position](c, e)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, -1.0, p.Y, 1e-9)
}

func TestLifetimeExpiresEntities(t *testing.T) {
	c := newTestCore(t)

	short := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, short, component.Position{}))
	require.NoError(t, ecs.AddDefault(c, short, component.Lifetime{Remaining: 0.3}))

	long := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, long, component.Position{}))
	require.NoError(t, ecs.AddDefault(c, long, component.Lifetime{Remaining: 10}))

	sys, err := NewLifetimeSystem(c, zap.NewNop())
	require.NoError(t, err)

	sys.Update(500 * time.Millisecond)

	assert.False(t, c.Entities().IsValid(short))
	assert.True(t, c.Entities().IsValid(long))
	assert.Equal(t, 1, c.Archetypes().EntityCount())
}

func TestLifetimeDestroysDead(t *testing.T) {
	c := newTestCore(t)

	dead := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, dead, component.Health{Current: 0, Max: 10}))

	alive := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, alive, component.Health{Current: 5, Max: 10}))

	sys, err := NewLifetimeSystem(c, zap.NewNop())
	require.NoError(t, err)
	sys.Update(50 * time.Millisecond)

	assert.False(t, c.Entities().IsValid(dead))
	assert.True(t, c.Entities().IsValid(alive))
}

func TestBehaviorWritesAcceleration(t *testing.T) {
	c := newTestCore(t)
	e := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, e, component.Position{X: 4, Y: 0}))
	require.NoError(t, ecs.AddDefault(c, e, component.Velocity{}))
	require.NoError(t, ecs.AddDefault(c, e, component.Acceleration{}))

	engine, err := scripting.NewEngine(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()
	require.NoError(t, engine.LoadString(`
function steer(ctx)
    return { ax = -ctx.px, ay = 1 }
end
`))

	sys, err := NewBehaviorSystem(c, engine, "steer", zap.NewNop())
	require.NoError(t, err)
	sys.Update(50 * time.Millisecond)

	a, err := ecs.GetDefault[component.Acceleration](c, e)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, a.AX, 1e-9)
	assert.InDelta(t, 1.0, a.AY, 1e-9)
}

func TestBehaviorMissingFuncIsNoop(t *testing.T) {
	c := newTestCore(t)
	e := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, e, component.Position{}))
	require.NoError(t, ecs.AddDefault(c, e, component.Velocity{}))
	require.NoError(t, ecs.AddDefault(c, e, component.Acceleration{AX: 7}))

	engine, err := scripting.NewEngine(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()

	sys, err := NewBehaviorSystem(c, engine, "absent", zap.NewNop())
	require.NoError(t, err)
	sys.Update(50 * time.Millisecond)

	a, err := ecs.GetDefault[component.Acceleration](c, e)
	require.NoError(t, err)
	assert.Equal(t, 7.0, a.AX)
}

func TestEventsSystemDispatches(t *testing.T) {
	bus := event.NewBus()

	var seen []ecs.Entity
	event.Subscribe(bus, func(ev ecs.EntityDestroyed) {
		seen = append(seen, ev.Entity)
	})

	event.Emit(bus, ecs.EntityDestroyed{Entity: 42})

	sys := NewEventsSystem(bus)
	sys.Update(50 * time.Millisecond)

	require.Len(t, seen, 1)
	assert.Equal(t, ecs.Entity(42), seen[0])
}

func TestReportCountsDestroyed(t *testing.T) {
	c := newTestCore(t)
	sys := NewReportSystem(c, 1, zap.NewNop())

	e := c.CreateEntity()
	require.NoError(t, ecs.AddDefault(c, e, component.Position{}))
	require.NoError(t, c.Destroy(e))

	c.Bus().SwapBuffers()
	c.Bus().DispatchAll()

	assert.Equal(t, 1, sys.destroyed)
}
