package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/core/event"
)

// Structural change notifications, emitted onto the core's event bus and
// delivered at the next tick boundary.
type (
	// ComponentAdded fires after a component is attached to an entity.
	ComponentAdded struct {
		Entity Entity
		ID     ComponentID
	}
	// ComponentRemoved fires after a component is detached from an entity.
	ComponentRemoved struct {
		Entity Entity
		ID     ComponentID
	}
	// EntityDestroyed fires after an entity and all its components are gone.
	EntityDestroyed struct {
		Entity Entity
	}
)

// Core is the single owning context for one ECS instance: identifier
// allocation, archetype storage, and the structural event bus. Everything
// is constructor-injected; there is no process-wide state, so independent
// cores coexist freely. Not safe for concurrent use: one logical writer
// at a time.
type Core struct {
	entities   *EntityManager
	archetypes *ArchetypeManager
	bus        *event.Bus
	log        *zap.Logger
}

// NewCore builds an empty core. A nil logger disables logging.
func NewCore(log *zap.Logger) *Core {
	if log == nil {
		log = zap.NewNop()
	}
	return &Core{
		entities:   NewEntityManager(),
		archetypes: NewArchetypeManager(log),
		bus:        event.NewBus(),
		log:        log,
	}
}

// Bus returns the structural event bus.
func (c *Core) Bus() *event.Bus { return c.bus }

// Entities returns the identifier manager.
func (c *Core) Entities() *EntityManager { return c.entities }

// Archetypes returns the archetype manager.
func (c *Core) Archetypes() *ArchetypeManager { return c.archetypes }

// CreateEntity allocates a fresh entity with no components.
func (c *Core) CreateEntity() Entity {
	return c.entities.CreateEntity()
}

// RegisterComponent allocates a component id for T. With foundation set,
// the id becomes the default for T and AddDefault/GetDefault can omit it.
func RegisterComponent[T any](c *Core, foundation bool) ComponentID {
	var zero T
	id := c.entities.CreateComponentID(reflect.TypeOf(zero))
	if foundation {
		// Cannot fail: the id was just allocated with a concrete type.
		_ = c.entities.MakeFoundation(id)
	}
	return id
}

// ComponentIDOf resolves the foundation id registered for T.
func ComponentIDOf[T any](c *Core) (ComponentID, error) {
	var zero T
	return c.entities.FoundationFor(reflect.TypeOf(zero))
}

// Add attaches a typed value to an entity under an explicit component id.
func Add[T any](c *Core, e Entity, id ComponentID, v T) error {
	if err := c.checkPair(e, id); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if err := AddComponent(c.archetypes, e, id, v); err != nil {
		return err
	}
	event.Emit(c.bus, ComponentAdded{Entity: e, ID: id})
	return nil
}

// AddDefault attaches a value under T's foundation component id.
func AddDefault[T any](c *Core, e Entity, v T) error {
	id, err := ComponentIDOf[T](c)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return Add(c, e, id, v)
}

// Remove detaches a component from an entity.
func (c *Core) Remove(e Entity, id ComponentID) error {
	if err := c.checkPair(e, id); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if err := c.archetypes.RemoveComponent(e, id); err != nil {
		return err
	}
	event.Emit(c.bus, ComponentRemoved{Entity: e, ID: id})
	return nil
}

// Has reports whether the entity's current signature contains id. False for
// unknown entities; a plain negative, never an error.
func (c *Core) Has(e Entity, id ComponentID) bool {
	return c.archetypes.HasComponent(e, id)
}

// Get returns a pointer to the entity's stored value for id. The pointer is
// invalidated by the next structural mutation anywhere in the store; do not
// retain it across calls.
func Get[T any](c *Core, e Entity, id ComponentID) (*T, error) {
	sig, index, ok := c.archetypes.Location(e)
	if !ok || !sig.Contains(id) {
		return nil, fmt.Errorf("get %#x: %w", uint64(id), ErrMissingComponent)
	}
	a := c.archetypes.FindArchetype(sig)
	return rowValue[T](a, id, index)
}

// GetDefault resolves T's foundation id and returns the stored value.
func GetDefault[T any](c *Core, e Entity) (*T, error) {
	id, err := ComponentIDOf[T](c)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return Get[T](c, e, id)
}

// Destroy removes every component an entity owns and invalidates its id.
func (c *Core) Destroy(e Entity) error {
	if !c.entities.IsValid(e) {
		return fmt.Errorf("destroy %#x: %w", uint64(e), ErrInvalidEntity)
	}
	c.archetypes.RemoveAll(e)
	c.entities.Destroy(e)
	event.Emit(c.bus, EntityDestroyed{Entity: e})
	return nil
}

// VerifySignature checks that an ordered signature aligns position-for-
// position with the declared underlying types. This is the one canonical
// alignment check; both explicit and inferred system registration route
// through it.
func (c *Core) VerifySignature(ordered []ComponentID, types []reflect.Type) error {
	if len(ordered) != len(types) {
		return fmt.Errorf("verify: %d ids against %d types: %w",
			len(ordered), len(types), ErrSignatureMismatch)
	}
	for i, id := range ordered {
		if !c.entities.IsValidFor(id, types[i]) {
			return fmt.Errorf("verify: id %#x at position %d is not %s: %w",
				uint64(id), i, types[i], ErrSignatureMismatch)
		}
	}
	return nil
}

func (c *Core) checkPair(e Entity, id ComponentID) error {
	if !c.entities.IsValid(e) || e.Kind() != KindEntity {
		return fmt.Errorf("entity %#x: %w", uint64(e), ErrInvalidEntity)
	}
	if !c.entities.IsValid(id) || id.Kind() != KindComponent {
		return fmt.Errorf("component id %#x: %w", uint64(id), ErrInvalidEntity)
	}
	return nil
}
