package system

import (
	"time"

	"github.com/strata-ecs/strata/internal/core/event"
	coresys "github.com/strata-ecs/strata/internal/core/system"
)

// EventsSystem flips the event buffers and dispatches last tick's events
// to their handlers. Runs first in PreUpdate so every other system sees a
// stable view of the previous tick.
type EventsSystem struct {
	bus *event.Bus
}

func NewEventsSystem(bus *event.Bus) *EventsSystem {
	return &EventsSystem{bus: bus}
}

func (s *EventsSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventsSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
