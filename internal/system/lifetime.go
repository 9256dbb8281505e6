package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/core/ecs"
	coresys "github.com/strata-ecs/strata/internal/core/system"
)

// LifetimeSystem counts down Lifetime components and destroys expired
// entities, along with anything whose Health has run out. Destruction is
// deferred to after the iteration because destroying an entity relocates
// rows under the cursor.
type LifetimeSystem struct {
	core   *ecs.Core
	idLife ecs.ComponentID
	idHP   ecs.ComponentID
	log    *zap.Logger
}

func NewLifetimeSystem(core *ecs.Core, log *zap.Logger) (*LifetimeSystem, error) {
	idLife, err := ecs.ComponentIDOf[component.Lifetime](core)
	if err != nil {
		return nil, err
	}
	idHP, err := ecs.ComponentIDOf[component.Health](core)
	if err != nil {
		return nil, err
	}
	return &LifetimeSystem{core: core, idLife: idLife, idHP: idHP, log: log}, nil
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LifetimeSystem) Update(dt time.Duration) {
	step := dt.Seconds()
	var expired []ecs.Entity

	err := ecs.Each1(s.core, s.idLife, func(e ecs.Entity, l *component.Lifetime) {
		l.Remaining -= step
		if l.Remaining <= 0 {
			expired = append(expired, e)
		}
	})
	if err != nil {
		s.log.Error("lifetime pass failed", zap.Error(err))
		return
	}

	err = ecs.Each1(s.core, s.idHP, func(e ecs.Entity, h *component.Health) {
		if h.Current <= 0 {
			expired = append(expired, e)
		}
	})
	if err != nil {
		s.log.Error("health pass failed", zap.Error(err))
		return
	}

	for _, e := range expired {
		if err := s.core.Destroy(e); err != nil {
			s.log.Warn("destroy expired entity", zap.Uint64("entity", uint64(e)), zap.Error(err))
		}
	}
}
