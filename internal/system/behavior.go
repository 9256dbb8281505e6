package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/core/ecs"
	coresys "github.com/strata-ecs/strata/internal/core/system"
	"github.com/strata-ecs/strata/internal/scripting"
)

// BehaviorSystem asks the Lua steering function for an acceleration for
// every steered entity. Runs in PreUpdate so MovementSystem integrates
// the result in the same tick.
type BehaviorSystem struct {
	core   *ecs.Core
	engine *scripting.Engine
	fn     string
	idPos  ecs.ComponentID
	idVel  ecs.ComponentID
	idAcc  ecs.ComponentID
	log    *zap.Logger
	tick   int
}

func NewBehaviorSystem(core *ecs.Core, engine *scripting.Engine, fn string, log *zap.Logger) (*BehaviorSystem, error) {
	idPos, err := ecs.ComponentIDOf[component.Position](core)
	if err != nil {
		return nil, err
	}
	idVel, err := ecs.ComponentIDOf[component.Velocity](core)
	if err != nil {
		return nil, err
	}
	idAcc, err := ecs.ComponentIDOf[component.Acceleration](core)
	if err != nil {
		return nil, err
	}
	return &BehaviorSystem{
		core:   core,
		engine: engine,
		fn:     fn,
		idPos:  idPos,
		idVel:  idVel,
		idAcc:  idAcc,
		log:    log,
	}, nil
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *BehaviorSystem) Update(dt time.Duration) {
	s.tick++
	if s.engine == nil || !s.engine.HasFunc(s.fn) {
		return
	}

	step := dt.Seconds()
	err := ecs.Each3(s.core, s.idPos, s.idVel, s.idAcc,
		func(_ ecs.Entity, p *component.Position, v *component.Velocity, a *component.Acceleration) {
			res := s.engine.CalcSteering(s.fn, scripting.SteerContext{
				PosX: p.X, PosY: p.Y,
				VelX: v.DX, VelY: v.DY,
				Dt:   step,
				Tick: s.tick,
			})
			a.AX = res.AX
			a.AY = res.AY
		})
	if err != nil {
		s.log.Error("behavior pass failed", zap.Error(err))
	}
}
