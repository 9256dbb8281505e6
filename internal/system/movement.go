package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/core/ecs"
	coresys "github.com/strata-ecs/strata/internal/core/system"
)

// MovementSystem integrates acceleration into velocity and velocity into
// position with a simple forward Euler step.
type MovementSystem struct {
	core  *ecs.Core
	idPos ecs.ComponentID
	idVel ecs.ComponentID
	idAcc ecs.ComponentID
	log   *zap.Logger
}

func NewMovementSystem(core *ecs.Core, log *zap.Logger) (*MovementSystem, error) {
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
	return &MovementSystem{core: core, idPos: idPos, idVel: idVel, idAcc: idAcc, log: log}, nil
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	step := dt.Seconds()

	err := ecs.Each2(s.core, s.idVel, s.idAcc,
		func(_ ecs.Entity, v *component.Velocity, a *component.Acceleration) {
			v.DX += a.AX * step
			v.DY += a.AY * step
		})
	if err != nil {
		s.log.Error("velocity pass failed", zap.Error(err))
		return
	}

	err = ecs.Each2(s.core, s.idPos, s.idVel,
		func(_ ecs.Entity, p *component.Position, v *component.Velocity) {
			p.X += v.DX * step
			p.Y += v.DY * step
		})
	if err != nil {
		s.log.Error("position pass failed", zap.Error(err))
	}
}
