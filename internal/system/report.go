package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/strata-ecs/strata/internal/core/ecs"
	"github.com/strata-ecs/strata/internal/core/event"
	coresys "github.com/strata-ecs/strata/internal/core/system"
)

// ReportSystem logs store statistics every Nth tick. It also subscribes to
// destruction events so the running total survives entity churn.
type ReportSystem struct {
	core      *ecs.Core
	every     int
	tick      int
	destroyed int
	log       *zap.Logger
}

func NewReportSystem(core *ecs.Core, every int, log *zap.Logger) *ReportSystem {
	if every <= 0 {
		every = 50
	}
	s := &ReportSystem{core: core, every: every, log: log}
	event.Subscribe(core.Bus(), func(_ ecs.EntityDestroyed) {
		s.destroyed++
	})
	return s
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *ReportSystem) Update(_ time.Duration) {
	s.tick++
	if s.tick%s.every != 0 {
		return
	}
	s.log.Info("store stats",
		zap.Int("tick", s.tick),
		zap.Int("entities", s.core.Archetypes().EntityCount()),
		zap.Int("archetypes", s.core.Archetypes().ArchetypeCount()),
		zap.Int("destroyed_total", s.destroyed),
	)
}
