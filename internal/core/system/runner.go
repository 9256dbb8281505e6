package system

import (
	"sort"
	"time"
)

// Runner executes registered systems in phase order each tick. Registration
// order is preserved within a phase.
type Runner struct {
	systems []System
	sorted  bool
}

// NewRunner returns an empty runner.
func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

// Register adds a system to the runner.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Len returns how many systems are registered.
func (r *Runner) Len() int {
	return len(r.systems)
}

// Tick runs every system once, in phase order.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase runs only the systems registered for one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
