package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate Phase = iota // react to last tick's structural events
	PhaseUpdate                 // simulation logic
	PhasePreRender              // derive presentation state
	PhaseRender                 // output, reporting
)

// System is the interface every registered system implements. Systems run
// synchronously on the caller's goroutine, phase by phase.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
