package component

// Health tracks hit points. A Current of zero or less marks the entity
// for destruction at the end of the tick.
type Health struct {
	Current int32
	Max     int32
}

// Lifetime counts down in seconds; when Remaining reaches zero the
// entity is destroyed.
type Lifetime struct {
	Remaining float64
}
