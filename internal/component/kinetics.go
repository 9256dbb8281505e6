package component

// Pure data, zero methods. All mutations happen in System functions.

// Position is an entity's location in world units.
type Position struct {
	X float64
	Y float64
}

// Velocity is displacement per second.
type Velocity struct {
	DX float64
	DY float64
}

// Acceleration is the per-second change applied to Velocity. It is
// written by the behavior pass and consumed by the movement pass.
type Acceleration struct {
	AX float64
	AY float64
}
