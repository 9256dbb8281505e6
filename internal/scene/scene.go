package scene

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strata-ecs/strata/internal/component"
	"github.com/strata-ecs/strata/internal/core/ecs"
)

// Vec is a 2D vector in scene files.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Spawn describes one group of entities to create. Position is always
// attached; every other component is attached only when its field is set.
type Spawn struct {
	Name     string  `yaml:"name"`
	Count    int     `yaml:"count"`
	Position Vec     `yaml:"position"`
	Jitter   float64 `yaml:"jitter"` // uniform position spread per axis
	Velocity *Vec    `yaml:"velocity"`
	Steered  bool    `yaml:"steered"` // attach Acceleration for the behavior pass
	Health   int32   `yaml:"health"`  // 0 = no Health component
	Lifetime float64 `yaml:"lifetime"` // seconds, 0 = no Lifetime component
}

// Scene is a parsed scene file.
type Scene struct {
	Name   string  `yaml:"name"`
	Spawns []Spawn `yaml:"spawns"`
}

// Load reads and parses a yaml scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	for i, sp := range s.Spawns {
		if sp.Count <= 0 {
			return nil, fmt.Errorf("scene %s: spawn %q (index %d) has count %d", path, sp.Name, i, sp.Count)
		}
	}
	return &s, nil
}

// Default returns the scene used when no file is configured: a drifting
// flock plus a few short-lived particles.
func Default() *Scene {
	return &Scene{
		Name: "default",
		Spawns: []Spawn{
			{
				Name:     "flock",
				Count:    16,
				Position: Vec{X: 0, Y: 0},
				Jitter:   10,
				Velocity: &Vec{X: 1, Y: 0},
				Steered:  true,
				Health:   10,
			},
			{
				Name:     "particles",
				Count:    8,
				Position: Vec{X: 50, Y: 50},
				Jitter:   5,
				Velocity: &Vec{X: 0, Y: -2},
				Lifetime: 3,
			},
		},
	}
}

// Populate creates every entity the scene describes. Component kinds are
// resolved through the store's default registrations, so the relevant
// foundations must exist before calling. Returns the number of entities
// created.
func (s *Scene) Populate(c *ecs.Core, rng *rand.Rand) (int, error) {
	created := 0
	for _, sp := range s.Spawns {
		for i := 0; i < sp.Count; i++ {
			e := c.CreateEntity()

			pos := component.Position{X: sp.Position.X, Y: sp.Position.Y}
			if sp.Jitter > 0 {
				pos.X += (rng.Float64()*2 - 1) * sp.Jitter
				pos.Y += (rng.Float64()*2 - 1) * sp.Jitter
			}
			if err := ecs.AddDefault(c, e, pos); err != nil {
				return created, fmt.Errorf("spawn %q: %w", sp.Name, err)
			}

			if sp.Velocity != nil {
				v := component.Velocity{DX: sp.Velocity.X, DY: sp.Velocity.Y}
				if err := ecs.AddDefault(c, e, v); err != nil {
					return created, fmt.Errorf("spawn %q: %w", sp.Name, err)
				}
			}
			if sp.Steered {
				if err := ecs.AddDefault(c, e, component.Acceleration{}); err != nil {
					return created, fmt.Errorf("spawn %q: %w", sp.Name, err)
				}
			}
			if sp.Health > 0 {
				h := component.Health{Current: sp.Health, Max: sp.Health}
				if err := ecs.AddDefault(c, e, h); err != nil {
					return created, fmt.Errorf("spawn %q: %w", sp.Name, err)
				}
			}
			if sp.Lifetime > 0 {
				if err := ecs.AddDefault(c, e, component.Lifetime{Remaining: sp.Lifetime}); err != nil {
					return created, fmt.Errorf("spawn %q: %w", sp.Name, err)
				}
			}
			created++
		}
	}
	return created, nil
}
