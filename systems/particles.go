package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowstudio/components"
	"github.com/pthm-cable/flowstudio/params"
)

// Particle is a read-only snapshot of one particle.
type Particle struct {
	Pos, Vel, Acc, Prev r2.Vec
}

// ParticleSystem advects a fixed population through the precomputed field.
// Particles live in an ECS world that is replaced wholesale on Reset.
type ParticleSystem struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Acceleration, components.Trail]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Acceleration, components.Trail]

	rng           *rand.Rand
	maxSpeed      float64
	count         int
	width, height float64
}

// NewParticleSystem creates an empty system. Speeds are limited to maxSpeed.
func NewParticleSystem(maxSpeed float64, seed int64) *ParticleSystem {
	s := &ParticleSystem{
		rng:      rand.New(rand.NewSource(seed)),
		maxSpeed: maxSpeed,
	}
	s.newWorld()
	return s
}

func (s *ParticleSystem) newWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.mapper = ecs.NewMap4[components.Position, components.Velocity, components.Acceleration, components.Trail](world)
	s.filter = ecs.NewFilter4[components.Position, components.Velocity, components.Acceleration, components.Trail](world)
	s.count = 0
}

// Reset discards all particles and spawns n at uniformly random positions
// on a width x height canvas, at rest.
func (s *ParticleSystem) Reset(n int, width, height float64) {
	s.newWorld()
	s.width, s.height = width, height
	for range n {
		s.Spawn(r2.Vec{X: s.rng.Float64() * width, Y: s.rng.Float64() * height})
	}
}

// Spawn adds one particle at rest at pos.
func (s *ParticleSystem) Spawn(pos r2.Vec) {
	p := components.Position{Vec: pos}
	v := components.Velocity{}
	a := components.Acceleration{}
	t := components.Trail{Prev: pos}
	s.mapper.NewEntity(&p, &v, &a, &t)
	s.count++
}

// Len returns the population size.
func (s *ParticleSystem) Len() int {
	return s.count
}

// Bounds returns the canvas size particles wrap within.
func (s *ParticleSystem) Bounds() (width, height float64) {
	return s.width, s.height
}

// Step advances every particle one tick: follow the field, integrate, draw,
// wrap at the edges.
func (s *ParticleSystem) Step(surf Surface, field []r2.Vec, grid Grid, p *params.Params, alpha uint8, shapes *ShapeRenderer) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc, trail := query.Get()

		acc.Vec = Follow(acc.Vec, pos.Vec, field, grid)
		pos.Vec, vel.Vec = Integrate(pos.Vec, vel.Vec, acc.Vec, s.maxSpeed)
		acc.Vec = r2.Vec{}

		if surf != nil {
			shapes.DrawParticle(surf, pos.Vec, trail.Prev, vel.Vec, p, alpha, s.rng)
		}
		trail.Prev = pos.Vec

		pos.Vec, trail.Prev = Wrap(pos.Vec, trail.Prev, s.width, s.height)
	}
}

// Particles returns a snapshot of every particle in storage order.
func (s *ParticleSystem) Particles() []Particle {
	out := make([]Particle, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc, trail := query.Get()
		out = append(out, Particle{Pos: pos.Vec, Vel: vel.Vec, Acc: acc.Vec, Prev: trail.Prev})
	}
	return out
}

// Follow adds the field vector under pos to acc. Positions whose cell index
// falls outside the field get no force.
func Follow(acc, pos r2.Vec, field []r2.Vec, grid Grid) r2.Vec {
	idx := grid.Index(pos.X, pos.Y)
	if idx < 0 || idx >= len(field) {
		return acc
	}
	return r2.Add(acc, field[idx])
}

// Integrate applies acc to vel, limits speed to maxSpeed and moves pos.
func Integrate(pos, vel, acc r2.Vec, maxSpeed float64) (r2.Vec, r2.Vec) {
	vel = r2.Add(vel, acc)
	if n := r2.Norm(vel); n > maxSpeed && n > 0 {
		vel = r2.Scale(maxSpeed/n, vel)
	}
	return r2.Add(pos, vel), vel
}

// Wrap teleports pos to the opposite edge when it leaves the canvas. prev is
// snapped to the new position so no trail is drawn across the canvas.
func Wrap(pos, prev r2.Vec, width, height float64) (r2.Vec, r2.Vec) {
	if pos.X > width {
		pos.X = 0
		prev = pos
	}
	if pos.X < 0 {
		pos.X = width
		prev = pos
	}
	if pos.Y > height {
		pos.Y = 0
		prev = pos
	}
	if pos.Y < 0 {
		pos.Y = height
		prev = pos
	}
	return pos, prev
}
