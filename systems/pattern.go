package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Noise coordinate increments between samples.
const noiseStep = 0.1

// PatternGenerator renders the static field: one grid traversal, a density
// decision per cell, and a shape per accepted draw.
type PatternGenerator struct {
	field  *NoiseField
	shapes ShapeRenderer
	seed   int64
	rng    *rand.Rand
}

// NewPatternGenerator creates a generator that reseeds its random source
// with seed before every regeneration.
func NewPatternGenerator(field *NoiseField, seed int64) *PatternGenerator {
	return &PatternGenerator{
		field: field,
		seed:  seed,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Field returns the angle source.
func (g *PatternGenerator) Field() *NoiseField {
	return g.field
}

// Shapes returns the shape renderer, which owns the number counter.
func (g *PatternGenerator) Shapes() *ShapeRenderer {
	return &g.shapes
}

// Regenerate clears s to the background color and renders the full field.
// resetCounter restarts the range-mode number sequence. It returns the
// number of shapes drawn.
func (g *PatternGenerator) Regenerate(s Surface, f *Frame, resetCounter bool) int {
	s.Background(f.Params.BackgroundColor.Opaque())
	if resetCounter {
		g.shapes.Reset()
	}
	// Same seed every pass so only pointer-influenced regions change
	g.rng = rand.New(rand.NewSource(g.seed))
	return g.Render(s, f)
}

// Render draws the field over whatever s already holds, using the current
// random source. Rows are traversed top to bottom, columns left to right.
func (g *PatternGenerator) Render(s Surface, f *Frame) int {
	grid := f.Grid()
	p := &f.Params
	showImage := f.ImageShown()

	drawn := 0
	yoff := 0.0
	for j := 0; j < grid.Rows; j++ {
		py := grid.SampleY(j)
		xoff := 0.0
		for i := 0; i < grid.Cols; i++ {
			px := grid.SampleX(i)

			var n int
			if showImage {
				bright, _ := f.pixel(px, py)
				n = ImageDrawCount(g.rng, p.Density, bright)
			} else {
				n = DrawCount(g.rng, p.Density)
			}

			for k := 0; k < n; k++ {
				angle := g.field.Angle(f, px, py, xoff, yoff)
				g.shapes.DrawStatic(s, px, py, angle, p)
				xoff += noiseStep
				drawn++
			}
			xoff += noiseStep
		}
		yoff += noiseStep
	}
	return drawn
}

// DrawCount decides how many shapes a cell gets from density alone.
// Density 2 always draws two, (1,2) draws one plus a second with probability
// density-1, exactly 1 draws one, and below 1 draws one with probability density.
func DrawCount(rng *rand.Rand, density float64) int {
	switch {
	case density >= 2:
		return 2
	case density > 1:
		if rng.Float64() < density-1 {
			return 2
		}
		return 1
	case density == 1:
		return 1
	default:
		if rng.Float64() <= density {
			return 1
		}
		return 0
	}
}

// ImageDrawCount gates a cell on source brightness: dark pixels draw with
// probability min(density,1), white pixels with probability 0.1.
func ImageDrawCount(rng *rand.Rand, density, brightness float64) int {
	threshold := mapRange(brightness, 0, 100, min(density, 1)*100, 10)
	if rng.Float64()*100 > threshold {
		return 0
	}
	return 1
}

// Vectors computes the particle-mode force field: one vector of length mag per
// grid cell, sampled at the cell's top-left corner, row-major. dst is reused
// when it has enough capacity.
func (g *PatternGenerator) Vectors(f *Frame, grid Grid, mag float64, dst []r2.Vec) []r2.Vec {
	dst = dst[:0]
	yoff := 0.0
	for j := 0; j < grid.Rows; j++ {
		xoff := 0.0
		py := float64(j) * grid.Scale
		for i := 0; i < grid.Cols; i++ {
			px := float64(i) * grid.Scale
			angle := g.field.Angle(f, px, py, xoff, yoff)
			dst = append(dst, fromAngle(angle, mag))
			xoff += noiseStep
		}
		yoff += noiseStep
	}
	return dst
}
