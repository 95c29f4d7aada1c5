package systems

import (
	"image/color"
	"math"
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowstudio/params"
)

// Shape sizing relative to the grid scale.
const (
	staticSizeFactor   = 0.6
	particleSizeFactor = 0.4
	staticTextFactor   = 0.5
	particleTextFactor = 0.3

	staticLineWeight   = 2
	staticDotWeight    = 4
	particleLineWeight = 1
	particleDotWeight  = 3
)

// ShapeRenderer draws one primitive per call. It owns the range-mode number
// counter, which advances once per number drawn.
type ShapeRenderer struct {
	// LineWeight overrides the static line stroke weight when positive.
	LineWeight float64

	index int
}

func (r *ShapeRenderer) lineWeight() float64 {
	if r.LineWeight > 0 {
		return r.LineWeight
	}
	return staticLineWeight
}

// Reset restarts the range-mode number sequence at 1.
func (r *ShapeRenderer) Reset() {
	r.index = 0
}

// Index returns how many range-mode numbers have been drawn since the last Reset.
func (r *ShapeRenderer) Index() int {
	return r.index
}

// DrawStatic draws the selected shape at (x, y) rotated by angle, in the
// opaque line color.
func (r *ShapeRenderer) DrawStatic(s Surface, x, y, angle float64, p *params.Params) {
	c := p.LineColor.Opaque()
	size := p.Scale * staticSizeFactor

	s.Push()
	s.Translate(x, y)
	s.Rotate(angle)
	switch p.ShapeType {
	case params.ShapeNumber:
		var n int
		if p.NumberMode == params.NumberRange {
			n = r.index%10 + 1
			r.index++
		} else {
			n = p.SingleNumber
		}
		drawLocal(s, p.ShapeType, c, size, r.lineWeight(), staticDotWeight, p.Scale*staticTextFactor, strconv.Itoa(n))
	default:
		drawLocal(s, p.ShapeType, c, size, r.lineWeight(), staticDotWeight, 0, "")
	}
	s.Pop()
}

// DrawParticle draws a particle in the translucent line color. Lines are drawn
// as the trail segment prev→pos; every other shape is drawn at pos, facing
// along vel. Range-mode numbers are random in 1..10.
func (r *ShapeRenderer) DrawParticle(s Surface, pos, prev, vel r2.Vec, p *params.Params, alpha uint8, rng *rand.Rand) {
	c := p.LineColor.WithAlpha(alpha)

	if p.ShapeType == params.ShapeLine {
		s.SetFill(color.RGBA{})
		s.SetStroke(c, particleLineWeight)
		s.Line(prev.X, prev.Y, pos.X, pos.Y)
		return
	}

	size := p.Scale * particleSizeFactor
	s.Push()
	s.Translate(pos.X, pos.Y)
	s.Rotate(math.Atan2(vel.Y, vel.X))
	switch p.ShapeType {
	case params.ShapeNumber:
		n := p.SingleNumber
		if p.NumberMode == params.NumberRange {
			n = rng.Intn(10) + 1
		}
		drawLocal(s, p.ShapeType, c, size, particleLineWeight, particleDotWeight, p.Scale*particleTextFactor, strconv.Itoa(n))
	default:
		drawLocal(s, p.ShapeType, c, size, particleLineWeight, particleDotWeight, 0, "")
	}
	s.Pop()
}

// drawLocal draws a shape in local coordinates: origin at the sample, +X
// along the flow direction.
func drawLocal(s Surface, shape params.Shape, c color.RGBA, size, lineWeight, dotWeight, textSize float64, label string) {
	none := color.RGBA{}
	switch shape {
	case params.ShapeDot:
		s.SetFill(none)
		s.SetStroke(c, dotWeight)
		s.Point(0, 0)
	case params.ShapeCircle:
		s.SetStroke(none, 0)
		s.SetFill(c)
		s.Circle(0, 0, size*0.5)
	case params.ShapeTriangle:
		h := size * 0.866
		s.SetStroke(none, 0)
		s.SetFill(c)
		s.Triangle(size/2, 0, -size/4, h/2, -size/4, -h/2)
	case params.ShapeSquare:
		s.SetStroke(none, 0)
		s.SetFill(c)
		s.Square(0, 0, size*0.7)
	case params.ShapeNumber:
		s.SetStroke(none, 0)
		s.SetFill(c)
		s.Text(label, 0, 0, textSize)
	default:
		s.SetFill(none)
		s.SetStroke(c, lineWeight)
		s.Line(0, 0, size, 0)
	}
}
