package systems

import (
	"image/color"
	"math"
)

// recorder is a Surface that logs every call.
type recorder struct {
	ops      []op
	depth    int
	maxDepth int
}

type op struct {
	kind  string
	args  []float64
	text  string
	color color.RGBA
}

func (r *recorder) add(kind string, args ...float64) {
	r.ops = append(r.ops, op{kind: kind, args: args})
}

func (r *recorder) Background(c color.RGBA) {
	r.ops = append(r.ops, op{kind: "background", color: c})
}

func (r *recorder) Push() {
	r.depth++
	r.maxDepth = max(r.maxDepth, r.depth)
	r.add("push")
}

func (r *recorder) Pop() {
	r.depth--
	r.add("pop")
}

func (r *recorder) Translate(x, y float64) { r.add("translate", x, y) }
func (r *recorder) Rotate(a float64)       { r.add("rotate", a) }

func (r *recorder) SetStroke(c color.RGBA, w float64) {
	r.ops = append(r.ops, op{kind: "stroke", args: []float64{w}, color: c})
}

func (r *recorder) SetFill(c color.RGBA) {
	r.ops = append(r.ops, op{kind: "fill", color: c})
}

func (r *recorder) Line(x1, y1, x2, y2 float64) { r.add("line", x1, y1, x2, y2) }
func (r *recorder) Point(x, y float64)          { r.add("point", x, y) }
func (r *recorder) Circle(x, y, d float64)      { r.add("circle", x, y, d) }
func (r *recorder) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	r.add("triangle", x1, y1, x2, y2, x3, y3)
}
func (r *recorder) Square(x, y, side float64) { r.add("square", x, y, side) }

func (r *recorder) Text(s string, x, y, size float64) {
	r.ops = append(r.ops, op{kind: "text", args: []float64{x, y, size}, text: s})
}

// count returns how many ops of the given kind were recorded.
func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

// last returns the most recent op of the given kind.
func (r *recorder) last(kind string) (op, bool) {
	for i := len(r.ops) - 1; i >= 0; i-- {
		if r.ops[i].kind == kind {
			return r.ops[i], true
		}
	}
	return op{}, false
}

// constNoise returns the same value everywhere.
type constNoise float64

func (n constNoise) Noise3D(x, y, z float64) float64 { return float64(n) }

// flatImage is a single-color source image.
type flatImage struct {
	w, h            int
	brightness, hue float64
}

func (f flatImage) Width() int                          { return f.w }
func (f flatImage) Height() int                         { return f.h }
func (f flatImage) PixelAt(x, y int) (float64, float64) { return f.brightness, f.hue }

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
