package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const rad2deg = 180 / 3.141592653589793

// RaylibSurface draws through raylib's immediate-mode API into whatever
// target is active (screen or render texture). Transforms use the rlgl
// matrix stack.
type RaylibSurface struct {
	stroke rl.Color
	weight float32
	fill   rl.Color
}

// NewRaylibSurface creates a surface. A raylib window must be open.
func NewRaylibSurface() *RaylibSurface {
	return &RaylibSurface{}
}

func toRL(c color.RGBA) rl.Color {
	n := straight(c)
	return rl.NewColor(n.R, n.G, n.B, n.A)
}

func (s *RaylibSurface) Background(c color.RGBA) {
	rl.ClearBackground(toRL(c))
}

func (s *RaylibSurface) Push()                  { rl.PushMatrix() }
func (s *RaylibSurface) Pop()                   { rl.PopMatrix() }
func (s *RaylibSurface) Translate(x, y float64) { rl.Translatef(float32(x), float32(y), 0) }
func (s *RaylibSurface) Rotate(angle float64)   { rl.Rotatef(float32(angle*rad2deg), 0, 0, 1) }

func (s *RaylibSurface) SetStroke(c color.RGBA, weight float64) {
	s.stroke, s.weight = toRL(c), float32(weight)
}

func (s *RaylibSurface) SetFill(c color.RGBA) {
	s.fill = toRL(c)
}

func (s *RaylibSurface) stroking() bool { return s.weight > 0 && s.stroke.A > 0 }

func (s *RaylibSurface) Line(x1, y1, x2, y2 float64) {
	if !s.stroking() {
		return
	}
	rl.DrawLineEx(vec(x1, y1), vec(x2, y2), s.weight, s.stroke)
}

func (s *RaylibSurface) Point(x, y float64) {
	if !s.stroking() {
		return
	}
	rl.DrawCircleV(vec(x, y), s.weight/2, s.stroke)
}

func (s *RaylibSurface) Circle(x, y, diameter float64) {
	if s.fill.A == 0 {
		return
	}
	rl.DrawCircleV(vec(x, y), float32(diameter/2), s.fill)
}

// Triangle fills the triangle. raylib culls clockwise-on-screen triangles,
// so the vertex order is normalized first.
func (s *RaylibSurface) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	if s.fill.A == 0 {
		return
	}
	v1, v2, v3 := vec(x1, y1), vec(x2, y2), vec(x3, y3)
	if cross := (x2-x1)*(y3-y1) - (y2-y1)*(x3-x1); cross > 0 {
		v2, v3 = v3, v2
	}
	rl.DrawTriangle(v1, v2, v3, s.fill)
}

func (s *RaylibSurface) Square(x, y, side float64) {
	if s.fill.A == 0 {
		return
	}
	rl.DrawRectangleV(vec(x-side/2, y-side/2), vec(side, side), s.fill)
}

func (s *RaylibSurface) Text(str string, x, y, size float64) {
	if s.fill.A == 0 || size <= 0 {
		return
	}
	font := rl.GetFontDefault()
	fs := float32(size)
	spacing := fs / 10
	m := rl.MeasureTextEx(font, str, fs, spacing)
	rl.DrawTextEx(font, str, rl.NewVector2(float32(x)-m.X/2, float32(y)-m.Y/2), fs, spacing, s.fill)
}

func vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}
