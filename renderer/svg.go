package renderer

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
)

// svgUnit is the fixed-point factor applied to coordinates, since svgo takes
// integers. Every primitive sits in a group scaled back by 1/svgUnit.
const svgUnit = 100

// SVGSurface writes drawing calls as SVG elements.
type SVGSurface struct {
	canvas        *svg.SVG
	width, height int

	matrix gg.Matrix
	stack  []gg.Matrix

	stroke color.RGBA
	weight float64
	fill   color.RGBA
}

// NewSVGSurface starts an SVG document of the given size on w. Call End to
// close the document.
func NewSVGSurface(w io.Writer, width, height int) *SVGSurface {
	s := &SVGSurface{
		canvas: svg.New(w),
		width:  width,
		height: height,
		matrix: gg.Identity(),
	}
	s.canvas.Start(width, height)
	return s
}

// End closes the SVG document.
func (s *SVGSurface) End() {
	s.canvas.End()
}

func (s *SVGSurface) Background(c color.RGBA) {
	hex, _ := cssColor(c)
	s.canvas.Rect(0, 0, s.width, s.height, "fill:"+hex)
}

func (s *SVGSurface) Push() {
	s.stack = append(s.stack, s.matrix)
}

func (s *SVGSurface) Pop() {
	if n := len(s.stack); n > 0 {
		s.matrix = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *SVGSurface) Translate(x, y float64) { s.matrix = s.matrix.Translate(x, y) }
func (s *SVGSurface) Rotate(angle float64)   { s.matrix = s.matrix.Rotate(angle) }

func (s *SVGSurface) SetStroke(c color.RGBA, weight float64) {
	s.stroke, s.weight = c, weight
}

func (s *SVGSurface) SetFill(c color.RGBA) {
	s.fill = c
}

// begin opens a group carrying the current transform.
func (s *SVGSurface) begin() {
	m := s.matrix
	s.canvas.Gtransform(fmt.Sprintf("matrix(%g %g %g %g %g %g) scale(%g)",
		m.XX, m.YX, m.XY, m.YY, m.X0, m.Y0, 1.0/svgUnit))
}

func (s *SVGSurface) end() {
	s.canvas.Gend()
}

func (s *SVGSurface) strokeStyle() string {
	if s.weight <= 0 || s.stroke.A == 0 {
		return "stroke:none"
	}
	hex, op := cssColor(s.stroke)
	return fmt.Sprintf("stroke:%s;stroke-opacity:%.3g;stroke-width:%d;stroke-linecap:round", hex, op, fx(s.weight))
}

func (s *SVGSurface) fillStyle() string {
	if s.fill.A == 0 {
		return "fill:none"
	}
	hex, op := cssColor(s.fill)
	return fmt.Sprintf("fill:%s;fill-opacity:%.3g", hex, op)
}

func (s *SVGSurface) Line(x1, y1, x2, y2 float64) {
	if s.weight <= 0 || s.stroke.A == 0 {
		return
	}
	s.begin()
	s.canvas.Line(fx(x1), fx(y1), fx(x2), fx(y2), s.strokeStyle())
	s.end()
}

func (s *SVGSurface) Point(x, y float64) {
	if s.weight <= 0 || s.stroke.A == 0 {
		return
	}
	hex, op := cssColor(s.stroke)
	s.begin()
	s.canvas.Circle(fx(x), fx(y), fx(s.weight/2), fmt.Sprintf("fill:%s;fill-opacity:%.3g", hex, op))
	s.end()
}

func (s *SVGSurface) Circle(x, y, diameter float64) {
	s.begin()
	s.canvas.Circle(fx(x), fx(y), fx(diameter/2), s.fillStyle()+";"+s.strokeStyle())
	s.end()
}

func (s *SVGSurface) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	s.begin()
	s.canvas.Polygon(
		[]int{fx(x1), fx(x2), fx(x3)},
		[]int{fx(y1), fx(y2), fx(y3)},
		s.fillStyle()+";"+s.strokeStyle())
	s.end()
}

func (s *SVGSurface) Square(x, y, side float64) {
	s.begin()
	s.canvas.Rect(fx(x-side/2), fx(y-side/2), fx(side), fx(side), s.fillStyle()+";"+s.strokeStyle())
	s.end()
}

func (s *SVGSurface) Text(str string, x, y, size float64) {
	if s.fill.A == 0 || size <= 0 {
		return
	}
	s.begin()
	s.canvas.Text(fx(x), fx(y), str, fmt.Sprintf(
		"%s;font-family:sans-serif;font-size:%d;text-anchor:middle;dominant-baseline:central",
		s.fillStyle(), fx(size)))
	s.end()
}

// fx converts a pixel value to fixed-point SVG units.
func fx(v float64) int {
	return int(math.Round(v * svgUnit))
}
