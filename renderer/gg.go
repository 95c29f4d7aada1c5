package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// GGSurface rasterizes onto an in-memory RGBA image.
type GGSurface struct {
	dc *gg.Context

	stroke color.RGBA
	weight float64
	fill   color.RGBA

	font  *truetype.Font
	faces map[float64]font.Face
}

// NewGGSurface creates a raster surface of the given pixel size.
func NewGGSurface(width, height int) *GGSurface {
	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapRound)
	f, _ := truetype.Parse(goregular.TTF) // embedded font, always parses
	return &GGSurface{
		dc:    dc,
		font:  f,
		faces: make(map[float64]font.Face),
	}
}

// Image returns the rendered image.
func (s *GGSurface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the rendered image to path.
func (s *GGSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving png: %w", err)
	}
	return nil
}

func (s *GGSurface) Background(c color.RGBA) {
	s.dc.Push()
	s.dc.Identity()
	s.dc.SetColor(c)
	s.dc.Clear()
	s.dc.Pop()
}

func (s *GGSurface) Push()                  { s.dc.Push() }
func (s *GGSurface) Pop()                   { s.dc.Pop() }
func (s *GGSurface) Translate(x, y float64) { s.dc.Translate(x, y) }
func (s *GGSurface) Rotate(angle float64)   { s.dc.Rotate(angle) }

func (s *GGSurface) SetStroke(c color.RGBA, weight float64) {
	s.stroke, s.weight = c, weight
}

func (s *GGSurface) SetFill(c color.RGBA) {
	s.fill = c
}

func (s *GGSurface) stroking() bool { return s.weight > 0 && s.stroke.A > 0 }
func (s *GGSurface) filling() bool  { return s.fill.A > 0 }

// paint fills and/or strokes the current path.
func (s *GGSurface) paint() {
	if s.filling() {
		s.dc.SetColor(s.fill)
		if s.stroking() {
			s.dc.FillPreserve()
		} else {
			s.dc.Fill()
		}
	}
	if s.stroking() {
		s.dc.SetColor(s.stroke)
		s.dc.SetLineWidth(s.weight)
		s.dc.Stroke()
	}
	s.dc.ClearPath()
}

func (s *GGSurface) Line(x1, y1, x2, y2 float64) {
	if !s.stroking() {
		return
	}
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.weight)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// Point draws a round dot whose diameter is the stroke weight.
func (s *GGSurface) Point(x, y float64) {
	if !s.stroking() {
		return
	}
	s.dc.SetColor(s.stroke)
	s.dc.DrawPoint(x, y, s.weight/2)
	s.dc.Fill()
}

func (s *GGSurface) Circle(x, y, diameter float64) {
	s.dc.DrawCircle(x, y, diameter/2)
	s.paint()
}

func (s *GGSurface) Triangle(x1, y1, x2, y2, x3, y3 float64) {
	s.dc.MoveTo(x1, y1)
	s.dc.LineTo(x2, y2)
	s.dc.LineTo(x3, y3)
	s.dc.ClosePath()
	s.paint()
}

func (s *GGSurface) Square(x, y, side float64) {
	s.dc.DrawRectangle(x-side/2, y-side/2, side, side)
	s.paint()
}

func (s *GGSurface) Text(str string, x, y, size float64) {
	if !s.filling() || size <= 0 {
		return
	}
	s.dc.SetFontFace(s.face(size))
	s.dc.SetColor(s.fill)
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0.5)
}

// face returns a cached font face for size, rounded to half points.
func (s *GGSurface) face(size float64) font.Face {
	key := math.Round(size*2) / 2
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(s.font, &truetype.Options{Size: key})
	s.faces[key] = f
	return f
}
