package renderer

import (
	"bytes"
	"image/color"
	"math"
	"strings"
	"testing"
)

var white = color.RGBA{255, 255, 255, 255}

func TestSVGSurface_Document(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 200, 100)
	s.Background(color.RGBA{R: 0x0b, G: 0x1c, B: 0x66, A: 0xff})
	s.SetStroke(white, 2)
	s.Push()
	s.Translate(10, 20)
	s.Rotate(math.Pi / 2)
	s.Line(0, 0, 12, 0)
	s.Pop()
	s.SetStroke(color.RGBA{}, 0)
	s.SetFill(white)
	s.Text("7", 50, 50, 10)
	s.End()

	out := buf.String()
	for _, want := range []string{
		`width="200"`,
		`fill:#0b1c66`,
		`x2="1200"`,
		`stroke-width:200`,
		`>7</text>`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	// The rotated line carries the translate in its matrix.
	if !strings.Contains(out, " 10 20) scale(0.01)") {
		t.Errorf("transform not emitted:\n%s", out)
	}
}

func TestSVGSurface_PopRestoresTransform(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 10, 10)
	s.Push()
	s.Translate(5, 5)
	s.Pop()
	s.Pop() // unbalanced pop is ignored
	if s.matrix.X0 != 0 || s.matrix.Y0 != 0 {
		t.Errorf("matrix not restored: %+v", s.matrix)
	}
}

func TestSVGSurface_TranslucentStroke(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 10, 10)
	// Premultiplied white at alpha 100
	s.SetStroke(color.RGBA{100, 100, 100, 100}, 1)
	s.Line(0, 0, 5, 5)
	s.End()
	if !strings.Contains(buf.String(), "stroke:#ffffff;stroke-opacity:0.392") {
		t.Errorf("translucent stroke not un-premultiplied:\n%s", buf.String())
	}
}

func TestGGSurface_Draws(t *testing.T) {
	s := NewGGSurface(40, 40)
	bg := color.RGBA{0, 0, 0, 255}
	s.Background(bg)

	s.SetFill(white)
	s.SetStroke(color.RGBA{}, 0)
	s.Square(20, 20, 10)

	img := s.Image()
	r, g, b, _ := img.At(20, 20).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("square center = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(2, 2).RGBA()
	if r != 0 {
		t.Errorf("background corner not cleared: r=%d", r>>8)
	}
}

func TestGGSurface_TextCachesFaces(t *testing.T) {
	s := NewGGSurface(40, 40)
	s.SetFill(white)
	s.Text("1", 20, 20, 10)
	s.Text("2", 20, 20, 10.1)
	s.Text("3", 20, 20, 12)
	if len(s.faces) != 2 {
		t.Errorf("cached %d faces, want 2", len(s.faces))
	}
}
