package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/systems"
)

var navy = color.RGBA{R: 0x0b, G: 0x1c, B: 0x66, A: 0xff}

// drawCross paints the background and one line.
func drawCross(s systems.Surface) int {
	s.Background(navy)
	s.SetStroke(color.RGBA{255, 255, 255, 255}, 2)
	s.Line(0, 0, 20, 20)
	return 1
}

// ---------- snapshots ----------

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := PNG(path, 40, 30, drawCross); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := imgio.Open(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 40x30", b)
	}
	r, g, b, _ := img.At(39, 0).RGBA()
	if r>>8 != 0x0b || g>>8 != 0x1c || b>>8 != 0x66 {
		t.Errorf("corner pixel = %02x%02x%02x, want background", r>>8, g>>8, b>>8)
	}
}

func TestPNG_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := PNG(path, 10, 10, drawCross); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, 40, 30, drawCross); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("not an SVG document:\n%s", out)
	}
	if !strings.Contains(out, "<line") {
		t.Error("line missing from SVG")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVG_WriteError(t *testing.T) {
	if err := SVG(failingWriter{}, 10, 10, drawCross); err == nil {
		t.Error("expected write error to surface")
	}
}

// ---------- html ----------

func TestHTML(t *testing.T) {
	p := params.Defaults()
	p.PatternMode = params.PatternVortex

	var buf bytes.Buffer
	if err := HTML(&buf, "Flow Field", 40, 30, p, drawCross); err != nil {
		t.Fatalf("HTML: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<?xml") {
		t.Error("XML prolog left inside HTML")
	}
	for _, want := range []string{"<title>Flow Field</title>", "<svg", `id="params"`, "#0b1c66"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}

	start := strings.Index(out, `id="params">`)
	end := strings.LastIndex(out, "</script>")
	if start < 0 || end < start {
		t.Fatal("params block not found")
	}
	var got params.Params
	if err := json.Unmarshal([]byte(out[start+len(`id="params">`):end]), &got); err != nil {
		t.Fatalf("params block is not JSON: %v", err)
	}
	if got != p {
		t.Errorf("embedded params = %+v, want %+v", got, p)
	}
}

// ---------- frames ----------

func TestFrameWriter_Paths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	png, err := NewFrameWriter(dir, "studio", 0)
	if err != nil {
		t.Fatalf("NewFrameWriter: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
	if got := filepath.Base(png.Path(1)); got != "studio_00001.png" {
		t.Errorf("Path(1) = %q", got)
	}

	jpg, _ := NewFrameWriter(dir, "", 90)
	if got := filepath.Base(jpg.Path(12)); got != "frame_00012.jpg" {
		t.Errorf("Path(12) = %q", got)
	}
}

// ticker produces frames until its budget runs out.
type ticker struct {
	left int
	img  *image.RGBA
}

func (tk *ticker) Tick() bool {
	if tk.left == 0 {
		return false
	}
	tk.left--
	return true
}

func (tk *ticker) Image() image.Image { return tk.img }

func TestFrames(t *testing.T) {
	fw, err := NewFrameWriter(t.TempDir(), "rec", 0)
	if err != nil {
		t.Fatalf("NewFrameWriter: %v", err)
	}
	tk := &ticker{left: 3, img: image.NewRGBA(image.Rect(0, 0, 8, 8))}

	n, err := Frames(fw, tk, tk, 5)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if n != 3 || fw.Count() != 3 {
		t.Errorf("wrote %d frames (count %d), want 3", n, fw.Count())
	}
	for i := 1; i <= 3; i++ {
		if _, err := os.Stat(fw.Path(i)); err != nil {
			t.Errorf("frame %d missing: %v", i, err)
		}
	}
	if _, err := os.Stat(fw.Path(4)); err == nil {
		t.Error("frame 4 written after animation stopped")
	}
}

func TestWriteImage_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.jpg")
	src := image.NewRGBA(image.Rect(0, 0, 16, 9))
	if err := WriteImage(path, src, 80); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	img, err := imgio.Open(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("bounds = %v, want 16x9", b)
	}
}
