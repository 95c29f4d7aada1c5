package game

import (
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/telemetry"
)

// countingSurface counts clears and primitives and discards everything else.
type countingSurface struct {
	backgrounds int
	primitives  int
	angles      []float64
}

func (c *countingSurface) Background(color.RGBA)                   { c.backgrounds++ }
func (c *countingSurface) Push()                                   {}
func (c *countingSurface) Pop()                                    {}
func (c *countingSurface) Translate(x, y float64)                  {}
func (c *countingSurface) Rotate(a float64)                        { c.angles = append(c.angles, a) }
func (c *countingSurface) SetStroke(color.RGBA, float64)           {}
func (c *countingSurface) SetFill(color.RGBA)                      {}
func (c *countingSurface) Line(x1, y1, x2, y2 float64)             { c.primitives++ }
func (c *countingSurface) Point(x, y float64)                      { c.primitives++ }
func (c *countingSurface) Circle(x, y, d float64)                  { c.primitives++ }
func (c *countingSurface) Triangle(x1, y1, x2, y2, x3, y3 float64) { c.primitives++ }
func (c *countingSurface) Square(x, y, side float64)               { c.primitives++ }
func (c *countingSurface) Text(s string, x, y, size float64)       { c.primitives++ }

type halfNoise struct{}

func (halfNoise) Noise3D(x, y, z float64) float64 { return 0.5 }

type grayImage struct{}

func (grayImage) Width() int                          { return 10 }
func (grayImage) Height() int                         { return 10 }
func (grayImage) PixelAt(x, y int) (float64, float64) { return 50, 180 }

func newTestStudio(t *testing.T, mutate func(*config.Config)) (*Studio, *countingSurface) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Telemetry.LogInterval = 0
	if mutate != nil {
		mutate(cfg)
	}
	surf := &countingSurface{}
	s, err := NewStudio(cfg, Options{Surface: surf, Width: 400, Height: 400, Noise: halfNoise{}})
	if err != nil {
		t.Fatalf("NewStudio: %v", err)
	}
	s.Start()
	return s, surf
}

func mustSet(t *testing.T, s *Studio, name string, v any) {
	t.Helper()
	if err := s.OnParameterChanged(name, v); err != nil {
		t.Fatalf("OnParameterChanged(%s, %v): %v", name, v, err)
	}
}

// ---------- construction ----------

func TestNewStudio_RequiresSurface(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := NewStudio(cfg, Options{}); err == nil {
		t.Error("expected error without a surface")
	}
}

func TestNewStudio_UnknownNoiseBackend(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Noise.Backend = "worley"
	if _, err := NewStudio(cfg, Options{Surface: &countingSurface{}}); err == nil {
		t.Error("expected error for unknown noise backend")
	}
}

func TestStudio_StartRegeneratesOnce(t *testing.T) {
	s, surf := newTestStudio(t, nil)

	if s.Regenerations() != 1 {
		t.Errorf("Regenerations = %d, want 1", s.Regenerations())
	}
	if surf.backgrounds != 1 {
		t.Errorf("backgrounds = %d, want 1", surf.backgrounds)
	}
	if s.LastShapes() == 0 || surf.primitives != s.LastShapes() {
		t.Errorf("primitives = %d, LastShapes = %d", surf.primitives, s.LastShapes())
	}
	if g := s.Grid(); g.Cols != 20 || g.Rows != 20 {
		t.Errorf("grid = %dx%d, want 20x20", g.Cols, g.Rows)
	}
	if s.Mode() != ModeStatic {
		t.Errorf("Mode = %v, want static", s.Mode())
	}
}

// ---------- regeneration policy ----------

func TestStudio_RegenerationTriggers(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	mustSet(t, s, params.Scale, 30.0)
	if got := s.Regenerations() - base; got != 1 {
		t.Fatalf("scale change while static: %d regenerations, want 1", got)
	}

	mustSet(t, s, params.MouseEnabled, true)
	base = s.Regenerations()
	mustSet(t, s, params.MouseInfluence, 0.8)
	if got := s.Regenerations() - base; got != 1 {
		t.Fatalf("influence change while static: %d regenerations, want 1", got)
	}

	mustSet(t, s, params.Animated, true)
	base = s.Regenerations()
	mustSet(t, s, params.MouseInfluence, 0.2)
	if got := s.Regenerations() - base; got != 0 {
		t.Fatalf("influence change while animated: %d regenerations, want 0", got)
	}
	if got := s.Params().MouseInfluence; got != 0.2 {
		t.Errorf("MouseInfluence = %v, want 0.2 stored for the next tick", got)
	}
}

func TestStudio_AnimationToggle(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	mustSet(t, s, params.Animated, true)
	if s.Regenerations() != base {
		t.Errorf("starting animation regenerated")
	}
	if s.Mode() != ModeEvolve {
		t.Errorf("Mode = %v, want evolve", s.Mode())
	}

	mustSet(t, s, params.Animated, false)
	if got := s.Regenerations() - base; got != 1 {
		t.Errorf("stopping animation: %d regenerations, want 1", got)
	}
}

func TestStudio_TimingParamsNeverRegenerate(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	mustSet(t, s, params.AnimationSpeed, 0.02)
	mustSet(t, s, params.AnimationMode, "particles")
	if s.Regenerations() != base {
		t.Errorf("timing params regenerated %d times", s.Regenerations()-base)
	}
}

func TestStudio_ShowImageAlwaysRegenerates(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.Animated, true)
	base := s.Regenerations()

	mustSet(t, s, params.ShowImage, true)
	if got := s.Regenerations() - base; got != 1 {
		t.Errorf("showImage while animated: %d regenerations, want 1", got)
	}
}

func TestStudio_RejectedChange(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()
	before := s.Params()

	err := s.OnParameterChanged("lineWidth", 3.0)
	if !errors.Is(err, params.ErrUnknownParam) {
		t.Errorf("err = %v, want ErrUnknownParam", err)
	}
	err = s.OnParameterChanged(params.PatternMode, "hexagonal")
	if !errors.Is(err, params.ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
	if s.Regenerations() != base {
		t.Error("rejected change regenerated")
	}
	if s.Params() != before {
		t.Error("rejected change modified params")
	}
}

// ---------- pointer ----------

func TestStudio_PointerThreshold(t *testing.T) {
	s, _ := newTestStudio(t, nil)

	base := s.Regenerations()
	if s.PointerMoved(200, 200) {
		t.Error("move accepted with mouse disabled")
	}
	if s.Regenerations() != base {
		t.Error("move regenerated with mouse disabled")
	}

	mustSet(t, s, params.MouseEnabled, true)
	base = s.Regenerations()

	tests := []struct {
		x, y   float64
		accept bool
	}{
		{5, 5, false},  // 7.07 from origin
		{10, 0, false}, // exactly on the threshold
		{20, 0, true},  // 20 from origin
		{25, 5, false}, // 7.07 from (20, 0)
		{20, 11, true}, // 11 from (20, 0)
		{300, 300, true},
	}
	accepted := 0
	for _, tt := range tests {
		if got := s.PointerMoved(tt.x, tt.y); got != tt.accept {
			t.Errorf("PointerMoved(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.accept)
		}
		if tt.accept {
			accepted++
		}
	}
	if got := s.Regenerations() - base; got != accepted {
		t.Errorf("regenerations = %d, want %d", got, accepted)
	}
}

func TestStudio_PointerOffCanvas(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.MouseEnabled, true)
	mustSet(t, s, params.MouseInfluence, 1.0)
	mustSet(t, s, params.PatternMode, "flowfield")

	spread := func() (lo, hi float64) {
		dst := &countingSurface{}
		s.RenderTo(dst)
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, a := range dst.angles {
			lo, hi = min(lo, a), max(hi, a)
		}
		return lo, hi
	}

	s.PointerMoved(200, 200)
	if lo, hi := spread(); hi-lo < 1e-6 {
		t.Fatal("pointer over the canvas bent no angles")
	}

	// Left of the canvas and beyond the largest radius.
	if !s.PointerMoved(-400, 200) {
		t.Fatal("off-canvas move not accepted")
	}
	if lo, hi := spread(); hi-lo > 1e-9 {
		t.Errorf("pointer off the canvas still bends angles: spread %v", hi-lo)
	}
}

func TestStudio_PointerWhileAnimated(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.MouseEnabled, true)
	mustSet(t, s, params.Animated, true)
	base := s.Regenerations()

	if !s.PointerMoved(100, 100) {
		t.Error("significant move not accepted while animated")
	}
	if s.Regenerations() != base {
		t.Error("pointer move regenerated while animated")
	}
}

// ---------- ticks ----------

func TestStudio_TickStatic(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	if s.Tick() {
		t.Error("Tick produced a frame while static")
	}
	if s.Regenerations() != base || s.Zoff() != 0 || s.Ticks() != 0 {
		t.Error("static Tick changed state")
	}
}

func TestStudio_TickEvolve(t *testing.T) {
	s, surf := newTestStudio(t, nil)
	mustSet(t, s, params.Animated, true)
	base := s.Regenerations()
	bg := surf.backgrounds

	for i := 0; i < 3; i++ {
		if !s.Tick() {
			t.Fatalf("tick %d produced no frame", i)
		}
	}
	if got := s.Regenerations() - base; got != 3 {
		t.Errorf("regenerations = %d, want 3", got)
	}
	if got := surf.backgrounds - bg; got != 3 {
		t.Errorf("backgrounds = %d, want 3", got)
	}
	if math.Abs(s.Zoff()-0.15) > 1e-9 {
		t.Errorf("Zoff = %v, want 0.15", s.Zoff())
	}
	if s.Ticks() != 3 {
		t.Errorf("Ticks = %d, want 3", s.Ticks())
	}
}

func TestStudio_TickParticles(t *testing.T) {
	s, surf := newTestStudio(t, nil)
	mustSet(t, s, params.AnimationMode, "particles")
	mustSet(t, s, params.Animated, true)
	base := s.Regenerations()
	bg := surf.backgrounds
	prims := surf.primitives

	if !s.Tick() {
		t.Fatal("tick produced no frame")
	}
	if s.Regenerations() != base {
		t.Error("particle tick regenerated the field")
	}
	if surf.backgrounds-bg != 1 {
		t.Errorf("backgrounds = %d, want 1", surf.backgrounds-bg)
	}
	n := s.ParticleCount()
	if n != len(s.Particles()) {
		t.Errorf("ParticleCount = %d, snapshot has %d", n, len(s.Particles()))
	}
	if n != 200 {
		t.Errorf("particles = %d, want 200 on a 400px canvas", n)
	}
	if got := surf.primitives - prims; got != n {
		t.Errorf("primitives = %d, want one per particle (%d)", got, n)
	}
	if math.Abs(s.Zoff()-0.05) > 1e-9 {
		t.Errorf("Zoff = %v, want 0.05", s.Zoff())
	}
}

func TestStudio_ParticlesFollowScale(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.AnimationMode, "particles")
	mustSet(t, s, params.Animated, true)
	s.Tick()

	mustSet(t, s, params.Scale, 40.0)
	s.Tick()
	if g := s.Grid(); g.Cols != 10 || g.Rows != 10 {
		t.Errorf("grid = %dx%d after scale change, want 10x10", g.Cols, g.Rows)
	}
}

// ---------- resize and image ----------

func TestStudio_Resize(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	s.Resize(1000, 500)
	if w, h := s.Size(); w != 1000 || h != 500 {
		t.Errorf("Size = %vx%v, want 1000x500", w, h)
	}
	if g := s.Grid(); g.Cols != 50 || g.Rows != 25 {
		t.Errorf("grid = %dx%d, want 50x25", g.Cols, g.Rows)
	}
	if got := len(s.Particles()); got != 500 {
		t.Errorf("particles = %d, want 500 on a wide canvas", got)
	}
	if got := s.Regenerations() - base; got != 1 {
		t.Errorf("regenerations = %d, want 1", got)
	}

	s.Resize(0, 100)
	if w, _ := s.Size(); w != 1000 {
		t.Error("zero-width resize was applied")
	}
}

func TestStudio_LoadImage(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	s.LoadImage(grayImage{})
	p := s.Params()
	if p.Scale != 10 || p.Density != 1 || !p.ShowImage {
		t.Errorf("after load: scale %v density %v showImage %v", p.Scale, p.Density, p.ShowImage)
	}
	if !s.HasImage() {
		t.Error("HasImage = false")
	}
	if got := s.Regenerations() - base; got != 1 {
		t.Errorf("regenerations = %d, want 1", got)
	}

	s.LoadImage(nil)
	if s.HasImage() {
		t.Error("HasImage = true after clearing")
	}
}

func TestStudio_LoadImageClampsDefaults(t *testing.T) {
	s, _ := newTestStudio(t, func(c *config.Config) {
		c.Image.AutoScale = 3
		c.Image.AutoDensity = 5
	})
	s.LoadImage(grayImage{})
	p := s.Params()
	if p.Scale != 10 || p.Density != 2 || !p.ShowImage {
		t.Errorf("after load: scale %v density %v showImage %v, want 10 2 true", p.Scale, p.Density, p.ShowImage)
	}
}

func TestStudio_RenderToLeavesStateAlone(t *testing.T) {
	s, surf := newTestStudio(t, nil)
	base := s.Regenerations()
	prims := surf.primitives

	dst := &countingSurface{}
	n := s.RenderTo(dst)
	if n != s.LastShapes() {
		t.Errorf("RenderTo drew %d shapes, live canvas has %d", n, s.LastShapes())
	}
	if dst.backgrounds != 1 {
		t.Errorf("export backgrounds = %d, want 1", dst.backgrounds)
	}
	if s.Regenerations() != base || surf.primitives != prims {
		t.Error("RenderTo touched the live canvas")
	}
}

func TestStudio_ApplyParams(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	base := s.Regenerations()

	p := params.Defaults()
	p.PatternMode = params.PatternVortex
	p.Scale = 75 // out of range
	s.ApplyParams(p)

	got := s.Params()
	if got.PatternMode != params.PatternVortex {
		t.Errorf("PatternMode = %v, want vortex", got.PatternMode)
	}
	if got.Scale != 50 {
		t.Errorf("Scale = %v, want clamped 50", got.Scale)
	}
	if n := s.Regenerations() - base; n != 1 {
		t.Errorf("regenerations = %d, want 1", n)
	}
}

func TestStudio_ApplyParamsWhileAnimated(t *testing.T) {
	s, surf := newTestStudio(t, nil)
	mustSet(t, s, params.AnimationMode, "particles")
	mustSet(t, s, params.Animated, true)
	s.Tick()
	base := s.Regenerations()
	bg := surf.backgrounds

	p := s.Params()
	p.PatternMode = params.PatternSpiral
	s.ApplyParams(p)
	if s.Regenerations() != base || surf.backgrounds != bg {
		t.Errorf("animated apply redrew: regenerations +%d backgrounds +%d",
			s.Regenerations()-base, surf.backgrounds-bg)
	}
	if s.Params().PatternMode != params.PatternSpiral {
		t.Error("pattern not applied")
	}

	p.Animated = false
	s.ApplyParams(p)
	if got := s.Regenerations() - base; got != 1 {
		t.Errorf("static apply regenerations = %d, want 1", got)
	}
}

// ---------- perf ----------

func TestStudio_MeasureChargesFrame(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.Animated, true)

	for range 3 {
		s.Perf().RecordFrame()
		s.Tick()
		s.Measure(telemetry.PhaseDraw, func() { time.Sleep(200 * time.Microsecond) })
		s.Measure(telemetry.PhaseExport, func() { time.Sleep(200 * time.Microsecond) })
		time.Sleep(time.Millisecond)
	}

	stats := s.Perf().Stats()
	for _, phase := range []string{telemetry.PhaseField, telemetry.PhaseDraw, telemetry.PhaseExport} {
		if stats.PhasePct[phase] <= 0 {
			t.Errorf("%s share = %v, want > 0", phase, stats.PhasePct[phase])
		}
	}
	if stats.FPS <= 0 {
		t.Errorf("FPS = %v, want > 0", stats.FPS)
	}
	row := stats.ToCSV(s.Ticks())
	if row.DrawPct <= 0 || row.ExportPct <= 0 || row.FPS <= 0 {
		t.Errorf("perf row = %+v", row)
	}
}

func TestStudio_MeasureStaticUntimed(t *testing.T) {
	s, _ := newTestStudio(t, nil)
	mustSet(t, s, params.Animated, true)
	s.Tick()
	mustSet(t, s, params.Animated, false)
	s.Tick()

	before := s.Perf().Stats().PhaseAvg[telemetry.PhaseDraw]
	ran := false
	s.Measure(telemetry.PhaseDraw, func() {
		ran = true
		time.Sleep(200 * time.Microsecond)
	})
	if !ran {
		t.Fatal("Measure skipped fn")
	}
	if after := s.Perf().Stats().PhaseAvg[telemetry.PhaseDraw]; after != before {
		t.Errorf("static frame charged to the last tick: %v -> %v", before, after)
	}
}
