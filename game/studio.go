// Package game drives the studio: it owns the parameter store, the pattern
// generator and the particle system, and decides when a change redraws the
// canvas.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/systems"
	"github.com/pthm-cable/flowstudio/telemetry"
)

// Mode is the controller state.
type Mode uint8

const (
	ModeStatic Mode = iota
	ModeEvolve
	ModeParticles
)

func (m Mode) String() string {
	switch m {
	case ModeEvolve:
		return "evolve"
	case ModeParticles:
		return "particles"
	default:
		return "static"
	}
}

// Studio is the animation controller. All methods must be called from one
// goroutine.
type Studio struct {
	cfg     *config.Config
	store   *params.Store
	gen     *systems.PatternGenerator
	parts   *systems.ParticleSystem
	surface systems.Surface
	image   systems.SourceImage

	width, height float64
	grid          systems.Grid
	field         []r2.Vec
	zoff          float64

	pointer      r2.Vec // Live pointer position
	lastAccepted r2.Vec // Pointer position at the last significant move

	tick          int64
	framed        bool // Last Tick produced a frame
	regenerations int
	lastShapes    int

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
}

// NewStudio creates a studio from cfg. Nothing is drawn until Start.
func NewStudio(cfg *config.Config, opts Options) (*Studio, error) {
	if opts.Surface == nil {
		return nil, fmt.Errorf("studio: no surface")
	}
	noise := opts.Noise
	if noise == nil {
		n, err := systems.NewNoise(cfg.Noise)
		if err != nil {
			return nil, fmt.Errorf("studio: %w", err)
		}
		noise = n
	}

	w, h := cfg.Derived.CanvasW, cfg.Derived.CanvasH
	if opts.Width > 0 && opts.Height > 0 {
		w, h = opts.Width, opts.Height
	}

	s := &Studio{
		cfg:       cfg,
		store:     params.NewStore(cfg.Params),
		gen:       systems.NewPatternGenerator(systems.NewNoiseField(noise), cfg.Render.FieldSeed),
		parts:     systems.NewParticleSystem(cfg.Particles.MaxSpeed, cfg.Noise.Seed),
		surface:   opts.Surface,
		width:     w,
		height:    h,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.LogInterval),
		output:    opts.Output,
	}
	s.gen.Shapes().LineWeight = cfg.Render.StrokeWeight
	s.grid = systems.NewGrid(w, h, s.store.Params().Scale)
	s.respawn()
	return s, nil
}

// Start draws the initial field. Animation, if enabled, begins with the next Tick.
func (s *Studio) Start() {
	s.regenerate()
	slog.Info("studio started",
		"width", s.width,
		"height", s.height,
		"cols", s.grid.Cols,
		"rows", s.grid.Rows,
		"mode", s.Mode().String(),
	)
}

// Params returns a copy of the current parameters.
func (s *Studio) Params() params.Params { return s.store.Params() }

// Mode returns the controller state.
func (s *Studio) Mode() Mode {
	p := s.store.Params()
	switch {
	case !p.Animated:
		return ModeStatic
	case p.AnimationMode == params.AnimateParticles:
		return ModeParticles
	default:
		return ModeEvolve
	}
}

// Size returns the canvas size.
func (s *Studio) Size() (width, height float64) { return s.width, s.height }

// Grid returns the current sampling lattice.
func (s *Studio) Grid() systems.Grid { return s.grid }

// Zoff returns the animation time offset.
func (s *Studio) Zoff() float64 { return s.zoff }

// Regenerations returns how many full-field redraws have happened.
func (s *Studio) Regenerations() int { return s.regenerations }

// LastShapes returns the shape count of the most recent redraw.
func (s *Studio) LastShapes() int { return s.lastShapes }

// Ticks returns how many animation ticks have run.
func (s *Studio) Ticks() int64 { return s.tick }

// Particles returns a snapshot of the particle population.
func (s *Studio) Particles() []systems.Particle { return s.parts.Particles() }

// ParticleCount returns the particle population size.
func (s *Studio) ParticleCount() int { return s.parts.Len() }

// Perf returns the tick timing collector.
func (s *Studio) Perf() *telemetry.PerfCollector { return s.perf }

// Measure runs fn and charges its duration to phase on the tick just
// produced. Between a static Tick and the next frame fn runs untimed.
func (s *Studio) Measure(phase string, fn func()) {
	if !s.framed {
		fn()
		return
	}
	start := time.Now()
	fn()
	s.perf.Charge(phase, time.Since(start))
}

// OnParameterChanged stores value under name and redraws if the change calls
// for it. Structural changes redraw only when static; while animating they
// take effect on the next tick.
func (s *Studio) OnParameterChanged(name string, value any) error {
	stored, err := s.store.Set(name, value)
	if err != nil {
		return err
	}
	p := s.store.Params()
	slog.Debug("parameter changed", "name", name, "value", stored, "animated", p.Animated)

	switch name {
	case params.Animated:
		if p.Animated {
			slog.Info("animation started", "mode", p.AnimationMode.String())
		} else {
			slog.Info("animation stopped", "ticks", s.tick)
			s.regenerate()
		}
	case params.AnimationSpeed, params.AnimationMode:
		// Read by the next tick
	case params.ShowImage:
		s.regenerate()
	default:
		if !p.Animated {
			s.regenerate()
		}
	}
	return nil
}

// ApplyParams replaces the whole parameter set, as when loading a preset.
// A static set redraws once; an animated one is drawn by the next tick.
func (s *Studio) ApplyParams(p params.Params) {
	s.store.Replace(p)
	slog.Info("parameters replaced",
		"pattern", p.PatternMode.String(),
		"shape", p.ShapeType.String(),
		"animated", p.Animated,
	)
	if !p.Animated {
		s.regenerate()
	}
}

// PointerMoved records the pointer position. A move further than the
// configured threshold from the last accepted position is accepted and,
// when static, redraws. It reports whether the move was accepted.
func (s *Studio) PointerMoved(x, y float64) bool {
	s.pointer = r2.Vec{X: x, Y: y}
	p := s.store.Params()
	if !p.MouseEnabled {
		return false
	}
	if r2.Norm(r2.Sub(s.pointer, s.lastAccepted)) <= s.cfg.Render.MouseThreshold {
		return false
	}
	s.lastAccepted = s.pointer
	if !p.Animated {
		s.regenerate()
	}
	return true
}

// Tick advances the animation one frame. It does nothing when static and
// reports whether a frame was produced.
func (s *Studio) Tick() bool {
	p := s.store.Params()
	s.framed = p.Animated
	if !p.Animated {
		return false
	}

	s.perf.StartTick()
	s.zoff += p.AnimationSpeed
	s.tick++

	var shapes int
	switch p.AnimationMode {
	case params.AnimateParticles:
		shapes = s.stepParticles(p)
	default:
		s.perf.StartPhase(telemetry.PhaseField)
		shapes = s.generate(p)
	}
	dur := s.perf.EndTick()

	s.record(p, shapes, dur.Microseconds())
	return true
}

func (s *Studio) stepParticles(p params.Params) int {
	s.perf.StartPhase(telemetry.PhaseField)
	s.syncGrid(p.Scale)
	s.surface.Background(p.BackgroundColor.Opaque())
	f := s.frame(p)
	s.field = s.gen.Vectors(&f, s.grid, s.cfg.Particles.FieldMagnitude, s.field)

	s.perf.StartPhase(telemetry.PhaseParticles)
	s.parts.Step(s.surface, s.field, s.grid, &p, s.cfg.Particles.Alpha, s.gen.Shapes())
	return s.parts.Len()
}

// regenerate redraws the full static field outside the tick loop.
func (s *Studio) regenerate() {
	p := s.store.Params()
	s.generate(p)
}

// generate clears the canvas and draws every shape. The range-mode number
// counter restarts unless animating.
func (s *Studio) generate(p params.Params) int {
	s.syncGrid(p.Scale)
	f := s.frame(p)
	n := s.gen.Regenerate(s.surface, &f, !p.Animated)
	s.regenerations++
	s.lastShapes = n
	slog.Debug("field regenerated",
		"shapes", n,
		"pattern", p.PatternMode.String(),
		"shape", p.ShapeType.String(),
		"zoff", s.zoff,
	)
	return n
}

// RenderTo draws the current static field onto another surface without
// touching the live generator state. It returns the number of shapes drawn.
func (s *Studio) RenderTo(dst systems.Surface) int {
	p := s.store.Params()
	gen := systems.NewPatternGenerator(s.gen.Field(), s.cfg.Render.FieldSeed)
	gen.Shapes().LineWeight = s.gen.Shapes().LineWeight
	f := s.frame(p)
	return gen.Regenerate(dst, &f, true)
}

// Resize changes the canvas size, respawns the particles and, when static,
// redraws.
func (s *Studio) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.grid = systems.NewGrid(width, height, s.store.Params().Scale)
	s.respawn()
	slog.Info("canvas resized", "width", width, "height", height, "cols", s.grid.Cols, "rows", s.grid.Rows)
	if !s.store.Params().Animated {
		s.regenerate()
	}
}

// LoadImage installs a source image and applies the image defaults: fine
// scale, full density, image shown. A nil image removes the source.
func (s *Studio) LoadImage(img systems.SourceImage) {
	s.image = img
	if img == nil {
		slog.Info("source image cleared")
		s.regenerate()
		return
	}
	slog.Info("source image loaded", "width", img.Width(), "height", img.Height())
	defaults := []struct {
		name  string
		value any
	}{
		{params.Scale, s.cfg.Image.AutoScale},
		{params.Density, s.cfg.Image.AutoDensity},
		{params.ShowImage, true},
	}
	for _, d := range defaults {
		if _, err := s.store.Set(d.name, d.value); err != nil {
			slog.Warn("image default rejected", "name", d.name, "value", d.value, "error", err)
		}
	}
	s.regenerate()
}

// HasImage reports whether a source image is loaded.
func (s *Studio) HasImage() bool { return s.image != nil }

// SetSurface redirects subsequent frames.
func (s *Studio) SetSurface(surface systems.Surface) { s.surface = surface }

func (s *Studio) frame(p params.Params) systems.Frame {
	f := systems.Frame{
		Params:  p,
		Width:   s.width,
		Height:  s.height,
		Zoff:    s.zoff,
		Pointer: s.pointer,
	}
	if s.image != nil {
		f.Image = s.image
	}
	return f
}

// syncGrid recomputes the grid for scale and respawns the particles when
// its dimensions change.
func (s *Studio) syncGrid(scale float64) {
	g := systems.NewGrid(s.width, s.height, scale)
	changed := !g.SameShape(s.grid)
	s.grid = g
	if changed {
		s.respawn()
	}
}

func (s *Studio) respawn() {
	n := s.cfg.ParticleCount(s.width)
	s.parts.Reset(n, s.width, s.height)
	s.field = s.field[:0]
}

func (s *Studio) record(p params.Params, shapes int, durationUS int64) {
	rec := telemetry.FrameRecord{
		Tick:       s.tick,
		Mode:       s.Mode().String(),
		Pattern:    p.PatternMode.String(),
		Shape:      p.ShapeType.String(),
		Shapes:     shapes,
		Zoff:       math.Round(s.zoff*1e6) / 1e6,
		DurationUS: durationUS,
	}
	if err := s.output.WriteFrame(rec); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	s.collector.Record(rec)

	if s.cfg.Telemetry.LogInterval > 0 && s.collector.ShouldFlush(s.tick) {
		ws := s.collector.Flush(s.tick)
		ws.LogStats()
		s.perf.Stats().LogStats()
		if err := s.output.WriteWindow(ws); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
		if err := s.output.WritePerf(s.perf.Stats(), s.tick); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
}
