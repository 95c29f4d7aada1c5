package ui

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ncruces/zenity"

	"github.com/pthm-cable/flowstudio/camera"
	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/export"
	"github.com/pthm-cable/flowstudio/game"
	"github.com/pthm-cable/flowstudio/imagesrc"
	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/renderer"
	"github.com/pthm-cable/flowstudio/telemetry"
)

const messageTTL = 4 * time.Second

const controlsLegend = "[Space] animate  [S] save PNG  [H] export HTML  [O] open image  [R] record  [Tab] panel  [P] perf"

// HostOptions configures the interactive host.
type HostOptions struct {
	Output   *telemetry.OutputManager
	Image    *imagesrc.Image
	MaxTicks int64 // Stop after N animation ticks (0 = unlimited)
}

// Host runs the studio inside a raylib window. The canvas lives in a render
// texture so static frames persist between regenerations.
type Host struct {
	cfg     *config.Config
	studio  *game.Studio
	surface *renderer.RaylibSurface
	target  rl.RenderTexture2D
	cam     *camera.Camera

	panel     *ControlsPanel
	hud       *HUD
	perfPanel *PerfPanel
	showPerf  bool

	screenW, screenH int32
	canvasW, canvasH int32

	pending       []Change
	pendingAction Action

	recorder *export.FrameWriter

	message      string
	messageErr   bool
	messageUntil time.Time

	maxTicks int64
}

// NewHost builds the studio on a render texture. The raylib window must be
// open.
func NewHost(cfg *config.Config, opts HostOptions) (*Host, error) {
	h := &Host{
		cfg:       cfg,
		surface:   renderer.NewRaylibSurface(),
		screenW:   int32(rl.GetScreenWidth()),
		screenH:   int32(rl.GetScreenHeight()),
		canvasW:   int32(cfg.Derived.CanvasW),
		canvasH:   int32(cfg.Derived.CanvasH),
		panel:     NewControlsPanel(0, 0, int32(cfg.Screen.PanelWidth)),
		hud:       NewHUD(),
		perfPanel: NewPerfPanel(10, 30),
		maxTicks:  opts.MaxTicks,
	}
	h.target = rl.LoadRenderTexture(h.canvasW, h.canvasH)
	h.cam = camera.New(float32(h.screenW-h.panel.Width()), float32(h.screenH), float32(h.canvasW), float32(h.canvasH))
	h.layout()

	studio, err := game.NewStudio(cfg, game.Options{
		Surface: h.surface,
		Width:   float64(h.canvasW),
		Height:  float64(h.canvasH),
		Output:  opts.Output,
	})
	if err != nil {
		rl.UnloadRenderTexture(h.target)
		return nil, err
	}
	h.studio = studio

	h.onCanvas(func() {
		h.studio.Start()
		if opts.Image != nil {
			h.studio.LoadImage(opts.Image)
		}
	})
	return h, nil
}

// Studio returns the controller driven by the host.
func (h *Host) Studio() *game.Studio { return h.studio }

// Run loops until the window closes or the tick limit is reached.
func (h *Host) Run() {
	for !rl.WindowShouldClose() {
		h.Update()
		h.Draw()

		if h.maxTicks > 0 && h.studio.Ticks() >= h.maxTicks {
			slog.Info("max ticks reached", "tick", h.studio.Ticks())
			return
		}
	}
}

// Close releases GPU resources and ends any recording.
func (h *Host) Close() {
	h.stopRecording()
	rl.UnloadRenderTexture(h.target)
}

// onCanvas runs fn with the render texture as the draw target.
func (h *Host) onCanvas(fn func()) {
	rl.BeginTextureMode(h.target)
	fn()
	rl.EndTextureMode()
}

// Update processes input and advances the animation one frame.
func (h *Host) Update() {
	h.studio.Perf().RecordFrame()
	h.handleResize()
	h.handleKeys()

	if len(h.pending) > 0 {
		changes := h.pending
		h.pending = nil
		h.onCanvas(func() {
			for _, ch := range changes {
				if err := h.studio.OnParameterChanged(ch.Name, ch.Value); err != nil {
					h.fail("parameter rejected", err)
				}
			}
		})
	}
	if a := h.pendingAction; a != ActionNone {
		h.pendingAction = ActionNone
		h.perform(a)
	}

	h.handlePointer()

	var ticked bool
	h.onCanvas(func() { ticked = h.studio.Tick() })
	if ticked && h.recorder != nil {
		h.recordFrame()
	}
}

// Draw presents the canvas, panel and HUD.
func (h *Host) Draw() {
	rl.BeginDrawing()
	h.studio.Measure(telemetry.PhaseDraw, h.drawFrame)
	rl.EndDrawing()
}

func (h *Host) drawFrame() {
	rl.ClearBackground(h.panel.renderer.Theme.WindowBg)

	// Render textures are stored bottom-up
	x, y, w, hh := h.cam.Bounds()
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(h.canvasW), Height: -float32(h.canvasH)}
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: hh}
	rl.DrawTexturePro(h.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)

	changes, action := h.panel.Draw(h.studio.Params(), h.recorder != nil)
	h.pending = append(h.pending, changes...)
	if action != ActionNone {
		h.pendingAction = action
	}

	h.hud.DrawControls(controlsLegend)
	h.hud.Draw(h.hudData(), h.screenH)
	if h.showPerf {
		h.perfPanel.Draw(h.studio.Perf().Stats())
	}
}

func (h *Host) hudData() HUDData {
	p := h.studio.Params()
	d := HUDData{
		Mode:      h.studio.Mode().String(),
		Pattern:   p.PatternMode.String(),
		Shapes:    h.studio.LastShapes(),
		Particles: h.studio.ParticleCount(),
		Tick:      h.studio.Ticks(),
		Zoff:      h.studio.Zoff(),
		FPS:       rl.GetFPS(),
		Recording: h.recorder != nil,
		HasImage:  h.studio.HasImage(),
	}
	if h.recorder != nil {
		d.Frames = h.recorder.Count()
	}
	if time.Now().Before(h.messageUntil) {
		d.Message, d.IsError = h.message, h.messageErr
	}
	return d
}

func (h *Host) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		h.panel.Toggle()
		h.layout()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		h.showPerf = !h.showPerf
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		h.pending = append(h.pending, Change{params.Animated, !h.studio.Params().Animated})
	}

	keys := []struct {
		key    int32
		action Action
	}{
		{rl.KeyS, ActionSavePNG},
		{rl.KeyH, ActionExportHTML},
		{rl.KeyO, ActionLoadImage},
		{rl.KeyR, ActionRecord},
	}
	for _, k := range keys {
		if rl.IsKeyPressed(k.key) {
			h.pendingAction = k.action
		}
	}
}

// handlePointer forwards pointer motion in canvas pixels. Positions off the
// canvas are forwarded too, so influence fades out as the cursor leaves.
func (h *Host) handlePointer() {
	delta := rl.GetMouseDelta()
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	m := rl.GetMousePosition()
	x, y := canvasPointer(h.cam, m.X, m.Y)
	h.onCanvas(func() { h.studio.PointerMoved(x, y) })
}

// canvasPointer maps a screen position to canvas pixels without clamping.
func canvasPointer(cam *camera.Camera, sx, sy float32) (x, y float64) {
	cx, cy := cam.ScreenToCanvas(sx, sy)
	return float64(cx), float64(cy)
}

// handleResize refits the canvas to a resized window.
func (h *Host) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, hh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == h.screenW && hh == h.screenH {
		return
	}
	h.screenW, h.screenH = w, hh

	cw, ch := h.canvasW, h.canvasH
	if h.cfg.Canvas.Width <= 0 || h.cfg.Canvas.Height <= 0 {
		side := int32(config.CanvasSide(int(w-h.panel.Width()), int(hh), h.cfg.Canvas.Margin, h.cfg.Canvas.MaxSize))
		cw, ch = side, side
	}
	if cw != h.canvasW || ch != h.canvasH {
		rl.UnloadRenderTexture(h.target)
		h.canvasW, h.canvasH = cw, ch
		h.target = rl.LoadRenderTexture(cw, ch)
		h.cam.SetCanvas(float32(cw), float32(ch))
		h.onCanvas(func() { h.studio.Resize(float64(cw), float64(ch)) })
	}
	h.layout()
}

// layout docks the panel on the right and gives the canvas the rest.
func (h *Host) layout() {
	panelW := int32(0)
	if h.panel.IsVisible() {
		panelW = h.panel.Width()
	}
	h.panel.SetPosition(h.screenW-h.panel.Width(), 0)
	h.cam.Resize(0, 0, float32(h.screenW-panelW), float32(h.screenH))
}

func (h *Host) perform(a Action) {
	switch a {
	case ActionSavePNG:
		h.savePNG()
	case ActionExportHTML:
		h.exportDocument(".html", "HTML page", func(f *os.File, w, hh int) error {
			return export.HTML(f, "Flow Field Studio", w, hh, h.studio.Params(), h.studio.RenderTo)
		})
	case ActionExportSVG:
		h.exportDocument(".svg", "SVG image", func(f *os.File, w, hh int) error {
			return export.SVG(f, w, hh, h.studio.RenderTo)
		})
	case ActionRecord:
		if h.recorder != nil {
			h.stopRecording()
		} else {
			h.startRecording()
		}
	case ActionSavePreset:
		h.savePreset()
	case ActionLoadPreset:
		h.loadPreset()
	case ActionLoadImage:
		h.loadImage()
	case ActionClearImage:
		h.onCanvas(func() { h.studio.LoadImage(nil) })
		h.notify("image cleared")
	}
}

// savePNG saves what is on the canvas. Static fields are re-rendered
// antialiased; animated frames are read back from the texture.
func (h *Host) savePNG() {
	path, ok := h.askSave("Save PNG", ".png", "PNG image")
	if !ok {
		return
	}
	var err error
	if h.studio.Mode() == game.ModeStatic {
		err = export.PNG(path, int(h.canvasW), int(h.canvasH), h.studio.RenderTo)
	} else {
		err = export.WriteImage(path, h.capture(), 0)
	}
	if err != nil {
		h.fail("save failed", err)
		return
	}
	h.notify("saved " + path)
}

func (h *Host) exportDocument(ext, kind string, write func(f *os.File, w, hh int) error) {
	path, ok := h.askSave("Export "+kind, ext, kind)
	if !ok {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		h.fail("export failed", err)
		return
	}
	err = write(f, int(h.canvasW), int(h.canvasH))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		h.fail("export failed", err)
		return
	}
	h.notify("exported " + path)
}

func (h *Host) startRecording() {
	dir := filepath.Join(h.cfg.Export.Dir, h.cfg.Export.Prefix+"-"+time.Now().Format("20060102-150405"))
	fw, err := export.NewFrameWriter(dir, "frame", h.cfg.Export.JPEGQuality)
	if err != nil {
		h.fail("record failed", err)
		return
	}
	h.recorder = fw
	if !h.studio.Params().Animated {
		h.pending = append(h.pending, Change{params.Animated, true})
	}
	slog.Info("recording started", "dir", dir, "frames", h.cfg.Export.Frames)
	h.notify("recording to " + dir)
}

func (h *Host) recordFrame() {
	var err error
	h.studio.Measure(telemetry.PhaseExport, func() {
		_, err = h.recorder.Write(h.capture())
	})
	if err != nil {
		h.fail("record failed", err)
		h.recorder = nil
		return
	}
	if h.cfg.Export.Frames > 0 && h.recorder.Count() >= h.cfg.Export.Frames {
		h.stopRecording()
	}
}

func (h *Host) stopRecording() {
	if h.recorder == nil {
		return
	}
	slog.Info("recording stopped", "dir", h.recorder.Dir(), "frames", h.recorder.Count())
	h.notify(fmt.Sprintf("recorded %d frames", h.recorder.Count()))
	h.recorder = nil
}

func (h *Host) savePreset() {
	path, ok := h.askSave("Save preset", ".yaml", "YAML preset")
	if !ok {
		return
	}
	if err := params.SavePreset(path, h.studio.Params()); err != nil {
		h.fail("preset save failed", err)
		return
	}
	h.notify("preset saved " + path)
}

func (h *Host) loadPreset() {
	path, ok := h.askOpen("Load preset", zenity.FileFilters{{Name: "YAML preset", Patterns: []string{"*.yaml", "*.yml"}}})
	if !ok {
		return
	}
	p, err := params.LoadPreset(path, h.studio.Params())
	if err != nil {
		h.fail("preset load failed", err)
		return
	}
	h.onCanvas(func() { h.studio.ApplyParams(p) })
	h.notify("preset loaded " + filepath.Base(path))
}

func (h *Host) loadImage() {
	path, ok := h.askOpen("Open image", zenity.FileFilters{{Name: "Images", Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.bmp"}, CaseFold: true}})
	if !ok {
		return
	}
	img, err := imagesrc.Load(path, h.cfg.Image.MaxDim)
	if err != nil {
		h.fail("image load failed", err)
		return
	}
	h.onCanvas(func() { h.studio.LoadImage(img) })
	h.notify("image loaded " + filepath.Base(path))
}

// capture reads the canvas texture back into memory.
func (h *Host) capture() image.Image {
	img := rl.LoadImageFromTexture(h.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	src := img.ToImage()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func (h *Host) askSave(title, ext, kind string) (string, bool) {
	name := filepath.Join(h.cfg.Export.Dir, h.cfg.Export.Prefix+"-"+time.Now().Format("20060102-150405")+ext)
	path, err := zenity.SelectFileSave(
		zenity.Title(title),
		zenity.Filename(name),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{Name: kind, Patterns: []string{"*" + ext}}},
	)
	return h.dialogResult(path, err)
}

func (h *Host) askOpen(title string, filters zenity.FileFilters) (string, bool) {
	path, err := zenity.SelectFile(zenity.Title(title), filters)
	return h.dialogResult(path, err)
}

func (h *Host) dialogResult(path string, err error) (string, bool) {
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			h.fail("file dialog failed", err)
		}
		return "", false
	}
	return path, path != ""
}

func (h *Host) notify(msg string) {
	h.message, h.messageErr = msg, false
	h.messageUntil = time.Now().Add(messageTTL)
}

func (h *Host) fail(msg string, err error) {
	slog.Error(msg, "error", err)
	h.message, h.messageErr = msg+": "+err.Error(), true
	h.messageUntil = time.Now().Add(messageTTL)
}
