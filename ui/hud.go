package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowstudio/telemetry"
)

// HUDData holds all the data needed to render the status overlay.
type HUDData struct {
	Mode      string
	Pattern   string
	Shapes    int
	Particles int
	Tick      int64
	Zoff      float64
	FPS       int32
	Recording bool
	Frames    int
	HasImage  bool
	Message   string
	IsError   bool
}

// HUD renders the status overlay in the bottom-left of the window.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenHeight int32) {
	th := h.renderer.Theme
	y := screenHeight - 4*th.LineHeight - th.Padding

	line := fmt.Sprintf("%s | %s | FPS: %d", data.Mode, data.Pattern, data.FPS)
	rl.DrawText(line, th.Padding, y, 16, rl.White)
	y += th.LineHeight + 2

	counts := fmt.Sprintf("Shapes: %d | Tick: %d | zoff %.3f", data.Shapes, data.Tick, data.Zoff)
	if data.Mode == "particles" {
		counts = fmt.Sprintf("Particles: %d | Tick: %d | zoff %.3f", data.Particles, data.Tick, data.Zoff)
	}
	if data.HasImage {
		counts += " | image"
	}
	rl.DrawText(counts, th.Padding, y, 14, rl.LightGray)
	y += th.LineHeight

	if data.Recording {
		rl.DrawCircle(th.Padding+5, y+7, 5, rl.Red)
		rl.DrawText(fmt.Sprintf("REC %d", data.Frames), th.Padding+16, y, 14, rl.Red)
	}
	y += th.LineHeight

	if data.Message != "" {
		c := th.StatusColor
		if data.IsError {
			c = th.ErrorColor
		}
		rl.DrawText(data.Message, th.Padding, y, 14, c)
	}
}

// DrawControls renders the key legend at the top of the screen.
func (h *HUD) DrawControls(controls string) {
	rl.DrawText(controls, h.renderer.Theme.Padding, 6, 12, rl.Gray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  p95: %s  Max: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		text := fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct)
		rl.DrawText(text, x, y, 12, color)
		y += 14
	}
}
