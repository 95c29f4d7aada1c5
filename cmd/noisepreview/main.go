// Noise preview tool - interactive visualization of the field noise backends
// with sliders, plus the flow angles the flowfield pattern derives from them.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"sort"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	arrowCells   = 16 // Arrow overlay lattice per side
)

var backends = []string{"perlin", "simplex"}

// previewParams holds the noise settings under edit.
type previewParams struct {
	Backend int
	Step    float32 // Noise coordinate increment per grid cell
	Alpha   float32
	Beta    float32
	Octaves int
	Seed    int64
	Speed   float32 // zoff increment per frame
	Arrows  bool
}

func defaultParams(cfg *config.Config) previewParams {
	p := previewParams{
		Step:    0.1,
		Alpha:   float32(cfg.Noise.Alpha),
		Beta:    float32(cfg.Noise.Beta),
		Octaves: int(cfg.Noise.Octaves),
		Seed:    cfg.Noise.Seed,
		Speed:   float32(cfg.Params.AnimationSpeed),
		Arrows:  true,
	}
	for i, b := range backends {
		if b == cfg.Noise.Backend {
			p.Backend = i
		}
	}
	return p
}

func (p previewParams) noiseConfig() config.NoiseConfig {
	return config.NoiseConfig{
		Backend: backends[p.Backend],
		Seed:    p.Seed,
		Alpha:   float64(p.Alpha),
		Beta:    float64(p.Beta),
		Octaves: int32(p.Octaves),
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)
	noise, err := systems.NewNoise(params.noiseConfig())
	if err != nil {
		slog.Error("failed to create noise", "error", err)
		os.Exit(1)
	}

	// Create texture for rendering
	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var zoff float64
	animating := false
	needsRegen := true
	needsRebuild := false

	for !rl.WindowShouldClose() {
		if animating {
			zoff += float64(params.Speed)
			needsRegen = true
		}

		if needsRebuild {
			if n, err := systems.NewNoise(params.noiseConfig()); err == nil {
				noise = n
			} else {
				slog.Warn("noise rebuild failed", "error", err)
			}
			needsRebuild = false
			needsRegen = true
		}

		if needsRegen {
			sampleNoise(grid, noise, params.Step, zoff)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		if params.Arrows {
			drawArrows(grid)
		}

		// Draw stats
		lo, p50, hi := quantiles(grid)
		mean, std := stat.MeanStdDev(grid, nil)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Median: %.3f  Max: %.3f", lo, p50, hi), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Mean: %.3f  Std: %.3f  zoff: %.2f", mean, std, zoff), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Backend
		rl.DrawText("Backend", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBackend := int(gui.ComboBox(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "perlin;simplex", int32(params.Backend)))
		if newBackend != params.Backend {
			params.Backend = newBackend
			needsRebuild = true
		}
		panelY += 35

		// Step slider
		rl.DrawText("Step (noise offset per cell)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newStep := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "0.01", "0.5", params.Step, 0.01, 0.5)
		rl.DrawText(fmt.Sprintf("%.2f", params.Step), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newStep != params.Step {
			params.Step = newStep
			needsRegen = true
		}
		panelY += 35

		// Perlin-only controls
		if backends[params.Backend] == "perlin" {
			rl.DrawText("Alpha (octave weight divisor)", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newAlpha := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "1.0", "4.0", params.Alpha, 1.0, 4.0)
			rl.DrawText(fmt.Sprintf("%.2f", params.Alpha), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newAlpha != params.Alpha {
				params.Alpha = newAlpha
				needsRebuild = true
			}
			panelY += 35

			rl.DrawText("Beta (octave frequency multiplier)", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newBeta := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "1.0", "4.0", params.Beta, 1.0, 4.0)
			rl.DrawText(fmt.Sprintf("%.2f", params.Beta), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newBeta != params.Beta {
				params.Beta = newBeta
				needsRebuild = true
			}
			panelY += 35

			rl.DrawText("Octaves", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newOctaves := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "1", "8", float32(params.Octaves), 1, 8)
			rl.DrawText(fmt.Sprintf("%d", params.Octaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if int(newOctaves) != params.Octaves {
				params.Octaves = int(newOctaves)
				needsRebuild = true
			}
			panelY += 35
		}

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "0", "9999", float32(params.Seed), 0, 9999)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRebuild = true
		}
		panelY += 35

		// Speed slider
		rl.DrawText("Speed (zoff per frame)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.Speed = gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20}, "0", "0.1", params.Speed, 0, 0.1)
		rl.DrawText(fmt.Sprintf("%.3f", params.Speed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35

		params.Arrows = gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 16, Height: 16}, "Flow arrows", params.Arrows)
		panelY += 35

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			zoff = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 9999))
			needsRebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			zoff = 0
			needsRebuild = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlLines(p previewParams) []string {
	return []string{
		"noise:",
		fmt.Sprintf("  backend: %s", backends[p.Backend]),
		fmt.Sprintf("  seed: %d", p.Seed),
		fmt.Sprintf("  alpha: %.2f", p.Alpha),
		fmt.Sprintf("  beta: %.2f", p.Beta),
		fmt.Sprintf("  octaves: %d", p.Octaves),
	}
}

// sampleNoise fills the grid the way the flowfield pattern walks it: xoff
// and yoff advance by step per cell.
func sampleNoise(grid []float64, noise systems.Noise, step float32, zoff float64) {
	for y := 0; y < gridSize; y++ {
		yoff := float64(y) * float64(step)
		for x := 0; x < gridSize; x++ {
			grid[y*gridSize+x] = noise.Noise3D(float64(x)*float64(step), yoff, zoff)
		}
	}
}

// quantiles returns the 10th, 50th and 90th percentile of the grid.
func quantiles(grid []float64) (p10, p50, p90 float64) {
	sorted := make([]float64, len(grid))
	copy(sorted, grid)
	sort.Float64s(sorted)
	return stat.Quantile(0.1, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.9, stat.Empirical, sorted, nil)
}

// drawArrows overlays the flowfield angle (noise * 2π) on a coarse lattice.
func drawArrows(grid []float64) {
	cell := float32(previewSize) / arrowCells
	stride := gridSize / arrowCells
	for j := 0; j < arrowCells; j++ {
		for i := 0; i < arrowCells; i++ {
			v := grid[(j*stride)*gridSize+i*stride]
			angle := v * 2 * math.Pi
			cx := 10 + (float32(i)+0.5)*cell
			cy := 10 + (float32(j)+0.5)*cell
			dx := float32(math.Cos(angle)) * cell * 0.4
			dy := float32(math.Sin(angle)) * cell * 0.4
			rl.DrawLineEx(rl.Vector2{X: cx - dx, Y: cy - dy}, rl.Vector2{X: cx + dx, Y: cy + dy}, 1.5, rl.White)
			rl.DrawCircleV(rl.Vector2{X: cx + dx, Y: cy + dy}, 2, rl.White)
		}
	}
}

// updateTexture updates the GPU texture from the grid values
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		// Use a color gradient: dark blue -> cyan -> yellow -> white
		var r, g, b uint8
		if v < 0.25 {
			t := v / 0.25
			r = uint8(10 + t*30)
			g = uint8(20 + t*60)
			b = uint8(60 + t*100)
		} else if v < 0.5 {
			t := (v - 0.25) / 0.25
			r = uint8(40 + t*20)
			g = uint8(80 + t*120)
			b = uint8(160 + t*40)
		} else if v < 0.75 {
			t := (v - 0.5) / 0.25
			r = uint8(60 + t*140)
			g = uint8(200 - t*40)
			b = uint8(200 - t*150)
		} else {
			t := math.Min((v-0.75)/0.25, 1)
			r = uint8(200 + t*55)
			g = uint8(160 + t*95)
			b = uint8(50 + t*205)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
