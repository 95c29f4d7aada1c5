package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/export"
	"github.com/pthm-cable/flowstudio/game"
	"github.com/pthm-cable/flowstudio/imagesrc"
	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/renderer"
	"github.com/pthm-cable/flowstudio/telemetry"
	"github.com/pthm-cable/flowstudio/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render without a window and exit")
	presetPath := flag.String("preset", "", "Parameter preset YAML applied over the config")
	imagePath := flag.String("image", "", "Source image for the image influence")
	outPath := flag.String("out", "", "Headless export path (empty = <export.dir>/<prefix>.<format>)")
	format := flag.String("format", "", "Headless export format: png | svg | html (empty = use config)")
	frames := flag.Int("frames", 0, "Headless: record N animation frames instead of one export")
	outputDir := flag.String("output-dir", "", "Output directory for CSV telemetry and config snapshot")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N animation ticks (0 = unlimited)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Noise.Seed = *seed
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	if *presetPath != "" {
		p, err := params.LoadPreset(*presetPath, cfg.Params)
		if err != nil {
			slog.Error("failed to load preset", "error", err)
			os.Exit(1)
		}
		cfg.Params = p
	}

	var img *imagesrc.Image
	if *imagePath != "" {
		var err error
		if img, err = imagesrc.Load(*imagePath, cfg.Image.MaxDim); err != nil {
			slog.Error("failed to load image", "error", err)
			os.Exit(1)
		}
	}

	var output *telemetry.OutputManager
	if *outputDir != "" {
		var err error
		if output, err = telemetry.NewOutputManager(*outputDir); err != nil {
			slog.Error("failed to create output directory", "error", err)
			os.Exit(1)
		}
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
	}

	if *headless {
		if err := runHeadless(cfg, img, output, *outPath, *frames, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flow Field Studio")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	host, err := ui.NewHost(cfg, ui.HostOptions{Output: output, Image: img, MaxTicks: *maxTicks})
	if err != nil {
		slog.Error("failed to start studio", "error", err)
		os.Exit(1)
	}
	defer host.Close()

	host.Run()
}

// runHeadless renders onto an in-memory raster and writes either one export
// or a frame sequence.
func runHeadless(cfg *config.Config, img *imagesrc.Image, output *telemetry.OutputManager, outPath string, frames int, maxTicks int64) error {
	w, h := int(cfg.Derived.CanvasW), int(cfg.Derived.CanvasH)
	surf := renderer.NewGGSurface(w, h)

	studio, err := game.NewStudio(cfg, game.Options{Surface: surf, Output: output})
	if err != nil {
		return err
	}
	studio.Start()
	if img != nil {
		studio.LoadImage(img)
	}

	start := time.Now()
	if frames > 0 || maxTicks > 0 {
		n := frames
		if n <= 0 {
			n = int(maxTicks)
		}
		if !studio.Params().Animated {
			if err := studio.OnParameterChanged(params.Animated, true); err != nil {
				return err
			}
		}
		dir := outPath
		if dir == "" {
			dir = filepath.Join(cfg.Export.Dir, cfg.Export.Prefix+"-frames")
		}
		fw, err := export.NewFrameWriter(dir, "frame", cfg.Export.JPEGQuality)
		if err != nil {
			return err
		}
		slog.Info("starting headless recording",
			"frames", n,
			"mode", studio.Mode().String(),
			"dir", dir,
			"seed", cfg.Noise.Seed,
		)
		written, err := export.Frames(fw, studio, surf, n)
		if err != nil {
			return err
		}
		slog.Info("headless recording done", "frames", written, "elapsed", time.Since(start).Round(time.Millisecond))
		return nil
	}

	path := outPath
	if path == "" {
		path = filepath.Join(cfg.Export.Dir, cfg.Export.Prefix+"."+cfg.Export.Format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	switch cfg.Export.Format {
	case "png":
		return export.PNG(path, w, h, studio.RenderTo)
	case "svg", "html":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		if cfg.Export.Format == "svg" {
			err = export.SVG(f, w, h, studio.RenderTo)
		} else {
			err = export.HTML(f, "Flow Field Studio", w, h, studio.Params(), studio.RenderTo)
		}
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing export file: %w", cerr)
		}
		return err
	default:
		return fmt.Errorf("unknown export format %q (want png, svg or html)", cfg.Export.Format)
	}
}
