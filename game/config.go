package game

import (
	"github.com/pthm-cable/flowstudio/systems"
	"github.com/pthm-cable/flowstudio/telemetry"
)

// Options configures a Studio beyond what the loaded config provides.
type Options struct {
	// Surface receives every frame. Required.
	Surface systems.Surface
	// Width and Height override the configured canvas size when positive.
	Width, Height float64
	// Noise overrides the configured noise backend.
	Noise systems.Noise
	// Output receives per-frame telemetry; nil disables CSV output.
	Output *telemetry.OutputManager
}
