package ui

import (
	"testing"

	"github.com/pthm-cable/flowstudio/camera"
)

func TestCanvasPointer(t *testing.T) {
	cam := camera.New(1000, 900, 800, 800) // canvas origin (100, 50)

	tests := []struct {
		name   string
		sx, sy float32
		x, y   float64
	}{
		{"origin", 100, 50, 0, 0},
		{"inside", 500, 450, 400, 400},
		{"left of canvas", 20, 450, -80, 400},
		{"below canvas", 500, 880, 400, 830},
	}
	for _, tt := range tests {
		x, y := canvasPointer(cam, tt.sx, tt.sy)
		if x != tt.x || y != tt.y {
			t.Errorf("%s: canvasPointer(%v, %v) = (%v, %v), want (%v, %v)", tt.name, tt.sx, tt.sy, x, y, tt.x, tt.y)
		}
	}
}
