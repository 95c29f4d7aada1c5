// Package camera places the drawing canvas inside the host window.
package camera

// Camera maps between window pixels and canvas pixels. The canvas is drawn
// centered in the viewport, scaled down uniformly when it does not fit.
type Camera struct {
	// Viewport is the window region reserved for the canvas
	ViewportX, ViewportY float32
	ViewportW, ViewportH float32

	// Canvas dimensions in canvas pixels
	CanvasW, CanvasH float32

	// Zoom is the canvas-to-screen scale (1.0 = 1:1)
	Zoom float32

	// MaxZoom caps the fit scale; 1 keeps small canvases at native size
	MaxZoom float32
}

// New creates a camera fitting a canvas into a viewport at the window origin.
func New(viewportW, viewportH, canvasW, canvasH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		CanvasW:   canvasW,
		CanvasH:   canvasH,
		MaxZoom:   1.0,
	}
	c.fit()
	return c
}

// fit picks the largest zoom that shows the whole canvas.
func (c *Camera) fit() {
	if c.CanvasW <= 0 || c.CanvasH <= 0 {
		c.Zoom = 1
		return
	}
	zoom := min(c.ViewportW/c.CanvasW, c.ViewportH/c.CanvasH)
	c.Zoom = clamp(zoom, 0.05, c.MaxZoom)
}

// Origin returns the screen position of the canvas top-left corner.
func (c *Camera) Origin() (sx, sy float32) {
	sx = c.ViewportX + (c.ViewportW-c.CanvasW*c.Zoom)/2
	sy = c.ViewportY + (c.ViewportH-c.CanvasH*c.Zoom)/2
	return sx, sy
}

// CanvasToScreen converts canvas coordinates to screen coordinates.
func (c *Camera) CanvasToScreen(cx, cy float32) (sx, sy float32) {
	ox, oy := c.Origin()
	return ox + cx*c.Zoom, oy + cy*c.Zoom
}

// ScreenToCanvas converts screen coordinates to canvas coordinates. Points
// outside the canvas map outside [0, CanvasW] x [0, CanvasH].
func (c *Camera) ScreenToCanvas(sx, sy float32) (cx, cy float32) {
	ox, oy := c.Origin()
	return (sx - ox) / c.Zoom, (sy - oy) / c.Zoom
}

// Bounds returns the on-screen canvas rectangle.
func (c *Camera) Bounds() (x, y, w, h float32) {
	x, y = c.Origin()
	return x, y, c.CanvasW * c.Zoom, c.CanvasH * c.Zoom
}

// Resize updates the viewport and refits the canvas.
func (c *Camera) Resize(viewportX, viewportY, viewportW, viewportH float32) {
	c.ViewportX, c.ViewportY = viewportX, viewportY
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.fit()
}

// SetCanvas changes the canvas dimensions and refits.
func (c *Camera) SetCanvas(canvasW, canvasH float32) {
	c.CanvasW, c.CanvasH = canvasW, canvasH
	c.fit()
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
