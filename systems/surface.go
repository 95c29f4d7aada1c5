package systems

import "image/color"

// Surface is the 2D drawing target every renderer writes to.
//
// Coordinates are in canvas pixels with the origin at the top-left and Y
// pointing down. Rotate takes radians. Push and Pop save and restore the
// transform only; stroke and fill are applied per call.
type Surface interface {
	Background(c color.RGBA)
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)

	// SetStroke sets the outline color and weight. Weight 0 disables outlines.
	SetStroke(c color.RGBA, weight float64)
	// SetFill sets the fill color. A zero alpha disables fills.
	SetFill(c color.RGBA)

	Line(x1, y1, x2, y2 float64)
	Point(x, y float64)
	Circle(x, y, diameter float64)
	Triangle(x1, y1, x2, y2, x3, y3 float64)
	// Square draws a square of the given side centered on (x, y).
	Square(x, y, side float64)
	// Text draws s centered on (x, y) at the given pixel size using the fill color.
	Text(s string, x, y, size float64)
}

// SourceImage is a loaded picture sampled by the image influence.
type SourceImage interface {
	Width() int
	Height() int
	// PixelAt returns HSB brightness in [0, 100] and hue in [0, 360).
	// Coordinates outside the image are clamped to the nearest edge.
	PixelAt(x, y int) (brightness, hue float64)
}
