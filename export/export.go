// Package export writes finished frames out of the studio: PNG and SVG
// snapshots, a self-contained HTML artifact, and numbered frame sequences.
package export

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pthm-cable/flowstudio/renderer"
	"github.com/pthm-cable/flowstudio/systems"
)

// DrawFunc renders one complete frame onto s and returns the number of
// shapes drawn.
type DrawFunc func(s systems.Surface) int

// PNG rasterizes a frame of the given size and saves it to path.
func PNG(path string, width, height int, draw DrawFunc) error {
	surf := renderer.NewGGSurface(width, height)
	n := draw(surf)
	if err := surf.SavePNG(path); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	slog.Info("exported png", "path", path, "width", width, "height", height, "shapes", n)
	return nil
}

// SVG writes a frame of the given size to w as an SVG document.
func SVG(w io.Writer, width, height int, draw DrawFunc) error {
	cw := &countingWriter{w: w}
	surf := renderer.NewSVGSurface(cw, width, height)
	n := draw(surf)
	surf.End()
	if cw.err != nil {
		return fmt.Errorf("export svg: %w", cw.err)
	}
	slog.Info("exported svg", "bytes", cw.n, "shapes", n)
	return nil
}

// countingWriter remembers the first write error, since svgo discards them.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
