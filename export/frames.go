package export

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// FrameWriter saves a numbered image sequence into a directory.
type FrameWriter struct {
	dir     string
	prefix  string
	quality int
	count   int
}

// NewFrameWriter creates dir if needed. A positive jpegQuality writes JPEG
// frames at that quality, otherwise frames are PNG.
func NewFrameWriter(dir, prefix string, jpegQuality int) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	if prefix == "" {
		prefix = "frame"
	}
	return &FrameWriter{dir: dir, prefix: prefix, quality: min(jpegQuality, 100)}, nil
}

// Count returns how many frames have been written.
func (fw *FrameWriter) Count() int { return fw.count }

// Dir returns the output directory.
func (fw *FrameWriter) Dir() string { return fw.dir }

// Path returns the file name frame n (1-based) is written to.
func (fw *FrameWriter) Path(n int) string {
	ext := ".png"
	if fw.quality > 0 {
		ext = ".jpg"
	}
	return filepath.Join(fw.dir, fmt.Sprintf("%s_%05d%s", fw.prefix, n, ext))
}

// Write saves img as the next frame and returns its path.
func (fw *FrameWriter) Write(img image.Image) (string, error) {
	path := fw.Path(fw.count + 1)
	if err := WriteImage(path, img, fw.quality); err != nil {
		return "", fmt.Errorf("saving frame %d: %w", fw.count+1, err)
	}
	fw.count++
	return path, nil
}

// WriteImage saves img to path as JPEG at the given quality, or as PNG when
// jpegQuality is not positive.
func WriteImage(path string, img image.Image, jpegQuality int) error {
	enc := imgio.PNGEncoder()
	if jpegQuality > 0 {
		enc = imgio.JPEGEncoder(min(jpegQuality, 100))
	}
	return imgio.Save(path, img, enc)
}

// Animator advances an animation by one frame, reporting whether a frame
// was produced.
type Animator interface {
	Tick() bool
}

// ImageSource exposes the pixels of the most recent frame.
type ImageSource interface {
	Image() image.Image
}

// Frames ticks a up to n times and saves each produced frame from src. It
// stops early when a produces no frame and returns the number written.
func Frames(fw *FrameWriter, a Animator, src ImageSource, n int) (int, error) {
	written := 0
	for i := 0; i < n; i++ {
		if !a.Tick() {
			slog.Warn("recording stopped: animation not running", "frames", written)
			break
		}
		if _, err := fw.Write(src.Image()); err != nil {
			return written, err
		}
		written++
	}
	slog.Info("recorded frames", "dir", fw.Dir(), "frames", written)
	return written, nil
}
