// Package imagesrc loads the user's source picture and samples it as HSB.
package imagesrc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/crazy3lf/colorconv"
)

// Image is a decoded source picture. It satisfies systems.SourceImage.
type Image struct {
	img    image.Image
	bounds image.Rectangle
	path   string
}

// Load decodes the image at path. Pictures whose longest side exceeds maxDim
// are downsized to it; maxDim <= 0 keeps the original size.
func Load(path string, maxDim int) (*Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	im := FromImage(Fit(img, maxDim))
	im.path = path
	return im, nil
}

// Fit downsizes img so its longest side is at most maxDim, keeping aspect.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return img
	}
	nw := max(w*maxDim/longest, 1)
	nh := max(h*maxDim/longest, 1)
	return transform.Resize(img, nw, nh, transform.Linear)
}

// FromImage wraps an in-memory image.
func FromImage(img image.Image) *Image {
	return &Image{img: img, bounds: img.Bounds()}
}

// Path returns the file the image was loaded from, if any.
func (i *Image) Path() string { return i.path }

// Source returns the decoded picture.
func (i *Image) Source() image.Image { return i.img }

func (i *Image) Width() int  { return i.bounds.Dx() }
func (i *Image) Height() int { return i.bounds.Dy() }

// PixelAt returns the HSB brightness (0..100) and hue (0..360) of the pixel
// at (x, y), clamped to the image bounds.
func (i *Image) PixelAt(x, y int) (brightness, hue float64) {
	x = min(max(x, 0), i.Width()-1) + i.bounds.Min.X
	y = min(max(y, 0), i.Height()-1) + i.bounds.Min.Y
	c := color.NRGBAModel.Convert(i.img.At(x, y)).(color.NRGBA)
	return HSB(c.R, c.G, c.B)
}

// HSB converts an RGB triple to brightness in [0, 100] and hue in [0, 360).
func HSB(r, g, b uint8) (brightness, hue float64) {
	h, _, v := colorconv.RGBToHSV(r, g, b)
	return v * 100, h
}
