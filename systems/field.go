package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowstudio/params"
)

// Frame is the read-only state one render pass works from.
type Frame struct {
	Params        params.Params
	Width, Height float64
	Zoff          float64 // Animation time offset
	Pointer       r2.Vec  // Last accepted pointer position, canvas pixels
	Image         SourceImage
}

// Grid returns the sampling lattice for the frame.
func (f *Frame) Grid() Grid {
	return NewGrid(f.Width, f.Height, f.Params.Scale)
}

// ImageShown reports whether image gating and influence are active.
func (f *Frame) ImageShown() bool {
	return f.Image != nil && f.Params.ShowImage
}

// pixel samples the source image at the canvas position (px, py).
func (f *Frame) pixel(px, py float64) (brightness, hue float64) {
	ix := int(math.Floor(mapRange(px, 0, f.Width, 0, float64(f.Image.Width()))))
	iy := int(math.Floor(mapRange(py, 0, f.Height, 0, float64(f.Image.Height()))))
	return f.Image.PixelAt(ix, iy)
}

// NoiseField turns canvas positions into flow angles.
type NoiseField struct {
	noise Noise
}

// NewNoiseField creates a field sampling the given noise source.
func NewNoiseField(n Noise) *NoiseField {
	return &NoiseField{noise: n}
}

// Angle runs the full angle pipeline: base pattern, then image influence
// when an image is shown, then pointer influence.
func (nf *NoiseField) Angle(f *Frame, px, py, xoff, yoff float64) float64 {
	angle := nf.BaseAngle(f, px, py, xoff, yoff)
	if f.ImageShown() {
		angle = ImageInfluence(f, px, py, angle)
	}
	return MouseInfluence(f, px, py, angle)
}

// BaseAngle returns the pattern's angle in radians at (px, py).
// xoff and yoff are the noise coordinates used by the flowfield pattern.
func (nf *NoiseField) BaseAngle(f *Frame, px, py, xoff, yoff float64) float64 {
	switch f.Params.PatternMode {
	case params.PatternSpiral:
		return spiralAngle(px, py, f.Width, f.Height, f.Zoff)
	case params.PatternVortex:
		return vortexAngle(px, py, f.Width, f.Height, f.Zoff)
	case params.PatternCentripetal:
		return centripetalAngle(px, py, f.Width, f.Height, f.Zoff)
	default:
		return nf.noise.Noise3D(xoff, yoff, f.Zoff) * 2 * math.Pi * f.Params.NoiseStrength
	}
}

func spiralAngle(px, py, w, h, zoff float64) float64 {
	cx, cy := w/2, h/2
	d := distance(px, py, cx, cy)
	return math.Atan2(py-cy, px-cx) + zoff*2 + d*0.01
}

// vortexAngle sums two counter-rotating vortices whose pull decays with distance.
func vortexAngle(px, py, w, h, zoff float64) float64 {
	v1 := r2.Vec{X: w * 0.3, Y: h * 0.3}
	v2 := r2.Vec{X: w * 0.7, Y: h * 0.7}

	a1 := math.Atan2(py-v1.Y, px-v1.X) + zoff*3
	a2 := math.Atan2(py-v2.Y, px-v2.X) - zoff*3
	f1 := 1 / (distance(px, py, v1.X, v1.Y)*0.01 + 1)
	f2 := 1 / (distance(px, py, v2.X, v2.Y)*0.01 + 1)

	sum := r2.Add(fromAngle(a1, f1), fromAngle(a2, f2))
	return math.Atan2(sum.Y, sum.X)
}

func centripetalAngle(px, py, w, h, zoff float64) float64 {
	cx, cy := w/2, h/2
	return math.Atan2(cy-py, cx-px) + zoff*2
}

// ImageInfluence blends angle toward the source pixel's hue. Darker pixels
// pull harder (weight 0.7 at black, 0.1 at white).
func ImageInfluence(f *Frame, px, py, angle float64) float64 {
	if f.Image == nil {
		return angle
	}
	bright, hue := f.pixel(px, py)
	hueAngle := mapRange(hue, 0, 360, 0, 2*math.Pi)
	weight := mapRange(bright, 0, 100, 0.7, 0.1)
	return lerp(angle, hueAngle, weight)
}

// MouseInfluence blends angle toward the pointer inside MouseRadius. The
// weight falls linearly from MouseInfluence at the pointer to 0 at the radius.
func MouseInfluence(f *Frame, px, py, angle float64) float64 {
	p := &f.Params
	if !p.MouseEnabled || p.MouseInfluence == 0 {
		return angle
	}
	d := distance(f.Pointer.X, f.Pointer.Y, px, py)
	if d >= p.MouseRadius {
		return angle
	}
	toPointer := math.Atan2(f.Pointer.Y-py, f.Pointer.X-px)
	weight := mapRange(d, 0, p.MouseRadius, p.MouseInfluence, 0)
	return lerp(angle, toPointer, weight)
}

// fromAngle returns a vector of length mag pointing at angle.
func fromAngle(angle, mag float64) r2.Vec {
	return r2.Vec{X: math.Cos(angle) * mag, Y: math.Sin(angle) * mag}
}
