// Package params holds the studio's user-adjustable parameter set.
//
// Params is plain data. All mutation from the outside goes through Store.Set,
// which snaps numeric values to their slider step, clamps them to the declared
// range and rejects undeclared enumeration values.
package params

import (
	"fmt"
	"image/color"
	"strings"
)

// Parameter names as used by the control layer.
const (
	BackgroundColor = "backgroundColor"
	LineColor       = "lineColor"
	NoiseStrength   = "noiseStrength"
	Scale           = "scale"
	Density         = "density"
	AnimationSpeed  = "animationSpeed"
	Animated        = "animated"
	AnimationMode   = "animationMode"
	PatternMode     = "patternMode"
	ShapeType       = "shapeType"
	MouseEnabled    = "mouseEnabled"
	MouseInfluence  = "mouseInfluence"
	MouseRadius     = "mouseRadius"
	NumberMode      = "numberMode"
	SingleNumber    = "singleNumber"
	RangeStart      = "rangeStart"
	RangeEnd        = "rangeEnd"
	ShowImage       = "showImage"
)

// Params is the complete parameter set read by every render pass.
type Params struct {
	BackgroundColor Color     `yaml:"background_color" json:"backgroundColor"`
	LineColor       Color     `yaml:"line_color" json:"lineColor"`
	NoiseStrength   float64   `yaml:"noise_strength" json:"noiseStrength"`
	Scale           float64   `yaml:"scale" json:"scale"`
	Density         float64   `yaml:"density" json:"density"`
	AnimationSpeed  float64   `yaml:"animation_speed" json:"animationSpeed"`
	Animated        bool      `yaml:"animated" json:"animated"`
	AnimationMode   Animation `yaml:"animation_mode" json:"animationMode"`
	PatternMode     Pattern   `yaml:"pattern_mode" json:"patternMode"`
	ShapeType       Shape     `yaml:"shape_type" json:"shapeType"`
	MouseEnabled    bool      `yaml:"mouse_enabled" json:"mouseEnabled"`
	MouseInfluence  float64   `yaml:"mouse_influence" json:"mouseInfluence"`
	MouseRadius     float64   `yaml:"mouse_radius" json:"mouseRadius"`
	NumberMode      Numbering `yaml:"number_mode" json:"numberMode"`
	SingleNumber    int       `yaml:"single_number" json:"singleNumber"`
	RangeStart      int       `yaml:"range_start" json:"rangeStart"`
	RangeEnd        int       `yaml:"range_end" json:"rangeEnd"`
	ShowImage       bool      `yaml:"show_image" json:"showImage"`
}

// Defaults returns the parameter set a new studio starts with.
func Defaults() Params {
	return Params{
		BackgroundColor: Color{R: 0x0b, G: 0x1c, B: 0x66, A: 0xff},
		LineColor:       Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		NoiseStrength:   2.0,
		Scale:           20,
		Density:         0.6,
		AnimationSpeed:  0.05,
		AnimationMode:   AnimateEvolve,
		PatternMode:     PatternSpiral,
		ShapeType:       ShapeLine,
		MouseInfluence:  0.5,
		MouseRadius:     175,
		NumberMode:      NumberSingle,
		RangeEnd:        9,
	}
}

// Clamp forces every numeric field into its declared range and resets
// undeclared enumeration values to the first option.
func (p *Params) Clamp() {
	for i := range descriptors {
		d := &descriptors[i]
		switch d.Kind {
		case KindNumber:
			v, _ := d.get(p).(float64)
			d.set(p, d.clamp(v))
		case KindEnum:
			if v, _ := d.get(p).(uint8); int(v) >= len(d.Options) {
				d.set(p, uint8(0))
			}
		}
	}
}

// Color is an opaque RGB color serialized as "#rrggbb".
type Color color.RGBA

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return Color{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
	}
	return Color{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex returns the "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opaque returns the color as a fully opaque color.RGBA.
func (c Color) Opaque() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// WithAlpha returns the color with the given alpha, premultiplied as color.RGBA expects.
func (c Color) WithAlpha(a uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(a) / 0xff) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: a}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Animation selects the per-tick animation strategy.
type Animation uint8

const (
	AnimateEvolve    Animation = iota // Full field regeneration every tick
	AnimateParticles                  // Particle advection through the field
)

// Pattern selects the angle-generation algorithm.
type Pattern uint8

const (
	PatternFlowField Pattern = iota
	PatternSpiral
	PatternVortex
	PatternCentripetal
)

// Shape selects the primitive drawn at each sample.
type Shape uint8

const (
	ShapeLine Shape = iota
	ShapeDot
	ShapeCircle
	ShapeTriangle
	ShapeSquare
	ShapeNumber
)

// Numbering selects what the number shape displays.
type Numbering uint8

const (
	NumberSingle Numbering = iota // Always SingleNumber
	NumberRange                   // Cycles 1..10
)

var (
	animationNames = []string{"evolve", "particles"}
	patternNames   = []string{"flowfield", "spiral", "vortex", "centripetal"}
	shapeNames     = []string{"line", "dot", "circle", "triangle", "square", "number"}
	numberingNames = []string{"single", "range"}
)

func enumName(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum(names []string, s string) (uint8, error) {
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidValue, s, strings.Join(names, ", "))
}

func (a Animation) String() string { return enumName(animationNames, uint8(a)) }
func (p Pattern) String() string   { return enumName(patternNames, uint8(p)) }
func (s Shape) String() string     { return enumName(shapeNames, uint8(s)) }
func (n Numbering) String() string { return enumName(numberingNames, uint8(n)) }

func (a Animation) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (p Pattern) MarshalText() ([]byte, error)   { return []byte(p.String()), nil }
func (s Shape) MarshalText() ([]byte, error)     { return []byte(s.String()), nil }
func (n Numbering) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (a *Animation) UnmarshalText(text []byte) error {
	v, err := parseEnum(animationNames, string(text))
	if err != nil {
		return err
	}
	*a = Animation(v)
	return nil
}

func (p *Pattern) UnmarshalText(text []byte) error {
	v, err := parseEnum(patternNames, string(text))
	if err != nil {
		return err
	}
	*p = Pattern(v)
	return nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	v, err := parseEnum(shapeNames, string(text))
	if err != nil {
		return err
	}
	*s = Shape(v)
	return nil
}

func (n *Numbering) UnmarshalText(text []byte) error {
	v, err := parseEnum(numberingNames, string(text))
	if err != nil {
		return err
	}
	*n = Numbering(v)
	return nil
}
