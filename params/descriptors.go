package params

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
)

var (
	// ErrUnknownParam is returned for names that have no descriptor.
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrInvalidValue is returned when a value cannot be converted to the parameter's kind.
	ErrInvalidValue = errors.New("invalid value")
)

// Kind classifies a parameter for the control layer.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBool
	KindEnum
	KindColor
)

// Descriptor declares one parameter: its label, kind and, for numbers, range and step.
type Descriptor struct {
	Name    string
	Label   string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Options []string // Enum values in declaration order

	get func(*Params) any
	set func(*Params, any)
}

// clamp snaps v to a multiple of Step, then clamps it to [Min, Max].
func (d *Descriptor) clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = d.Min
	}
	if d.Step > 0 {
		v = math.Round(v/d.Step) * d.Step
		// Strip float error, e.g. 7*0.05 = 0.35000000000000003
		p := math.Pow(10, float64(stepDecimals(d.Step)))
		v = math.Round(v*p) / p
	}
	if v < d.Min {
		v = d.Min
	}
	if v > d.Max {
		v = d.Max
	}
	return v
}

func stepDecimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}

func number(name, label string, lo, hi, step float64, get func(*Params) float64, set func(*Params, float64)) Descriptor {
	return Descriptor{
		Name: name, Label: label, Kind: KindNumber, Min: lo, Max: hi, Step: step,
		get: func(p *Params) any { return get(p) },
		set: func(p *Params, v any) { set(p, v.(float64)) },
	}
}

func boolean(name, label string, field func(*Params) *bool) Descriptor {
	return Descriptor{
		Name: name, Label: label, Kind: KindBool,
		get: func(p *Params) any { return *field(p) },
		set: func(p *Params, v any) { *field(p) = v.(bool) },
	}
}

func enum(name, label string, options []string, get func(*Params) uint8, set func(*Params, uint8)) Descriptor {
	return Descriptor{
		Name: name, Label: label, Kind: KindEnum, Options: options, Max: float64(len(options) - 1), Step: 1,
		get: func(p *Params) any { return get(p) },
		set: func(p *Params, v any) { set(p, v.(uint8)) },
	}
}

func colour(name, label string, field func(*Params) *Color) Descriptor {
	return Descriptor{
		Name: name, Label: label, Kind: KindColor,
		get: func(p *Params) any { return *field(p) },
		set: func(p *Params, v any) { *field(p) = v.(Color) },
	}
}

// descriptors is ordered as the control panel lays the parameters out.
var descriptors = []Descriptor{
	colour(BackgroundColor, "Background", func(p *Params) *Color { return &p.BackgroundColor }),
	colour(LineColor, "Lines", func(p *Params) *Color { return &p.LineColor }),
	enum(PatternMode, "Pattern", patternNames,
		func(p *Params) uint8 { return uint8(p.PatternMode) },
		func(p *Params, v uint8) { p.PatternMode = Pattern(v) }),
	enum(ShapeType, "Shape", shapeNames,
		func(p *Params) uint8 { return uint8(p.ShapeType) },
		func(p *Params, v uint8) { p.ShapeType = Shape(v) }),
	number(NoiseStrength, "Noise", 0, 5, 0.1,
		func(p *Params) float64 { return p.NoiseStrength },
		func(p *Params, v float64) { p.NoiseStrength = v }),
	number(Scale, "Scale", 10, 50, 1,
		func(p *Params) float64 { return p.Scale },
		func(p *Params, v float64) { p.Scale = v }),
	number(Density, "Density", 0.1, 2, 0.05,
		func(p *Params) float64 { return p.Density },
		func(p *Params, v float64) { p.Density = v }),
	boolean(Animated, "Animate", func(p *Params) *bool { return &p.Animated }),
	enum(AnimationMode, "Animation", animationNames,
		func(p *Params) uint8 { return uint8(p.AnimationMode) },
		func(p *Params, v uint8) { p.AnimationMode = Animation(v) }),
	number(AnimationSpeed, "Speed", 0.0005, 0.1, 0.001,
		func(p *Params) float64 { return p.AnimationSpeed },
		func(p *Params, v float64) { p.AnimationSpeed = v }),
	boolean(MouseEnabled, "Mouse", func(p *Params) *bool { return &p.MouseEnabled }),
	number(MouseInfluence, "Influence", 0, 1, 0.05,
		func(p *Params) float64 { return p.MouseInfluence },
		func(p *Params, v float64) { p.MouseInfluence = v }),
	number(MouseRadius, "Radius", 50, 300, 10,
		func(p *Params) float64 { return p.MouseRadius },
		func(p *Params, v float64) { p.MouseRadius = v }),
	enum(NumberMode, "Numbers", numberingNames,
		func(p *Params) uint8 { return uint8(p.NumberMode) },
		func(p *Params, v uint8) { p.NumberMode = Numbering(v) }),
	number(SingleNumber, "Number", 0, 999999, 1,
		func(p *Params) float64 { return float64(p.SingleNumber) },
		func(p *Params, v float64) { p.SingleNumber = int(v) }),
	number(RangeStart, "Range from", 0, 9999, 1,
		func(p *Params) float64 { return float64(p.RangeStart) },
		func(p *Params, v float64) { p.RangeStart = int(v) }),
	number(RangeEnd, "Range to", 0, 9999, 1,
		func(p *Params) float64 { return float64(p.RangeEnd) },
		func(p *Params, v float64) { p.RangeEnd = int(v) }),
	boolean(ShowImage, "Show image", func(p *Params) *bool { return &p.ShowImage }),
}

// Descriptors returns the parameter declarations in panel order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Store owns the live parameter set.
type Store struct {
	p Params
}

// NewStore creates a store seeded with p, clamped into range.
func NewStore(p Params) *Store {
	p.Clamp()
	return &Store{p: p}
}

// Params returns a copy of the current parameter set.
func (s *Store) Params() Params {
	return s.p
}

// Replace swaps in a whole parameter set, clamped into range.
func (s *Store) Replace(p Params) {
	p.Clamp()
	s.p = p
}

// Get returns the current value of name. Numbers come back as float64, enums
// as their option string, colors as Color.
func (s *Store) Get(name string) (any, error) {
	d, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	v := d.get(&s.p)
	if d.Kind == KindEnum {
		return d.Options[v.(uint8)], nil
	}
	return v, nil
}

// Set converts, snaps and clamps value and stores it under name. It returns the
// value actually stored. On error the store is left unchanged.
func (s *Store) Set(name string, value any) (any, error) {
	d, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}

	var stored any
	switch d.Kind {
	case KindNumber:
		f, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		stored = d.clamp(f)
	case KindBool:
		b, err := toBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		stored = b
	case KindEnum:
		i, err := toOption(d.Options, value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		stored = i
	case KindColor:
		c, err := toColor(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		stored = c
	}

	d.set(&s.p, stored)
	if d.Kind == KindEnum {
		return d.Options[stored.(uint8)], nil
	}
	return stored, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrInvalidValue, v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, x)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: %T is not a boolean", ErrInvalidValue, v)
}

func toOption(options []string, v any) (uint8, error) {
	switch x := v.(type) {
	case string:
		return parseEnum(options, x)
	case fmt.Stringer:
		return parseEnum(options, x.String())
	case int:
		if x >= 0 && x < len(options) {
			return uint8(x), nil
		}
		return 0, fmt.Errorf("%w: option index %d", ErrInvalidValue, x)
	}
	return 0, fmt.Errorf("%w: %T is not an option", ErrInvalidValue, v)
}

func toColor(v any) (Color, error) {
	switch x := v.(type) {
	case Color:
		x.A = 0xff
		return x, nil
	case color.RGBA:
		return Color{R: x.R, G: x.G, B: x.B, A: 0xff}, nil
	case string:
		return ParseColor(x)
	}
	return Color{}, fmt.Errorf("%w: %T is not a color", ErrInvalidValue, v)
}
