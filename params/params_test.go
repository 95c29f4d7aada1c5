package params

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"
)

// ---------- Store.Set numeric ----------

func TestStoreSet_SnapsAndClamps(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{Scale, 7, 10},
		{Scale, 23.4, 23},
		{Scale, 99, 50},
		{Density, 0.333, 0.35},
		{Density, 0.01, 0.1},
		{Density, 2.2, 2},
		{NoiseStrength, -1, 0},
		{NoiseStrength, 1.26, 1.3},
		{AnimationSpeed, 0.0501, 0.05},
		{AnimationSpeed, 0, 0.0005},
		{AnimationSpeed, "0.2", 0.1},
		{MouseInfluence, float32(0.52), 0.5},
		{MouseRadius, 173, 170},
		{MouseRadius, 10, 50},
	}
	for _, tc := range tests {
		s := NewStore(Defaults())
		got, err := s.Set(tc.name, tc.value)
		if err != nil {
			t.Errorf("Set(%s, %v): %v", tc.name, tc.value, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Set(%s, %v) stored %v, want %v", tc.name, tc.value, got, tc.want)
		}
		if v, _ := s.Get(tc.name); v != tc.want {
			t.Errorf("Get(%s) = %v after Set, want %v", tc.name, v, tc.want)
		}
	}
}

func TestStoreSet_IntegerFields(t *testing.T) {
	s := NewStore(Defaults())
	if _, err := s.Set(SingleNumber, 42.6); err != nil {
		t.Fatal(err)
	}
	if p := s.Params(); p.SingleNumber != 43 {
		t.Errorf("SingleNumber = %d, want 43", p.SingleNumber)
	}
	s.Set(RangeEnd, -5)
	if p := s.Params(); p.RangeEnd != 0 {
		t.Errorf("RangeEnd = %d, want 0", p.RangeEnd)
	}
}

// ---------- Store.Set enums ----------

func TestStoreSet_Enums(t *testing.T) {
	s := NewStore(Defaults())

	if got, err := s.Set(PatternMode, "vortex"); err != nil || got != "vortex" {
		t.Fatalf("Set(patternMode, vortex) = %v, %v", got, err)
	}
	if s.Params().PatternMode != PatternVortex {
		t.Errorf("PatternMode = %v", s.Params().PatternMode)
	}
	if _, err := s.Set(ShapeType, ShapeSquare); err != nil {
		t.Errorf("typed enum rejected: %v", err)
	}
	if s.Params().ShapeType != ShapeSquare {
		t.Errorf("ShapeType = %v", s.Params().ShapeType)
	}
	if _, err := s.Set(AnimationMode, 1); err != nil || s.Params().AnimationMode != AnimateParticles {
		t.Errorf("index enum: mode %v err %v", s.Params().AnimationMode, err)
	}
}

func TestStoreSet_RejectsUndeclared(t *testing.T) {
	s := NewStore(Defaults())
	before := s.Params()

	tests := []struct {
		name  string
		value any
	}{
		{ShapeType, "hexagon"},
		{PatternMode, Pattern(9)},
		{NumberMode, 5},
		{Animated, "maybe"},
		{Scale, "big"},
		{Scale, []int{1}},
		{LineColor, "#12"},
		{BackgroundColor, 0xffffff},
	}
	for _, tc := range tests {
		_, err := s.Set(tc.name, tc.value)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Set(%s, %v) err = %v, want ErrInvalidValue", tc.name, tc.value, err)
		}
	}
	if s.Params() != before {
		t.Error("rejected values modified the store")
	}

	if _, err := s.Set("nope", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("unknown name err = %v, want ErrUnknownParam", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("Get unknown err = %v", err)
	}
}

// ---------- Colors and booleans ----------

func TestStoreSet_ColorsAndBools(t *testing.T) {
	s := NewStore(Defaults())

	if _, err := s.Set(LineColor, "#f80"); err != nil {
		t.Fatal(err)
	}
	if c := s.Params().LineColor; c != (Color{R: 0xff, G: 0x88, B: 0x00, A: 0xff}) {
		t.Errorf("LineColor = %+v", c)
	}
	if _, err := s.Set(BackgroundColor, color.RGBA{R: 1, G: 2, B: 3, A: 0}); err != nil {
		t.Fatal(err)
	}
	if c := s.Params().BackgroundColor; c.A != 0xff || c.Hex() != "#010203" {
		t.Errorf("BackgroundColor = %+v, want opaque #010203", c)
	}

	if _, err := s.Set(Animated, true); err != nil || !s.Params().Animated {
		t.Errorf("Animated = %v, err %v", s.Params().Animated, err)
	}
	if _, err := s.Set(MouseEnabled, "true"); err != nil || !s.Params().MouseEnabled {
		t.Errorf("MouseEnabled = %v, err %v", s.Params().MouseEnabled, err)
	}
}

func TestColor(t *testing.T) {
	c, err := ParseColor("#0B1C66")
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#0b1c66" {
		t.Errorf("Hex = %s", c.Hex())
	}
	half := Color{R: 200, G: 100, B: 0, A: 255}.WithAlpha(127)
	if half.A != 127 || half.R != 99 || half.G != 49 {
		t.Errorf("WithAlpha premultiplied = %+v", half)
	}
}

// ---------- Params ----------

func TestParamsClamp(t *testing.T) {
	p := Defaults()
	p.Scale = 0
	p.MouseRadius = 1000
	p.ShapeType = Shape(42)
	p.Clamp()

	if p.Scale != 10 || p.MouseRadius != 300 {
		t.Errorf("Clamp numeric: scale %v radius %v", p.Scale, p.MouseRadius)
	}
	if p.ShapeType != ShapeLine {
		t.Errorf("Clamp enum: shape %v", p.ShapeType)
	}

	d := Defaults()
	d.Clamp()
	if d != Defaults() {
		t.Error("defaults are not a fixed point of Clamp")
	}
}

func TestDescriptors(t *testing.T) {
	ds := Descriptors()
	if len(ds) != 18 {
		t.Fatalf("%d descriptors, want 18", len(ds))
	}
	seen := map[string]bool{}
	for _, d := range ds {
		if seen[d.Name] {
			t.Errorf("duplicate descriptor %s", d.Name)
		}
		seen[d.Name] = true
		if d.Kind == KindNumber && (d.Min >= d.Max || d.Step <= 0) {
			t.Errorf("%s: bad range [%v, %v] step %v", d.Name, d.Min, d.Max, d.Step)
		}
		if d.Kind == KindEnum && len(d.Options) == 0 {
			t.Errorf("%s: enum without options", d.Name)
		}
	}
	ds[0].Name = "mutated"
	if d, _ := Lookup(BackgroundColor); d.Name != BackgroundColor {
		t.Error("Descriptors exposes the package table")
	}
}

// ---------- Presets ----------

func TestPresetRoundTrip(t *testing.T) {
	p := Defaults()
	p.PatternMode = PatternCentripetal
	p.LineColor = Color{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	p.Density = 1.5

	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := SavePreset(path, p); err != nil {
		t.Fatal(err)
	}
	got, err := LoadPreset(path, Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("preset round trip:\n got %+v\nwant %+v", got, p)
	}

	if _, err := LoadPreset(filepath.Join(t.TempDir(), "missing.yaml"), Defaults()); err == nil {
		t.Error("expected error for missing preset")
	}
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(Defaults())
	p := Defaults()
	p.Density = 9
	p.ShapeType = Shape(42)
	s.Replace(p)

	got := s.Params()
	if got.Density != 2 {
		t.Errorf("Density = %v, want 2", got.Density)
	}
	if got.ShapeType != ShapeLine {
		t.Errorf("ShapeType = %v, want line", got.ShapeType)
	}
}
