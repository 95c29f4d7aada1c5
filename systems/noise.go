package systems

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/flowstudio/config"
)

// Noise generates coherent 3D noise in [0, 1].
type Noise interface {
	Noise3D(x, y, z float64) float64
}

// NewNoise builds the noise backend named in cfg.
func NewNoise(cfg config.NoiseConfig) (Noise, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "perlin":
		octaves := cfg.Octaves
		if octaves <= 0 {
			octaves = 4
		}
		return &PerlinNoise{p: perlin.NewPerlin(cfg.Alpha, cfg.Beta, octaves, cfg.Seed)}, nil
	case "simplex", "opensimplex":
		return &SimplexNoise{n: opensimplex.NewNormalized(cfg.Seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", cfg.Backend)
	}
}

// PerlinNoise is multi-octave Perlin noise remapped from [-1, 1] to [0, 1].
type PerlinNoise struct {
	p *perlin.Perlin
}

// Noise3D returns a noise value for 3D coordinates.
func (n *PerlinNoise) Noise3D(x, y, z float64) float64 {
	return clamp((n.p.Noise3D(x, y, z)+1)/2, 0, 1)
}

// SimplexNoise is OpenSimplex noise, already normalized to [0, 1].
type SimplexNoise struct {
	n opensimplex.Noise
}

// Noise3D returns a noise value for 3D coordinates.
func (n *SimplexNoise) Noise3D(x, y, z float64) float64 {
	return n.n.Eval3(x, y, z)
}
