package systems

import (
	"testing"

	"github.com/pthm-cable/flowstudio/config"
)

func TestNewNoise_Backends(t *testing.T) {
	for _, backend := range []string{"perlin", "simplex"} {
		n, err := NewNoise(config.NoiseConfig{Backend: backend, Seed: 7, Alpha: 2, Beta: 2, Octaves: 4})
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		for i := 0; i < 200; i++ {
			x := float64(i) * 0.137
			v := n.Noise3D(x, x*0.5, 0.3)
			if v < 0 || v > 1 {
				t.Fatalf("%s: Noise3D(%v) = %v outside [0,1]", backend, x, v)
			}
			if again := n.Noise3D(x, x*0.5, 0.3); again != v {
				t.Fatalf("%s: Noise3D not deterministic: %v then %v", backend, v, again)
			}
		}
	}
}

func TestNewNoise_UnknownBackend(t *testing.T) {
	if _, err := NewNoise(config.NoiseConfig{Backend: "value"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
