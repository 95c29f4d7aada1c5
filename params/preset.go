package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SavePreset writes p to path as YAML.
func SavePreset(path string, p Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset: %w", err)
	}
	return nil
}

// LoadPreset reads a YAML preset over base. Fields absent from the file keep
// base's values; the result is clamped into range.
func LoadPreset(path string, base Params) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading preset: %w", err)
	}
	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("parsing preset: %w", err)
	}
	p.Clamp()
	return p, nil
}
