// Package main provides CMA-ES fitting of flow field parameters to a
// reference image.
package main

import (
	"fmt"

	"github.com/pthm-cable/flowstudio/params"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Parameter name as accepted by params.Store
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// tunable lists the numeric parameters that shape a static render.
var tunable = []string{params.NoiseStrength, params.Scale, params.Density}

// NewParamVector creates the optimizable set, bounded by the declared
// ranges and starting from base.
func NewParamVector(base params.Params) (*ParamVector, error) {
	store := params.NewStore(base)
	pv := &ParamVector{}
	for _, name := range tunable {
		d, ok := params.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", params.ErrUnknownParam, name)
		}
		v, err := store.Get(name)
		if err != nil {
			return nil, err
		}
		pv.Specs = append(pv.Specs, ParamSpec{Name: name, Min: d.Min, Max: d.Max, Default: v.(float64)})
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Apply writes values into base through the parameter store, so they are
// snapped and clamped exactly as slider edits would be.
func (pv *ParamVector) Apply(base params.Params, values []float64) (params.Params, error) {
	store := params.NewStore(base)
	for i, spec := range pv.Specs {
		if _, err := store.Set(spec.Name, values[i]); err != nil {
			return base, err
		}
	}
	return store.Params(), nil
}

// Values reads the tuned parameters back out of p.
func (pv *ParamVector) Values(p params.Params) []float64 {
	store := params.NewStore(p)
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v, _ := store.Get(spec.Name)
		out[i], _ = v.(float64)
	}
	return out
}
