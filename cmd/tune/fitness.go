package main

import (
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/transform"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/game"
	"github.com/pthm-cable/flowstudio/imagesrc"
	"github.com/pthm-cable/flowstudio/params"
	"github.com/pthm-cable/flowstudio/renderer"
)

// FitnessEvaluator renders candidate parameter sets and scores them against
// a target brightness map.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
	size       int
	target     []float64 // Brightness in [0, 1], row-major size x size

	mu           sync.Mutex
	lastCoverage float64
}

// NewFitnessEvaluator creates an evaluator for target, resampled to size x size.
func NewFitnessEvaluator(pv *ParamVector, baseCfg *config.Config, target image.Image, size int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     pv,
		baseConfig: baseCfg,
		seeds:      seeds,
		size:       size,
		target:     brightnessMap(target, size),
	}
}

// LastCoverage returns the mean rendered brightness of the most recent evaluation.
func (fe *FitnessEvaluator) LastCoverage() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCoverage
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	err      float64
	coverage float64
}

// Evaluate computes fitness for a parameter vector (lower = better): the
// mean squared brightness error, averaged over every noise seed.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	p, err := fe.params.Apply(fe.baseConfig.Params, x)
	if err != nil {
		return math.Inf(1)
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(i int, seed int64) {
			defer wg.Done()
			results[i] = fe.runSeed(p, seed)
		}(i, seed)
	}
	wg.Wait()

	var sumErr, sumCov float64
	for _, r := range results {
		sumErr += r.err
		sumCov += r.coverage
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastCoverage = sumCov / n
	fe.mu.Unlock()
	return sumErr / n
}

// runSeed renders one static frame with its own studio and scores it.
func (fe *FitnessEvaluator) runSeed(p params.Params, seed int64) seedResult {
	cfg := *fe.baseConfig
	cfg.Noise.Seed = seed
	cfg.Telemetry.LogInterval = 0

	surf := renderer.NewGGSurface(fe.size, fe.size)
	studio, err := game.NewStudio(&cfg, game.Options{
		Surface: surf,
		Width:   float64(fe.size),
		Height:  float64(fe.size),
	})
	if err != nil {
		return seedResult{err: math.Inf(1)}
	}
	studio.ApplyParams(p)

	got := brightnessMap(surf.Image(), fe.size)
	var sq, cov float64
	for i, v := range got {
		d := v - fe.target[i]
		sq += d * d
		cov += v
	}
	n := float64(len(got))
	return seedResult{err: sq / n, coverage: cov / n}
}

// brightnessMap resamples img to size x size and returns HSB brightness in [0, 1].
func brightnessMap(img image.Image, size int) []float64 {
	small := imagesrc.FromImage(transform.Resize(img, size, size, transform.Linear))
	out := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			b, _ := small.PixelAt(x, y)
			out[y*size+x] = b / 100
		}
	}
	return out
}
