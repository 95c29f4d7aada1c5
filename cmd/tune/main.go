package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flowstudio/config"
	"github.com/pthm-cable/flowstudio/imagesrc"
	"github.com/pthm-cable/flowstudio/params"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	presetPath := flag.String("preset", "", "Starting parameter preset (empty = config params)")
	targetPath := flag.String("target", "", "Reference image to match")
	size := flag.Int("size", 200, "Render and compare resolution (square)")
	seeds := flag.Int("seeds", 2, "Number of noise seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" || *targetPath == "" {
		log.Fatal("--output and --target are required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if *presetPath != "" {
		p, err := params.LoadPreset(*presetPath, baseCfg.Params)
		if err != nil {
			log.Fatalf("failed to load preset: %v", err)
		}
		baseCfg.Params = p
	}
	// Static renders only
	baseCfg.Params.Animated = false

	target, err := imagesrc.Load(*targetPath, 0)
	if err != nil {
		log.Fatalf("failed to load target: %v", err)
	}

	pv, err := NewParamVector(baseCfg.Params)
	if err != nil {
		log.Fatalf("failed to build parameter vector: %v", err)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = baseCfg.Noise.Seed + int64(i*1000)
	}

	evaluator := NewFitnessEvaluator(pv, baseCfg, target.Source(), *size, evalSeeds)

	dim := pv.Dim()
	initX := pv.Normalize(pv.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "coverage"}
	for _, spec := range pv.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e9
	var bestParams params.Params
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := pv.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			// Log the snapped values actually rendered
			applied, _ := pv.Apply(baseCfg.Params, raw)
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = applied
			}

			row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.4f", evaluator.LastCoverage())}
			for _, v := range pv.Values(applied) {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: mse=%.5f coverage=%.3f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, evaluator.LastCoverage(), bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES fit with %d parameters, population=%d, max_evals=%d\n", dim, popSize, *maxEvals)
	fmt.Printf("Target: %s (%dx%d), seeds per evaluation: %d\n", *targetPath, target.Width(), target.Height(), *seeds)

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if evalCount == 0 {
		log.Fatal("no evaluations ran")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nFit complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, v := range pv.Values(bestParams) {
		fmt.Printf("  %s: %v\n", pv.Specs[i].Name, v)
	}

	presetOut := filepath.Join(*outputDir, "best_preset.yaml")
	if err := params.SavePreset(presetOut, bestParams); err != nil {
		log.Printf("failed to write best preset: %v", err)
	} else {
		fmt.Printf("\nBest preset saved to: %s\n", presetOut)
	}
}
