package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameRecord is one rendered tick, written to frames.csv.
type FrameRecord struct {
	Tick       int64   `csv:"tick"`
	Mode       string  `csv:"mode"` // static | evolve | particles
	Pattern    string  `csv:"pattern"`
	Shape      string  `csv:"shape"`
	Shapes     int     `csv:"shapes"` // Shapes drawn (static/evolve) or particles stepped
	Zoff       float64 `csv:"zoff"`
	DurationUS int64   `csv:"duration_us"`
}

// WindowStats holds aggregated statistics over a window of frames.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`
	Frames          int   `csv:"frames"`
	Regenerations   int   `csv:"regenerations"`

	ShapesMean float64 `csv:"shapes_mean"`
	ShapesStd  float64 `csv:"shapes_std"`

	DurationMeanUS float64 `csv:"duration_mean_us"`
	DurationStdUS  float64 `csv:"duration_std_us"`
	DurationP10US  float64 `csv:"duration_p10_us"`
	DurationP50US  float64 `csv:"duration_p50_us"`
	DurationP90US  float64 `csv:"duration_p90_us"`
}

// Summarize aggregates frame records. Regenerations counts frames whose mode
// is not "particles".
func Summarize(records []FrameRecord) WindowStats {
	if len(records) == 0 {
		return WindowStats{}
	}

	shapes := make([]float64, len(records))
	durations := make([]float64, len(records))
	regens := 0
	for i, r := range records {
		shapes[i] = float64(r.Shapes)
		durations[i] = float64(r.DurationUS)
		if r.Mode != "particles" {
			regens++
		}
	}

	ws := WindowStats{
		WindowStartTick: records[0].Tick,
		WindowEndTick:   records[len(records)-1].Tick,
		Frames:          len(records),
		Regenerations:   regens,
	}
	ws.ShapesMean, ws.ShapesStd = meanStd(shapes)
	ws.DurationMeanUS, ws.DurationStdUS = meanStd(durations)

	sort.Float64s(durations)
	ws.DurationP10US = stat.Quantile(0.1, stat.Empirical, durations, nil)
	ws.DurationP50US = stat.Quantile(0.5, stat.Empirical, durations, nil)
	ws.DurationP90US = stat.Quantile(0.9, stat.Empirical, durations, nil)
	return ws
}

// meanStd returns the mean and sample standard deviation. A single value
// has zero deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("frames", s.Frames),
		slog.Int("regenerations", s.Regenerations),
		slog.Float64("shapes_mean", s.ShapesMean),
		slog.Duration("frame_p50", time.Duration(s.DurationP50US)*time.Microsecond),
		slog.Duration("frame_p90", time.Duration(s.DurationP90US)*time.Microsecond),
	)
}

// LogStats logs the window summary.
func (s WindowStats) LogStats() {
	slog.Info("frames",
		"window_end", s.WindowEndTick,
		"frames", s.Frames,
		"regenerations", s.Regenerations,
		"shapes_mean", int(s.ShapesMean),
		"frame_mean_us", int64(s.DurationMeanUS),
		"frame_p90_us", int64(s.DurationP90US),
	)
}
