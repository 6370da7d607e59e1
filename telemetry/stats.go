package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated scene statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Toggle state at window end
	State   string  `csv:"state"`
	Target  float64 `csv:"target"`
	Toggles int     `csv:"toggles"` // State changes during the window

	// Progress of each field at window end
	FoliageProgress  float64 `csv:"foliage_progress"`
	FoliageEased     float64 `csv:"foliage_eased"`
	OrnamentProgress float64 `csv:"ornament_progress"`
	OrnamentEased    float64 `csv:"ornament_eased"`
	StarScale        float64 `csv:"star_scale"`
	Settled          bool    `csv:"settled"`
	SettleSec        float64 `csv:"settle_sec"` // Latency of the last completed transition, 0 if none

	// Distance of each particle from its tree position (sampled at window end)
	DisplacementMean float64 `csv:"disp_mean"`
	DisplacementStd  float64 `csv:"disp_std"`
	DisplacementP10  float64 `csv:"disp_p10"`
	DisplacementP50  float64 `csv:"disp_p50"`
	DisplacementP90  float64 `csv:"disp_p90"`

	// Cloud extent: RMS distance of particles from the trunk axis
	SpreadRMS float64 `csv:"spread_rms"`
}

// ComputeDistribution calculates mean, sample standard deviation and
// empirical percentiles. values is not modified.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("state", s.State),
		slog.Float64("target", s.Target),
		slog.Int("toggles", s.Toggles),
		slog.Float64("foliage_progress", s.FoliageProgress),
		slog.Float64("foliage_eased", s.FoliageEased),
		slog.Float64("ornament_progress", s.OrnamentProgress),
		slog.Float64("ornament_eased", s.OrnamentEased),
		slog.Float64("star_scale", s.StarScale),
		slog.Bool("settled", s.Settled),
		slog.Float64("settle_sec", s.SettleSec),
		slog.Float64("disp_mean", s.DisplacementMean),
		slog.Float64("disp_std", s.DisplacementStd),
		slog.Float64("disp_p10", s.DisplacementP10),
		slog.Float64("disp_p50", s.DisplacementP50),
		slog.Float64("disp_p90", s.DisplacementP90),
		slog.Float64("spread_rms", s.SpreadRMS),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"state", s.State,
		"toggles", s.Toggles,
		"foliage_progress", s.FoliageProgress,
		"ornament_progress", s.OrnamentProgress,
		"star_scale", s.StarScale,
		"settled", s.Settled,
		"settle_sec", s.SettleSec,
		"disp_mean", s.DisplacementMean,
		"disp_p50", s.DisplacementP50,
		"disp_p90", s.DisplacementP90,
		"spread_rms", s.SpreadRMS,
	)
}
