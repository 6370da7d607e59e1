package telemetry

import "math"

// FrameSample is the scene state the collector reads at a window boundary.
type FrameSample struct {
	State            string
	Target           float32
	FoliageProgress  float32
	FoliageEased     float32
	OrnamentProgress float32
	OrnamentEased    float32
	StarScale        float32

	// Per-particle distance from the tree position
	Displacements []float64
	// Per-particle squared distance from the trunk axis
	AxisDistSq []float64
}

// Collector tracks toggles and transition latency between windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32
	settleEps           float64

	// Current window tracking
	windowStartTick int32
	toggles         int

	// Transition tracking
	toggleTick int32
	pending    bool
	lastSettle float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in scene seconds
// dt: seconds per tick (used for tick-to-time conversion)
// settleEps: |target - progress| below which a transition counts as complete
func NewCollector(windowDurationSec float64, dt float32, settleEps float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		settleEps:           settleEps,
	}
}

// RecordToggle records a state change at the given tick.
func (c *Collector) RecordToggle(tick int32) {
	c.toggles++
	c.toggleTick = tick
	c.pending = true
}

// Observe checks whether a pending transition has settled. Call once per tick
// after the scene has stepped.
func (c *Collector) Observe(tick int32, target, progress float32) {
	if !c.pending || !c.isSettled(target, progress) {
		return
	}
	c.lastSettle = float64(tick-c.toggleTick) * float64(c.dt)
	c.pending = false
}

func (c *Collector) isSettled(target, progress float32) bool {
	return math.Abs(float64(target-progress)) < c.settleEps
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FrameSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeDistribution(sample.Displacements)

	var spread float64
	if n := len(sample.AxisDistSq); n > 0 {
		var sum float64
		for _, d := range sample.AxisDistSq {
			sum += d
		}
		spread = math.Sqrt(sum / float64(n))
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		State:   sample.State,
		Target:  float64(sample.Target),
		Toggles: c.toggles,

		FoliageProgress:  float64(sample.FoliageProgress),
		FoliageEased:     float64(sample.FoliageEased),
		OrnamentProgress: float64(sample.OrnamentProgress),
		OrnamentEased:    float64(sample.OrnamentEased),
		StarScale:        float64(sample.StarScale),
		Settled: c.isSettled(sample.Target, sample.FoliageProgress) &&
			c.isSettled(sample.Target, sample.OrnamentProgress),
		SettleSec: c.lastSettle,

		DisplacementMean: mean,
		DisplacementStd:  std,
		DisplacementP10:  p10,
		DisplacementP50:  p50,
		DisplacementP90:  p90,

		SpreadRMS: spread,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.toggles = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
