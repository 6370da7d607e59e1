package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/evergreen/telemetry"
)

// flushTelemetry emits a stats window when one has elapsed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	windowStats := g.collector.Flush(g.tick, g.sampleFrame())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(windowStats)
	}

	if g.logStats {
		windowStats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(windowStats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, windowStats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// sampleFrame reads the scene state for a stats window. The per-particle
// slices are reused between windows.
func (g *Game) sampleFrame() telemetry.FrameSample {
	foliage := g.scene.Foliage()
	n := foliage.Count()
	if cap(g.displacements) < n {
		g.displacements = make([]float64, n)
		g.axisDistSq = make([]float64, n)
	}
	g.displacements = g.displacements[:n]
	g.axisDistSq = g.axisDistSq[:n]

	pos := foliage.Positions()
	for i := 0; i < n; i++ {
		x, y, z := pos[i*3], pos[i*3+1], pos[i*3+2]
		tree, _, _ := foliage.Anchors(i)
		dx, dy, dz := float64(x-tree.X()), float64(y-tree.Y()), float64(z-tree.Z())
		g.displacements[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
		g.axisDistSq[i] = float64(x*x + z*z)
	}

	sample := telemetry.FrameSample{
		State:            g.scene.State().String(),
		Target:           g.scene.Target(),
		FoliageProgress:  foliage.Controller().Progress(),
		FoliageEased:     foliage.Controller().Eased(),
		OrnamentProgress: g.scene.Ornaments().Controller().Progress(),
		OrnamentEased:    g.scene.Ornaments().Controller().Eased(),
		Displacements:    g.displacements,
		AxisDistSq:       g.axisDistSq,
	}
	if s := g.scene.Star(); s != nil {
		sample.StarScale = s.Scale()
	}
	return sample
}
