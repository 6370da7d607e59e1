package systems

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/telemetry"
)

// TreeState is the configuration the scene is heading toward.
type TreeState uint8

const (
	Scattered TreeState = iota
	TreeShape
)

// String returns the display name for a TreeState.
func (s TreeState) String() string {
	switch s {
	case Scattered:
		return "SCATTERED"
	case TreeShape:
		return "TREE_SHAPE"
	}
	return "UNKNOWN"
}

// ParseTreeState parses the configuration spelling of a state.
func ParseTreeState(s string) (TreeState, error) {
	switch s {
	case "tree":
		return TreeShape, nil
	case "scattered":
		return Scattered, nil
	}
	return Scattered, fmt.Errorf("unknown tree state %q", s)
}

// PhaseTimer receives phase boundaries during Step.
// *telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Scene composes every animated field under one group transform and owns the
// toggle between tree and scattered states.
type Scene struct {
	state   TreeState
	toggles int

	time         float32
	groupSpin    float32
	groupOffsetY float32
	spinTree     float32
	spinScatter  float32

	foliage   *FoliageField
	ornaments *OrnamentField
	star      *Star
	backdrop  []mgl32.Vec3

	pool *WorkerPool
}

// NewScene samples every field from rng and returns a scene in the
// configured initial state.
func NewScene(cfg *config.Config, rng *rand.Rand) (*Scene, error) {
	state, err := ParseTreeState(cfg.Scene.InitialState)
	if err != nil {
		return nil, fmt.Errorf("scene initial state: %w", err)
	}

	sampler := NewSampler(cfg, rng)
	pool := NewWorkerPool(cfg.Parallel.Workers, cfg.Parallel.Threshold, cfg.Parallel.ChunkSize)

	s := &Scene{
		state:        state,
		groupOffsetY: float32(cfg.Scene.GroupOffsetY),
		spinTree:     float32(cfg.Scene.SpinTree),
		spinScatter:  float32(cfg.Scene.SpinScattered),
		pool:         pool,
	}

	// Sampling order for a given seed: ornaments, foliage, backdrop
	s.ornaments = NewOrnamentField(cfg, sampler)
	s.foliage = NewFoliageField(cfg, sampler, pool)
	if cfg.Star.Enabled {
		s.star = NewStar(cfg, s.Target())
	}

	s.backdrop = make([]mgl32.Vec3, cfg.Backdrop.Count)
	for i := range s.backdrop {
		s.backdrop[i] = sampler.ShellPosition(float32(cfg.Backdrop.Radius), float32(cfg.Backdrop.Depth))
	}

	slog.Info("scene initialized",
		"state", s.state.String(),
		"foliage", s.foliage.Count(),
		"ornaments", s.ornaments.Count(),
		"balls", s.ornaments.Balls().Len(),
		"boxes", s.ornaments.Boxes().Len(),
		"star", s.star != nil,
		"workers", pool.Workers(),
	)
	return s, nil
}

// Toggle flips between tree and scattered and returns the new state.
func (s *Scene) Toggle() TreeState {
	if s.state == TreeShape {
		s.SetState(Scattered)
	} else {
		s.SetState(TreeShape)
	}
	return s.state
}

// SetState sets the state the scene is heading toward.
func (s *Scene) SetState(state TreeState) {
	if state == s.state {
		return
	}
	s.state = state
	s.toggles++
	slog.Debug("tree state changed", "state", state.String(), "time", s.time)
}

// State returns the current target state.
func (s *Scene) State() TreeState { return s.state }

// Toggles returns how many state changes have happened.
func (s *Scene) Toggles() int { return s.toggles }

// Target returns the target progress: 1 for the tree, 0 when scattered.
func (s *Scene) Target() float32 {
	if s.state == TreeShape {
		return 1
	}
	return 0
}

// Step advances the scene by dt seconds. Each field advances its own progress
// once and then updates its elements. A nil timer skips phase timing.
func (s *Scene) Step(dt float32, timer PhaseTimer) {
	// Non-finite and negative steps are ignored
	if !(dt > 0) || math32.IsInf(dt, 1) {
		dt = 0
	}
	s.time += dt

	spin := s.spinScatter
	if s.state == TreeShape {
		spin = s.spinTree
	}
	s.groupSpin += spin * dt

	target := s.Target()

	startPhase(timer, telemetry.PhaseOrnaments)
	s.ornaments.Update(target, s.time, dt)

	startPhase(timer, telemetry.PhaseFoliage)
	s.foliage.Update(target, s.time, dt)

	if s.star != nil {
		startPhase(timer, telemetry.PhaseStar)
		s.star.Update(target, s.time, dt)
	}
}

func startPhase(timer PhaseTimer, phase string) {
	if timer != nil {
		timer.StartPhase(phase)
	}
}

// Time returns the scene clock in seconds.
func (s *Scene) Time() float32 { return s.time }

// GroupSpin returns the accumulated rotation of the whole group about Y.
func (s *Scene) GroupSpin() float32 { return s.groupSpin }

// GroupTransform returns the world transform shared by every field.
func (s *Scene) GroupTransform() mgl32.Mat4 {
	return mgl32.Translate3D(0, s.groupOffsetY, 0).Mul4(mgl32.HomogRotate3DY(s.groupSpin))
}

// Foliage returns the particle field.
func (s *Scene) Foliage() *FoliageField { return s.foliage }

// Ornaments returns the instanced ornament field.
func (s *Scene) Ornaments() *OrnamentField { return s.ornaments }

// Star returns the topper, or nil when disabled.
func (s *Scene) Star() *Star { return s.star }

// Backdrop returns the background star positions in world space.
func (s *Scene) Backdrop() []mgl32.Vec3 { return s.backdrop }

// Close stops the worker pool.
func (s *Scene) Close() {
	s.pool.Close()
}
