// Package game wires the scene, camera, renderer and telemetry into a frame loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/renderer"
	"github.com/pthm-cable/evergreen/systems"
	"github.com/pthm-cable/evergreen/telemetry"
	"github.com/pthm-cable/evergreen/ui"
)

// Game holds the complete application state.
type Game struct {
	cfg    *config.Config
	seed   int64
	scene  *systems.Scene
	camera *camera.Camera

	// Rendering (nil when headless)
	sceneRenderer *renderer.SceneRenderer
	hud           *ui.HUD
	button        *ui.ToggleButton
	uploader      systems.Uploader

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	displacements []float64
	axisDistSq    []float64

	// State
	tick           int32
	dt             float32
	headless       bool
	logStats       bool
	showStats      bool
	stepsPerUpdate int
	toggleEvery    int
	uploads        int // buffers flushed without a renderer

	screenWidth, screenHeight float32
}

// NewGame creates the scene and, unless headless, its renderers. In graphical
// mode the raylib window must already be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	scene, err := systems.NewScene(cfg, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		seed:           opts.Seed,
		scene:          scene,
		camera:         camera.New(cfg),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32, cfg.Telemetry.SettledEps),
		dt:             cfg.Derived.DT32,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
		toggleEvery:    opts.ToggleEvery,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		scene.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if g.headless {
		g.uploader = systems.UploaderFunc(func(*systems.InstanceBuffer, bool) {
			g.uploads++
		})
	} else {
		g.sceneRenderer = renderer.NewSceneRenderer(cfg)
		if err := g.sceneRenderer.Init(); err != nil {
			g.Unload()
			return nil, fmt.Errorf("initializing renderer: %w", err)
		}
		g.uploader = g.sceneRenderer.Uploader()
		g.hud = ui.NewHUD()
		g.button = ui.NewToggleButton()
	}

	slog.Info("game initialized",
		"seed", g.seed,
		"headless", g.headless,
		"steps_per_update", g.stepsPerUpdate,
		"stats_window", statsWindow,
		"output_dir", g.outputManager.Dir(),
	)
	return g, nil
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update advances the scene by the frame time (graphical mode).
func (g *Game) Update() {
	g.handleInput()

	dt := rl.GetFrameTime()
	g.perfCollector.StartTick()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt)
	}
	g.camera.Update(dt, g.scene.State() == systems.TreeShape)
}

// UpdateHeadless advances the scene by fixed steps without any window.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.toggleEvery > 0 && g.tick > 0 && int(g.tick)%g.toggleEvery == 0 {
			g.toggle()
		}
		g.perfCollector.StartTick()
		g.step(g.dt)
		g.camera.Update(g.dt, g.scene.State() == systems.TreeShape)
		g.perfCollector.EndTick()
	}
}

// step advances the scene once, uploads the instance buffers and updates
// telemetry.
func (g *Game) step(dt float32) {
	g.scene.Step(dt, g.perfCollector)

	g.perfCollector.StartPhase(telemetry.PhaseUpload)
	g.scene.Ornaments().Flush(g.uploader)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Observe(g.tick, g.scene.Target(), g.scene.Foliage().Controller().Progress())
	g.flushTelemetry()
}

// toggle flips the tree state and records the transition start.
func (g *Game) toggle() {
	g.scene.Toggle()
	g.collector.RecordToggle(g.tick)
}

// Unload releases GPU resources, stops workers and closes output files.
func (g *Game) Unload() {
	if g.sceneRenderer != nil {
		g.sceneRenderer.Unload()
	}
	g.scene.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of scene steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// Scene returns the animated scene.
func (g *Game) Scene() *systems.Scene {
	return g.scene
}

// Camera returns the orbit camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}
