// Shape preview tool - interactive tree and star tuning with sliders.
//
// Usage: go run ./cmd/shapepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/renderer"
	"github.com/pthm-cable/evergreen/systems"
)

const (
	windowWidth  = 1280
	windowHeight = 800
	panelWidth   = 340
	sliderWidth  = panelWidth - 110
)

// shapeParams holds the tunable subset of the configuration.
type shapeParams struct {
	TreeHeight    float32
	TreeRadius    float32
	FoliageCount  float32
	OrnamentCount float32
	BoxFraction   float32
	StarPoints    float32
	StarOuter     float32
	StarInner     float32
	StarDepth     float32
	DampingRate   float32
	ScatterRadius float32
}

func paramsFrom(cfg *config.Config) shapeParams {
	return shapeParams{
		TreeHeight:    float32(cfg.Tree.Height),
		TreeRadius:    float32(cfg.Tree.Radius),
		FoliageCount:  float32(cfg.Foliage.Count),
		OrnamentCount: float32(cfg.Ornaments.Count),
		BoxFraction:   float32(cfg.Ornaments.BoxFraction),
		StarPoints:    float32(cfg.Star.Points),
		StarOuter:     float32(cfg.Star.OuterRadius),
		StarInner:     float32(cfg.Star.InnerRadius),
		StarDepth:     float32(cfg.Star.Depth),
		DampingRate:   float32(cfg.Motion.DampingRate),
		ScatterRadius: float32(cfg.Scatter.Radius),
	}
}

func (p shapeParams) apply(cfg *config.Config) {
	cfg.Tree.Height = float64(p.TreeHeight)
	cfg.Tree.Radius = float64(p.TreeRadius)
	cfg.Foliage.Count = int(p.FoliageCount)
	cfg.Ornaments.Count = int(p.OrnamentCount)
	cfg.Ornaments.BoxFraction = float64(p.BoxFraction)
	cfg.Star.Points = int(p.StarPoints)
	cfg.Star.OuterRadius = float64(p.StarOuter)
	cfg.Star.InnerRadius = float64(p.StarInner)
	cfg.Star.Depth = float64(p.StarDepth)
	cfg.Motion.DampingRate = float64(p.DampingRate)
	cfg.Scatter.Radius = float64(p.ScatterRadius)
}

// slider is one row of the parameter panel.
type slider struct {
	label    string
	min, max float32
	format   string
	value    *float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cfg.Screen.Width, cfg.Screen.Height = windowWidth, windowHeight
	params := paramsFrom(cfg)
	defaults := params

	sr := renderer.NewSceneRenderer(cfg)
	if err := sr.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init renderer: %v\n", err)
		os.Exit(1)
	}
	defer sr.Unload()

	cam := camera.New(cfg)
	scene, err := systems.NewScene(cfg, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scene: %v\n", err)
		os.Exit(1)
	}
	defer func() { scene.Close() }()

	sliders := []slider{
		{"Tree height", 6, 30, "%.1f", &params.TreeHeight},
		{"Tree radius", 2, 12, "%.1f", &params.TreeRadius},
		{"Scatter radius", 10, 80, "%.0f", &params.ScatterRadius},
		{"Foliage count", 0, 30000, "%.0f", &params.FoliageCount},
		{"Ornament count", 0, 3000, "%.0f", &params.OrnamentCount},
		{"Box fraction", 0, 1, "%.2f", &params.BoxFraction},
		{"Star points", 3, 9, "%.0f", &params.StarPoints},
		{"Star outer", 0.4, 3, "%.2f", &params.StarOuter},
		{"Star inner", 0.1, 2, "%.2f", &params.StarInner},
		{"Star depth", 0.05, 1.5, "%.2f", &params.StarDepth},
		{"Damping rate", 0.2, 6, "%.2f", &params.DampingRate},
	}

	needsRebuild := false
	for !rl.WindowShouldClose() {
		if needsRebuild {
			next := *cfg
			params.apply(&next)
			if err := next.Refresh(); err != nil {
				slog.Warn("rejected parameters", "error", err)
			} else if s, err := systems.NewScene(&next, rand.New(rand.NewSource(*seed))); err != nil {
				slog.Warn("failed to rebuild scene", "error", err)
			} else {
				s.SetState(scene.State())
				scene.Close()
				scene = s
			}
			needsRebuild = false
		}

		dt := rl.GetFrameTime()
		if rl.IsKeyPressed(rl.KeySpace) {
			scene.Toggle()
		}
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			d := rl.GetMouseDelta()
			cam.Rotate(-d.X*0.01, -d.Y*0.01)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 - wheel*0.1)
		}

		scene.Step(dt, nil)
		scene.Ornaments().Flush(sr.Uploader())
		cam.Update(dt, scene.State() == systems.TreeShape)

		rl.BeginDrawing()
		sr.Draw(scene, cam)

		rl.DrawRectangle(0, 0, panelWidth, windowHeight, rl.Fade(rl.Black, 0.6))
		x, y := float32(10), float32(10)
		rl.DrawText("Shape Parameters", int32(x), int32(y), 20, rl.LightGray)
		y += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(x), int32(y), 14, rl.Gray)
			y += 18
			v := gui.SliderBar(
				rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 18},
				"", "",
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(x+sliderWidth+10), int32(y+2), 14, rl.LightGray)
			if v != *s.value {
				*s.value = v
				needsRebuild = true
			}
			y += 28
		}

		y += 10
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 150, Height: 30}, toggleText(scene.State() == systems.TreeShape, "Scatter", "Assemble")) {
			scene.Toggle()
		}
		if gui.Button(rl.Rectangle{X: x + 160, Y: y, Width: 150, Height: 30}, "Reset All") {
			params = defaults
			needsRebuild = true
		}
		y += 45

		rl.DrawText(fmt.Sprintf("%s  progress %.2f  %d FPS", scene.State(), scene.Foliage().Controller().Progress(), rl.GetFPS()),
			int32(x), int32(y), 14, rl.Gray)
		rl.DrawText("[Space] toggle  [RMB] orbit  [Wheel] zoom  [C] copy YAML", int32(x), windowHeight-25, 12, rl.Gray)

		if rl.IsKeyPressed(rl.KeyC) {
			if text, err := paramsYAML(cfg, params); err != nil {
				slog.Warn("failed to marshal parameters", "error", err)
			} else {
				rl.SetClipboardText(text)
			}
		}

		rl.EndDrawing()
	}
}

// paramsYAML renders the tuned sections as a config.yaml fragment.
func paramsYAML(base *config.Config, p shapeParams) (string, error) {
	next := *base
	p.apply(&next)
	out, err := yaml.Marshal(struct {
		Tree      config.TreeConfig      `yaml:"tree"`
		Scatter   config.ScatterConfig   `yaml:"scatter"`
		Foliage   config.FoliageConfig   `yaml:"foliage"`
		Ornaments config.OrnamentsConfig `yaml:"ornaments"`
		Star      config.StarConfig      `yaml:"star"`
		Motion    config.MotionConfig    `yaml:"motion"`
	}{next.Tree, next.Scatter, next.Foliage, next.Ornaments, next.Star, next.Motion})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
