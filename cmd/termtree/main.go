// Terminal preview - runs the scene without a GPU and plots it with tcell.
//
// Usage: go run ./cmd/termtree [-seed N] [-foliage-stride 8]
//
// Keys: space toggles the tree, left/right orbit, +/- zoom, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

const (
	frameTime = time.Second / 30
	// Terminal cells are roughly twice as tall as wide.
	cellAspect = 2
	orbitStep  = 0.15
	zoomStep   = 0.1
)

type plotter struct {
	screen tcell.Screen
	cam    *camera.Camera
	depth  []float32
	cols   int
	rows   int
	bg     tcell.Style
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	stride := flag.Int("foliage-stride", 8, "Plot every Nth foliage particle")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *stride < 1 {
		*stride = 1
	}

	scene, err := systems.NewScene(cfg, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scene: %v\n", err)
		os.Exit(1)
	}
	defer scene.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	r, g, b := cfg.Derived.Background.RGB255()
	bg := tcell.NewRGBColor(int32(r), int32(g), int32(b))
	p := &plotter{
		screen: screen,
		cam:    camera.New(cfg),
		bg:     tcell.StyleDefault.Background(bg),
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	dt := float32(frameTime.Seconds())

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
					close(quit)
					return
				case ev.Rune() == ' ':
					scene.Toggle()
				case ev.Key() == tcell.KeyLeft:
					p.cam.Rotate(orbitStep, 0)
				case ev.Key() == tcell.KeyRight:
					p.cam.Rotate(-orbitStep, 0)
				case ev.Rune() == '+' || ev.Rune() == '=':
					p.cam.ZoomBy(1 - zoomStep)
				case ev.Rune() == '-':
					p.cam.ZoomBy(1 + zoomStep)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			scene.Step(dt, nil)
			p.cam.Update(dt, scene.State() == systems.TreeShape)
			p.draw(scene, *stride)
		}
	}
}

// draw plots the scene through a per-cell depth buffer.
func (p *plotter) draw(scene *systems.Scene, stride int) {
	p.resize()
	p.screen.Fill(' ', p.bg)

	group := scene.GroupTransform()

	for _, s := range scene.Backdrop() {
		p.plot(s, '.', tcell.NewRGBColor(90, 90, 90), false)
	}

	foliage := scene.Foliage()
	pos := foliage.Positions()
	for i := 0; i < foliage.Count(); i += stride {
		local := mgl32.Vec3{pos[3*i], pos[3*i+1], pos[3*i+2]}
		world := mgl32.TransformCoordinate(local, group)
		if foliage.Sparkle(i) {
			p.plot(world, '*', tcell.NewRGBColor(255, 236, 160), false)
		} else {
			p.plot(world, '\'', tcell.NewRGBColor(16, 140, 70), false)
		}
	}

	orn := scene.Ornaments()
	for _, buf := range []*systems.InstanceBuffer{orn.Balls(), orn.Boxes()} {
		glyph := 'o'
		if buf == orn.Boxes() {
			glyph = '#'
		}
		for j, m := range buf.Matrices {
			world := mgl32.TransformCoordinate(m.Col(3).Vec3(), group)
			c := buf.Colors[j]
			p.plot(world, glyph, tcell.NewRGBColor(int32(c.X()*255), int32(c.Y()*255), int32(c.Z()*255)), false)
		}
	}

	if star := scene.Star(); star != nil && star.Scale() > 0.05 {
		p.plot(mgl32.TransformCoordinate(star.Position(), group), '★', tcell.NewRGBColor(255, 215, 0), true)
	}

	status := fmt.Sprintf(" %s  t=%.1fs  progress %.2f  [space] toggle  [q] quit ",
		scene.State(), scene.Time(), scene.Foliage().Controller().Progress())
	for i, r := range status {
		p.screen.SetContent(i, p.rows-1, r, nil, p.bg.Foreground(tcell.NewRGBColor(255, 215, 0)))
	}

	p.screen.Show()
}

func (p *plotter) resize() {
	cols, rows := p.screen.Size()
	if cols == p.cols && rows == p.rows {
		for i := range p.depth {
			p.depth[i] = 0
		}
		return
	}
	p.cols, p.rows = cols, rows
	p.depth = make([]float32, cols*rows)
	p.cam.Resize(float32(cols), float32(rows*cellAspect))
}

// plot draws glyph at the projected position if it is nearer than what the
// cell already holds. Depth 0 marks an empty cell.
func (p *plotter) plot(world mgl32.Vec3, glyph rune, col tcell.Color, bold bool) {
	sx, sy, depth, ok := p.cam.Project(world)
	if !ok {
		return
	}
	x, y := int(sx), int(sy/cellAspect)
	if x < 0 || y < 0 || x >= p.cols || y >= p.rows-1 {
		return
	}
	idx := y*p.cols + x
	if d := p.depth[idx]; d != 0 && d <= depth {
		return
	}
	p.depth[idx] = depth
	p.screen.SetContent(x, y, glyph, nil, p.bg.Foreground(col).Bold(bold))
}
