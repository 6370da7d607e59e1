package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/telemetry"
)

func newTestScene(t *testing.T, state string) *Scene {
	t.Helper()
	cfg := *config.Cfg()
	cfg.Foliage.Count = 800
	cfg.Ornaments.Count = 120
	cfg.Backdrop.Count = 50
	cfg.Scene.InitialState = state
	s, err := NewScene(&cfg, rand.New(rand.NewSource(31)))
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

type phaseRecorder struct {
	phases []string
}

func (p *phaseRecorder) StartPhase(phase string) {
	p.phases = append(p.phases, phase)
}

func TestSceneToggle(t *testing.T) {
	s := newTestScene(t, "tree")
	if s.State() != TreeShape || s.Target() != 1 {
		t.Fatalf("initial state %v target %v, want TREE_SHAPE and 1", s.State(), s.Target())
	}
	if got := s.Toggle(); got != Scattered || s.Target() != 0 {
		t.Errorf("after toggle: %v target %v, want SCATTERED and 0", got, s.Target())
	}
	s.Toggle()
	s.SetState(TreeShape) // no-op
	if s.Toggles() != 2 {
		t.Errorf("toggles = %d, want 2", s.Toggles())
	}
}

func TestSceneStepOrder(t *testing.T) {
	s := newTestScene(t, "tree")
	rec := &phaseRecorder{}
	s.Step(1.0/60, rec)

	want := []string{telemetry.PhaseOrnaments, telemetry.PhaseFoliage, telemetry.PhaseStar}
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase %d = %s, want %s", i, rec.phases[i], want[i])
		}
	}
}

func TestSceneFieldsShareProgress(t *testing.T) {
	s := newTestScene(t, "tree")
	for i := 0; i < 30; i++ {
		s.Step(0.05, nil)
		fp := s.Foliage().Uniforms().Progress
		op := s.Ornaments().Controller().Progress()
		if fp != op {
			t.Fatalf("step %d: foliage progress %v != ornament progress %v", i, fp, op)
		}
	}
}

func TestSceneRoundTrip(t *testing.T) {
	s := newTestScene(t, "scattered")
	s.SetState(TreeShape)
	for i := 0; i < 100; i++ {
		s.Step(0.1, nil)
	}
	if p := s.Foliage().Uniforms().Progress; p < 0.99 {
		t.Fatalf("progress toward tree = %v, want > 0.99", p)
	}
	s.SetState(Scattered)
	for i := 0; i < 100; i++ {
		s.Step(0.1, nil)
	}
	if p := s.Foliage().Uniforms().Progress; p > 0.01 {
		t.Errorf("progress back toward scatter = %v, want < 0.01", p)
	}
	if s.Star().Scale() > 0.01 {
		t.Errorf("star scale after scattering = %v, want ~0", s.Star().Scale())
	}
}

func TestSceneGroupSpin(t *testing.T) {
	cfg := config.Cfg()
	s := newTestScene(t, "tree")
	s.Step(2, nil)
	if want := float32(cfg.Scene.SpinTree) * 2; math.Abs(float64(s.GroupSpin()-want)) > 1e-6 {
		t.Errorf("tree spin = %v, want %v", s.GroupSpin(), want)
	}

	s.Toggle()
	before := s.GroupSpin()
	s.Step(2, nil)
	if want := float32(cfg.Scene.SpinScattered) * 2; math.Abs(float64(s.GroupSpin()-before-want)) > 1e-6 {
		t.Errorf("scattered spin delta = %v, want %v", s.GroupSpin()-before, want)
	}

	offset := s.GroupTransform().Col(3).Vec3()
	if offset.Y() != float32(cfg.Scene.GroupOffsetY) {
		t.Errorf("group offset = %v, want y=%v", offset, cfg.Scene.GroupOffsetY)
	}
}

func TestSceneIgnoresBadDT(t *testing.T) {
	s := newTestScene(t, "tree")
	s.Step(0.5, nil)
	tm, p := s.Time(), s.Foliage().Uniforms().Progress

	for _, dt := range []float32{-1, float32(math.NaN()), float32(math.Inf(1))} {
		s.Step(dt, nil)
	}
	if s.Time() != tm {
		t.Errorf("time moved from %v to %v on invalid dt", tm, s.Time())
	}
	if got := s.Foliage().Uniforms().Progress; got != p {
		t.Errorf("progress moved from %v to %v on invalid dt", p, got)
	}
}

func TestSceneBackdropAndStar(t *testing.T) {
	s := newTestScene(t, "tree")
	if len(s.Backdrop()) != 50 {
		t.Errorf("backdrop = %d stars, want 50", len(s.Backdrop()))
	}
	if s.Star() == nil {
		t.Fatal("star missing with star.enabled")
	}
}

func TestNewSceneRejectsState(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Scene.InitialState = "upside-down"
	if _, err := NewScene(&cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestParseTreeState(t *testing.T) {
	tests := []struct {
		in      string
		want    TreeState
		wantErr bool
	}{
		{"tree", TreeShape, false},
		{"scattered", Scattered, false},
		{"TREE", Scattered, true},
	}
	for _, tt := range tests {
		got, err := ParseTreeState(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTreeState(%q) = %v, %v", tt.in, got, err)
		}
	}
}
