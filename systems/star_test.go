package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
)

func TestStarOutline(t *testing.T) {
	pts := StarOutline(5, 1.2, 0.5)
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10", len(pts))
	}
	if !pts[0].ApproxEqual(mgl32.Vec2{0, 1.2}) {
		t.Errorf("first vertex = %v, want top at (0, 1.2)", pts[0])
	}
	for i, p := range pts {
		want := float32(1.2)
		if i%2 == 1 {
			want = 0.5
		}
		if math.Abs(float64(p.Len()-want)) > 1e-5 {
			t.Errorf("vertex %d radius = %v, want %v", i, p.Len(), want)
		}
	}
	if StarOutline(1, 1, 0.5) != nil {
		t.Error("degenerate star should have no outline")
	}
}

func TestExtrudeOutlineWindsOutward(t *testing.T) {
	tris := ExtrudeOutline(StarOutline(5, 1.2, 0.5), 0.4)
	if len(tris) != 10*12 {
		t.Fatalf("vertex count = %d, want %d", len(tris), 10*12)
	}
	for i := 0; i < len(tris); i += 3 {
		p0, p1, p2 := tris[i], tris[i+1], tris[i+2]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d faces inward: normal %v centroid %v", i/3, normal, centroid)
		}
	}
}

func TestStarScaleFollowsTarget(t *testing.T) {
	cfg := config.Cfg()
	s := NewStar(cfg, 0)
	if s.Scale() != 0 || s.LightIntensity() != 0 {
		t.Fatalf("scattered start: scale %v light %v, want 0", s.Scale(), s.LightIntensity())
	}

	// Targets at or below the threshold keep the star hidden
	s.Update(0.8, 1, 0.5)
	if s.Scale() != 0 {
		t.Errorf("scale = %v at threshold target, want 0", s.Scale())
	}

	for i := 0; i < 300; i++ {
		s.Update(1, float32(i)/60, 1.0/60)
	}
	if s.Scale() < 0.99 {
		t.Errorf("scale after 5s toward tree = %v, want ~1", s.Scale())
	}
	want := s.Scale() * float32(cfg.Star.LightIntensity)
	if s.LightIntensity() != want {
		t.Errorf("light intensity = %v, want %v", s.LightIntensity(), want)
	}
}

func TestStarBobAndSpin(t *testing.T) {
	cfg := config.Cfg()
	s := NewStar(cfg, 1)
	if s.Scale() != 1 {
		t.Fatalf("assembled start scale = %v, want 1", s.Scale())
	}

	apex := float32(cfg.Tree.Height/2 + cfg.Star.HoverOffset)
	amp := float32(cfg.Star.BobAmplitude)
	for i := 0; i < 200; i++ {
		tm := float32(i) * 0.05
		s.Update(1, tm, 0.05)
		y := s.Position().Y()
		if y < apex-amp-1e-5 || y > apex+amp+1e-5 {
			t.Fatalf("t=%v: y = %v outside apex +- bob", tm, y)
		}
		if want := tm * float32(cfg.Star.SpinSpeed); s.Spin() != want {
			t.Fatalf("t=%v: spin = %v, want %v", tm, s.Spin(), want)
		}
	}

	if got := s.Transform().Col(3).Vec3(); got != s.Position() {
		t.Errorf("transform translation = %v, want %v", got, s.Position())
	}
}
