package systems

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

func newTestSampler(seed int64) *Sampler {
	return NewSampler(config.Cfg(), rand.New(rand.NewSource(seed)))
}

// uniformKS returns the Kolmogorov-Smirnov distance between samples and U(0,1),
// using an evenly spaced reference grid.
func uniformKS(samples []float64) float64 {
	sort.Float64s(samples)
	ref := make([]float64, len(samples))
	for i := range ref {
		ref[i] = (float64(i) + 0.5) / float64(len(ref))
	}
	return stat.KolmogorovSmirnov(samples, nil, ref, nil)
}

func TestFoliageTreePositionBounds(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(1)
	H := float64(cfg.Tree.Height)
	R := float64(cfg.Tree.Radius) * cfg.Foliage.RadiusOverflow

	for i := 0; i < 20000; i++ {
		p := s.FoliageTreePosition(i)
		y := float64(p.Y())
		if y < -H/2-1e-4 || y > H/2+1e-4 {
			t.Fatalf("element %d: y=%v outside [%v, %v]", i, y, -H/2, H/2)
		}
		h := (y + H/2) / H
		maxR := (1 - h) * R
		r := math.Hypot(float64(p.X()), float64(p.Z()))
		if r > maxR+1e-3 {
			t.Fatalf("element %d: radius %v exceeds cone radius %v at y=%v", i, r, maxR, y)
		}
	}
}

func TestFoliageTreeDiskUniform(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(2)
	H := float64(cfg.Tree.Height)
	R := float64(cfg.Tree.Radius) * cfg.Foliage.RadiusOverflow

	const n = 20000
	samples := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		p := s.FoliageTreePosition(i)
		h := (float64(p.Y()) + H/2) / H
		maxR := (1 - h) * R
		if maxR < 1e-3 {
			continue
		}
		r := math.Hypot(float64(p.X()), float64(p.Z()))
		samples = append(samples, math.Min(1, (r*r)/(maxR*maxR)))
	}
	if d := uniformKS(samples); d > 0.02 {
		t.Errorf("(r/maxR)^2 not uniform: KS distance %v", d)
	}
}

func TestOrnamentTreePositionBounds(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(3)
	H := float64(cfg.Tree.Height)
	R := float64(cfg.Tree.Radius)
	j := cfg.Ornaments.RadialJitter

	const total = 1200
	prevY := math.Inf(-1)
	for i := 0; i < total; i++ {
		p := s.OrnamentTreePosition(i, total)
		y := float64(p.Y())
		if y < -H/2-1e-4 || y >= H/2 {
			t.Fatalf("slot %d: y=%v outside [%v, %v)", i, y, -H/2, H/2)
		}
		if y < prevY {
			t.Fatalf("slot %d: heights not stratified (%v after %v)", i, y, prevY)
		}
		prevY = y

		h := float64(i) / total
		maxR := (1 - h) * R
		r := math.Hypot(float64(p.X()), float64(p.Z()))
		if r < maxR*(1-j)-1e-3 || r > maxR*(1+j)+1e-3 {
			t.Fatalf("slot %d: radius %v outside jitter band of %v", i, r, maxR)
		}
	}
}

func TestOrnamentTreePositionEmptyTotal(t *testing.T) {
	s := newTestSampler(3)
	p := s.OrnamentTreePosition(0, 0)
	if math.IsNaN(float64(p.Y())) {
		t.Fatal("zero total produced NaN")
	}
}

func TestScatterPositionBoundsAndUniformity(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(4)
	S := cfg.Scatter.Radius

	const n = 20000
	cubes := make([]float64, n)
	for i := 0; i < n; i++ {
		p := s.ScatterPosition()
		r := float64(p.Len())
		if r > S+1e-3 {
			t.Fatalf("sample %d: |p|=%v exceeds scatter radius %v", i, r, S)
		}
		cubes[i] = math.Min(1, (r*r*r)/(S*S*S))
	}
	if d := uniformKS(cubes); d > 0.02 {
		t.Errorf("|p|^3/S^3 not uniform: KS distance %v", d)
	}
}

func TestShellPositionBounds(t *testing.T) {
	s := newTestSampler(5)
	for i := 0; i < 5000; i++ {
		r := s.ShellPosition(100, 50).Len()
		if r < 100-1e-2 || r > 150+1e-2 {
			t.Fatalf("sample %d: radius %v outside shell [100, 150]", i, r)
		}
	}
}

func TestFoliageAttributesRange(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(6)
	lo := float32(cfg.Foliage.SizeMin)
	hi := lo + float32(cfg.Foliage.SizeRange)
	for i := 0; i < 5000; i++ {
		seed, size := s.FoliageAttributes()
		if seed < 0 || seed >= 1 {
			t.Fatalf("seed %v outside [0,1)", seed)
		}
		if size < lo || size > hi {
			t.Fatalf("size %v outside [%v, %v]", size, lo, hi)
		}
	}
}

func TestOrnamentAttributesDistribution(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(7)

	const n = 20000
	boxes := 0
	for i := 0; i < n; i++ {
		o := s.OrnamentAttributes()
		switch o.Kind {
		case components.KindBox:
			boxes++
			if o.Scale < 0.5 || o.Scale > 1.3 {
				t.Fatalf("box scale %v outside [0.5, 1.3]", o.Scale)
			}
		case components.KindBall:
			if o.Scale < 0.3 || o.Scale > 0.7 {
				t.Fatalf("ball scale %v outside [0.3, 0.7]", o.Scale)
			}
		}
		half := float32(cfg.Ornaments.SpinRange) / 2
		if o.RotSpeed < -half || o.RotSpeed > half {
			t.Fatalf("rotation speed %v outside +-%v", o.RotSpeed, half)
		}
		for axis := 0; axis < 3; axis++ {
			if o.Rotation[axis] < 0 || o.Rotation[axis] > math.Pi {
				t.Fatalf("initial rotation %v outside [0, pi]", o.Rotation)
			}
		}
	}

	frac := float64(boxes) / n
	if math.Abs(frac-cfg.Ornaments.BoxFraction) > 0.02 {
		t.Errorf("box fraction = %.3f, want ~%.2f", frac, cfg.Ornaments.BoxFraction)
	}
}

func TestOrnamentPaletteWeighting(t *testing.T) {
	cfg := config.Cfg()
	s := newTestSampler(8)

	const n = 14000
	gold := cfg.Derived.GoldMetallic
	bronze := cfg.Derived.Bronze
	var goldCount, bronzeCount int
	for i := 0; i < n; i++ {
		c := s.OrnamentAttributes().Color
		switch c {
		case gold:
			goldCount++
		case bronze:
			bronzeCount++
		}
	}
	// Gold appears twice in the draw list, bronze once
	ratio := float64(goldCount) / float64(bronzeCount)
	if ratio < 1.7 || ratio > 2.3 {
		t.Errorf("gold/bronze ratio = %.2f, want ~2", ratio)
	}
}

func TestSamplerDeterministic(t *testing.T) {
	a := newTestSampler(99)
	b := newTestSampler(99)
	for i := 0; i < 100; i++ {
		if pa, pb := a.FoliageTreePosition(i), b.FoliageTreePosition(i); pa != pb {
			t.Fatalf("foliage %d differs: %v vs %v", i, pa, pb)
		}
		if pa, pb := a.ScatterPosition(), b.ScatterPosition(); pa != pb {
			t.Fatalf("scatter %d differs: %v vs %v", i, pa, pb)
		}
		if oa, ob := a.OrnamentAttributes(), b.OrnamentAttributes(); oa != ob {
			t.Fatalf("ornament %d differs: %+v vs %+v", i, oa, ob)
		}
	}
}
