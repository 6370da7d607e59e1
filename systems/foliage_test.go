package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/evergreen/config"
)

func newTestFoliage(count int, initial float64, seed int64, pool *WorkerPool) *FoliageField {
	cfg := *config.Cfg()
	cfg.Foliage.Count = count
	cfg.Motion.InitialProgress = initial
	return NewFoliageField(&cfg, NewSampler(&cfg, rand.New(rand.NewSource(seed))), pool)
}

func TestFoliageScatteredBaseStaysAtScatter(t *testing.T) {
	f := newTestFoliage(500, 0, 11, nil)

	f.Update(0, 1.0, 1.0/60)
	first := append([]float32(nil), f.Positions()...)
	for i := 0; i < f.Count(); i++ {
		_, scatter, _ := f.Anchors(i)
		base := mgl32.Vec3{f.Bases()[3*i], f.Bases()[3*i+1], f.Bases()[3*i+2]}
		if base != scatter {
			t.Fatalf("particle %d: base %v != scatter %v at progress 0", i, base, scatter)
		}
	}

	f.Update(0, 2.5, 1.0/60)
	moved := 0
	for i := range first {
		if first[i] != f.Positions()[i] {
			moved++
		}
	}
	if moved == 0 {
		t.Error("final positions did not change with time while scattered")
	}
}

func TestFoliageTreeBaseAtTree(t *testing.T) {
	f := newTestFoliage(500, 1, 12, nil)
	f.Update(1, 0.5, 1.0/60)

	if u := f.Uniforms(); u.Eased != 1 || u.Progress != 1 {
		t.Fatalf("uniforms = %+v, want progress and eased 1", u)
	}
	for i := 0; i < f.Count(); i++ {
		tree, _, _ := f.Anchors(i)
		base := mgl32.Vec3{f.Bases()[3*i], f.Bases()[3*i+1], f.Bases()[3*i+2]}
		if base.Sub(tree).Len() > 1e-4 {
			t.Fatalf("particle %d: base %v, want tree %v", i, base, tree)
		}
		// Drift vanishes; breathing and jitter stay small
		pos, _ := f.Position(i)
		if d := pos.Sub(tree).Len(); d > 0.2+0.1*float32(math.Sqrt(3))+1e-3 {
			t.Fatalf("particle %d: %v away from tree position in tree state", i, d)
		}
	}
}

func TestFoliageProgressWrittenOncePerUpdate(t *testing.T) {
	f := newTestFoliage(10, 0, 13, nil)
	f.Update(1, 0.1, 0.1)
	want := float32(1 - math.Exp(-1.5*0.1))
	if got := f.Uniforms().Progress; math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("progress after one update = %v, want %v", got, want)
	}
}

func TestFoliageUpdateReusesBuffers(t *testing.T) {
	f := newTestFoliage(100, 0, 14, nil)
	pos := &f.Positions()[0]
	size := &f.PointSizes()[0]
	for i := 0; i < 10; i++ {
		f.Update(1, float32(i)*0.1, 0.1)
	}
	if pos != &f.Positions()[0] || size != &f.PointSizes()[0] {
		t.Error("update reallocated output buffers")
	}
}

func TestFoliageParallelMatchesSerial(t *testing.T) {
	pool := NewWorkerPool(4, 0, 1)
	defer pool.Close()

	serial := newTestFoliage(3000, 0, 15, nil)
	parallel := newTestFoliage(3000, 0, 15, pool)
	for step := 0; step < 5; step++ {
		tm := float32(step) * 0.25
		serial.Update(1, tm, 0.25)
		parallel.Update(1, tm, 0.25)
	}
	for i, v := range serial.Positions() {
		if parallel.Positions()[i] != v {
			t.Fatalf("position component %d: parallel %v != serial %v", i, parallel.Positions()[i], v)
		}
	}
}

func TestFoliageAlphaAndSizeRanges(t *testing.T) {
	cfg := config.Cfg()
	f := newTestFoliage(1000, 0.5, 16, nil)
	f.Update(1, 3.3, 0.016)

	maxSize := float32(cfg.Foliage.SizeMin+cfg.Foliage.SizeRange) * 1.4
	for i := 0; i < f.Count(); i++ {
		a := f.Alphas()[i]
		if a < 0.6-1e-6 || a > 1+1e-6 {
			t.Fatalf("alpha %v outside [0.6, 1]", a)
		}
		s := f.PointSizes()[i]
		if s < 0 || s > maxSize+1e-4 {
			t.Fatalf("point size %v outside [0, %v]", s, maxSize)
		}
	}
}

func TestFoliageAccessorsOutOfRange(t *testing.T) {
	f := newTestFoliage(3, 0, 17, nil)
	for _, i := range []int{-1, 3, 100} {
		if _, ok := f.Position(i); ok {
			t.Errorf("Position(%d) ok, want false", i)
		}
		if _, _, ok := f.Anchors(i); ok {
			t.Errorf("Anchors(%d) ok, want false", i)
		}
		if f.Sparkle(i) {
			t.Errorf("Sparkle(%d) = true out of range", i)
		}
		if f.ApparentSize(i, 10) != 0 {
			t.Errorf("ApparentSize(%d) != 0 out of range", i)
		}
	}
}

func TestFoliageEmptyField(t *testing.T) {
	f := newTestFoliage(0, 0, 18, nil)
	f.Update(1, 1, 0.1)
	if f.Count() != 0 || len(f.Positions()) != 0 {
		t.Errorf("empty field has %d particles", f.Count())
	}
}

func TestSparkleDependsOnlyOnSeed(t *testing.T) {
	tests := []struct {
		seed float32
		want bool
	}{
		{0, false},
		{0.5, false},
		{0.8499, false},
		{0.85, true},
		{0.99, true},
	}
	for _, tt := range tests {
		if got := IsSparkle(tt.seed, 0.85); got != tt.want {
			t.Errorf("IsSparkle(%v) = %v, want %v", tt.seed, got, tt.want)
		}
	}
}

func TestApparentPointSize(t *testing.T) {
	if got := ApparentPointSize(5, 80, 10); got != 40 {
		t.Errorf("ApparentPointSize(5, 80, 10) = %v, want 40", got)
	}
	if a, b := ApparentPointSize(5, 80, 10), ApparentPointSize(5, 80, 20); a != 2*b {
		t.Errorf("doubling depth gave %v -> %v, want half", a, b)
	}
	if got := ApparentPointSize(5, 80, 0); got != 0 {
		t.Errorf("zero depth gave %v, want 0", got)
	}
	if got := ApparentPointSize(5, 80, -3); got != 0 {
		t.Errorf("negative depth gave %v, want 0", got)
	}
}

func TestPointWorldSizeProjectsToApparentSize(t *testing.T) {
	const (
		viewport = float32(800)
		fov      = float32(math.Pi / 4)
		depth    = float32(30)
	)
	world := PointWorldSize(6, 80, viewport, fov)
	pixels := world * viewport / 2 / float32(math.Tan(float64(fov)/2)) / depth
	if want := ApparentPointSize(6, 80, depth); math.Abs(float64(pixels-want)) > 1e-3 {
		t.Errorf("projected %v px, want %v", pixels, want)
	}
}

func TestFoliageFragment(t *testing.T) {
	pal := NewFoliagePalette(config.Cfg())

	if _, _, ok := FoliageFragment(0.51, false, pal); ok {
		t.Error("fragment outside radius 0.5 not discarded")
	}

	col, strength, ok := FoliageFragment(0, false, pal)
	if !ok || strength != 1 {
		t.Fatalf("center: ok=%v strength=%v, want visible at full strength", ok, strength)
	}
	if !col.ApproxEqual(pal.Green.Mul(2)) {
		t.Errorf("center color = %v, want boosted green %v", col, pal.Green.Mul(2))
	}

	_, edge, ok := FoliageFragment(0.5, false, pal)
	if !ok || edge != 0 {
		t.Errorf("edge: ok=%v strength=%v, want visible at zero strength", ok, edge)
	}

	rim, _, _ := FoliageFragment(0.45, false, pal)
	wantRim := pal.Green.Mul(2).Add(pal.Gold.Sub(pal.Green.Mul(2)).Mul(0.8))
	if !rim.ApproxEqualThreshold(wantRim, 1e-5) {
		t.Errorf("rim color = %v, want %v", rim, wantRim)
	}

	hot, _, _ := FoliageFragment(0, true, pal)
	wantHot := pal.Gold.Add(pal.Glow.Sub(pal.Gold).Mul(0.8))
	if !hot.ApproxEqualThreshold(wantHot, 1e-5) {
		t.Errorf("sparkle core = %v, want %v", hot, wantHot)
	}
}

func BenchmarkFoliageBaseScalar(b *testing.B) {
	f := newTestFoliage(15000, 0, 1, nil)
	e := float32(0.5)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range f.base {
			f.base[i] = f.scatter[i] + f.delta[i]*e
		}
	}
}

func BenchmarkFoliageBaseBLAS(b *testing.B) {
	f := newTestFoliage(15000, 0, 1, nil)
	e := float32(0.5)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Copy(f.scatterVec, f.baseVec)
		blas32.Axpy(e, f.deltaVec, f.baseVec)
	}
}

func BenchmarkFoliageUpdate(b *testing.B) {
	pool := NewWorkerPool(0, 4096, 2048)
	defer pool.Close()
	f := newTestFoliage(15000, 0, 1, pool)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		f.Update(1, float32(n)*0.016, 0.016)
	}
}
