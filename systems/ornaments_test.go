package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

func newTestOrnaments(count int, initial float64, seed int64) *OrnamentField {
	cfg := *config.Cfg()
	cfg.Ornaments.Count = count
	cfg.Motion.InitialProgress = initial
	return NewOrnamentField(&cfg, NewSampler(&cfg, rand.New(rand.NewSource(seed))))
}

type recordingUploader struct {
	calls      map[string]int
	colorCalls map[string]int
}

func newRecordingUploader() *recordingUploader {
	return &recordingUploader{calls: map[string]int{}, colorCalls: map[string]int{}}
}

func (r *recordingUploader) Upload(buf *InstanceBuffer, colors bool) {
	r.calls[buf.Name]++
	if colors {
		r.colorCalls[buf.Name]++
	}
}

func TestOrnamentSlotsPartitionElements(t *testing.T) {
	f := newTestOrnaments(1200, 0, 21)
	if f.Count() != 1200 {
		t.Fatalf("Count() = %d, want 1200", f.Count())
	}
	if got := f.Balls().Len() + f.Boxes().Len(); got != 1200 {
		t.Errorf("balls + boxes = %d, want 1200", got)
	}
	if f.Ribbons().Len() != f.Boxes().Len() {
		t.Errorf("ribbons = %d, boxes = %d, want equal", f.Ribbons().Len(), f.Boxes().Len())
	}

	seen := map[components.OrnamentKind]map[int32]bool{
		components.KindBall: {},
		components.KindBox:  {},
	}
	for id := 0; id < f.Count(); id++ {
		orn, ok := f.Ornament(id)
		if !ok {
			t.Fatalf("Ornament(%d) missing", id)
		}
		if orn.ID != uint32(id) {
			t.Fatalf("Ornament(%d).ID = %d", id, orn.ID)
		}
		if seen[orn.Kind][orn.Slot] {
			t.Fatalf("slot %d of %v assigned twice", orn.Slot, orn.Kind)
		}
		seen[orn.Kind][orn.Slot] = true
	}
}

func TestRibbonMatchesBoxEveryFrame(t *testing.T) {
	f := newTestOrnaments(600, 0, 22)
	for step := 0; step < 20; step++ {
		target := float32(step % 2)
		f.Update(target, float32(step)*0.37, 0.1)
		for i, m := range f.Boxes().Matrices {
			if f.Ribbons().Matrices[i] != m {
				t.Fatalf("step %d: ribbon %d matrix differs from box", step, i)
			}
		}
	}
}

func TestRibbonColorIsGold(t *testing.T) {
	f := newTestOrnaments(300, 0, 23)
	gold := config.Cfg().Derived.GoldMetallic
	want := mgl32.Vec3{float32(gold.R), float32(gold.G), float32(gold.B)}
	for i, c := range f.Ribbons().Colors {
		if c != want {
			t.Fatalf("ribbon %d color = %v, want %v", i, c, want)
		}
	}
}

func TestOrnamentFlushOncePerFrame(t *testing.T) {
	f := newTestOrnaments(200, 0, 24)
	up := newRecordingUploader()

	if n := f.Flush(up); n != 3 {
		t.Fatalf("first flush uploaded %d buffers, want 3", n)
	}
	if n := f.Flush(up); n != 0 {
		t.Fatalf("second flush without update uploaded %d buffers, want 0", n)
	}

	for frame := 0; frame < 5; frame++ {
		f.Update(1, float32(frame)*0.016, 0.016)
		f.Flush(up)
	}
	for _, name := range []string{"balls", "boxes", "ribbons"} {
		if up.calls[name] != 6 {
			t.Errorf("%s uploaded %d times, want 6", name, up.calls[name])
		}
		if up.colorCalls[name] != 1 {
			t.Errorf("%s colors uploaded %d times, want 1", name, up.colorCalls[name])
		}
	}
	if f.Boxes().Uploads() != 6 || f.Boxes().Dirty() {
		t.Errorf("boxes uploads=%d dirty=%v, want 6 and clean", f.Boxes().Uploads(), f.Boxes().Dirty())
	}
}

func TestOrnamentsSettleOnTree(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Ornaments.Count = 400
	cfg.Motion.InitialProgress = 1
	sampler := NewSampler(&cfg, rand.New(rand.NewSource(25)))
	f := NewOrnamentField(&cfg, sampler)
	f.Update(1, 12.5, 0.016)

	// Re-sample with the same seed to recover the tree anchors
	ref := NewSampler(&cfg, rand.New(rand.NewSource(25)))
	for id := 0; id < f.Count(); id++ {
		tree := ref.OrnamentTreePosition(id, cfg.Ornaments.Count)
		ref.ScatterPosition()
		ref.OrnamentAttributes()

		m, ok := f.Transform(id)
		if !ok {
			t.Fatalf("Transform(%d) missing", id)
		}
		if d := m.Col(3).Vec3().Sub(tree).Len(); d > 1e-4 {
			t.Fatalf("ornament %d is %v from its tree slot at progress 1", id, d)
		}
	}
}

func TestOrnamentBallGrowth(t *testing.T) {
	f := newTestOrnaments(300, 0, 26)
	f.Update(0, 0, 0)

	for id := 0; id < f.Count(); id++ {
		orn, _ := f.Ornament(id)
		if orn.Kind != components.KindBall {
			continue
		}
		m, _ := f.Transform(id)
		got := m.Col(0).Vec3().Len()
		want := orn.Scale * 0.8
		if math.Abs(float64(got-want)) > 1e-4 {
			t.Fatalf("ball %d scattered scale = %v, want %v", id, got, want)
		}
		return
	}
	t.Skip("no balls sampled")
}

func TestOrnamentAccessorsOutOfRange(t *testing.T) {
	f := newTestOrnaments(10, 0, 27)
	for _, id := range []int{-1, 10, 1000} {
		if _, ok := f.Ornament(id); ok {
			t.Errorf("Ornament(%d) ok, want false", id)
		}
		if _, ok := f.Transform(id); ok {
			t.Errorf("Transform(%d) ok, want false", id)
		}
	}
	if _, ok := f.Boxes().Matrix(f.Boxes().Len()); ok {
		t.Error("Matrix past end ok, want false")
	}
}

func TestComposeTransformOrder(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	rot := mgl32.Vec3{0.3, -1.1, 2.0}
	const scale = 1.7

	m := ComposeTransform(pos, rot, scale)
	if got := m.Col(3).Vec3(); got != pos {
		t.Errorf("translation = %v, want %v", got, pos)
	}

	// Apply S, then Rz, Ry, Rx, then T to a probe vector
	v := mgl32.Vec3{0.5, -0.25, 2}
	want := v.Mul(scale)
	want = mgl32.Rotate3DZ(rot[2]).Mul3x1(want)
	want = mgl32.Rotate3DY(rot[1]).Mul3x1(want)
	want = mgl32.Rotate3DX(rot[0]).Mul3x1(want)
	want = want.Add(pos)

	got := m.Mul4x1(v.Vec4(1)).Vec3()
	if got.Sub(want).Len() > 1e-5 {
		t.Errorf("transform(%v) = %v, want %v", v, got, want)
	}
}
