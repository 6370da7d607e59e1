package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/motion"
)

// InstanceBuffer is the contiguous per-instance output of one collection.
// Writers mark it dirty; Flush uploads it once and clears the flag.
type InstanceBuffer struct {
	Name     string
	Matrices []mgl32.Mat4
	Colors   []mgl32.Vec3

	matricesDirty bool
	colorsDirty   bool
	uploads       int
}

func newInstanceBuffer(name string, n int) *InstanceBuffer {
	return &InstanceBuffer{
		Name:     name,
		Matrices: make([]mgl32.Mat4, n),
		Colors:   make([]mgl32.Vec3, n),
	}
}

// Len returns the instance count.
func (b *InstanceBuffer) Len() int {
	return len(b.Matrices)
}

// Dirty reports whether the buffer has writes not yet uploaded.
func (b *InstanceBuffer) Dirty() bool {
	return b.matricesDirty || b.colorsDirty
}

// Uploads returns how many times the buffer has been flushed.
func (b *InstanceBuffer) Uploads() int {
	return b.uploads
}

// Matrix returns instance i's transform.
func (b *InstanceBuffer) Matrix(i int) (mgl32.Mat4, bool) {
	if i < 0 || i >= len(b.Matrices) {
		return mgl32.Mat4{}, false
	}
	return b.Matrices[i], true
}

// Uploader receives dirty instance buffers. colors is true when the color
// data changed since the last upload.
type Uploader interface {
	Upload(buf *InstanceBuffer, colors bool)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(buf *InstanceBuffer, colors bool)

// Upload calls f.
func (f UploaderFunc) Upload(buf *InstanceBuffer, colors bool) {
	f(buf, colors)
}

// ornamentParams holds the per-frame motion constants in float32.
type ornamentParams struct {
	ballFloat    float32
	boxFloat     float32
	boxFloatFreq float32
	boxSpin      float32
	ballGrowth   float32
}

// OrnamentField animates the instanced ornaments. Elements live in an ECS
// world; every frame one query writes the transforms of both kinds into
// their instance buffers, and ribbons copy the box transforms.
type OrnamentField struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Anchor, components.Ornament, components.Tint]
	filter *ecs.Filter3[components.Anchor, components.Ornament, components.Tint]
	ornMap *ecs.Map1[components.Ornament]

	entities []ecs.Entity // by ornament id

	balls   *InstanceBuffer
	boxes   *InstanceBuffer
	ribbons *InstanceBuffer

	ctrl   *motion.Controller
	params ornamentParams
	time   float32
}

// NewOrnamentField samples cfg.Ornaments.Count ornaments and creates their entities.
func NewOrnamentField(cfg *config.Config, sampler *Sampler) *OrnamentField {
	world := ecs.NewWorld()
	f := &OrnamentField{
		world:  world,
		mapper: ecs.NewMap3[components.Anchor, components.Ornament, components.Tint](world),
		filter: ecs.NewFilter3[components.Anchor, components.Ornament, components.Tint](world),
		ornMap: ecs.NewMap1[components.Ornament](world),
		ctrl:   motion.NewController(float32(cfg.Motion.DampingRate), float32(cfg.Motion.InitialProgress)),
		params: ornamentParams{
			ballFloat:    float32(cfg.Ornaments.BallFloat),
			boxFloat:     float32(cfg.Ornaments.BoxFloat),
			boxFloatFreq: float32(cfg.Ornaments.BoxFloatFreq),
			boxSpin:      float32(cfg.Ornaments.BoxSpinFactor),
			ballGrowth:   float32(cfg.Ornaments.BallGrowth),
		},
	}

	total := cfg.Ornaments.Count
	samples := make([]OrnamentSample, total)
	anchors := make([]components.Anchor, total)
	var nBalls, nBoxes int
	for i := 0; i < total; i++ {
		anchors[i] = components.Anchor{
			Tree:    sampler.OrnamentTreePosition(i, total),
			Scatter: sampler.ScatterPosition(),
		}
		samples[i] = sampler.OrnamentAttributes()
		if samples[i].Kind == components.KindBox {
			nBoxes++
		} else {
			nBalls++
		}
	}

	f.balls = newInstanceBuffer("balls", nBalls)
	f.boxes = newInstanceBuffer("boxes", nBoxes)
	f.ribbons = newInstanceBuffer("ribbons", nBoxes)
	f.entities = make([]ecs.Entity, total)

	gold := cfg.Derived.GoldMetallic
	ribbonColor := mgl32.Vec3{float32(gold.R), float32(gold.G), float32(gold.B)}

	var ballSlot, boxSlot int32
	for i := 0; i < total; i++ {
		s := samples[i]
		orn := components.Ornament{
			ID:       uint32(i),
			Kind:     s.Kind,
			Seed:     s.Seed,
			Scale:    s.Scale,
			RotSpeed: s.RotSpeed,
			Rotation: s.Rotation,
		}
		tint := components.Tint{R: float32(s.Color.R), G: float32(s.Color.G), B: float32(s.Color.B)}

		if s.Kind == components.KindBox {
			orn.Slot = boxSlot
			f.boxes.Colors[boxSlot] = tint.Vec()
			f.ribbons.Colors[boxSlot] = ribbonColor
			boxSlot++
		} else {
			orn.Slot = ballSlot
			f.balls.Colors[ballSlot] = tint.Vec()
			ballSlot++
		}
		f.entities[i] = f.mapper.NewEntity(&anchors[i], &orn, &tint)
	}

	for _, b := range f.buffers() {
		b.colorsDirty = true
	}
	f.animate()
	return f
}

// Update advances the progress controller once toward target, then writes
// every instance transform for the given scene time.
func (f *OrnamentField) Update(target, time, dt float32) {
	f.ctrl.Advance(target, dt)
	f.time = time
	f.animate()
}

func (f *OrnamentField) animate() {
	e := f.ctrl.Eased()
	floatState := 1 - e
	t := f.time
	p := &f.params

	query := f.filter.Query()
	for query.Next() {
		anchor, orn, _ := query.Get()
		pos := anchor.Lerp(e)
		id := float32(orn.ID)

		switch orn.Kind {
		case components.KindBox:
			pos[1] += math32.Cos(t*p.boxFloatFreq+id) * p.boxFloat * floatState
			spin := t * orn.RotSpeed * p.boxSpin * floatState
			rot := mgl32.Vec3{orn.Rotation[0] + spin, orn.Rotation[1] + spin, orn.Rotation[2]}
			f.boxes.Matrices[orn.Slot] = ComposeTransform(pos, rot, orn.Scale)
		default:
			pos[1] += math32.Sin(t+id) * p.ballFloat * floatState
			spin := t * orn.RotSpeed * floatState
			rot := mgl32.Vec3{orn.Rotation[0] + spin, orn.Rotation[1] + spin, orn.Rotation[2]}
			scale := orn.Scale * (1 - p.ballGrowth + p.ballGrowth*e)
			f.balls.Matrices[orn.Slot] = ComposeTransform(pos, rot, scale)
		}
	}

	// Ribbons follow their box exactly
	copy(f.ribbons.Matrices, f.boxes.Matrices)

	for _, b := range f.buffers() {
		b.matricesDirty = true
	}
}

// Flush hands every dirty buffer to the uploader once and clears its flags.
// It returns the number of buffers uploaded.
func (f *OrnamentField) Flush(u Uploader) int {
	flushed := 0
	for _, b := range f.buffers() {
		if !b.Dirty() {
			continue
		}
		u.Upload(b, b.colorsDirty)
		b.matricesDirty = false
		b.colorsDirty = false
		b.uploads++
		flushed++
	}
	return flushed
}

func (f *OrnamentField) buffers() [3]*InstanceBuffer {
	return [3]*InstanceBuffer{f.balls, f.boxes, f.ribbons}
}

// Count returns the number of ornaments (ribbons excluded).
func (f *OrnamentField) Count() int {
	return len(f.entities)
}

// Balls returns the sphere instance buffer.
func (f *OrnamentField) Balls() *InstanceBuffer { return f.balls }

// Boxes returns the gift box instance buffer.
func (f *OrnamentField) Boxes() *InstanceBuffer { return f.boxes }

// Ribbons returns the ribbon instance buffer, parallel to Boxes.
func (f *OrnamentField) Ribbons() *InstanceBuffer { return f.ribbons }

// Controller returns the field's progress controller.
func (f *OrnamentField) Controller() *motion.Controller {
	return f.ctrl
}

// Ornament returns the attributes of the ornament with the given id.
func (f *OrnamentField) Ornament(id int) (components.Ornament, bool) {
	if id < 0 || id >= len(f.entities) {
		return components.Ornament{}, false
	}
	orn := f.ornMap.Get(f.entities[id])
	if orn == nil {
		return components.Ornament{}, false
	}
	return *orn, true
}

// Transform returns the current matrix of the ornament with the given id.
func (f *OrnamentField) Transform(id int) (mgl32.Mat4, bool) {
	orn, ok := f.Ornament(id)
	if !ok {
		return mgl32.Mat4{}, false
	}
	if orn.Kind == components.KindBox {
		return f.boxes.Matrix(int(orn.Slot))
	}
	return f.balls.Matrix(int(orn.Slot))
}

// ComposeTransform builds T * Rx * Ry * Rz * S for an XYZ Euler rotation and
// uniform scale.
func ComposeTransform(pos, rot mgl32.Vec3, scale float32) mgl32.Mat4 {
	m := mgl32.Translate3D(pos[0], pos[1], pos[2])
	m = m.Mul4(mgl32.HomogRotate3DX(rot[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(rot[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(rot[2]))
	return m.Mul4(mgl32.Scale3D(scale, scale, scale))
}
