package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/motion"
)

// Foliage shader constants that are not exposed as configuration.
const (
	driftPositionScale = 0.05 // base position contribution to drift phase
	driftNoiseScale    = 20.0 // seed contribution to drift phase
	breathFrequency    = 1.5
	breathHeightScale  = 0.5
	sizePulse          = 0.4
	twinkleBase        = 0.8
	twinkleDepth       = 0.2
)

// FoliageUniforms are the per-frame values shared by every particle.
type FoliageUniforms struct {
	Time     float32
	Progress float32 // damped, before easing
	Eased    float32
}

// FoliagePalette holds the colors used by the particle fragment model.
type FoliagePalette struct {
	Green mgl32.Vec3
	Gold  mgl32.Vec3
	Glow  mgl32.Vec3
}

// NewFoliagePalette builds the fragment palette from the configured colors.
func NewFoliagePalette(cfg *config.Config) FoliagePalette {
	d := cfg.Derived
	return FoliagePalette{
		Green: mgl32.Vec3{float32(d.EmeraldDeep.R), float32(d.EmeraldDeep.G), float32(d.EmeraldDeep.B)},
		Gold:  mgl32.Vec3{float32(d.GoldMetallic.R), float32(d.GoldMetallic.G), float32(d.GoldMetallic.B)},
		Glow:  mgl32.Vec3{float32(d.Glow.R), float32(d.Glow.G), float32(d.Glow.B)},
	}
}

// FoliageField animates the particle cloud. Storage is struct-of-arrays over
// flat float32 buffers allocated once; xyz buffers are interleaved.
type FoliageField struct {
	count int

	// Immutable after construction
	tree    []float32
	scatter []float32
	delta   []float32 // tree - scatter
	random  []float32
	size    []float32

	// Per-frame outputs
	base      []float32
	position  []float32
	pointSize []float32
	alpha     []float32

	scatterVec blas32.Vector
	deltaVec   blas32.Vector
	baseVec    blas32.Vector

	ctrl     *motion.Controller
	uniforms FoliageUniforms

	driftSpeed  float32
	driftAmp    float32
	driftLift   float32
	breathAmp   float32
	jitterAmp   float32
	sparkleAt   float32
	pointScale  float32
	pool        *WorkerPool
	updateRange RangeFunc
}

// NewFoliageField samples count particles and allocates every buffer.
// pool may be nil to run single-threaded.
func NewFoliageField(cfg *config.Config, sampler *Sampler, pool *WorkerPool) *FoliageField {
	n := cfg.Foliage.Count
	f := &FoliageField{
		count:     n,
		tree:      make([]float32, 3*n),
		scatter:   make([]float32, 3*n),
		delta:     make([]float32, 3*n),
		random:    make([]float32, n),
		size:      make([]float32, n),
		base:      make([]float32, 3*n),
		position:  make([]float32, 3*n),
		pointSize: make([]float32, n),
		alpha:     make([]float32, n),

		ctrl: motion.NewController(float32(cfg.Motion.DampingRate), float32(cfg.Motion.InitialProgress)),

		driftSpeed: float32(cfg.Motion.DriftSpeed),
		driftAmp:   float32(cfg.Motion.DriftAmplitude),
		driftLift:  float32(cfg.Motion.DriftLift),
		breathAmp:  float32(cfg.Motion.BreathAmplitude),
		jitterAmp:  float32(cfg.Motion.JitterAmplitude),
		sparkleAt:  float32(cfg.Foliage.SparkleThreshold),
		pointScale: float32(cfg.Foliage.PointScale),
		pool:       pool,
	}
	f.updateRange = f.animateRange

	for i := 0; i < n; i++ {
		tp := sampler.FoliageTreePosition(i)
		sp := sampler.ScatterPosition()
		copy(f.tree[3*i:3*i+3], tp[:])
		copy(f.scatter[3*i:3*i+3], sp[:])
		f.random[i], f.size[i] = sampler.FoliageAttributes()
	}
	for i := range f.delta {
		f.delta[i] = f.tree[i] - f.scatter[i]
	}

	f.scatterVec = blas32.Vector{N: 3 * n, Inc: 1, Data: f.scatter}
	f.deltaVec = blas32.Vector{N: 3 * n, Inc: 1, Data: f.delta}
	f.baseVec = blas32.Vector{N: 3 * n, Inc: 1, Data: f.base}

	f.uniforms.Progress = f.ctrl.Progress()
	f.uniforms.Eased = f.ctrl.Eased()
	f.animate()
	return f
}

// Update advances the progress controller once toward target, then
// recomputes every particle for the given scene time.
func (f *FoliageField) Update(target, time, dt float32) {
	f.uniforms.Progress = f.ctrl.Advance(target, dt)
	f.uniforms.Eased = f.ctrl.Eased()
	f.uniforms.Time = time
	f.animate()
}

func (f *FoliageField) animate() {
	if f.count == 0 {
		return
	}
	// base = scatter + e * (tree - scatter)
	blas32.Copy(f.scatterVec, f.baseVec)
	blas32.Axpy(f.uniforms.Eased, f.deltaVec, f.baseVec)

	f.pool.Run(f.count, f.updateRange)
}

// animateRange applies drift, breathing, jitter, size pulse and twinkle to
// particles [start, end). Reads only shared uniforms and writes disjoint slots.
func (f *FoliageField) animateRange(start, end int) {
	e := f.uniforms.Eased
	floatState := 1 - e
	t := f.uniforms.Time
	td := t * f.driftSpeed

	for i := start; i < end; i++ {
		j := 3 * i
		bx, by, bz := f.base[j], f.base[j+1], f.base[j+2]
		r := f.random[i]
		noise := r * driftNoiseScale

		// Scatter drift, fades out as the tree forms
		dx := math32.Sin(td+by*driftPositionScale+noise) * f.driftAmp * floatState
		dy := math32.Cos(td*0.7+bx*driftPositionScale+noise) * f.driftLift * floatState
		dz := math32.Sin(td*0.9+bz*driftPositionScale+noise) * f.driftAmp * floatState

		// Radial breathing away from the trunk axis
		var nx, nz float32
		if radial := math32.Sqrt(bx*bx + bz*bz); radial > 0 {
			breath := math32.Sin(t*breathFrequency+by*breathHeightScale) * f.breathAmp * e
			nx = bx / radial * breath
			nz = bz / radial * breath
		}

		jx := math32.Sin(t*3+r*50) * f.jitterAmp
		jy := math32.Cos(t*2.5+r*30) * f.jitterAmp
		jz := math32.Sin(t*3.5+r*20) * f.jitterAmp

		f.position[j] = bx + dx + nx + jx
		f.position[j+1] = by + dy + jy
		f.position[j+2] = bz + dz + nz + jz

		f.pointSize[i] = f.size[i] * (1 + sizePulse*math32.Sin(t*3+r*100))
		f.alpha[i] = twinkleBase + twinkleDepth*math32.Sin(t*3+r*10)
	}
}

// Count returns the number of particles.
func (f *FoliageField) Count() int {
	return f.count
}

// Uniforms returns the time and progress used by the last update.
func (f *FoliageField) Uniforms() FoliageUniforms {
	return f.uniforms
}

// Controller returns the field's progress controller.
func (f *FoliageField) Controller() *motion.Controller {
	return f.ctrl
}

// Positions returns the interleaved xyz output buffer. Callers must not modify it.
func (f *FoliageField) Positions() []float32 { return f.position }

// Bases returns the interpolated positions before drift, breathing and jitter.
func (f *FoliageField) Bases() []float32 { return f.base }

// PointSizes returns the pulsed base sizes.
func (f *FoliageField) PointSizes() []float32 { return f.pointSize }

// Alphas returns the twinkle alpha per particle.
func (f *FoliageField) Alphas() []float32 { return f.alpha }

// Seeds returns the per-particle random seeds.
func (f *FoliageField) Seeds() []float32 { return f.random }

// Position returns the final position of particle i.
func (f *FoliageField) Position(i int) (mgl32.Vec3, bool) {
	if i < 0 || i >= f.count {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{f.position[3*i], f.position[3*i+1], f.position[3*i+2]}, true
}

// Anchors returns the tree and scatter positions of particle i.
func (f *FoliageField) Anchors(i int) (tree, scatter mgl32.Vec3, ok bool) {
	if i < 0 || i >= f.count {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	j := 3 * i
	tree = mgl32.Vec3{f.tree[j], f.tree[j+1], f.tree[j+2]}
	scatter = mgl32.Vec3{f.scatter[j], f.scatter[j+1], f.scatter[j+2]}
	return tree, scatter, true
}

// Sparkle reports whether particle i renders with a hot core.
func (f *FoliageField) Sparkle(i int) bool {
	if i < 0 || i >= f.count {
		return false
	}
	return IsSparkle(f.random[i], f.sparkleAt)
}

// ApparentSize returns the on-screen size in pixels of particle i at view depth.
func (f *FoliageField) ApparentSize(i int, depth float32) float32 {
	if i < 0 || i >= f.count {
		return 0
	}
	return ApparentPointSize(f.pointSize[i], f.pointScale, depth)
}

// IsSparkle reports whether a particle with the given seed is in the sparkle
// subset. It depends only on the seed, so the subset is stable across frames.
func IsSparkle(seed, threshold float32) bool {
	return seed >= threshold
}

// ApparentPointSize returns size * scale / depth, where depth is the positive
// distance along the view axis. Points at or behind the eye have no size.
func ApparentPointSize(size, scale, depth float32) float32 {
	if !(depth > 0) {
		return 0
	}
	return size * scale / depth
}

// PointWorldSize converts a perspective point size into the world-space
// billboard size that projects to the same pixels at any depth.
func PointWorldSize(size, scale, viewportHeight, fovY float32) float32 {
	if !(viewportHeight > 0) {
		return 0
	}
	pixelsPerUnit := viewportHeight / 2 / math32.Tan(fovY/2)
	return size * scale / pixelsPerUnit
}

// FoliageFragment evaluates the particle sprite at distance d from its
// center (in sprite units, edge at 0.5). It returns the color, the alpha
// strength before twinkle, and false where the fragment is discarded.
func FoliageFragment(d float32, sparkle bool, pal FoliagePalette) (mgl32.Vec3, float32, bool) {
	if d > 0.5 || d < 0 {
		return mgl32.Vec3{}, 0, false
	}
	core := 1 - 2*d
	strength := math32.Pow(core, 1.2)

	if sparkle {
		return mixVec(pal.Gold, pal.Glow, core*0.8), strength, true
	}
	rim := smoothstep(0.1, 0.45, d)
	return mixVec(pal.Green.Mul(2), pal.Gold, rim*0.8), strength, true
}

func mixVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := motion.Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
