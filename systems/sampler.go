package systems

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// goldenAngle is pi * (3 - sqrt(5)), the spiral step between consecutive
// elements of the cone.
const goldenAngle = 2.39996322972865332

// OrnamentSample holds the initialization attributes of one ornament.
type OrnamentSample struct {
	Kind     components.OrnamentKind
	Seed     float32
	Scale    float32
	RotSpeed float32
	Rotation mgl32.Vec3
	Color    colorful.Color
}

// Sampler generates the tree and scatter positions and per-element attributes
// for every field. All randomness comes from the injected generator, so a fixed
// seed reproduces the scene exactly.
type Sampler struct {
	rng *rand.Rand

	height  float32
	radius  float32
	scatter float32

	foliage   config.FoliageConfig
	ornaments config.OrnamentsConfig
	palette   []colorful.Color
}

// NewSampler creates a sampler over the configured extents.
func NewSampler(cfg *config.Config, rng *rand.Rand) *Sampler {
	return &Sampler{
		rng:       rng,
		height:    cfg.Derived.TreeHeight32,
		radius:    cfg.Derived.TreeRadius32,
		scatter:   cfg.Derived.ScatterRadius32,
		foliage:   cfg.Foliage,
		ornaments: cfg.Ornaments,
		palette:   cfg.Derived.OrnamentPalette,
	}
}

// Rand exposes the underlying generator.
func (s *Sampler) Rand() *rand.Rand {
	return s.rng
}

// FoliageTreePosition samples a point inside the foliage cone. Heights are
// uniform, radii are area-uniform within the disk at that height and the
// angle follows a jittered golden spiral on the element index.
func (s *Sampler) FoliageTreePosition(index int) mgl32.Vec3 {
	h := s.rng.Float32()
	y := h*s.height - s.height/2
	maxR := (1 - h) * s.radius * float32(s.foliage.RadiusOverflow)
	r := maxR * math32.Sqrt(s.rng.Float32())
	theta := float32(index)*goldenAngle + s.rng.Float32()*float32(s.foliage.AngleJitter)
	return mgl32.Vec3{r * math32.Cos(theta), y, r * math32.Sin(theta)}
}

// OrnamentTreePosition samples an ornament slot on the cone surface. Heights
// are stratified by index so ornaments cover the tree evenly.
func (s *Sampler) OrnamentTreePosition(index, total int) mgl32.Vec3 {
	var h float32
	if total > 0 {
		h = float32(index) / float32(total)
	}
	y := s.height * (h - 0.5)
	maxR := (1 - h) * s.radius
	j := float32(s.ornaments.RadialJitter)
	r := maxR * (1 - j + 2*j*s.rng.Float32())
	theta := float32(index) * goldenAngle
	return mgl32.Vec3{r * math32.Cos(theta), y, r * math32.Sin(theta)}
}

// ScatterPosition samples a point uniformly inside the scatter sphere.
func (s *Sampler) ScatterPosition() mgl32.Vec3 {
	return s.ball(s.scatter)
}

// ShellPosition samples a point uniformly inside the spherical shell between
// radius and radius+depth.
func (s *Sampler) ShellPosition(radius, depth float32) mgl32.Vec3 {
	dir := s.direction()
	inner := radius * radius * radius
	outer := (radius + depth) * (radius + depth) * (radius + depth)
	r := math32.Cbrt(inner + (outer-inner)*s.rng.Float32())
	return dir.Mul(r)
}

// FoliageAttributes returns the phase seed and base point size of a particle.
func (s *Sampler) FoliageAttributes() (seed, size float32) {
	seed = s.rng.Float32()
	size = float32(s.foliage.SizeMin) + s.rng.Float32()*float32(s.foliage.SizeRange)
	return seed, size
}

// OrnamentAttributes draws kind, scale, spin, initial rotation and color.
func (s *Sampler) OrnamentAttributes() OrnamentSample {
	o := s.ornaments
	out := OrnamentSample{Kind: components.KindBall}
	if s.rng.Float64() < o.BoxFraction {
		out.Kind = components.KindBox
	}
	if out.Kind == components.KindBox {
		out.Scale = float32(o.BoxScaleMin) + s.rng.Float32()*float32(o.BoxScaleRange)
	} else {
		out.Scale = float32(o.BallScaleMin) + s.rng.Float32()*float32(o.BallScaleRange)
	}
	out.Color = s.paletteColor()
	out.RotSpeed = (s.rng.Float32() - 0.5) * float32(o.SpinRange)
	out.Rotation = mgl32.Vec3{
		s.rng.Float32() * math32.Pi,
		s.rng.Float32() * math32.Pi,
		s.rng.Float32() * math32.Pi,
	}
	out.Seed = s.rng.Float32()
	return out
}

// paletteColor draws uniformly from the weighted palette list.
func (s *Sampler) paletteColor() colorful.Color {
	if len(s.palette) == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return s.palette[s.rng.Intn(len(s.palette))]
}

// ball samples uniformly by volume: radius from the cube root of u.
func (s *Sampler) ball(radius float32) mgl32.Vec3 {
	r := radius * math32.Cbrt(s.rng.Float32())
	return s.direction().Mul(r)
}

// direction returns a uniformly distributed unit vector.
func (s *Sampler) direction() mgl32.Vec3 {
	theta := s.rng.Float32() * 2 * math32.Pi
	phi := math32.Acos(2*s.rng.Float32() - 1)
	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		sinPhi * math32.Cos(theta),
		sinPhi * math32.Sin(theta),
		math32.Cos(phi),
	}
}
