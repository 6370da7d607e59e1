package renderer

import (
	_ "embed"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/systems"
)

//go:embed shaders/ornament.vs
var ornamentVS string

//go:embed shaders/ornament.fs
var ornamentFS string

// Surface holds the per-collection material parameters.
type Surface struct {
	Metalness float32
	Roughness float32
	Emissive  float32
}

// Surfaces per instance collection.
var surfaces = map[string]Surface{
	"balls":   {Metalness: 1.0, Roughness: 0.1, Emissive: 0.1},
	"boxes":   {Metalness: 0.3, Roughness: 0.4},
	"ribbons": {Metalness: 1.0, Roughness: 0.1, Emissive: 0.5},
}

// colorGroup is the subset of one instance buffer sharing a color. The
// instancing shader tints a whole draw call with one diffuse color.
type colorGroup struct {
	color   color.RGBA
	indices []int
	local   []mgl32.Mat4
	world   []rl.Matrix
}

// groupByColor partitions instance indices by 8-bit color, in order of
// first appearance.
func groupByColor(colors []mgl32.Vec3) []colorGroup {
	var groups []colorGroup
	index := make(map[color.RGBA]int)
	for i, c := range colors {
		key := toRGBA(c, 1)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, colorGroup{color: key})
		}
		groups[g].indices = append(groups[g].indices, i)
	}
	for g := range groups {
		n := len(groups[g].indices)
		groups[g].local = make([]mgl32.Mat4, n)
		groups[g].world = make([]rl.Matrix, n)
	}
	return groups
}

// batch is the renderer-side copy of one instance buffer.
type batch struct {
	groups []colorGroup
}

func (b *batch) upload(buf *systems.InstanceBuffer, colors bool) {
	if colors || b.groups == nil {
		b.groups = groupByColor(buf.Colors)
	}
	for g := range b.groups {
		grp := &b.groups[g]
		for j, idx := range grp.indices {
			grp.local[j] = buf.Matrices[idx]
		}
	}
}

// OrnamentRenderer draws the instanced ornaments. It implements
// systems.Uploader: flushed instance buffers are copied into per-color
// groups, then drawn with DrawMeshInstanced under the group transform.
type OrnamentRenderer struct {
	shader   rl.Shader
	material rl.Material
	meshes   map[string]rl.Mesh

	ambientLoc  int32
	metalLoc    int32
	roughLoc    int32
	emissiveLoc int32
	envLoc      int32
	lightPosLoc [maxLights]int32
	lightColLoc [maxLights]int32

	batches map[string]*batch
	order   []string

	initialized bool
}

// NewOrnamentRenderer creates an ornament renderer.
func NewOrnamentRenderer() *OrnamentRenderer {
	return &OrnamentRenderer{
		batches: make(map[string]*batch),
		order:   []string{"balls", "boxes", "ribbons"},
	}
}

// Init loads the instancing shader and meshes (must be called after raylib
// window is created).
func (r *OrnamentRenderer) Init() error {
	if r.initialized {
		return nil
	}

	r.shader = rl.LoadShaderFromMemory(ornamentVS, ornamentFS)
	if !rl.IsShaderValid(r.shader) {
		return fmt.Errorf("loading ornament shader failed")
	}
	r.shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(r.shader, "instanceTransform"))
	r.shader.UpdateLocation(rl.ShaderLocVectorView, rl.GetShaderLocation(r.shader, "viewPos"))
	r.ambientLoc = rl.GetShaderLocation(r.shader, "ambient")
	r.metalLoc = rl.GetShaderLocation(r.shader, "metalness")
	r.roughLoc = rl.GetShaderLocation(r.shader, "roughness")
	r.emissiveLoc = rl.GetShaderLocation(r.shader, "emissive")
	r.envLoc = rl.GetShaderLocation(r.shader, "envIntensity")
	for i := 0; i < maxLights; i++ {
		r.lightPosLoc[i] = rl.GetShaderLocation(r.shader, fmt.Sprintf("lightPos[%d]", i))
		r.lightColLoc[i] = rl.GetShaderLocation(r.shader, fmt.Sprintf("lightColor[%d]", i))
	}

	r.material = rl.LoadMaterialDefault()
	r.material.Shader = r.shader

	r.meshes = map[string]rl.Mesh{
		"balls":   rl.GenMeshSphere(1, 32, 32),
		"boxes":   rl.GenMeshCube(1, 1, 1),
		"ribbons": rl.GenMeshCube(1.02, 1.02, 0.3),
	}

	r.initialized = true
	return nil
}

// Upload implements systems.Uploader.
func (r *OrnamentRenderer) Upload(buf *systems.InstanceBuffer, colors bool) {
	b := r.batches[buf.Name]
	if b == nil {
		b = &batch{}
		r.batches[buf.Name] = b
	}
	b.upload(buf, colors)
}

// Draw renders every uploaded batch. Must be called inside BeginMode3D.
func (r *OrnamentRenderer) Draw(group mgl32.Mat4, lights Lights, viewPos mgl32.Vec3) {
	if !r.initialized {
		return
	}

	rl.SetShaderValue(r.shader, r.shader.GetLocation(rl.ShaderLocVectorView), viewPos[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(r.shader, r.ambientLoc, lights.Ambient[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(r.shader, r.envLoc, []float32{lights.Environment}, rl.ShaderUniformFloat)
	for i := 0; i < maxLights; i++ {
		p, c := lights.Points[i].Position, lights.Points[i].Radiance()
		rl.SetShaderValue(r.shader, r.lightPosLoc[i], p[:], rl.ShaderUniformVec3)
		rl.SetShaderValue(r.shader, r.lightColLoc[i], c[:], rl.ShaderUniformVec3)
	}

	for _, name := range r.order {
		b := r.batches[name]
		if b == nil {
			continue
		}
		s := surfaces[name]
		rl.SetShaderValue(r.shader, r.metalLoc, []float32{s.Metalness}, rl.ShaderUniformFloat)
		rl.SetShaderValue(r.shader, r.roughLoc, []float32{s.Roughness}, rl.ShaderUniformFloat)
		rl.SetShaderValue(r.shader, r.emissiveLoc, []float32{s.Emissive}, rl.ShaderUniformFloat)

		mesh := r.meshes[name]
		for g := range b.groups {
			grp := &b.groups[g]
			if len(grp.local) == 0 {
				continue
			}
			for j := range grp.local {
				grp.world[j] = toMatrix(group.Mul4(grp.local[j]))
			}
			r.material.GetMap(rl.MapDiffuse).Color = grp.color
			rl.DrawMeshInstanced(mesh, r.material, grp.world, len(grp.world))
		}
	}
}

// Unload frees resources.
func (r *OrnamentRenderer) Unload() {
	if !r.initialized {
		return
	}
	for name, mesh := range r.meshes {
		rl.UnloadMesh(&mesh)
		delete(r.meshes, name)
	}
	// UnloadMaterial also unloads the shader it references
	rl.UnloadMaterial(r.material)
	r.initialized = false
}
