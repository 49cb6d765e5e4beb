package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/world"
)

const (
	sphereRings      = 16
	sphereSlices     = 16
	cylinderSlices   = 16
	lightIntensity   = float32(0.75)
	specularPower    = float32(48)
	specularStrength = float32(0.35)
)

var (
	ambient    = []float32{0.2, 0.22, 0.26, 1}
	lightColor = []float32{1, 0.98, 0.95}
)

type mesh struct {
	mesh rl.Mesh
	// offset centers the mesh on the object origin.
	offset mgl32.Mat4
}

// Meshes holds one unit mesh per world.Shape and the lit material they share. Meshes are
// generated on first Draw so GPU resources exist only after the window does.
type Meshes struct {
	cache    map[world.Shape]mesh
	mtl      rl.Material
	ready    bool
	viewPos  mgl32.Vec3
	lightDir mgl32.Vec3
}

// NewMeshes returns an empty cache lit from above-right.
func NewMeshes() *Meshes {
	return &Meshes{cache: make(map[world.Shape]mesh), lightDir: mgl32.Vec3{0.5, 1, 0.5}}
}

// SetView sets the camera position for specular highlights. Call once per camera pass.
func (m *Meshes) SetView(viewPos mgl32.Vec3) {
	m.viewPos = viewPos
}

func (m *Meshes) ensureMaterial() {
	if m.ready {
		return
	}
	m.ready = true
	m.mtl = rl.LoadMaterialDefault()
	if shader, ok := loadShader(mvpVS, litFS); ok {
		m.mtl.Shader = shader
	}
}

func (m *Meshes) get(s world.Shape) (mesh, bool) {
	if c, ok := m.cache[s]; ok {
		return c, true
	}
	c := mesh{offset: mgl32.Ident4()}
	switch s {
	case world.Cube:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	case world.Sphere:
		c.mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case world.Cylinder:
		// raylib's cylinder stands on Y=0.
		c.mesh = rl.GenMeshCylinder(0.5, 1, cylinderSlices)
		c.offset = mgl32.Translate3D(0, -0.5, 0)
	case world.Plane:
		c.mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return mesh{}, false
	}
	m.cache[s] = c
	return c, true
}

func (m *Meshes) setUniforms() {
	sh := m.mtl.Shader
	if !rl.IsShaderValid(sh) {
		return
	}
	setVec(sh, rl.GetShaderLocation(sh, "viewPos"), m.viewPos[:], rl.ShaderUniformVec3)
	setVec(sh, rl.GetShaderLocation(sh, "lightDir"), m.lightDir[:], rl.ShaderUniformVec3)
	setVec(sh, rl.GetShaderLocation(sh, "ambient"), ambient, rl.ShaderUniformVec4)
	setVec(sh, rl.GetShaderLocation(sh, "lightColor"), lightColor, rl.ShaderUniformVec3)
	setFloat(sh, rl.GetShaderLocation(sh, "lightIntensity"), lightIntensity)
	setFloat(sh, rl.GetShaderLocation(sh, "specularPower"), specularPower)
	setFloat(sh, rl.GetShaderLocation(sh, "specularStrength"), specularStrength)
}

// Draw draws one shape with the given model matrix and tint. Unknown shapes are skipped.
// Must be called between BeginMode3D and EndMode3D.
func (m *Meshes) Draw(s world.Shape, model mgl32.Mat4, tint color.RGBA) {
	c, ok := m.get(s)
	if !ok {
		return
	}
	m.ensureMaterial()
	m.setUniforms()
	if albedo := m.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = Color(tint)
	}
	rl.DrawMesh(c.mesh, m.mtl, Matrix(model.Mul4(c.offset)))
}

// Close frees the cached meshes.
func (m *Meshes) Close() {
	for s, c := range m.cache {
		rl.UnloadMesh(&c.mesh)
		delete(m.cache, s)
	}
}
