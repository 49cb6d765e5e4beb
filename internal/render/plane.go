package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/portal"
	"reality-portal/internal/scene"
)

// Plane is the render surface of one portal entrance: a Width x Height quad standing on the
// node's origin, facing along the node's forward axis. Textures live in a per-plane property
// block, so planes sharing the portal shader never see each other's textures.
// It implements portal.Surface.
type Plane struct {
	Name   string
	Node   *scene.Node
	Width  float32
	Height float32

	enabled bool
	block   map[portal.SlotID]*Target
}

// NewPlane returns an enabled plane on node.
func NewPlane(name string, node *scene.Node, w, h float32) *Plane {
	return &Plane{Name: name, Node: node, Width: w, Height: h, enabled: true, block: make(map[portal.SlotID]*Target)}
}

func (p *Plane) SetEnabled(on bool) { p.enabled = on }
func (p *Plane) Enabled() bool      { return p.enabled }

// Alive is false once the plane's node was removed from the graph.
func (p *Plane) Alive() bool { return p.Node.Alive() }

// SetTexture binds tex at slot in this plane's property block. Targets from another backend
// and negative slots are ignored.
func (p *Plane) SetTexture(slot portal.SlotID, tex camera.Target) {
	if !p.Alive() || slot < 0 {
		return
	}
	t, ok := tex.(*Target)
	if !ok {
		return
	}
	p.block[slot] = t
}

// Model returns the quad's model matrix for raylib's unit XZ plane mesh.
func (p *Plane) Model() mgl32.Mat4 {
	return p.Node.World().Mat4().
		Mul4(mgl32.Translate3D(0, p.Height/2, 0)).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(90))).
		Mul4(mgl32.Scale3D(p.Width, 1, p.Height))
}
