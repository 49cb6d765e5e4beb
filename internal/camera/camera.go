package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

// Eye identifies one view of the head: the left eye, the center (mono) view, or the right eye.
type Eye int

const (
	Left Eye = iota
	Center
	Right
)

// Eyes lists every eye in render order.
var Eyes = [3]Eye{Left, Center, Right}

func (e Eye) String() string {
	switch e {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	}
	return fmt.Sprintf("eye(%d)", int(e))
}

// SceneTag returns the scene tag marking the head camera node of this eye.
func (e Eye) SceneTag() scene.Tag {
	switch e {
	case Left:
		return scene.TagHeadLeft
	case Right:
		return scene.TagHeadRight
	}
	return scene.TagHeadCenter
}

// Layers is a culling mask: bit i set means objects on layer i are drawn.
type Layers uint32

// AllLayers draws everything.
const AllLayers Layers = 0xFFFFFFFF

// Has reports whether layer is part of the mask.
func (l Layers) Has(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return l&(1<<uint(layer)) != 0
}

// LayersOf builds a mask from layer indices. Indices outside 0..31 are ignored.
func LayersOf(layers ...int) Layers {
	var l Layers
	for _, i := range layers {
		if i >= 0 && i <= 31 {
			l |= 1 << uint(i)
		}
	}
	return l
}

// ClearMode is what a camera fills the target with before drawing.
type ClearMode int

const (
	ClearSolid ClearMode = iota
	ClearSkybox
)

// Lens holds the projection parameters shared between a head camera and its mirrors.
// FovY is in degrees.
type Lens struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens is a 60° vertical field of view at 16:9 with 0.05..1000 clip planes.
func DefaultLens() Lens {
	return Lens{FovY: 60, Aspect: 16.0 / 9.0, Near: 0.05, Far: 1000}
}

// Projection returns the symmetric perspective matrix for the lens.
func (l Lens) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(l.FovY), l.Aspect, l.Near, l.Far)
}

// Target is an off-screen color buffer a camera renders into.
type Target interface {
	Width() int
	Height() int
	Release()
}

// Skybox names the backdrop drawn when a camera clears with ClearSkybox.
// An empty Path means no skybox (solid clear).
type Skybox struct {
	Path string
}

// Camera is a view into the scene graph. Its pose comes from Node; everything else is
// plain state read by the renderer each frame.
type Camera struct {
	Name        string      `copier:"-"`
	Node        *scene.Node `copier:"-"`
	Lens        Lens
	CullingMask Layers
	Clear       ClearMode
	Skybox      *Skybox `copier:"-"`
	Target      Target  `copier:"-"` // nil renders to the screen

	projection    mgl32.Mat4
	hasProjection bool
}

// New creates a camera on node with the default lens that draws every layer.
func New(name string, node *scene.Node) *Camera {
	return &Camera{
		Name:        name,
		Node:        node,
		Lens:        DefaultLens(),
		CullingMask: AllLayers,
	}
}

// Pose returns the camera's world pose, or the identity when the node is gone.
func (c *Camera) Pose() xform.Pose {
	if c == nil || !c.Node.Alive() {
		return xform.Identity()
	}
	return c.Node.World()
}

// SetPose moves the camera node to world pose p. Cameras without a live node are left alone.
func (c *Camera) SetPose(p xform.Pose) {
	if c == nil || !c.Node.Alive() {
		return
	}
	c.Node.SetWorld(p)
}

// SetProjection overrides the lens projection, e.g. with an asymmetric per-eye frustum.
func (c *Camera) SetProjection(m mgl32.Mat4) {
	c.projection = m
	c.hasProjection = true
}

// ResetProjection drops the override so Projection follows the lens again.
func (c *Camera) ResetProjection() {
	c.hasProjection = false
}

// Projection returns the override if one is set, else the lens projection.
func (c *Camera) Projection() mgl32.Mat4 {
	if c.hasProjection {
		return c.projection
	}
	return c.Lens.Projection()
}

// HasProjectionOverride reports whether SetProjection was called since the last reset.
func (c *Camera) HasProjectionOverride() bool {
	return c.hasProjection
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return c.Pose().Inverse().Mat4()
}

// CopySettings copies src's lens, culling mask and clear mode into c. Name, node, skybox,
// target and any projection override stay c's own.
func (c *Camera) CopySettings(src *Camera) error {
	if src == nil {
		return fmt.Errorf("camera: copy settings into %s: nil source", c.Name)
	}
	if err := copier.CopyWithOption(c, src, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("camera: copy settings into %s: %w", c.Name, err)
	}
	return nil
}
