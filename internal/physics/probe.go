package physics

import (
	"reality-portal/internal/camera"
	"reality-portal/internal/scene"
)

// DefaultHeadRadius is the radius of the sphere collider carried by a head camera.
const DefaultHeadRadius = 0.1

// Probe is a sphere collider that follows a scene node. Probes move only with their node;
// the world never integrates them.
type Probe struct {
	Name   string
	Node   *scene.Node
	Radius float32
	eye    camera.Eye
	head   bool
}

// NewProbe returns an unmarked sphere collider of radius r on node.
func NewProbe(name string, node *scene.Node, r float32) *Probe {
	if r <= 0 {
		r = DefaultHeadRadius
	}
	return &Probe{Name: name, Node: node, Radius: r}
}

// NewHeadProbe returns a sphere collider marked as the head camera of eye.
func NewHeadProbe(node *scene.Node, eye camera.Eye, r float32) *Probe {
	p := NewProbe("head/"+eye.String(), node, r)
	p.eye = eye
	p.head = true
	return p
}

// Marker reports the head camera this probe belongs to, if any.
func (p *Probe) Marker() (camera.Eye, bool) {
	return p.eye, p.head
}
