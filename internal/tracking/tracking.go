package tracking

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

// DefaultIPD is the interpupillary distance used when none is configured, in meters.
const DefaultIPD = 0.064

// Provider reports tracked head poses relative to the tracking origin (the rig).
// ok is false when the device has no pose for the node this frame.
type Provider interface {
	NodePose(eye camera.Eye) (pose xform.Pose, ok bool)
}

// Pose returns the tracked pose of eye, falling back to the identity when p is nil or has no
// pose. A missing pose is not an error.
func Pose(p Provider, eye camera.Eye) xform.Pose {
	if p == nil {
		return xform.Identity()
	}
	pose, ok := p.NodePose(eye)
	if !ok {
		return xform.Identity()
	}
	return pose
}

// Static reports fixed eye poses: a head pose plus ±IPD/2 offsets on the head's local X axis.
// It stands in for a headset on desktop and in tests. Safe for concurrent use.
type Static struct {
	mu   sync.Mutex
	head xform.Pose
	ipd  float32
	lost map[camera.Eye]bool
}

// NewStatic returns a provider with the head at the tracking origin.
func NewStatic(ipd float32) *Static {
	if ipd <= 0 {
		ipd = DefaultIPD
	}
	return &Static{head: xform.Identity(), ipd: ipd, lost: make(map[camera.Eye]bool)}
}

// SetHead sets the center pose relative to the tracking origin.
func (s *Static) SetHead(p xform.Pose) {
	s.mu.Lock()
	s.head = p
	s.mu.Unlock()
}

// SetLost marks eye as not tracked (NodePose returns ok == false) or tracked again.
func (s *Static) SetLost(eye camera.Eye, lost bool) {
	s.mu.Lock()
	s.lost[eye] = lost
	s.mu.Unlock()
}

// IPD returns the configured interpupillary distance.
func (s *Static) IPD() float32 {
	return s.ipd
}

// NodePose implements Provider.
func (s *Static) NodePose(eye camera.Eye) (xform.Pose, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lost[eye] {
		return xform.Identity(), false
	}
	return eyePose(s.head, eye, s.ipd), true
}

// Follow reads the head pose from a node in the rig's hierarchy, e.g. the desktop head camera
// moved by the fly camera, and derives the eyes from it.
type Follow struct {
	Rig  *scene.Node
	Head *scene.Node
	IPD  float32
}

// NodePose implements Provider.
func (f *Follow) NodePose(eye camera.Eye) (xform.Pose, bool) {
	if !f.Head.Alive() {
		return xform.Identity(), false
	}
	head := f.Head.World()
	if f.Rig.Alive() {
		head = f.Rig.World().Inverse().Mul(head)
	}
	ipd := f.IPD
	if ipd <= 0 {
		ipd = DefaultIPD
	}
	return eyePose(head, eye, ipd), true
}

func eyePose(head xform.Pose, eye camera.Eye, ipd float32) xform.Pose {
	var dx float32
	switch eye {
	case camera.Left:
		dx = -ipd / 2
	case camera.Right:
		dx = ipd / 2
	default:
		return head
	}
	return head.Mul(xform.Pose{Position: mgl32.Vec3{dx, 0, 0}, Rotation: mgl32.QuatIdent()})
}
