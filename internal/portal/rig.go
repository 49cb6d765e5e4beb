package portal

import (
	"fmt"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

// Viewer is the tracked user: the rig root and the head cameras that move with it.
type Viewer struct {
	Rig   *scene.Node
	Main  *camera.Camera
	Heads camera.Heads
}

// Discover resolves the viewer from tagged nodes in g, degrading instead of failing:
//   - no rig node: the root of the main camera's node becomes the rig;
//   - no center head camera: the main camera becomes the center camera;
//   - left and right head cameras are used only when both exist.
//
// cameras is every camera in the scene; the one on the TagMainCamera node is the main camera.
func Discover(g *scene.Graph, cameras []*camera.Camera, log *logger.Logger) Viewer {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(LogTag)
	byNode := make(map[*scene.Node]*camera.Camera, len(cameras))
	for _, c := range cameras {
		if c != nil && c.Node != nil {
			byNode[c.Node] = c
		}
	}
	var v Viewer
	if n := g.Tagged(scene.TagMainCamera); n != nil {
		v.Main = byNode[n]
	}
	if v.Main == nil {
		log.Warn("No main camera detected. Portals will run without a viewer.")
	}

	v.Rig = g.Tagged(scene.TagRig)
	if v.Rig == nil && v.Main != nil {
		log.Warn("Couldn't find the root rig. Will make the rig whatever is the root transform of the camera")
		v.Rig = v.Main.Node.Root()
		if v.Rig.Tag() == scene.TagNone {
			if err := g.SetTag(v.Rig, scene.TagRig); err != nil {
				log.Warn("Could not tag the rig: " + err.Error())
			}
		}
	}

	left := byNode[g.Tagged(scene.TagHeadLeft)]
	right := byNode[g.Tagged(scene.TagHeadRight)]
	if left != nil && right != nil {
		log.Info("Found left and right eye cameras, will be using stereo mode.")
		v.Heads.Left = left
		v.Heads.Right = right
	} else {
		log.Warn("One of the eye cameras is not present. Will try to use the single camera mode.")
	}

	v.Heads.Center = byNode[g.Tagged(scene.TagHeadCenter)]
	if v.Heads.Center == nil && v.Main != nil {
		log.Warn("Couldn't find a center camera. Will make the main camera a center camera.")
		v.Heads.Center = v.Main
	}
	return v
}

// Init creates the portal cameras of id: one per required eye, each rendering into a fresh
// screen-sized target bound to the active plane at the eye's slot. Calling Init again is a no-op.
// A missing center head camera leaves the portal initialized without cameras.
func (s *System) Init(id ID) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	if p.isInit {
		return nil
	}
	if p.plane == nil {
		return fmt.Errorf("portal: init %s: %w", p.name, ErrNoActiveSide)
	}
	if s.backend != nil {
		p.slots[camera.Left] = s.backend.ShaderSlot(SlotLeftEye)
		p.slots[camera.Center] = s.backend.ShaderSlot(SlotCenterEye)
		p.slots[camera.Right] = s.backend.ShaderSlot(SlotRightEye)
	}

	heads := s.viewer.Heads
	if heads.Center == nil {
		s.log.Warn(fmt.Sprintf("Portal %s has no center head camera; it will not render.", p.name))
		p.isInit = true
		return nil
	}
	if s.backend == nil {
		s.log.Warn(fmt.Sprintf("Portal %s has no render backend; it will not render.", p.name))
		p.isInit = true
		return nil
	}

	p.stereo = heads.Stereo()
	for _, eye := range heads.Required() {
		cam, err := s.setupPortalCamera(p, eye, heads.Get(eye))
		if err != nil {
			s.releaseMirrors(p)
			return err
		}
		p.mirrors[eye] = cam
	}
	p.isInit = true
	if s.started {
		s.applyStereoProjection(p)
	}
	return nil
}

func (s *System) setupPortalCamera(p *Portal, eye camera.Eye, head *camera.Camera) (*camera.Camera, error) {
	w, h := s.backend.ScreenSize()
	target, err := s.backend.NewRenderTarget(w, h)
	if err != nil {
		return nil, fmt.Errorf("portal: init %s %s eye: %w: %w", p.name, eye, ErrNoRenderTargets, err)
	}
	name := p.name + "/" + eye.String()
	cam := camera.New(name, s.graph.Add(name, nil, xform.Identity()))
	if err := cam.CopySettings(head); err != nil {
		target.Release()
		s.graph.Remove(cam.Node)
		return nil, err
	}
	cam.Target = target
	cam.CullingMask = p.cullingMask
	cam.Clear = camera.ClearSkybox
	if p.destination != nil {
		cam.Skybox = p.destination.Skybox()
	}
	s.bind(p, eye, target)
	return cam, nil
}

// bind writes target into the active plane's property block at the eye slot.
func (s *System) bind(p *Portal, eye camera.Eye, target camera.Target) {
	if p.plane == nil || !p.plane.Alive() || target == nil {
		return
	}
	p.plane.SetTexture(p.slots[eye], target)
}

// Start copies the engine's per-eye projection into stereo portal cameras. It must run after
// the scene started, once eye offsets are known. Portals initialized later get it in Init.
func (s *System) Start() {
	s.started = true
	for _, p := range s.portals {
		if p.isInit {
			s.applyStereoProjection(p)
		}
	}
}

func (s *System) applyStereoProjection(p *Portal) {
	if !p.stereo || s.backend == nil {
		return
	}
	for _, eye := range []camera.Eye{camera.Left, camera.Right} {
		head, mirror := s.viewer.Heads.Get(eye), p.mirrors[eye]
		if head == nil || mirror == nil {
			continue
		}
		if m, ok := s.backend.StereoProjection(eye, head); ok {
			mirror.SetProjection(m)
		}
	}
}

func (s *System) releaseMirrors(p *Portal) {
	for i, m := range p.mirrors {
		if m == nil {
			continue
		}
		if m.Target != nil {
			m.Target.Release()
		}
		s.graph.Remove(m.Node)
		p.mirrors[i] = nil
	}
}

// Close releases every portal camera and its render target.
func (s *System) Close() {
	for _, p := range s.portals {
		s.releaseMirrors(p)
		p.isInit = false
	}
}

// Cameras returns the portal cameras of every initialized, enabled portal, in portal order.
func (s *System) Cameras() []*camera.Camera {
	var out []*camera.Camera
	for _, p := range s.portals {
		if !p.isInit || !p.enabled {
			continue
		}
		for _, eye := range camera.Eyes {
			if m := p.mirrors[eye]; m != nil {
				out = append(out, m)
			}
		}
	}
	return out
}
