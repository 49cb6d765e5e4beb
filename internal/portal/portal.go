package portal

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/scene"
	"reality-portal/internal/tracking"
	"reality-portal/internal/xform"
)

// LogTag prefixes every line the portal system logs.
const LogTag = "REALITY PORTAL"

// Shader texture slots the portal plane material samples, one per eye.
const (
	SlotLeftEye   = "_LeftEyeTex"
	SlotCenterEye = "_CenterEyeTex"
	SlotRightEye  = "_RightEyeTex"
)

var (
	ErrUnknownPortal   = errors.New("unknown portal")
	ErrNoPair          = errors.New("no paired portal")
	ErrSelfPair        = errors.New("portal cannot pair with itself")
	ErrNoActiveSide    = errors.New("no active side configured")
	ErrBadSide         = errors.New("side descriptor does not match its slot")
	ErrNotChainable    = errors.New("virtual-world portals do not cycle destinations")
	ErrNoDestinations  = errors.New("no virtual-world destinations")
	ErrNoRenderTargets = errors.New("render target allocation failed")
)

// ID addresses a portal in its System. IDs are assigned in declaration order starting at 0.
type ID int

// Side is one of the two mutually exclusive entrances of a portal.
type Side int

const (
	SideA Side = iota
	SideB
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// SlotID is a resolved shader texture slot.
type SlotID int32

// Collider is the trigger volume of one entrance.
type Collider interface {
	SetEnabled(enabled bool)
	Enabled() bool
	SetTrigger(trigger bool)
}

// Surface is the render plane of one entrance. SetTexture writes a per-instance override
// and never touches the shared material. Alive is false once the plane was destroyed.
type Surface interface {
	SetEnabled(enabled bool)
	Enabled() bool
	SetTexture(slot SlotID, tex camera.Target)
	Alive() bool
}

// Entrance describes one physical side of a portal: its trigger and its render plane.
type Entrance struct {
	Side     Side
	Collider Collider
	Plane    Surface
}

// SceneSetup is the lifecycle of one world (real or virtual). StartScene and StopScene are
// idempotent.
type SceneSetup interface {
	StartScene()
	StopScene()
	Skybox() *camera.Skybox
}

// ProjectionSurface selects how the passthrough overlay reconstructs the real world.
type ProjectionSurface int

const (
	Reconstructed ProjectionSurface = iota
	UserDefined
)

// Overlay is the optional passthrough/AR layer toggled on teleport.
type Overlay interface {
	SetProjectionSurface(ProjectionSurface)
	SetUnderlay(underlay bool)
	Restart()
	AddSurfaceGeometry(Surface)
	RemoveSurfaceGeometry(Surface)
}

// Backend is the engine side the rig manager needs: screen size, render targets, shader slot
// lookup and the per-eye asymmetric projection of a head camera.
type Backend interface {
	ScreenSize() (w, h int)
	NewRenderTarget(w, h int) (camera.Target, error)
	ShaderSlot(name string) SlotID
	StereoProjection(eye camera.Eye, head *camera.Camera) (mgl32.Mat4, bool)
}

// Marked is implemented by colliders that may carry a head camera marker.
type Marked interface {
	Marker() (eye camera.Eye, ok bool)
}

// Config declares one portal. Pairing is set separately with SetPortalTarget.
type Config struct {
	Name string
	Node *scene.Node
	// Virtual marks a portal placed in a virtual world; those are the destinations the real
	// world portal cycles through.
	Virtual bool
	// WillBeSetByOther skips this portal in Configure; its pair configures it.
	WillBeSetByOther bool

	Source      SceneSetup
	Destination SceneSetup
	EnterSide   Side

	CullingMask           camera.Layers
	UserMaskAfterTeleport camera.Layers

	SideA Entrance
	SideB Entrance
}

// Portal is one record in the System arena.
type Portal struct {
	id               ID
	name             string
	node             *scene.Node
	virtual          bool
	willBeSetByOther bool

	source      SceneSetup
	destination SceneSetup
	enterSide   Side
	sides       [2]Entrance
	plane       Surface

	cullingMask           camera.Layers
	userMaskAfterTeleport camera.Layers

	mirrors [3]*camera.Camera
	slots   [3]SlotID

	allowTeleport bool
	enabled       bool
	isInit        bool
	stereo        bool
}

func (p *Portal) ID() ID { return p.id }
func (p *Portal) Name() string { return p.name }
func (p *Portal) Node() *scene.Node { return p.node }
func (p *Portal) Virtual() bool { return p.virtual }
func (p *Portal) EnterSide() Side { return p.enterSide }
func (p *Portal) ActivePlane() Surface { return p.plane }
func (p *Portal) Source() SceneSetup { return p.source }
func (p *Portal) Destination() SceneSetup { return p.destination }
func (p *Portal) AllowTeleport() bool { return p.allowTeleport }
func (p *Portal) Enabled() bool { return p.enabled }
func (p *Portal) Initialized() bool { return p.isInit }

// Stereo reports whether the portal renders three eye views. Fixed once Init completes.
func (p *Portal) Stereo() bool { return p.stereo }

// Entrance returns the descriptor of side s.
func (p *Portal) Entrance(s Side) Entrance { return p.sides[s] }

// Mirror returns the portal camera of eye, or nil when that eye is not rendered.
func (p *Portal) Mirror(eye camera.Eye) *camera.Camera { return p.mirrors[eye] }

// Options are the collaborators injected into a System at scene-build time.
type Options struct {
	Graph   *scene.Graph
	Viewer  Viewer
	Backend Backend
	Tracker tracking.Provider
	Overlay Overlay // optional
	Log     *logger.Logger
}

// System owns every portal, the pairing table and the trigger event queue. All methods except
// the trigger callbacks must be called from the frame loop goroutine.
type System struct {
	log     *logger.Logger
	graph   *scene.Graph
	viewer  Viewer
	backend Backend
	tracker tracking.Provider
	overlay Overlay

	portals   []*Portal
	pairs     map[ID]ID
	queue     Queue
	started   bool
	teleports int
}

// NewSystem returns an empty portal system.
func NewSystem(opts Options) *System {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	g := opts.Graph
	if g == nil {
		g = scene.New()
	}
	return &System{
		log:     log.With(LogTag),
		graph:   g,
		viewer:  opts.Viewer,
		backend: opts.Backend,
		tracker: opts.Tracker,
		overlay: opts.Overlay,
		pairs:   make(map[ID]ID),
	}
}

// Add registers a portal and returns its ID. Side descriptors must sit in their own slots.
func (s *System) Add(cfg Config) (ID, error) {
	if cfg.SideA.Side != SideA || cfg.SideB.Side != SideB {
		return -1, fmt.Errorf("portal: add %s: %w", cfg.Name, ErrBadSide)
	}
	if cfg.Node == nil {
		cfg.Node = s.graph.Add(cfg.Name, nil, xform.Identity())
	}
	p := &Portal{
		id:                    ID(len(s.portals)),
		name:                  cfg.Name,
		node:                  cfg.Node,
		virtual:               cfg.Virtual,
		willBeSetByOther:      cfg.WillBeSetByOther,
		source:                cfg.Source,
		destination:           cfg.Destination,
		enterSide:             cfg.EnterSide,
		sides:                 [2]Entrance{cfg.SideA, cfg.SideB},
		cullingMask:           cfg.CullingMask,
		userMaskAfterTeleport: cfg.UserMaskAfterTeleport,
		allowTeleport:         true,
		enabled:               true,
	}
	s.portals = append(s.portals, p)
	return p.id, nil
}

// Portal returns the record of id.
func (s *System) Portal(id ID) (*Portal, bool) {
	if id < 0 || int(id) >= len(s.portals) {
		return nil, false
	}
	return s.portals[id], true
}

// ByName returns the ID of the first portal named name.
func (s *System) ByName(name string) (ID, bool) {
	for _, p := range s.portals {
		if p.name == name {
			return p.id, true
		}
	}
	return -1, false
}

// IDs lists every portal in declaration order.
func (s *System) IDs() []ID {
	out := make([]ID, len(s.portals))
	for i, p := range s.portals {
		out[i] = p.id
	}
	return out
}

// Viewer returns the injected viewer.
func (s *System) Viewer() Viewer {
	return s.viewer
}

// Teleports returns how many teleports were applied so far.
func (s *System) Teleports() int {
	return s.teleports
}

// SetEnabled turns a portal's per-frame sync and teleport handling on or off.
func (s *System) SetEnabled(id ID, enabled bool) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.enabled = enabled
	return nil
}

func (s *System) get(id ID) (*Portal, error) {
	p, ok := s.Portal(id)
	if !ok {
		return nil, fmt.Errorf("portal: id %d: %w", id, ErrUnknownPortal)
	}
	return p, nil
}

// pairOf returns the paired portal or nil.
func (s *System) pairOf(p *Portal) *Portal {
	pid, ok := s.pairs[p.id]
	if !ok {
		return nil
	}
	pair, ok := s.Portal(pid)
	if !ok || pair == p {
		return nil
	}
	return pair
}
