package portal

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/scene"
	"reality-portal/internal/tracking"
	"reality-portal/internal/xform"
)

type fakeTarget struct {
	w, h     int
	released bool
}

func (t *fakeTarget) Width() int  { return t.w }
func (t *fakeTarget) Height() int { return t.h }
func (t *fakeTarget) Release()    { t.released = true }

type fakeBackend struct {
	w, h    int
	fail    bool
	targets []*fakeTarget
	proj    map[camera.Eye]mgl32.Mat4
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		w: 1280, h: 720,
		proj: map[camera.Eye]mgl32.Mat4{
			camera.Left:  mgl32.Frustum(-0.06, 0.04, -0.05, 0.05, 0.05, 1000),
			camera.Right: mgl32.Frustum(-0.04, 0.06, -0.05, 0.05, 0.05, 1000),
		},
	}
}

func (b *fakeBackend) ScreenSize() (int, int) { return b.w, b.h }

func (b *fakeBackend) NewRenderTarget(w, h int) (camera.Target, error) {
	if b.fail {
		return nil, errors.New("out of video memory")
	}
	t := &fakeTarget{w: w, h: h}
	b.targets = append(b.targets, t)
	return t, nil
}

func (b *fakeBackend) ShaderSlot(name string) SlotID {
	switch name {
	case SlotLeftEye:
		return 10
	case SlotCenterEye:
		return 11
	case SlotRightEye:
		return 12
	}
	return -1
}

func (b *fakeBackend) StereoProjection(eye camera.Eye, _ *camera.Camera) (mgl32.Mat4, bool) {
	m, ok := b.proj[eye]
	return m, ok
}

type fakeSurface struct {
	name    string
	enabled bool
	dead    bool
	tex     map[SlotID]camera.Target
}

func newFakeSurface(name string) *fakeSurface {
	return &fakeSurface{name: name, enabled: true, tex: make(map[SlotID]camera.Target)}
}

func (s *fakeSurface) SetEnabled(on bool) { s.enabled = on }
func (s *fakeSurface) Enabled() bool      { return s.enabled }
func (s *fakeSurface) Alive() bool        { return !s.dead }
func (s *fakeSurface) SetTexture(slot SlotID, t camera.Target) {
	if s.dead {
		panic("write to destroyed surface " + s.name)
	}
	s.tex[slot] = t
}

type fakeCollider struct {
	enabled bool
	trigger bool
}

func (c *fakeCollider) SetEnabled(on bool) { c.enabled = on }
func (c *fakeCollider) Enabled() bool      { return c.enabled }
func (c *fakeCollider) SetTrigger(on bool) { c.trigger = on }

type fakeScene struct {
	sky     *camera.Skybox
	running bool
	starts  int
	stops   int
}

func newFakeScene(sky string) *fakeScene {
	return &fakeScene{sky: &camera.Skybox{Path: sky}}
}

func (s *fakeScene) StartScene() {
	s.starts++
	s.running = true
}

func (s *fakeScene) StopScene() {
	s.stops++
	s.running = false
}

func (s *fakeScene) Skybox() *camera.Skybox { return s.sky }

type fakeOverlay struct {
	calls []string
	added []Surface
}

func (o *fakeOverlay) SetProjectionSurface(p ProjectionSurface) {
	if p == UserDefined {
		o.calls = append(o.calls, "user-defined")
	} else {
		o.calls = append(o.calls, "reconstructed")
	}
}

func (o *fakeOverlay) SetUnderlay(bool) { o.calls = append(o.calls, "underlay") }

func (o *fakeOverlay) Restart() { o.calls = append(o.calls, "restart") }

func (o *fakeOverlay) AddSurfaceGeometry(s Surface) {
	o.calls = append(o.calls, "add")
	o.added = append(o.added, s)
}

func (o *fakeOverlay) RemoveSurfaceGeometry(Surface) { o.calls = append(o.calls, "remove") }

// marker is a head (or non-head) collider.
type marker struct {
	eye  camera.Eye
	head bool
}

func (m marker) Marker() (camera.Eye, bool) { return m.eye, m.head }

var (
	headCollider = marker{eye: camera.Center, head: true}
	handCollider = marker{}
)

type fixture struct {
	t       *testing.T
	g       *scene.Graph
	sys     *System
	rig     *scene.Node
	heads   camera.Heads
	tracker *tracking.Static
	backend *fakeBackend
	log     *logger.Logger
}

type portalParts struct {
	id     ID
	a, b   *fakeSurface
	ca, cb *fakeCollider
	source *fakeScene
	dest   *fakeScene
}

func newFixture(t *testing.T, stereo bool) *fixture {
	t.Helper()
	g := scene.New()
	rig := g.Add("rig", nil, xform.Identity())
	require.NoError(t, g.SetTag(rig, scene.TagRig))

	center := camera.New("head", g.Add("head", rig, xform.Identity()))
	center.Lens = camera.Lens{FovY: 90, Aspect: 1.5, Near: 0.02, Far: 500}
	heads := camera.Heads{Center: center}
	if stereo {
		heads.Left = camera.New("head-left", g.Add("head-left", rig, xform.At(-0.032, 0, 0)))
		heads.Right = camera.New("head-right", g.Add("head-right", rig, xform.At(0.032, 0, 0)))
	}
	f := &fixture{
		t:       t,
		g:       g,
		rig:     rig,
		heads:   heads,
		tracker: tracking.NewStatic(0.064),
		backend: newFakeBackend(),
		log:     logger.Discard(),
	}
	f.sys = NewSystem(Options{
		Graph:   g,
		Viewer:  Viewer{Rig: rig, Main: center, Heads: heads},
		Backend: f.backend,
		Tracker: f.tracker,
		Log:     f.log,
	})
	return f
}

func (f *fixture) add(name string, pose xform.Pose, virtual, setByOther bool, source, dest *fakeScene) portalParts {
	f.t.Helper()
	parts := portalParts{
		a:      newFakeSurface(name + "/A"),
		b:      newFakeSurface(name + "/B"),
		ca:     &fakeCollider{enabled: true},
		cb:     &fakeCollider{enabled: true},
		source: source,
		dest:   dest,
	}
	cfg := Config{
		Name:                  name,
		Node:                  f.g.Add(name, nil, pose),
		Virtual:               virtual,
		WillBeSetByOther:      setByOther,
		EnterSide:             SideA,
		CullingMask:           camera.LayersOf(1),
		UserMaskAfterTeleport: camera.LayersOf(0, 2),
		SideA:                 Entrance{Side: SideA, Collider: parts.ca, Plane: parts.a},
		SideB:                 Entrance{Side: SideB, Collider: parts.cb, Plane: parts.b},
	}
	if source != nil {
		cfg.Source = source
	}
	if dest != nil {
		cfg.Destination = dest
	}
	id, err := f.sys.Add(cfg)
	require.NoError(f.t, err)
	parts.id = id
	return parts
}

// pairScenario builds the real-world portal at (5,0,0) facing +Z and its virtual pair at
// (50,0,0) facing -Z, configured.
func (f *fixture) pairScenario() (home, away portalParts) {
	f.t.Helper()
	realWorld := newFakeScene("")
	virtual := newFakeScene("sky/forest.png")
	home = f.add("real", xform.New(mgl32.Vec3{5, 0, 0}, xform.Yaw(180)), false, false, realWorld, virtual)
	away = f.add("virtual", xform.At(50, 0, 0), true, true, nil, realWorld)
	require.NoError(f.t, f.sys.SetPortalTarget(home.id, away.id))
	require.NoError(f.t, f.sys.Configure())
	return home, away
}

func (f *fixture) portal(id ID) *Portal {
	f.t.Helper()
	p, ok := f.sys.Portal(id)
	require.True(f.t, ok)
	return p
}
