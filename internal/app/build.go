// Package app builds a portal scene from a layout and runs it frame by frame.
package app

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/engineconfig"
	"reality-portal/internal/flycam"
	"reality-portal/internal/layout"
	"reality-portal/internal/logger"
	"reality-portal/internal/overlay"
	"reality-portal/internal/physics"
	"reality-portal/internal/portal"
	"reality-portal/internal/scene"
	"reality-portal/internal/tracking"
	"reality-portal/internal/world"
	"reality-portal/internal/xform"
)

var ErrNoRealPortal = errors.New("layout has no real-world portal")

var defaultColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// Engine is what Build needs from the graphics side besides the portal backend.
type Engine interface {
	portal.Backend
	// NewSurface creates the render plane of one portal entrance.
	NewSurface(name string, node *scene.Node, w, h float32) portal.Surface
	// NewMusic opens a looping track. It never returns nil.
	NewMusic(path string) world.Music
}

// Scene is a built portal scene. Fields are exported for the entry point and tests.
type Scene struct {
	Graph       *scene.Graph
	Worlds      []*world.Setup
	Physics     *physics.World
	Portals     *portal.System
	Viewer      portal.Viewer
	Tracker     *tracking.Follow
	Fly         *flycam.Controller
	Passthrough *overlay.Passthrough
	// Home is the first real-world portal, the one commands act on by default.
	Home portal.ID
	// OnToggleFPS flips the FPS overlay; set by the entry point.
	OnToggleFPS func() bool

	engine Engine
	stereo bool
	names  map[string]*world.Setup
	log    *logger.Logger
}

// Build creates the scene graph, worlds, viewer rig, physics and portal system described by l,
// pairs the portals and initializes them. A pairing error aborts the build.
func Build(l *layout.Layout, prefs engineconfig.EnginePrefs, e Engine, log *logger.Logger) (*Scene, error) {
	if log == nil {
		log = logger.Discard()
	}
	s := &Scene{
		Graph:       scene.New(),
		Physics:     physics.NewWorld(),
		Passthrough: overlay.NewPassthrough(log),
		Home:        -1,
		engine:      e,
		stereo:      prefs.Stereo || l.Viewer.Stereo,
		names:       make(map[string]*world.Setup),
		log:         log.With("APP"),
	}
	s.buildWorlds(l, log)
	if err := s.buildObjects(l); err != nil {
		return nil, err
	}
	ipd := l.Viewer.IPD
	if prefs.IPD > 0 && prefs.Stereo {
		ipd = prefs.IPD
	}
	if err := s.buildViewer(l.Viewer, ipd, prefs, log); err != nil {
		return nil, err
	}

	s.Portals = portal.NewSystem(portal.Options{
		Graph:   s.Graph,
		Viewer:  s.Viewer,
		Backend: e,
		Tracker: s.Tracker,
		Overlay: s.Passthrough,
		Log:     log,
	})
	if err := s.buildPortals(l); err != nil {
		return nil, err
	}
	if s.Home < 0 {
		return nil, ErrNoRealPortal
	}
	if err := s.Portals.Configure(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	s.log.Info(fmt.Sprintf("Scene built: %d world(s), %d portal(s), stereo %v.", len(s.Worlds), len(s.Portals.IDs()), s.Viewer.Heads.Stereo()))
	return s, nil
}

func (s *Scene) buildWorlds(l *layout.Layout, log *logger.Logger) {
	for _, w := range l.Worlds {
		opts := world.Options{StartOnAwake: w.StartOnAwake, Log: log}
		if w.Skybox != "" {
			opts.Skybox = &camera.Skybox{Path: w.Skybox}
		}
		if w.Music != "" && s.engine != nil {
			opts.Music = s.engine.NewMusic(w.Music)
		}
		setup := world.New(w.Name, opts)
		s.Worlds = append(s.Worlds, setup)
		s.names[w.Name] = setup
	}
}

func (s *Scene) buildObjects(l *layout.Layout) error {
	for _, o := range l.Objects {
		w, ok := l.World(o.World)
		if !ok {
			return fmt.Errorf("app: object %s: %w", o.Name, layout.ErrInvalid)
		}
		c := defaultColor
		if o.Color != "" {
			var err error
			if c, err = layout.ParseColor(o.Color); err != nil {
				return fmt.Errorf("app: object %s: %w", o.Name, err)
			}
		}
		node := s.Graph.Add(o.Name, nil, xform.New(vec(o.Position), xform.Yaw(o.Yaw)))
		s.names[o.World].Add(&world.Object{
			Name:  o.Name,
			Node:  node,
			Shape: world.Shape(o.Shape),
			Scale: vec(o.Scale),
			Color: c,
			Layer: w.Layer,
		})
	}
	return nil
}

// buildViewer creates the rig, the head camera at eye height and, in stereo, one camera per eye
// offset along the head's X axis. The viewer is then resolved from the node tags.
func (s *Scene) buildViewer(v layout.Viewer, ipd float32, prefs engineconfig.EnginePrefs, log *logger.Logger) error {
	g := s.Graph
	rig := g.Add("rig", nil, xform.New(vec(v.Position), xform.Yaw(v.Yaw)))
	headNode := g.Add("head", rig, xform.At(0, v.Height, 0))
	tags := map[*scene.Node]scene.Tag{rig: scene.TagRig, headNode: scene.TagMainCamera}

	lens := camera.Lens{FovY: v.FovY, Aspect: 16.0 / 9.0, Near: v.Near, Far: v.Far}
	if s.engine != nil {
		if w, h := s.engine.ScreenSize(); w > 0 && h > 0 {
			lens.Aspect = float32(w) / float32(h)
		}
	}
	mask := camera.LayersOf(v.Layers...)
	newHead := func(name string, node *scene.Node) *camera.Camera {
		c := camera.New(name, node)
		c.Lens = lens
		c.CullingMask = mask
		c.Clear = camera.ClearSkybox
		return c
	}
	cams := []*camera.Camera{newHead("head", headNode)}
	if s.stereo {
		left := g.Add("head/left", headNode, xform.At(-ipd/2, 0, 0))
		right := g.Add("head/right", headNode, xform.At(ipd/2, 0, 0))
		tags[left], tags[right] = scene.TagHeadLeft, scene.TagHeadRight
		// Each eye sees half the window.
		eyeLens := lens
		eyeLens.Aspect = lens.Aspect / 2
		l, r := newHead("head/left", left), newHead("head/right", right)
		l.Lens, r.Lens = eyeLens, eyeLens
		cams = append(cams, l, r)
	}
	for n, tag := range tags {
		if err := g.SetTag(n, tag); err != nil {
			return fmt.Errorf("app: viewer: %w", err)
		}
	}
	s.Viewer = portal.Discover(g, cams, log)
	s.Tracker = &tracking.Follow{Rig: s.Viewer.Rig, Head: headNode, IPD: ipd}
	s.Physics.AddProbe(physics.NewHeadProbe(headNode, camera.Center, physics.DefaultHeadRadius))

	opts := flycam.DefaultOptions()
	opts.MoveSpeed = prefs.MoveSpeed
	if prefs.TurnSpeed > 0 {
		opts.TurnSpeedX, opts.TurnSpeedY = prefs.TurnSpeed, prefs.TurnSpeed
	}
	s.Fly = flycam.New(headNode, opts)
	return nil
}

func (s *Scene) buildPortals(l *layout.Layout) error {
	byName := make(map[string]portal.ID, len(l.Portals))
	for _, lp := range l.Portals {
		side, err := layout.ParseSide(lp.EnterSide)
		if err != nil {
			return fmt.Errorf("app: portal %s: %w", lp.Name, err)
		}
		dest, _ := l.World(lp.Destination)
		node := s.Graph.Add(lp.Name, nil, xform.New(vec(lp.Position), xform.Yaw(lp.Yaw)))

		culling := camera.LayersOf(lp.CullingLayers...)
		if len(lp.CullingLayers) == 0 {
			culling = camera.LayersOf(dest.Layer)
		}
		after := camera.LayersOf(lp.LayersAfterTeleport...)
		if len(lp.LayersAfterTeleport) == 0 {
			after = camera.LayersOf(dest.Layer, l.PortalLayer)
		}

		cfg := portal.Config{
			Name:                  lp.Name,
			Node:                  node,
			Virtual:               lp.Virtual,
			WillBeSetByOther:      lp.SetByOther,
			Source:                s.setup(lp.World),
			Destination:           s.setup(lp.Destination),
			EnterSide:             portal.Side(side),
			CullingMask:           culling,
			UserMaskAfterTeleport: after,
		}
		// Side B is the same opening seen from behind.
		triggers := [2]*physics.Trigger{}
		for i, rot := range []float32{0, 180} {
			sideNode := s.Graph.Add(fmt.Sprintf("%s/%s", lp.Name, portal.Side(i)), node, xform.New(mgl32.Vec3{}, xform.Yaw(rot)))
			w, h := lp.Size[0], lp.Size[1]
			trig := physics.NewTrigger(sideNode.Name, sideNode, mgl32.Vec3{0, h / 2, 0}, mgl32.Vec3{w / 2, h / 2, lp.Depth / 2})
			var plane portal.Surface
			if s.engine != nil {
				plane = s.engine.NewSurface(sideNode.Name, sideNode, w, h)
			}
			e := portal.Entrance{Side: portal.Side(i), Collider: trig, Plane: plane}
			if i == 0 {
				cfg.SideA = e
			} else {
				cfg.SideB = e
			}
			triggers[i] = trig
		}

		id, err := s.Portals.Add(cfg)
		if err != nil {
			return fmt.Errorf("app: %w", err)
		}
		for _, trig := range triggers {
			trig.OnEnter = func(p *physics.Probe) { s.Portals.OnTriggerEnter(id, p) }
			trig.OnExit = func(p *physics.Probe) { s.Portals.OnTriggerExit(id, p) }
			s.Physics.AddTrigger(trig)
		}
		byName[lp.Name] = id
		if !lp.Virtual && s.Home < 0 {
			s.Home = id
		}
	}
	for _, lp := range l.Portals {
		if lp.Pair == "" {
			continue
		}
		if err := s.Portals.SetPortalTarget(byName[lp.Name], byName[lp.Pair]); err != nil {
			return fmt.Errorf("app: portal %s: %w", lp.Name, err)
		}
	}
	return nil
}

// World returns the world named name.
func (s *Scene) World(name string) (*world.Setup, bool) {
	w, ok := s.names[name]
	return w, ok
}

// setup returns the world named name, or a nil SceneSetup.
func (s *Scene) setup(name string) portal.SceneSetup {
	if w, ok := s.names[name]; ok {
		return w
	}
	return nil
}

// Stereo reports whether the viewer renders two eyes.
func (s *Scene) Stereo() bool {
	return s.Viewer.Heads.Stereo()
}

func vec(v layout.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}
