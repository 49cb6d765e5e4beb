package app

import (
	"reality-portal/internal/camera"
	"reality-portal/internal/flycam"
)

// Stage names, in the order they run each frame.
const (
	StageUpdate    = "update"
	StagePhysics   = "physics"
	StageSync      = "sync"
	StageTeleports = "teleports"
	StageRender    = "render"
)

// Stage is one step of the frame.
type Stage struct {
	Name string
	Run  func(dt float32)
}

// Pipeline runs its stages in order every frame.
type Pipeline struct {
	stages []Stage
}

// Add appends a stage.
func (p *Pipeline) Add(name string, run func(dt float32)) {
	p.stages = append(p.stages, Stage{Name: name, Run: run})
}

// Run runs one frame.
func (p *Pipeline) Run(dt float32) {
	for _, s := range p.stages {
		s.Run(dt)
	}
}

// Names lists the stages in run order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.Name
	}
	return out
}

// Start runs once after the worlds started: stereo portal cameras and eye cameras take the
// backend's per-eye projection.
func (s *Scene) Start() {
	s.Portals.Start()
	if !s.Stereo() || s.engine == nil {
		return
	}
	for _, eye := range []camera.Eye{camera.Left, camera.Right} {
		head := s.Viewer.Heads.Get(eye)
		if m, ok := s.engine.StereoProjection(eye, head); ok {
			head.SetProjection(m)
		}
	}
}

// Pipeline returns the frame pipeline: update (input, fly camera, music) → physics (trigger
// events) → sync (portal camera poses) → teleports (then a second sync if the rig moved) →
// render. input and render may be nil.
func (s *Scene) Pipeline(input func(dt float32) flycam.Input, render func()) *Pipeline {
	p := &Pipeline{}
	p.Add(StageUpdate, func(dt float32) {
		if input != nil {
			s.Fly.Step(input(dt))
		}
		for _, w := range s.Worlds {
			w.Update()
		}
	})
	p.Add(StagePhysics, func(float32) { s.Physics.Step() })
	p.Add(StageSync, func(float32) { s.Portals.SyncPoses() })
	p.Add(StageTeleports, func(float32) {
		if s.Portals.ProcessEvents() > 0 {
			s.syncEyes()
			s.Portals.SyncPoses()
		}
	})
	p.Add(StageRender, func(float32) {
		if render != nil {
			render()
		}
	})
	return p
}

// syncEyes copies the center camera's skybox and culling mask into the eye cameras after a
// teleport changed them.
func (s *Scene) syncEyes() {
	heads := s.Viewer.Heads
	if !heads.Stereo() || heads.Center == nil {
		return
	}
	for _, c := range []*camera.Camera{heads.Left, heads.Right} {
		c.Skybox = heads.Center.Skybox
		c.CullingMask = heads.Center.CullingMask
	}
}
