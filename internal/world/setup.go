package world

import (
	"fmt"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
)

// Music is a looping track owned by one world.
type Music interface {
	Play()
	Pause()
	Resume()
	Playing() bool
}

// Streamer is implemented by music that must be fed every frame.
type Streamer interface {
	Update()
}

// Options configure a Setup.
type Options struct {
	Skybox       *camera.Skybox
	Music        Music
	StartOnAwake bool
	Log          *logger.Logger
}

// Setup is the lifecycle of one world: its music, its skybox and the objects that live in it.
// It implements portal.SceneSetup.
type Setup struct {
	Name string

	sky     *camera.Skybox
	music   Music
	objects []*Object
	running bool
	paused  bool
	log     *logger.Logger
}

// New returns a stopped world unless opts.StartOnAwake is set.
func New(name string, opts Options) *Setup {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	s := &Setup{Name: name, sky: opts.Skybox, music: opts.Music, log: log}
	if opts.StartOnAwake {
		s.StartScene()
	}
	return s
}

// StartScene resumes the world's music where it was paused, or starts it. Starting a running
// world does nothing.
func (s *Setup) StartScene() {
	if s.running {
		return
	}
	s.running = true
	s.log.Info(fmt.Sprintf("World %s started.", s.Name))
	if s.music == nil {
		return
	}
	if s.paused {
		s.paused = false
		s.music.Resume()
		return
	}
	s.music.Play()
}

// StopScene pauses the world's music. Stopping a stopped world does nothing.
func (s *Setup) StopScene() {
	if !s.running {
		return
	}
	s.running = false
	s.log.Info(fmt.Sprintf("World %s stopped.", s.Name))
	if s.music != nil && s.music.Playing() {
		s.paused = true
		s.music.Pause()
	}
}

// Running reports whether the world was started and not stopped since.
func (s *Setup) Running() bool {
	return s.running
}

// Skybox returns the material the head camera shows while inside this world. Nil means the
// camera clears to its solid color.
func (s *Setup) Skybox() *camera.Skybox {
	return s.sky
}

// SetSkybox replaces the world's skybox.
func (s *Setup) SetSkybox(sky *camera.Skybox) {
	s.sky = sky
}

// Update feeds streaming music. Call once per frame.
func (s *Setup) Update() {
	if st, ok := s.music.(Streamer); ok && s.running {
		st.Update()
	}
}

// Add places o in this world.
func (s *Setup) Add(o *Object) {
	s.objects = append(s.objects, o)
}

// Objects returns every object of the world in insertion order.
func (s *Setup) Objects() []*Object {
	return s.objects
}
