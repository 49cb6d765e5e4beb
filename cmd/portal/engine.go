package main

import (
	"reality-portal/internal/audio"
	"reality-portal/internal/logger"
	"reality-portal/internal/portal"
	"reality-portal/internal/render"
	"reality-portal/internal/scene"
	"reality-portal/internal/world"
)

// engine hands the scene builder raylib planes and music. It implements app.Engine.
type engine struct {
	*render.Backend
	planes  []*render.Plane
	streams []*audio.Stream
	log     *logger.Logger
}

func (e *engine) NewSurface(name string, node *scene.Node, w, h float32) portal.Surface {
	p := render.NewPlane(name, node, w, h)
	e.planes = append(e.planes, p)
	return p
}

func (e *engine) NewMusic(path string) world.Music {
	s := audio.Open(path, e.log)
	e.streams = append(e.streams, s)
	return s
}

func (e *engine) Close() {
	for _, s := range e.streams {
		s.Close()
	}
	e.Backend.Close()
}
