// Package audio plays looping background music through raylib's audio device.
package audio

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"reality-portal/internal/logger"
)

// searchRoots are tried in order so assets resolve from the repo root or from cmd/portal.
var searchRoots = []string{"", "../.."}

// Stream is a looping music stream. It implements world.Music and world.Streamer.
// The zero value and nil are silent.
type Stream struct {
	music rl.Music
	ok    bool
}

// Open loads the music file at path. A missing or undecodable file, or no audio device,
// logs a warning and returns a silent stream.
func Open(path string, log *logger.Logger) *Stream {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("AUDIO")
	if !rl.IsAudioDeviceReady() {
		log.Warn("Audio device not ready; " + path + " will be silent.")
		return &Stream{}
	}
	file := resolve(path)
	if file == "" {
		log.Warn("Music " + path + " not found.")
		return &Stream{}
	}
	m := rl.LoadMusicStream(file)
	if !rl.IsMusicValid(m) {
		log.Warn("Music " + path + " could not be decoded.")
		return &Stream{}
	}
	m.Looping = true
	return &Stream{music: m, ok: true}
}

func resolve(path string) string {
	for _, root := range searchRoots {
		p := filepath.Clean(filepath.Join(root, path))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (s *Stream) valid() bool { return s != nil && s.ok }

func (s *Stream) Play() {
	if s.valid() {
		rl.PlayMusicStream(s.music)
	}
}

func (s *Stream) Pause() {
	if s.valid() {
		rl.PauseMusicStream(s.music)
	}
}

func (s *Stream) Resume() {
	if s.valid() {
		rl.ResumeMusicStream(s.music)
	}
}

// Playing reports whether the stream is currently audible.
func (s *Stream) Playing() bool {
	return s.valid() && rl.IsMusicStreamPlaying(s.music)
}

// Update refills the stream buffers. Call once per frame while playing.
func (s *Stream) Update() {
	if s.valid() {
		rl.UpdateMusicStream(s.music)
	}
}

// Close unloads the stream.
func (s *Stream) Close() {
	if s.valid() {
		rl.UnloadMusicStream(s.music)
		s.ok = false
	}
}
