package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Target is a raylib render texture. It implements camera.Target.
type Target struct {
	rt       rl.RenderTexture2D
	released bool
}

func (t *Target) Width() int  { return int(t.rt.Texture.Width) }
func (t *Target) Height() int { return int(t.rt.Texture.Height) }

// Texture returns the color attachment to sample from.
func (t *Target) Texture() rl.Texture2D { return t.rt.Texture }

// Release frees the GPU texture. Releasing twice is a no-op.
func (t *Target) Release() {
	if t.released {
		return
	}
	t.released = true
	rl.UnloadRenderTexture(t.rt)
}

// Valid reports whether the target can still be drawn into.
func (t *Target) Valid() bool {
	return t != nil && !t.released && rl.IsRenderTextureValid(t.rt)
}
