package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"reality-portal/internal/flycam"
)

// Fixed key bindings.
const (
	KeyNextDestination = rl.KeyN
	KeyFlipSide        = rl.KeyF
	KeyToggleFPS       = rl.KeyF3
	KeyToggleMem       = rl.KeyF4
	KeyToggleCursor    = rl.KeyTab
)

// FlyInput samples the mouse delta and WASD/arrow keys for the fly camera.
func FlyInput(dt float32) flycam.Input {
	d := rl.GetMouseDelta()
	in := flycam.Input{Dt: dt}
	if rl.IsCursorHidden() {
		in.Mouse = [2]float32{d.X, d.Y}
	}
	in.Forward = rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp)
	in.Back = rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown)
	in.Left = rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft)
	in.Right = rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight)
	return in
}

// Pressed reports whether key went down this frame.
func Pressed(key int32) bool {
	return rl.IsKeyPressed(key)
}

// ToggleCursor switches between mouse look (hidden cursor) and a free cursor.
func ToggleCursor() {
	if rl.IsCursorHidden() {
		rl.EnableCursor()
		return
	}
	rl.DisableCursor()
}
