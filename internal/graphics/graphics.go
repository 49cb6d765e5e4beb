package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window configures the window opened by Run.
type Window struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool // uses the monitor size, Width and Height are ignored
	TargetFPS  int
	Audio      bool
}

// Run opens the window and drives the main loop. Each frame it calls update with the frame
// time in seconds, then draw. draw owns BeginDrawing/EndDrawing so it can render off-screen
// targets first. setup runs once after the window (and audio device) exist; its error closes
// the window and is returned. teardown runs once before the window closes. setup, draw and
// teardown may be nil. ESC does not quit; close via the window button.
func Run(w Window, setup func() error, update func(dt float32), draw func(), teardown func()) error {
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
		rl.InitWindow(int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0)), w.Title)
	} else {
		rl.SetConfigFlags(rl.FlagMsaa4xHint)
		rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	}
	defer rl.CloseWindow()

	if w.Audio {
		rl.InitAudioDevice()
		defer rl.CloseAudioDevice()
	}

	rl.SetExitKey(rl.KeyNull)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}
	rl.DisableCursor()

	if teardown != nil {
		defer teardown()
	}
	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}
	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())
		if draw != nil {
			draw()
		}
	}
	return nil
}
