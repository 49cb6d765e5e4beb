package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"

	"reality-portal/internal/app"
	"reality-portal/internal/commands"
	"reality-portal/internal/debug"
	"reality-portal/internal/engineconfig"
	"reality-portal/internal/env"
	"reality-portal/internal/flycam"
	"reality-portal/internal/graphics"
	"reality-portal/internal/layout"
	"reality-portal/internal/logger"
	"reality-portal/internal/render"
	"reality-portal/internal/terminal"
)

func main() {
	layoutFlag := flag.String("layout", "", "scene layout file (overrides prefs and "+env.KeyLayout+")")
	stereoFlag := flag.Bool("stereo", false, "simulate a stereo headset")
	flag.Parse()

	log := logger.New()
	loaded, err := env.Load(".env")
	if err != nil {
		log.Warn("Could not read .env: " + err.Error())
	}
	if keys := env.Overrides(loaded); len(keys) > 0 {
		log.Info("Overrides from .env: " + strings.Join(keys, ", "))
	}
	prefs, _ := engineconfig.Load()
	prefs, err := env.Apply(prefs)
	if err != nil {
		log.Warn(err.Error())
	}
	if *layoutFlag != "" {
		prefs.LayoutPath = *layoutFlag
	}
	if *stereoFlag {
		prefs.Stereo = true
	}

	l, err := layout.Load(prefs.LayoutPath)
	if err != nil {
		log.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)
	dbg.ShowStatus = prefs.ShowPortals

	var (
		eng      *engine
		renderer *render.Renderer
		scn      *app.Scene
		frame    *app.Pipeline
		registry = commands.NewRegistry()
		console  = commands.NewConsole(os.Stdin, 16)
	)

	run := func(line string) {
		args, ok := commands.Parse(line)
		if !ok {
			return
		}
		if err := registry.Execute(args); err != nil {
			log.Warn("Command failed: " + err.Error())
		}
	}

	term := terminal.New(log, run)
	input := func(dt float32) flycam.Input {
		if term.IsOpen() {
			return flycam.Input{Dt: dt}
		}
		return graphics.FlyInput(dt)
	}

	setup := func() error {
		eng = &engine{Backend: render.NewBackend(render.BackendOptions{Stereo: prefs.Stereo, IPD: prefs.IPD, Log: log}), log: log}
		var err error
		if scn, err = app.Build(l, prefs, eng, log); err != nil {
			return err
		}
		renderer = render.NewRenderer(render.RendererOptions{
			Backend:     eng.Backend,
			Worlds:      scn.Worlds,
			PortalLayer: l.PortalLayer,
			Clear:       color.RGBA{R: 30, G: 32, B: 38, A: 255},
			Log:         log,
		})
		for _, p := range eng.planes {
			renderer.AddPlane(p)
		}
		scn.OnToggleFPS = func() bool {
			dbg.SetShowFPS(!dbg.ShowFPS)
			return dbg.ShowFPS
		}
		commands.RegisterPortal(registry, scn, scn.HomeName(), log.Info)
		scn.Start()

		draw := func() {
			renderer.Frame(scn.Portals.Cameras(), scn.Viewer.Heads)
			dbg.SetStatus(scn.Status()...)
			dbg.Draw()
			term.Draw()
			renderer.EndFrame()
		}
		frame = scn.Pipeline(input, draw)
		return nil
	}

	update := func(dt float32) {
		if frame == nil {
			return
		}
		for _, line := range console.Poll() {
			run(line)
		}
		term.Update()
		switch {
		case term.IsOpen():
			// Keys belong to the terminal while it is open.
		case graphics.Pressed(graphics.KeyNextDestination):
			run("cmd next")
		case graphics.Pressed(graphics.KeyFlipSide):
			run("cmd side")
		case graphics.Pressed(graphics.KeyToggleFPS):
			run("cmd fps")
		case graphics.Pressed(graphics.KeyToggleMem):
			dbg.SetShowMemAlloc(!dbg.ShowMemAlloc)
		case graphics.Pressed(graphics.KeyToggleCursor):
			graphics.ToggleCursor()
		}
		frame.Run(dt)
	}

	teardown := func() {
		if scn != nil {
			scn.Portals.Close()
		}
		if renderer != nil {
			renderer.Close()
		}
		if eng != nil {
			eng.Close()
		}
		// Only the overlay toggles persist; flags and environment overrides do not.
		saved, _ := engineconfig.Load()
		saved.ShowFPS = dbg.ShowFPS
		saved.ShowMemAlloc = dbg.ShowMemAlloc
		if err := engineconfig.Save(saved); err != nil {
			log.Warn("Could not save engine prefs: " + err.Error())
		}
	}

	err = graphics.Run(graphics.Window{
		Title:      "Reality Portal",
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		Fullscreen: prefs.Fullscreen,
		TargetFPS:  prefs.TargetFPS,
		Audio:      true,
	}, setup, update, nil, teardown)
	if err != nil {
		log.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
