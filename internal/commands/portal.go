package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Controls are the debug actions the portal commands drive.
type Controls interface {
	// NextDestination moves the pair of the named portal to the next virtual world.
	NextDestination(portal string) (string, error)
	// SetSide makes side ("A" or "B") the entrance of the named portal.
	SetSide(portal, side string) error
	// FlipSide swaps the entrance of the named portal.
	FlipSide(portal string) error
	// SetArmed arms or disarms teleporting through the named portal.
	SetArmed(portal string, armed bool) error
	ToggleFPS() bool
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// RegisterPortal adds the next, side, fps and arm commands. Results are reported through out.
// defaultPortal names the portal used when -portal is omitted.
func RegisterPortal(r *Registry, c Controls, defaultPortal string, out func(string)) {
	if out == nil {
		out = func(string) {}
	}

	next := newFlagSet("next")
	nextPortal := next.String("portal", defaultPortal, "real-world portal to cycle")
	r.Register("next", next, func() error {
		dest, err := c.NextDestination(*nextPortal)
		if err != nil {
			return err
		}
		out(fmt.Sprintf("%s now leads to %s", *nextPortal, dest))
		return nil
	})

	side := newFlagSet("side")
	sidePortal := side.String("portal", defaultPortal, "portal whose entrance changes")
	sideTo := side.String("to", "", "entrance side A or B; empty flips the current side")
	r.Register("side", side, func() error {
		if strings.TrimSpace(*sideTo) == "" {
			if err := c.FlipSide(*sidePortal); err != nil {
				return err
			}
			out(*sidePortal + " entrance flipped")
			return nil
		}
		if err := c.SetSide(*sidePortal, *sideTo); err != nil {
			return err
		}
		out(fmt.Sprintf("%s entrance set to %s", *sidePortal, strings.ToUpper(strings.TrimSpace(*sideTo))))
		return nil
	})

	fps := newFlagSet("fps")
	r.Register("fps", fps, func() error {
		if c.ToggleFPS() {
			out("FPS counter on")
		} else {
			out("FPS counter off")
		}
		return nil
	})

	arm := newFlagSet("arm")
	armPortal := arm.String("portal", defaultPortal, "portal to arm or disarm")
	armOff := arm.Bool("off", false, "disarm instead of arm")
	r.Register("arm", arm, func() error {
		if err := c.SetArmed(*armPortal, !*armOff); err != nil {
			return err
		}
		if *armOff {
			out(*armPortal + " disarmed")
		} else {
			out(*armPortal + " armed")
		}
		return nil
	})
}
