package app

import (
	"fmt"

	"reality-portal/internal/layout"
	"reality-portal/internal/portal"
)

// Scene implements commands.Controls.

func (s *Scene) lookup(name string) (*portal.Portal, error) {
	id, ok := s.Portals.ByName(name)
	if !ok {
		return nil, fmt.Errorf("app: portal %q: %w", name, portal.ErrUnknownPortal)
	}
	p, _ := s.Portals.Portal(id)
	return p, nil
}

// NextDestination cycles the named real-world portal and returns the new pair's name.
func (s *Scene) NextDestination(name string) (string, error) {
	p, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	next, err := s.Portals.NextDestination(p.ID())
	if err != nil {
		return "", err
	}
	np, _ := s.Portals.Portal(next)
	return np.Name(), nil
}

// SetSide makes side ("A" or "B") the entrance of the named portal.
func (s *Scene) SetSide(name, side string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	sd, err := layout.ParseSide(side)
	if err != nil {
		return err
	}
	return s.Portals.SetEnterSide(p.ID(), portal.Side(sd))
}

// FlipSide swaps the entrance of the named portal.
func (s *Scene) FlipSide(name string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	return s.Portals.SetEnterSide(p.ID(), p.EnterSide().Opposite())
}

// SetArmed arms or disarms teleporting through the named portal.
func (s *Scene) SetArmed(name string, armed bool) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	return s.Portals.SetAllowTeleport(p.ID(), armed)
}

// ToggleFPS flips the FPS overlay through the hook set by the entry point.
func (s *Scene) ToggleFPS() bool {
	if s.OnToggleFPS == nil {
		return false
	}
	return s.OnToggleFPS()
}

// HomeName is the name of the default portal for commands.
func (s *Scene) HomeName() string {
	p, ok := s.Portals.Portal(s.Home)
	if !ok {
		return ""
	}
	return p.Name()
}

// Status describes the scene for the debug overlay.
func (s *Scene) Status() []string {
	mode := "mono"
	if s.Stereo() {
		mode = "stereo"
	}
	lines := []string{fmt.Sprintf("Teleports: %d (%s)", s.Portals.Teleports(), mode)}
	for _, id := range s.Portals.IDs() {
		p, _ := s.Portals.Portal(id)
		if p.Virtual() {
			continue
		}
		to := "-"
		if pid, ok := s.Portals.Pair(id); ok {
			if pp, ok := s.Portals.Portal(pid); ok {
				to = pp.Name()
			}
		}
		armed := "armed"
		if !p.AllowTeleport() {
			armed = "disarmed"
		}
		lines = append(lines, fmt.Sprintf("%s -> %s (side %s, %s)", p.Name(), to, p.EnterSide(), armed))
	}
	lines = append(lines, fmt.Sprintf("Passthrough: %s, %d cutout(s)", s.Passthrough.ModeName(), len(s.Passthrough.Cutouts())))
	return lines
}
