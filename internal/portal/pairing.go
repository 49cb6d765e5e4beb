package portal

import (
	"fmt"

	"reality-portal/internal/camera"
)

// SetEnterSide makes side the only live entrance of id: its collider and plane are enabled,
// the other side's are disabled, and its plane receives the portal camera textures.
func (s *System) SetEnterSide(id ID, side Side) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	active := p.sides[side]
	if active.Plane == nil {
		return fmt.Errorf("portal: %s side %s: %w", p.name, side, ErrNoActiveSide)
	}
	p.enterSide = side
	for _, e := range p.sides {
		on := e.Side == side
		if e.Collider != nil {
			e.Collider.SetTrigger(true)
			e.Collider.SetEnabled(on)
		}
		if e.Plane != nil {
			e.Plane.SetEnabled(on)
		}
	}
	p.plane = active.Plane
	for _, eye := range camera.Eyes {
		if m := p.mirrors[eye]; m != nil {
			s.bind(p, eye, m.Target)
		}
	}
	return nil
}

// SetPortalTarget points id at pair. The link is one-way; Configure and NextDestination set
// the back link.
func (s *System) SetPortalTarget(id, pair ID) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	if _, err := s.get(pair); err != nil {
		return err
	}
	if id == pair {
		return fmt.Errorf("portal: pair %d: %w", id, ErrSelfPair)
	}
	s.pairs[id] = pair
	return nil
}

// Pair returns the portal id points at.
func (s *System) Pair(id ID) (ID, bool) {
	pid, ok := s.pairs[id]
	return pid, ok
}

// SetSourceScene sets the world id stands in.
func (s *System) SetSourceScene(id ID, setup SceneSetup) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.source = setup
	return nil
}

// SetAllowTeleport arms or disarms id.
func (s *System) SetAllowTeleport(id ID, allow bool) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.allowTeleport = allow
	return nil
}

// Configure pairs and initializes every portal not flagged WillBeSetByOther: it sets its enter
// side, initializes it, then makes its pair point back, enter from the opposite side, stand in
// this portal's destination and initialize. A portal without a pair is a startup error.
func (s *System) Configure() error {
	for _, p := range s.portals {
		if p.willBeSetByOther {
			continue
		}
		pair := s.pairOf(p)
		if pair == nil {
			return fmt.Errorf("portal: configure %s: %w", p.name, ErrNoPair)
		}
		if err := s.SetEnterSide(p.id, p.enterSide); err != nil {
			return err
		}
		if err := s.Init(p.id); err != nil {
			return err
		}
		if err := s.SetPortalTarget(pair.id, p.id); err != nil {
			return err
		}
		if err := s.SetEnterSide(pair.id, p.enterSide.Opposite()); err != nil {
			return err
		}
		pair.source = p.destination
		if err := s.Init(pair.id); err != nil {
			return err
		}
		s.log.Info(fmt.Sprintf("Paired %s (side %s) with %s (side %s).", p.name, p.enterSide, pair.name, pair.enterSide))
	}
	return nil
}

// Destinations lists the virtual-world portals in declaration order. This is the fixed cycle
// order used by NextDestination.
func (s *System) Destinations() []ID {
	var out []ID
	for _, p := range s.portals {
		if p.virtual {
			out = append(out, p.id)
		}
	}
	return out
}

// NextDestination re-pairs the real-world portal id with the next virtual-world portal,
// wrapping around. The new target enters from the opposite side, points back at id, is
// initialized if needed, and id's portal cameras show the new destination's skybox.
// The previous destination keeps pointing at id.
func (s *System) NextDestination(id ID) (ID, error) {
	p, err := s.get(id)
	if err != nil {
		return -1, err
	}
	if p.virtual {
		return -1, fmt.Errorf("portal: next destination of %s: %w", p.name, ErrNotChainable)
	}
	dests := s.Destinations()
	if len(dests) == 0 {
		return -1, fmt.Errorf("portal: next destination of %s: %w", p.name, ErrNoDestinations)
	}
	current := -1
	if pid, ok := s.pairs[id]; ok {
		for i, d := range dests {
			if d == pid {
				current = i
				break
			}
		}
	}
	next := s.portals[dests[(current+1)%len(dests)]]

	// Failures leave the current pairing in place.
	if err := s.SetEnterSide(next.id, p.enterSide.Opposite()); err != nil {
		return -1, err
	}
	if !next.isInit {
		if err := s.Init(next.id); err != nil {
			return -1, err
		}
	}
	s.pairs[id] = next.id
	s.pairs[next.id] = id
	p.destination = next.source

	var sky *camera.Skybox
	if next.source != nil {
		sky = next.source.Skybox()
	}
	for _, m := range p.mirrors {
		if m != nil {
			m.Skybox = sky
		}
	}
	s.log.Info(fmt.Sprintf("Portal %s now leads to %s.", p.name, next.name))
	return next.id, nil
}
