package portal

import (
	"fmt"
	"sync"

	"reality-portal/internal/camera"
)

// EventKind is the kind of trigger notification.
type EventKind int

const (
	TriggerEnter EventKind = iota
	TriggerExit
)

func (k EventKind) String() string {
	if k == TriggerExit {
		return "exit"
	}
	return "enter"
}

// Event is a trigger notification for one portal. Other is the collider that overlapped the
// portal's active entrance.
type Event struct {
	Kind   EventKind
	Portal ID
	Other  Marked
}

// Queue buffers trigger events until the frame loop drains them. Push is safe from any goroutine;
// only the frame loop drains, so the rig has a single writer.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain removes and returns every buffered event in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// OnTriggerEnter queues an enter event for id.
func (s *System) OnTriggerEnter(id ID, other Marked) {
	s.queue.Push(Event{Kind: TriggerEnter, Portal: id, Other: other})
}

// OnTriggerExit queues an exit event for id.
func (s *System) OnTriggerExit(id ID, other Marked) {
	s.queue.Push(Event{Kind: TriggerExit, Portal: id, Other: other})
}

// ProcessEvents drains the trigger queue and applies teleports. It returns how many teleports
// happened; the caller re-syncs portal cameras when that is non-zero.
func (s *System) ProcessEvents() int {
	n := 0
	for _, e := range s.queue.Drain() {
		p, ok := s.Portal(e.Portal)
		if !ok {
			continue
		}
		switch e.Kind {
		case TriggerEnter:
			if s.onEnter(p, e.Other) {
				n++
			}
		case TriggerExit:
			s.onExit(p, e.Other)
		}
	}
	return n
}

func isHead(other Marked) bool {
	if other == nil {
		return false
	}
	_, ok := other.Marker()
	return ok
}

// onEnter teleports the rig through p. The flag check, rig mutation and disarm run in this one
// call, so nothing reads the rig half-moved.
//
// Known issue kept from the first version of this mechanic: under some trigger geometries the
// crossing lands the rig at an unexpectedly large displacement. The re-arm flags only stop the
// repeated case.
func (s *System) onEnter(p *Portal, other Marked) bool {
	if !p.allowTeleport || !p.enabled || !p.isInit {
		return false
	}
	if !isHead(other) {
		return false
	}
	pair := s.pairOf(p)
	head, mirror := s.viewer.Heads.Center, p.mirrors[camera.Center]
	if pair == nil || head == nil || mirror == nil || !s.viewer.Rig.Alive() || !head.Node.Alive() {
		s.log.Warn(fmt.Sprintf("Portal %s was entered but cannot teleport (missing pair, camera or rig).", p.name))
		return false
	}

	s.teleport(head, mirror)
	s.teleports++

	if !p.virtual {
		if p.destination != nil {
			head.Skybox = p.destination.Skybox()
			p.destination.StartScene()
		}
	} else {
		head.Skybox = nil
		if p.source != nil {
			p.source.StopScene()
		}
	}
	head.CullingMask = p.userMaskAfterTeleport

	// The viewer now stands in the pair's trigger; both stay disarmed until their exit.
	pair.allowTeleport = false
	p.allowTeleport = false

	s.log.Info(fmt.Sprintf("Teleported through %s to %s.", p.name, pair.name))
	s.updateOverlay(p, pair)
	return true
}

// teleport rotates the rig so the head faces like the portal camera, then shifts it so the head
// lands on the portal camera. The head position is read after the rotation because rotating the
// rig swings the head around the rig origin.
func (s *System) teleport(head, mirror *camera.Camera) {
	rig := s.viewer.Rig
	diff := mirror.Pose().Rotation.Mul(head.Pose().Rotation.Inverse())
	r := rig.World()
	r.Rotation = diff.Mul(r.Rotation).Normalize()
	rig.SetWorld(r)

	delta := mirror.Pose().Position.Sub(head.Pose().Position)
	r = rig.World()
	r.Position = r.Position.Add(delta)
	rig.SetWorld(r)
}

func (s *System) updateOverlay(p, pair *Portal) {
	if s.overlay == nil {
		return
	}
	if !p.virtual {
		s.overlay.SetProjectionSurface(UserDefined)
		s.overlay.SetUnderlay(true)
		s.overlay.Restart()
		// The target portal's plane becomes a cutout.
		if pair.plane != nil && pair.plane.Alive() {
			s.overlay.AddSurfaceGeometry(pair.plane)
		}
		return
	}
	// Back in the real world: our own plane was the cutout.
	if p.plane != nil && p.plane.Alive() {
		s.overlay.RemoveSurfaceGeometry(p.plane)
	}
	s.overlay.SetProjectionSurface(Reconstructed)
	s.overlay.SetUnderlay(true)
	s.overlay.Restart()
}

func (s *System) onExit(p *Portal, other Marked) {
	if p.allowTeleport || !p.enabled {
		return
	}
	if !isHead(other) {
		return
	}
	p.allowTeleport = true
}
