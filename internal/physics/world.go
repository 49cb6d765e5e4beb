package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

// Trigger is an oriented box attached to a scene node. Center offsets the box in the
// node's local space; HalfExtents are along the node's local axes.
type Trigger struct {
	Name        string
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3

	// OnEnter and OnExit run on the goroutine that calls World.Step.
	OnEnter func(*Probe)
	OnExit  func(*Probe)

	node    *scene.Node
	enabled bool
	trigger bool
}

// NewTrigger returns an enabled trigger box on node.
func NewTrigger(name string, node *scene.Node, center, halfExtents mgl32.Vec3) *Trigger {
	return &Trigger{Name: name, node: node, Center: center, HalfExtents: halfExtents, enabled: true, trigger: true}
}

func (t *Trigger) SetEnabled(on bool) { t.enabled = on }
func (t *Trigger) Enabled() bool      { return t.enabled }
func (t *Trigger) SetTrigger(on bool) { t.trigger = on }
func (t *Trigger) IsTrigger() bool    { return t.trigger }

// Node returns the node the box is attached to.
func (t *Trigger) Node() *scene.Node { return t.node }

// Pose returns the world pose of the box center.
func (t *Trigger) Pose() xform.Pose {
	return t.node.World().Mul(xform.Pose{Position: t.Center, Rotation: mgl32.QuatIdent()})
}

// Bounds returns the world-space axis-aligned box enclosing the trigger.
func (t *Trigger) Bounds() AABB {
	w := t.Pose()
	m := w.Rotation.Mat4()
	var ext mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ext[i] += math32.Abs(m.At(i, j)) * t.HalfExtents[j]
		}
	}
	return AABB{Min: w.Position.Sub(ext), Max: w.Position.Add(ext)}
}

// Touches reports whether a sphere at world point c with radius r overlaps the box.
func (t *Trigger) Touches(c mgl32.Vec3, r float32) bool {
	local := t.Pose().InverseTransformPoint(c)
	var d2 float32
	for i := 0; i < 3; i++ {
		h := t.HalfExtents[i]
		closest := math32.Max(-h, math32.Min(h, local[i]))
		d := local[i] - closest
		d2 += d * d
	}
	return d2 <= r*r
}

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Sphere returns the box enclosing a sphere.
func Sphere(c mgl32.Vec3, r float32) AABB {
	e := mgl32.Vec3{r, r, r}
	return AABB{Min: c.Sub(e), Max: c.Add(e)}
}

// Overlaps reports whether a and b intersect. Touching faces count.
func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}

type contact struct {
	trigger *Trigger
	probe   *Probe
}

// World tracks which probes are inside which triggers and reports changes on Step.
type World struct {
	Triggers []*Trigger
	Probes   []*Probe
	inside   map[contact]bool
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{inside: make(map[contact]bool)}
}

// AddTrigger appends t. Order is preserved so events fire deterministically.
func (w *World) AddTrigger(t *Trigger) {
	w.Triggers = append(w.Triggers, t)
}

// AddProbe appends p.
func (w *World) AddProbe(p *Probe) {
	w.Probes = append(w.Probes, p)
}

// Inside reports whether p was inside t at the last Step.
func (w *World) Inside(t *Trigger, p *Probe) bool {
	return w.inside[contact{t, p}]
}

// Step recomputes overlaps and calls OnEnter/OnExit for every change since the last Step.
// A disabled trigger, a non-trigger box or a removed node forgets its contacts without
// firing OnExit.
func (w *World) Step() {
	for _, t := range w.Triggers {
		live := t.enabled && t.trigger && t.node.Alive()
		var bounds AABB
		if live {
			bounds = t.Bounds()
		}
		for _, p := range w.Probes {
			key := contact{t, p}
			if !live || !p.Node.Alive() {
				delete(w.inside, key)
				continue
			}
			c := p.Node.World().Position
			now := bounds.Overlaps(Sphere(c, p.Radius)) && t.Touches(c, p.Radius)
			was := w.inside[key]
			switch {
			case now && !was:
				w.inside[key] = true
				if t.OnEnter != nil {
					t.OnEnter(p)
				}
			case !now && was:
				delete(w.inside, key)
				if t.OnExit != nil {
					t.OnExit(p)
				}
			}
		}
	}
}
