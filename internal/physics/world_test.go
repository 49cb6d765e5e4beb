package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reality-portal/internal/camera"
	"reality-portal/internal/portal"
	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

var (
	_ portal.Collider = (*Trigger)(nil)
	_ portal.Marked   = (*Probe)(nil)
)

type recorder struct {
	events []string
}

func (r *recorder) watch(t *Trigger) {
	t.OnEnter = func(p *Probe) { r.events = append(r.events, "enter "+p.Name) }
	t.OnExit = func(p *Probe) { r.events = append(r.events, "exit "+p.Name) }
}

func setup(t *testing.T) (*World, *Trigger, *Probe, *recorder) {
	t.Helper()
	g := scene.New()
	door := g.Add("door", nil, xform.At(5, 0, 0))
	head := g.Add("head", nil, xform.At(5, 0, 3))
	w := NewWorld()
	trig := NewTrigger("door/A", door, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0.1})
	probe := NewHeadProbe(head, camera.Center, 0.1)
	w.AddTrigger(trig)
	w.AddProbe(probe)
	rec := &recorder{}
	rec.watch(trig)
	return w, trig, probe, rec
}

func TestEnterExitOnce(t *testing.T) {
	w, trig, probe, rec := setup(t)
	for _, z := range []float32{3, 1, 0.15, 0.05, 0, -0.05, -0.15, -1} {
		probe.Node.Local = xform.At(5, 1, z)
		w.Step()
		if z == 0 {
			assert.True(t, w.Inside(trig, probe))
		}
	}
	assert.Equal(t, []string{"enter head/center", "exit head/center"}, rec.events)
}

func TestOrientedBox(t *testing.T) {
	g := scene.New()
	door := g.Add("door", nil, xform.New(mgl32.Vec3{0, 0, 0}, xform.Yaw(90)))
	trig := NewTrigger("door", door, mgl32.Vec3{}, mgl32.Vec3{1, 1, 0.1})

	// Turned a quarter round, the thin axis runs along world X.
	assert.True(t, trig.Touches(mgl32Vec(0, 0, 0.9), 0.01))
	assert.False(t, trig.Touches(mgl32Vec(0.5, 0, 0), 0.01))
	assert.True(t, trig.Touches(mgl32Vec(0.15, 0, 0), 0.1))

	b := trig.Bounds()
	assert.InDelta(t, 0.1, b.Max.X(), 1e-5)
	assert.InDelta(t, 1, b.Max.Z(), 1e-5)
}

func TestDisabledTriggerForgetsContacts(t *testing.T) {
	w, trig, probe, rec := setup(t)
	probe.Node.Local = xform.At(5, 1, 0)
	w.Step()
	require.Equal(t, []string{"enter head/center"}, rec.events)

	trig.SetEnabled(false)
	w.Step()
	assert.False(t, w.Inside(trig, probe))
	assert.Len(t, rec.events, 1, "disabling does not fire exit")

	trig.SetEnabled(true)
	w.Step()
	assert.Equal(t, []string{"enter head/center", "enter head/center"}, rec.events)
}

func TestNonTriggerBoxIsSilent(t *testing.T) {
	w, trig, probe, rec := setup(t)
	trig.SetTrigger(false)
	probe.Node.Local = xform.At(5, 1, 0)
	w.Step()
	assert.Empty(t, rec.events)
}

func TestRemovedNodes(t *testing.T) {
	g := scene.New()
	door := g.Add("door", nil, xform.Identity())
	head := g.Add("head", nil, xform.Identity())
	w := NewWorld()
	trig := NewTrigger("door", door, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	probe := NewProbe("hand", head, 0.05)
	w.AddTrigger(trig)
	w.AddProbe(probe)
	w.Step()
	require.True(t, w.Inside(trig, probe))

	g.Remove(door)
	assert.NotPanics(t, w.Step)
	assert.False(t, w.Inside(trig, probe))
}

func TestProbeMarker(t *testing.T) {
	g := scene.New()
	n := g.Add("n", nil, xform.Identity())

	eye, ok := NewHeadProbe(n, camera.Left, 0).Marker()
	assert.True(t, ok)
	assert.Equal(t, camera.Left, eye)

	_, ok = NewProbe("hand", n, 0.05).Marker()
	assert.False(t, ok)
	assert.Equal(t, float32(DefaultHeadRadius), NewProbe("x", n, 0).Radius)
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: mgl32Vec(0, 0, 0), Max: mgl32Vec(1, 1, 1)}
	assert.True(t, a.Overlaps(AABB{Min: mgl32Vec(1, 1, 1), Max: mgl32Vec(2, 2, 2)}))
	assert.False(t, a.Overlaps(Sphere(mgl32Vec(3, 0, 0), 1)))
}

func mgl32Vec(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }
