package flycam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

func head(t *testing.T, local xform.Pose) (*scene.Graph, *scene.Node) {
	t.Helper()
	g := scene.New()
	rig := g.Add("rig", nil, xform.Identity())
	return g, g.Add("head", rig, local)
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4)
	}
}

func TestNewReadsHeading(t *testing.T) {
	_, n := head(t, xform.New(mgl32.Vec3{}, xform.Yaw(90)))
	c := New(n, DefaultOptions())
	assert.InDelta(t, 90, c.Yaw(), 1e-3)
	assert.InDelta(t, 0, c.Pitch(), 1e-3)
}

func TestMouseTurns(t *testing.T) {
	_, n := head(t, xform.Identity())
	c := New(n, Options{TurnSpeedX: 6, TurnSpeedY: 6})

	c.Step(Input{Mouse: [2]float32{5, 0}, Dt: 1})
	assert.InDelta(t, 330, c.Yaw(), 1e-3, "mouse right turns right")
	assertVec(t, xform.Yaw(-30).Rotate(mgl32.Vec3{0, 0, -1}), n.Local.Forward())

	c.Step(Input{Mouse: [2]float32{0, -5}, Dt: 1})
	assert.InDelta(t, 30, c.Pitch(), 1e-3)
	assert.Greater(t, n.Local.Forward().Y(), float32(0), "mouse up looks up")

	c.Step(Input{Mouse: [2]float32{0, -1000}, Dt: 1})
	assert.Equal(t, float32(MaxPitch), c.Pitch())
}

func TestNoRoll(t *testing.T) {
	_, n := head(t, xform.Identity())
	c := New(n, DefaultOptions())
	for i := 0; i < 20; i++ {
		c.Step(Input{Mouse: [2]float32{float32(i * 3), float32(7 - i)}, Dt: 0.1})
		assert.InDelta(t, 0, n.Local.Right().Y(), 1e-4)
	}
}

func TestMovement(t *testing.T) {
	_, n := head(t, xform.At(0, 1.7, 0))
	c := New(n, Options{AllowMovement: true, MoveSpeed: 2})

	c.Step(Input{Forward: true, Dt: 0.5})
	assertVec(t, mgl32.Vec3{0, 1.7, -1}, n.Local.Position)

	c.Step(Input{Back: true, Right: true, Dt: 0.5})
	assertVec(t, mgl32.Vec3{1, 1.7, 0}, n.Local.Position)

	before := n.Local.Position
	c.Step(Input{Forward: true, Left: true, Dt: 0.5})
	assert.InDelta(t, 1.41421, n.Local.Position.Sub(before).Len(), 1e-4, "keys add up")
}

func TestMovementDisabled(t *testing.T) {
	_, n := head(t, xform.At(0, 1.7, 0))
	c := New(n, Options{MoveSpeed: 2})
	c.Step(Input{Forward: true, Dt: 1})
	assertVec(t, mgl32.Vec3{0, 1.7, 0}, n.Local.Position)
}

func TestRemovedNode(t *testing.T) {
	g, n := head(t, xform.Identity())
	c := New(n, DefaultOptions())
	g.Remove(n)
	assert.NotPanics(t, func() { c.Step(Input{Forward: true, Dt: 1}) })
}
