// Package flycam turns mouse and WASD input into head camera motion for desktop runs.
package flycam

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

// MaxPitch keeps the camera from flipping over the poles.
const MaxPitch = 89

// Input is one frame of controller input. Mouse is the cursor delta in pixels, +Y down.
type Input struct {
	Mouse                      [2]float32
	Forward, Back, Left, Right bool
	Dt                         float32
}

// Options tune the controller. Turn speeds are degrees per pixel per second.
type Options struct {
	AllowMovement bool
	MoveSpeed     float32
	TurnSpeedX    float32
	TurnSpeedY    float32
}

// DefaultOptions match a typical desktop mouse.
func DefaultOptions() Options {
	return Options{AllowMovement: true, MoveSpeed: 2, TurnSpeedX: 6, TurnSpeedY: 6}
}

// Controller drives Node's local pose. Roll is always zero.
type Controller struct {
	Node *scene.Node
	Options

	yaw, pitch float32
}

// New returns a controller that starts from node's current heading.
func New(node *scene.Node, opts Options) *Controller {
	c := &Controller{Node: node, Options: opts}
	fwd := node.Local.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
	c.yaw = wrap(mgl32.RadToDeg(math32.Atan2(-fwd.X(), -fwd.Z())))
	c.pitch = mgl32.RadToDeg(math32.Asin(mgl32.Clamp(fwd.Y(), -1, 1)))
	return c
}

// Yaw returns the heading in degrees about +Y, in [0, 360).
func (c *Controller) Yaw() float32 { return c.yaw }

// Pitch returns the elevation in degrees.
func (c *Controller) Pitch() float32 { return c.pitch }

// Step applies one frame of input. Mouse right turns right, mouse up looks up; movement keys
// add up, so a diagonal is faster than a straight line.
func (c *Controller) Step(in Input) {
	if !c.Node.Alive() {
		return
	}
	c.yaw = wrap(c.yaw - in.Mouse[0]*c.TurnSpeedY*in.Dt)
	c.pitch = math32.Max(-MaxPitch, math32.Min(MaxPitch, c.pitch-in.Mouse[1]*c.TurnSpeedX*in.Dt))
	rot := xform.Yaw(c.yaw).Mul(mgl32.QuatRotate(mgl32.DegToRad(c.pitch), mgl32.Vec3{1, 0, 0}))

	local := c.Node.Local
	local.Rotation = rot
	if c.AllowMovement {
		fwd := rot.Rotate(mgl32.Vec3{0, 0, -1})
		right := rot.Rotate(mgl32.Vec3{1, 0, 0})
		var move mgl32.Vec3
		if in.Forward {
			move = move.Add(fwd)
		}
		if in.Back {
			move = move.Sub(fwd)
		}
		if in.Left {
			move = move.Sub(right)
		}
		if in.Right {
			move = move.Add(right)
		}
		local.Position = local.Position.Add(move.Mul(c.MoveSpeed * in.Dt))
	}
	c.Node.Local = local
}

func wrap(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
