package xform

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a rigid transform: rotation followed by translation. Scale is never part of a pose;
// every node in the portal scene graph is unscaled so poses compose without shear.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Identity returns the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// New returns a pose with the given position and rotation. The rotation is normalized.
func New(pos mgl32.Vec3, rot mgl32.Quat) Pose {
	return Pose{Position: pos, Rotation: rot.Normalize()}
}

// At returns an unrotated pose at (x, y, z).
func At(x, y, z float32) Pose {
	return Pose{Position: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()}
}

// Yaw returns a rotation of deg degrees about +Y.
func Yaw(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), mgl32.Vec3{0, 1, 0})
}

// Mul composes p (parent) with c (expressed in p's frame) and returns c in p's parent frame.
func (p Pose) Mul(c Pose) Pose {
	return Pose{
		Position: p.TransformPoint(c.Position),
		Rotation: p.Rotation.Mul(c.Rotation).Normalize(),
	}
}

// Inverse returns the pose that undoes p, so p.Mul(p.Inverse()) is the identity.
func (p Pose) Inverse() Pose {
	inv := p.Rotation.Inverse()
	return Pose{
		Position: inv.Rotate(p.Position.Mul(-1)),
		Rotation: inv,
	}
}

// TransformPoint maps a point from p's local frame into p's parent frame.
func (p Pose) TransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return p.Rotation.Rotate(v).Add(p.Position)
}

// InverseTransformPoint maps a point from p's parent frame into p's local frame.
func (p Pose) InverseTransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return p.Rotation.Inverse().Rotate(v.Sub(p.Position))
}

// TransformDirection rotates a direction from p's local frame into p's parent frame.
func (p Pose) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return p.Rotation.Rotate(d)
}

// Forward is the local -Z axis in the parent frame (raylib/OpenGL convention).
func (p Pose) Forward() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right is the local +X axis in the parent frame.
func (p Pose) Right() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Up is the local +Y axis in the parent frame.
func (p Pose) Up() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Mat4 returns the column-major model matrix of p.
func (p Pose) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Rotation.Mat4())
}

// ApproxEqual reports whether positions lie within eps of each other and rotations differ by
// at most eps in quaternion dot product. q and -q describe the same rotation and compare equal.
func (p Pose) ApproxEqual(o Pose, eps float32) bool {
	if !Near(p.Position, o.Position, eps) {
		return false
	}
	return math32.Abs(p.Rotation.Dot(o.Rotation)) >= 1-eps
}

// Near reports whether a and b are at most eps apart.
func Near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

// Through re-expresses world pose p, seen relative to the from frame, in the to frame.
// This is the see-through mapping of a portal: a pose in front of from lands at the same
// relative spot in front of to.
func Through(from, to, p Pose) Pose {
	return to.Mul(from.Inverse().Mul(p))
}

// Delta returns the rigid transform d with d.Mul(from) == to.
func Delta(from, to Pose) Pose {
	return to.Mul(from.Inverse())
}
