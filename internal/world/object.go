package world

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/scene"
)

// Shape names a built-in mesh.
type Shape string

const (
	Cube     Shape = "cube"
	Sphere   Shape = "sphere"
	Cylinder Shape = "cylinder"
	Plane    Shape = "plane"
)

// Valid reports whether s is a known mesh.
func (s Shape) Valid() bool {
	switch s {
	case Cube, Sphere, Cylinder, Plane:
		return true
	}
	return false
}

// Object is one drawable in a world. Layer decides which cameras see it.
type Object struct {
	Name  string
	Node  *scene.Node
	Shape Shape
	Scale mgl32.Vec3
	Color color.RGBA
	Layer int
}

// Model returns the object's model matrix: node pose then scale. A zero scale axis counts as 1.
func (o *Object) Model() mgl32.Mat4 {
	s := o.Scale
	for i := range s {
		if s[i] == 0 {
			s[i] = 1
		}
	}
	return o.Node.World().Mat4().Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Visible returns the live objects of worlds whose layer is in mask, in world then insertion order.
func Visible(mask camera.Layers, worlds ...*Setup) []*Object {
	var out []*Object
	for _, w := range worlds {
		if w == nil {
			continue
		}
		for _, o := range w.objects {
			if o.Node.Alive() && mask.Has(o.Layer) {
				out = append(out, o)
			}
		}
	}
	return out
}
