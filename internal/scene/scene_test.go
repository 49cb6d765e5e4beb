package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reality-portal/internal/xform"
)

func TestWorldFollowsParent(t *testing.T) {
	g := New()
	rig := g.Add("rig", nil, xform.At(10, 0, 0))
	head := g.Add("head", rig, xform.At(0, 1.7, 0))

	assert.True(t, xform.Near(head.World().Position, mgl32.Vec3{10, 1.7, 0}, 1e-5))

	rig.Local = xform.New(mgl32.Vec3{0, 0, 0}, xform.Yaw(90))
	head.Local = xform.At(1, 0, 0)
	// +X rotated a quarter turn about Y points to -Z.
	assert.True(t, xform.Near(head.World().Position, mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", head.World().Position)
}

func TestSetWorld(t *testing.T) {
	g := New()
	rig := g.Add("rig", nil, xform.New(mgl32.Vec3{3, 0, 1}, xform.Yaw(40)))
	head := g.Add("head", rig, xform.Identity())

	want := xform.New(mgl32.Vec3{-2, 5, 8}, xform.Yaw(-15))
	head.SetWorld(want)
	assert.True(t, head.World().ApproxEqual(want, 1e-4))
}

func TestTagsAreUnique(t *testing.T) {
	g := New()
	a := g.Add("a", nil, xform.Identity())
	b := g.Add("b", nil, xform.Identity())

	require.NoError(t, g.SetTag(a, TagHeadCenter))
	require.NoError(t, g.SetTag(b, TagHeadCenter))
	assert.Same(t, b, g.Tagged(TagHeadCenter))
	assert.Equal(t, TagNone, a.Tag())

	other := New().Add("x", nil, xform.Identity())
	assert.Error(t, g.SetTag(other, TagRig))
}

func TestRemoveSubtree(t *testing.T) {
	g := New()
	rig := g.Add("rig", nil, xform.Identity())
	head := g.Add("head", rig, xform.Identity())
	require.NoError(t, g.SetTag(head, TagHeadCenter))

	g.Remove(rig)
	assert.False(t, head.Alive())
	assert.Nil(t, g.Tagged(TagHeadCenter))
	assert.Nil(t, g.Find("head"))
	assert.Equal(t, 0, g.Len())
}

func TestRoot(t *testing.T) {
	g := New()
	root := g.Add("root", nil, xform.Identity())
	mid := g.Add("mid", root, xform.Identity())
	leaf := g.Add("leaf", mid, xform.Identity())
	assert.Same(t, root, leaf.Root())
	assert.Same(t, root, root.Root())
}
