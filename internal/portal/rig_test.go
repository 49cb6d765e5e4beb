package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/scene"
	"reality-portal/internal/xform"
)

func TestInitMonoCreatesCenterCamera(t *testing.T) {
	f := newFixture(t, false)
	home, _ := f.pairScenario()
	p := f.portal(home.id)

	assert.False(t, p.Stereo())
	assert.Nil(t, p.Mirror(camera.Left))
	assert.Nil(t, p.Mirror(camera.Right))
	m := p.Mirror(camera.Center)
	require.NotNil(t, m)

	assert.Equal(t, f.heads.Center.Lens, m.Lens)
	assert.Equal(t, camera.LayersOf(1), m.CullingMask)
	assert.Equal(t, camera.ClearSkybox, m.Clear)
	assert.Same(t, home.dest.sky, m.Skybox)
	assert.Equal(t, 1280, m.Target.Width())
	assert.Equal(t, 720, m.Target.Height())
	assert.Same(t, m.Target, home.a.tex[11])
	assert.Len(t, f.backend.targets, 2, "one target per portal of the pair")
}

func TestInitIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	home, _ := f.pairScenario()
	before := len(f.backend.targets)
	require.NoError(t, f.sys.Init(home.id))
	require.NoError(t, f.sys.Init(home.id))
	assert.Len(t, f.backend.targets, before)
}

func TestInitRequiresActiveSide(t *testing.T) {
	f := newFixture(t, false)
	p := f.add("p", xform.Identity(), false, false, nil, nil)
	assert.ErrorIs(t, f.sys.Init(p.id), ErrNoActiveSide)
}

func TestInitStereo(t *testing.T) {
	f := newFixture(t, true)
	home, _ := f.pairScenario()
	p := f.portal(home.id)

	require.True(t, p.Stereo())
	for slot, eye := range map[SlotID]camera.Eye{10: camera.Left, 11: camera.Center, 12: camera.Right} {
		m := p.Mirror(eye)
		require.NotNil(t, m, eye.String())
		assert.Same(t, m.Target, home.a.tex[slot], eye.String())
	}
	assert.Len(t, f.backend.targets, 6)
}

func TestStartCopiesStereoProjection(t *testing.T) {
	f := newFixture(t, true)
	home, _ := f.pairScenario()
	p := f.portal(home.id)

	assert.False(t, p.Mirror(camera.Left).HasProjectionOverride(), "projection is copied only after start")
	f.sys.Start()
	assert.Equal(t, f.backend.proj[camera.Left], p.Mirror(camera.Left).Projection())
	assert.Equal(t, f.backend.proj[camera.Right], p.Mirror(camera.Right).Projection())
	assert.False(t, p.Mirror(camera.Center).HasProjectionOverride())
}

func TestInitRenderTargetFailure(t *testing.T) {
	f := newFixture(t, true)
	f.backend.fail = true
	home := f.add("real", xform.Identity(), false, false, nil, nil)
	away := f.add("virtual", xform.At(9, 0, 0), true, true, nil, nil)
	require.NoError(t, f.sys.SetPortalTarget(home.id, away.id))

	err := f.sys.Configure()
	assert.ErrorIs(t, err, ErrNoRenderTargets)
	assert.False(t, f.portal(home.id).Initialized())
	assert.Equal(t, 6, f.g.Len(), "no portal camera node is left behind")
}

func TestDegradedWithoutHeadCamera(t *testing.T) {
	f := newFixture(t, false)
	f.sys = NewSystem(Options{Graph: f.g, Backend: f.backend, Log: f.log})
	home := f.add("real", xform.Identity(), false, false, nil, nil)
	away := f.add("virtual", xform.At(9, 0, 0), true, true, nil, nil)
	require.NoError(t, f.sys.SetPortalTarget(home.id, away.id))

	require.NoError(t, f.sys.Configure())
	assert.True(t, f.portal(home.id).Initialized())
	assert.Nil(t, f.portal(home.id).Mirror(camera.Center))

	assert.NotPanics(t, func() {
		f.sys.Start()
		f.sys.SyncPoses()
		f.sys.OnTriggerEnter(home.id, headCollider)
		assert.Equal(t, 0, f.sys.ProcessEvents())
	})
	assert.Empty(t, f.backend.targets)
}

func TestCloseReleasesTargets(t *testing.T) {
	f := newFixture(t, false)
	f.pairScenario()
	f.sys.Close()
	for _, tgt := range f.backend.targets {
		assert.True(t, tgt.released)
	}
	assert.Empty(t, f.sys.Cameras())
}

func TestDiscover(t *testing.T) {
	g := scene.New()
	root := g.Add("xr-origin", nil, xform.Identity())
	mainNode := g.Add("main", root, xform.At(0, 1.7, 0))
	require.NoError(t, g.SetTag(mainNode, scene.TagMainCamera))
	main := camera.New("main", mainNode)

	v := Discover(g, []*camera.Camera{main}, logger.Discard())
	assert.Same(t, root, v.Rig, "rig falls back to the main camera's root")
	assert.Same(t, main, v.Heads.Center, "main camera becomes the center camera")
	assert.False(t, v.Heads.Stereo())
	assert.Same(t, root, g.Tagged(scene.TagRig))

	leftNode := g.Add("left", root, xform.At(-0.03, 1.7, 0))
	rightNode := g.Add("right", root, xform.At(0.03, 1.7, 0))
	require.NoError(t, g.SetTag(leftNode, scene.TagHeadLeft))
	left := camera.New("left", leftNode)
	v = Discover(g, []*camera.Camera{main, left}, logger.Discard())
	assert.False(t, v.Heads.Stereo(), "left alone is not stereo")

	require.NoError(t, g.SetTag(rightNode, scene.TagHeadRight))
	right := camera.New("right", rightNode)
	v = Discover(g, []*camera.Camera{main, left, right}, nil)
	assert.True(t, v.Heads.Stereo())
}

func TestDiscoverWithoutMainCamera(t *testing.T) {
	v := Discover(scene.New(), nil, logger.Discard())
	assert.Nil(t, v.Rig)
	assert.Nil(t, v.Heads.Center)
	assert.Nil(t, v.Main)
}
