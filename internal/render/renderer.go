package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/world"
)

// RendererOptions configure a Renderer.
type RendererOptions struct {
	Backend     *Backend
	Worlds      []*world.Setup
	PortalLayer int
	Clear       color.RGBA
	Log         *logger.Logger
}

// Renderer draws the worlds, then the portal planes, for every camera of a frame.
type Renderer struct {
	backend     *Backend
	meshes      *Meshes
	skyboxes    *Skyboxes
	worlds      []*world.Setup
	planes      []*Plane
	portalLayer int
	clear       rl.Color

	planeMesh  rl.Mesh
	planeMtl   rl.Material
	planeReady bool

	preview [2]*Target
	log     *logger.Logger
}

// NewRenderer returns a renderer over opts.Worlds. GPU resources are created lazily.
func NewRenderer(opts RendererOptions) *Renderer {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("RENDER")
	return &Renderer{
		backend:     opts.Backend,
		meshes:      NewMeshes(),
		skyboxes:    NewSkyboxes(log),
		worlds:      opts.Worlds,
		portalLayer: opts.PortalLayer,
		clear:       Color(opts.Clear),
		log:         log,
	}
}

// AddPlane registers a portal plane. Planes draw only for cameras whose mask has the portal layer.
func (r *Renderer) AddPlane(p *Plane) {
	r.planes = append(r.planes, p)
}

// Frame renders every portal camera into its target, then the head cameras to the screen.
// In stereo both eyes are drawn side by side.
func (r *Renderer) Frame(portalCams []*camera.Camera, heads camera.Heads) {
	for _, c := range portalCams {
		if t, ok := c.Target.(*Target); ok && t.Valid() {
			r.renderInto(c, t, 0, false)
		}
	}

	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if !heads.Stereo() {
		if heads.Center == nil {
			return
		}
		rl.BeginDrawing()
		r.pass(heads.Center, w, h, 0, false)
		return
	}

	r.ensurePreview(w/2, h)
	for i, eye := range []camera.Eye{camera.Left, camera.Right} {
		if r.preview[i] != nil {
			r.renderInto(heads.Get(eye), r.preview[i], i, true)
		}
	}
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	for i, t := range r.preview {
		if t == nil {
			continue
		}
		tex := t.Texture()
		src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
		rl.DrawTextureRec(tex, src, rl.NewVector2(float32(i*w/2), 0), rl.White)
	}
}

// EndFrame finishes the screen pass opened by Frame. Overlays draw between the two.
func (r *Renderer) EndFrame() {
	rl.EndDrawing()
}

func (r *Renderer) ensurePreview(w, h int) {
	for i, t := range r.preview {
		if t != nil && t.Width() == w && t.Height() == h {
			continue
		}
		if t != nil {
			t.Release()
		}
		rt := rl.LoadRenderTexture(int32(w), int32(h))
		if !rl.IsRenderTextureValid(rt) {
			r.log.Error("Stereo preview target could not be created.")
			r.preview[i] = nil
			continue
		}
		r.preview[i] = &Target{rt: rt}
	}
}

func (r *Renderer) renderInto(c *camera.Camera, t *Target, eye int, stereo bool) {
	if c == nil {
		return
	}
	rl.BeginTextureMode(t.rt)
	r.pass(c, t.Width(), t.Height(), eye, stereo)
	rl.EndTextureMode()
}

// pass draws one camera into the bound framebuffer of size w x h.
func (r *Renderer) pass(c *camera.Camera, w, h int, eye int, stereo bool) {
	rl.ClearBackground(r.clear)
	pose := c.Pose()
	cam := rl.Camera3D{
		Position:   Vector3(pose.Position),
		Target:     Vector3(pose.Position.Add(pose.Forward())),
		Up:         Vector3(pose.Up()),
		Fovy:       c.Lens.FovY,
		Projection: rl.CameraPerspective,
	}
	rl.BeginMode3D(cam)
	rl.SetMatrixProjection(Matrix(c.Projection()))
	rl.SetMatrixModelview(Matrix(c.View()))

	if c.Clear == camera.ClearSkybox && c.Skybox != nil {
		r.skyboxes.Draw(c.Skybox.Path, pose.Position)
	}

	r.meshes.SetView(pose.Position)
	for _, o := range world.Visible(c.CullingMask, r.worlds...) {
		r.meshes.Draw(o.Shape, o.Model(), o.Color)
	}

	if c.CullingMask.Has(r.portalLayer) {
		r.drawPlanes(w, h, eye, stereo)
	}
	rl.EndMode3D()
}

func (r *Renderer) drawPlanes(w, h int, eye int, stereo bool) {
	if r.backend == nil || !r.backend.portalOK {
		return
	}
	if !r.planeReady {
		r.planeReady = true
		r.planeMesh = rl.GenMeshPlane(1, 1, 1, 1)
		r.planeMtl = rl.LoadMaterialDefault()
		r.planeMtl.Shader = r.backend.portalShader
	}
	r.backend.SetEye(eye, stereo)
	r.backend.SetViewport(w, h)

	rl.DisableBackfaceCulling()
	for _, p := range r.planes {
		if !p.Enabled() || !p.Alive() {
			continue
		}
		for slot, t := range p.block {
			if t.Valid() {
				rl.SetShaderValueTexture(r.backend.portalShader, int32(slot), t.Texture())
			}
		}
		rl.DrawMesh(r.planeMesh, r.planeMtl, Matrix(p.Model()))
	}
	rl.EnableBackfaceCulling()
}

// Close frees the renderer's GPU resources. The backend is closed by its owner.
func (r *Renderer) Close() {
	for i, t := range r.preview {
		if t != nil {
			t.Release()
			r.preview[i] = nil
		}
	}
	if r.planeReady {
		rl.UnloadMesh(&r.planeMesh)
		r.planeReady = false
	}
	r.meshes.Close()
	r.skyboxes.Close()
}
