package render

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/camera"
	"reality-portal/internal/logger"
	"reality-portal/internal/portal"
)

var ErrRenderTexture = errors.New("render texture not created")

// BackendOptions configure the raylib backend.
type BackendOptions struct {
	// Stereo loads a VR stereo config so eye cameras get the device's asymmetric projection.
	Stereo bool
	IPD    float32
	Log    *logger.Logger
}

// Backend is the raylib side of the portal system: render textures, the portal plane shader
// and per-eye projections. Create it after the window exists. It implements portal.Backend.
type Backend struct {
	log *logger.Logger

	portalShader rl.Shader
	portalOK     bool
	eyeLoc       int32
	stereoLoc    int32
	viewportLoc  int32

	vr     rl.VrStereoConfig
	vrOK   bool
	device rl.VrDeviceInfo
}

// NewBackend compiles the portal shader and, in stereo, loads the VR stereo config.
func NewBackend(opts BackendOptions) *Backend {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	b := &Backend{log: log.With("RENDER")}
	b.portalShader, b.portalOK = loadShader(mvpVS, portalFS)
	if !b.portalOK {
		b.log.Error("Portal shader failed to compile; portal planes will not draw.")
	} else {
		b.eyeLoc = rl.GetShaderLocation(b.portalShader, uniformRenderingEye)
		b.stereoLoc = rl.GetShaderLocation(b.portalShader, uniformIsStereoscopic)
		b.viewportLoc = rl.GetShaderLocation(b.portalShader, uniformViewport)
	}
	if opts.Stereo {
		b.device = DeviceInfo(rl.GetScreenWidth(), rl.GetScreenHeight(), opts.IPD)
		b.vr = rl.LoadVrStereoConfig(b.device)
		b.vrOK = true
	}
	return b
}

// DeviceInfo describes a generic headset whose panel matches the window. Lens values are
// those of raylib's VR simulator example.
func DeviceInfo(w, h int, ipd float32) rl.VrDeviceInfo {
	if ipd <= 0 {
		ipd = 0.064
	}
	return rl.VrDeviceInfo{
		HResolution:            int32(w),
		VResolution:            int32(h),
		HScreenSize:            0.133793,
		VScreenSize:            0.0669,
		EyeToScreenDistance:    0.041,
		LensSeparationDistance: 0.07,
		InterpupillaryDistance: ipd,
		LensDistortionValues:   [4]float32{1.0, 0.22, 0.24, 0.0},
		ChromaAbCorrection:     [4]float32{0.996, -0.004, 1.014, 0.0},
	}
}

func (b *Backend) ScreenSize() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// NewRenderTarget allocates a w x h color+depth render texture.
func (b *Backend) NewRenderTarget(w, h int) (camera.Target, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: target %dx%d: %w", w, h, ErrRenderTexture)
	}
	rt := rl.LoadRenderTexture(int32(w), int32(h))
	if !rl.IsRenderTextureValid(rt) {
		return nil, fmt.Errorf("render: target %dx%d: %w", w, h, ErrRenderTexture)
	}
	return &Target{rt: rt}, nil
}

// ShaderSlot resolves a sampler uniform of the portal shader. Unknown names return -1.
func (b *Backend) ShaderSlot(name string) portal.SlotID {
	if !b.portalOK {
		return -1
	}
	return portal.SlotID(rl.GetShaderLocation(b.portalShader, name))
}

// StereoProjection returns the asymmetric projection raylib computed for eye. Only left and
// right have one, and only when the backend was created in stereo.
func (b *Backend) StereoProjection(eye camera.Eye, _ *camera.Camera) (mgl32.Mat4, bool) {
	if !b.vrOK {
		return mgl32.Mat4{}, false
	}
	switch eye {
	case camera.Left:
		return FromMatrix(b.vr.Projection[0]), true
	case camera.Right:
		return FromMatrix(b.vr.Projection[1]), true
	}
	return mgl32.Mat4{}, false
}

// SetEye uploads the per-eye globals read by the portal shader. eye is 0 for left (and mono),
// 1 for right.
func (b *Backend) SetEye(eye int, stereo bool) {
	if !b.portalOK {
		return
	}
	var st float32
	if stereo {
		st = 1
	}
	setFloat(b.portalShader, b.eyeLoc, float32(eye))
	setFloat(b.portalShader, b.stereoLoc, st)
}

// SetViewport tells the portal shader the size of the framebuffer being drawn.
func (b *Backend) SetViewport(w, h int) {
	if b.portalOK {
		setVec(b.portalShader, b.viewportLoc, []float32{float32(w), float32(h)}, rl.ShaderUniformVec2)
	}
}

// Close frees the shader and stereo config.
func (b *Backend) Close() {
	if b.portalOK {
		rl.UnloadShader(b.portalShader)
		b.portalOK = false
	}
	if b.vrOK {
		rl.UnloadVrStereoConfig(b.vr)
		b.vrOK = false
	}
}
