package render

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/logger"
)

const skyboxScale = 1000

// Width/height ratio of an equirectangular panorama (nominally 2:1).
const (
	equirectAspectMin = 1.8
	equirectAspectMax = 2.2
)

// searchRoots are tried in order so assets resolve from the repo root or from cmd/portal.
var searchRoots = []string{"", "../.."}

type skybox struct {
	tex      rl.Texture2D
	mesh     rl.Mesh
	mtl      rl.Material
	equirect bool
	camPos   int32
	texLoc   int32
}

// Skyboxes loads skybox images on first use and draws them around a camera. A path that
// fails to load is remembered and not retried.
type Skyboxes struct {
	loaded map[string]*skybox
	log    *logger.Logger
}

// NewSkyboxes returns an empty cache.
func NewSkyboxes(log *logger.Logger) *Skyboxes {
	return &Skyboxes{loaded: make(map[string]*skybox), log: log}
}

func resolve(path string) string {
	for _, root := range searchRoots {
		p := filepath.Clean(filepath.Join(root, path))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// get loads path. A 1.8..2.2 aspect image is a panorama sampled by view direction, anything
// else is treated as a cubemap strip or cross.
func (s *Skyboxes) get(path string) *skybox {
	if sb, ok := s.loaded[path]; ok {
		return sb
	}
	s.loaded[path] = nil
	file := resolve(path)
	if file == "" {
		s.log.Warn("Skybox " + path + " not found.")
		return nil
	}
	img := rl.LoadImage(file)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		s.log.Warn("Skybox " + path + " could not be decoded.")
		return nil
	}
	aspect := float32(img.Width) / float32(img.Height)
	sb := &skybox{equirect: aspect >= equirectAspectMin && aspect <= equirectAspectMax}

	if !sb.equirect {
		sb.tex = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		rl.UnloadImage(img)
		if !rl.IsTextureValid(sb.tex) {
			return nil
		}
		sb.mesh = rl.GenMeshCube(1, 1, 1)
		sb.mtl = rl.LoadMaterialDefault()
		rl.SetMaterialTexture(&sb.mtl, rl.MapCubemap, sb.tex)
		s.loaded[path] = sb
		return sb
	}

	sb.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if !rl.IsTextureValid(sb.tex) {
		return nil
	}
	shader, ok := loadShader(equirectVS, equirectFS)
	if !ok {
		rl.UnloadTexture(sb.tex)
		return nil
	}
	sb.mesh = rl.GenMeshCube(1, 1, 1)
	sb.mtl = rl.LoadMaterialDefault()
	sb.mtl.Shader = shader
	sb.camPos = rl.GetShaderLocation(shader, "cameraPosition")
	sb.texLoc = rl.GetShaderLocation(shader, "skybox")
	s.loaded[path] = sb
	return sb
}

// Draw draws the skybox at path as a large cube centered on the camera. It must run inside
// BeginMode3D, before anything else. It reports false when the skybox is unavailable.
func (s *Skyboxes) Draw(path string, cam mgl32.Vec3) bool {
	if path == "" {
		return false
	}
	sb := s.get(path)
	if sb == nil {
		return false
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	transform := rl.MatrixMultiply(rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale), rl.MatrixTranslate(cam[0], cam[1], cam[2]))
	if sb.equirect {
		setVec(sb.mtl.Shader, sb.camPos, []float32{cam[0], cam[1], cam[2]}, rl.ShaderUniformVec3)
		if sb.texLoc >= 0 {
			rl.SetShaderValueTexture(sb.mtl.Shader, sb.texLoc, sb.tex)
		}
	}
	rl.DrawMesh(sb.mesh, sb.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
	return true
}

// Close unloads every skybox texture.
func (s *Skyboxes) Close() {
	for path, sb := range s.loaded {
		if sb != nil {
			rl.UnloadTexture(sb.tex)
		}
		delete(s.loaded, path)
	}
}
