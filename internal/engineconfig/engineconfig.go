package engineconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"reality-portal/internal/layout"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.json"

// EnginePrefs holds engine-only preferences (window, stereo simulation, debug overlays, fly camera).
// Persisted across runs. The scene itself comes from the layout file.
type EnginePrefs struct {
	WindowWidth  int     `json:"window_width"`
	WindowHeight int     `json:"window_height"`
	Fullscreen   bool    `json:"fullscreen"`
	TargetFPS    int     `json:"target_fps"`
	Stereo       bool    `json:"stereo"`
	IPD          float32 `json:"ipd"`
	LayoutPath   string  `json:"layout_path"`
	ShowFPS      bool    `json:"show_fps"`
	ShowMemAlloc bool    `json:"show_memalloc"`
	ShowPortals  bool    `json:"show_portals"`
	MoveSpeed    float32 `json:"move_speed"`
	TurnSpeed    float32 `json:"turn_speed"`
}

// Default returns default engine preferences (windowed mono, overlays off).
func Default() EnginePrefs {
	return EnginePrefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		TargetFPS:    60,
		IPD:          0.064,
		LayoutPath:   layout.DefaultPath,
		ShowPortals:  true,
		MoveSpeed:    2,
		TurnSpeed:    6,
	}
}

// Load reads engine preferences from config/engine.json. If the file is missing or invalid,
// returns Default() and does not create a file.
func Load() (EnginePrefs, error) {
	return LoadFrom(EngineConfigPath)
}

// LoadFrom is Load for an explicit path. Fields missing from the file keep their defaults.
func LoadFrom(path string) (EnginePrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalized(), nil
}

// normalized replaces unusable values with defaults.
func (p EnginePrefs) normalized() EnginePrefs {
	d := Default()
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		p.WindowWidth, p.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	if p.TargetFPS < 0 {
		p.TargetFPS = d.TargetFPS
	}
	if p.IPD <= 0 {
		p.IPD = d.IPD
	}
	if p.LayoutPath == "" {
		p.LayoutPath = d.LayoutPath
	}
	if p.MoveSpeed < 0 {
		p.MoveSpeed = d.MoveSpeed
	}
	if p.TurnSpeed <= 0 {
		p.TurnSpeed = d.TurnSpeed
	}
	return p
}

// Save writes engine preferences to config/engine.json, creating the config directory if needed.
func Save(p EnginePrefs) error {
	return SaveTo(EngineConfigPath, p)
}

// SaveTo is Save for an explicit path.
func SaveTo(path string, p EnginePrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
