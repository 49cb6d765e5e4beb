// Package layout reads the YAML description of a portal scene: the worlds, the objects that
// live in them, the portals between them and the viewer rig.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the app looks for a layout when prefs do not name one.
const DefaultPath = "assets/layouts/default.yaml"

// DefaultPortalLayer is the layer portal planes are drawn on. Portal cameras leave it out of
// their culling mask so a portal never renders its own pair.
const DefaultPortalLayer = 31

var (
	ErrInvalid = errors.New("invalid layout")
	ErrEmpty   = errors.New("layout has no portals")
)

// Vec3 is an [x, y, z] triple.
type Vec3 [3]float32

// Viewer places the tracked rig and chooses head camera setup.
type Viewer struct {
	Position Vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"`
	Height   float32 `yaml:"height"`
	Stereo   bool    `yaml:"stereo"`
	IPD      float32 `yaml:"ipd"`
	FovY     float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	// Layers the head camera draws before any teleport. Defaults to the first world's layer
	// plus the portal layer.
	Layers []int `yaml:"layers"`
}

// World is one real or virtual space.
type World struct {
	Name         string `yaml:"name"`
	Layer        int    `yaml:"layer"`
	Skybox       string `yaml:"skybox"`
	Music        string `yaml:"music"`
	StartOnAwake bool   `yaml:"start_on_awake"`
}

// Object is a primitive placed in a world.
type Object struct {
	Name     string  `yaml:"name"`
	World    string  `yaml:"world"`
	Shape    string  `yaml:"shape"`
	Position Vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"`
	Scale    Vec3    `yaml:"scale"`
	Color    string  `yaml:"color"`
}

// Portal is one portal surface with its two entrances.
type Portal struct {
	Name        string  `yaml:"name"`
	World       string  `yaml:"world"`
	Destination string  `yaml:"destination"`
	Pair        string  `yaml:"pair"`
	Virtual     bool    `yaml:"virtual"`
	SetByOther  bool    `yaml:"set_by_other"`
	EnterSide   string  `yaml:"enter_side"`
	Position    Vec3    `yaml:"position"`
	Yaw         float32 `yaml:"yaw"`
	// Size is the plane's width and height.
	Size [2]float32 `yaml:"size"`
	// Depth is the thickness of each side's trigger box.
	Depth float32 `yaml:"depth"`

	CullingLayers       []int `yaml:"culling_layers"`
	LayersAfterTeleport []int `yaml:"layers_after_teleport"`
}

// Layout is a whole scene.
type Layout struct {
	PortalLayer int      `yaml:"portal_layer"`
	Viewer      Viewer   `yaml:"viewer"`
	Worlds      []World  `yaml:"worlds"`
	Objects     []Object `yaml:"objects"`
	Portals     []Portal `yaml:"portals"`
}

// Load reads and validates the layout at path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a layout, fills defaults and validates it. Unknown keys are errors.
func Parse(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var l Layout
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) applyDefaults() {
	if l.PortalLayer == 0 {
		l.PortalLayer = DefaultPortalLayer
	}
	v := &l.Viewer
	if v.Height == 0 {
		v.Height = 1.7
	}
	if v.IPD == 0 {
		v.IPD = 0.064
	}
	if v.FovY == 0 {
		v.FovY = 60
	}
	if v.Near == 0 {
		v.Near = 0.05
	}
	if v.Far == 0 {
		v.Far = 1000
	}
	if len(v.Layers) == 0 && len(l.Worlds) > 0 {
		v.Layers = []int{l.Worlds[0].Layer, l.PortalLayer}
	}
	for i := range l.Portals {
		p := &l.Portals[i]
		if p.EnterSide == "" {
			p.EnterSide = "A"
		}
		if p.Size == [2]float32{} {
			p.Size = [2]float32{1.2, 2.2}
		}
		if p.Depth == 0 {
			p.Depth = 0.2
		}
	}
}

// Validate reports every problem it finds, joined.
func (l *Layout) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if len(l.Portals) == 0 {
		errs = append(errs, ErrEmpty)
	}

	worlds := make(map[string]World, len(l.Worlds))
	for _, w := range l.Worlds {
		if w.Name == "" {
			bad("world without a name")
			continue
		}
		if _, dup := worlds[w.Name]; dup {
			bad("world %q declared twice", w.Name)
		}
		if !validLayer(w.Layer) || w.Layer == l.PortalLayer {
			bad("world %q: layer %d is out of range or reserved for portals", w.Name, w.Layer)
		}
		worlds[w.Name] = w
	}
	if !validLayer(l.PortalLayer) {
		bad("portal layer %d out of range", l.PortalLayer)
	}

	for _, o := range l.Objects {
		if _, ok := worlds[o.World]; !ok {
			bad("object %q: unknown world %q", o.Name, o.World)
		}
		if !validShape(o.Shape) {
			bad("object %q: unknown shape %q", o.Name, o.Shape)
		}
		if o.Color != "" {
			if _, err := ParseColor(o.Color); err != nil {
				bad("object %q: %v", o.Name, err)
			}
		}
	}

	portals := make(map[string]Portal, len(l.Portals))
	for _, p := range l.Portals {
		if p.Name == "" {
			bad("portal without a name")
			continue
		}
		if _, dup := portals[p.Name]; dup {
			bad("portal %q declared twice", p.Name)
		}
		portals[p.Name] = p
	}
	for _, p := range l.Portals {
		if _, ok := worlds[p.World]; !ok {
			bad("portal %q: unknown world %q", p.Name, p.World)
		}
		if _, ok := worlds[p.Destination]; !ok {
			bad("portal %q: unknown destination %q", p.Name, p.Destination)
		}
		if _, err := ParseSide(p.EnterSide); err != nil {
			bad("portal %q: %v", p.Name, err)
		}
		if p.Size[0] <= 0 || p.Size[1] <= 0 || p.Depth <= 0 {
			bad("portal %q: size and depth must be positive", p.Name)
		}
		for _, layer := range append(append([]int{}, p.CullingLayers...), p.LayersAfterTeleport...) {
			if !validLayer(layer) {
				bad("portal %q: layer %d out of range", p.Name, layer)
			}
		}
		if p.SetByOther {
			continue
		}
		switch pair, ok := portals[p.Pair]; {
		case p.Pair == "":
			bad("portal %q has no pair", p.Name)
		case !ok:
			bad("portal %q: unknown pair %q", p.Name, p.Pair)
		case p.Pair == p.Name:
			bad("portal %q is paired with itself", p.Name)
		case pair.World != p.Destination:
			bad("portal %q leads to %q but its pair stands in %q", p.Name, p.Destination, pair.World)
		}
	}
	return errors.Join(errs...)
}

// World returns the world named name.
func (l *Layout) World(name string) (World, bool) {
	for _, w := range l.Worlds {
		if w.Name == name {
			return w, true
		}
	}
	return World{}, false
}

// ParseSide accepts "A" or "B" in any case and returns 0 or 1.
func ParseSide(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return 0, nil
	case "B":
		return 1, nil
	}
	return -1, fmt.Errorf("enter side %q is not A or B", s)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	hex := strings.TrimPrefix(s, "#")
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = errors.New("wrong length")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

func validLayer(l int) bool { return l >= 0 && l <= 31 }

func validShape(s string) bool {
	switch s {
	case "cube", "sphere", "cylinder", "plane":
		return true
	}
	return false
}
