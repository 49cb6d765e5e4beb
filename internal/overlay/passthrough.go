// Package overlay holds the desktop stand-in for a headset passthrough layer.
package overlay

import (
	"fmt"

	"reality-portal/internal/logger"
	"reality-portal/internal/portal"
)

// Passthrough stands in for a headset's camera passthrough layer on desktop. It keeps the
// state a compositor would receive and logs each change. It implements portal.Overlay.
type Passthrough struct {
	mode     portal.ProjectionSurface
	underlay bool
	restarts int
	cutouts  []portal.Surface
	log      *logger.Logger
}

// NewPassthrough starts in reconstructed mode with no cutouts.
func NewPassthrough(log *logger.Logger) *Passthrough {
	return &Passthrough{log: log.With("PASSTHROUGH")}
}

func (p *Passthrough) SetProjectionSurface(s portal.ProjectionSurface) { p.mode = s }
func (p *Passthrough) SetUnderlay(on bool)                            { p.underlay = on }

// Restart reapplies the layer settings.
func (p *Passthrough) Restart() {
	p.restarts++
	p.log.Info(fmt.Sprintf("Layer restarted: %s, underlay %v, %d cutout(s).", p.ModeName(), p.underlay, len(p.cutouts)))
}

// AddSurfaceGeometry cuts s out of the passthrough layer.
func (p *Passthrough) AddSurfaceGeometry(s portal.Surface) {
	for _, c := range p.cutouts {
		if c == s {
			return
		}
	}
	p.cutouts = append(p.cutouts, s)
}

// RemoveSurfaceGeometry drops the cutout s.
func (p *Passthrough) RemoveSurfaceGeometry(s portal.Surface) {
	for i, c := range p.cutouts {
		if c == s {
			p.cutouts = append(p.cutouts[:i], p.cutouts[i+1:]...)
			return
		}
	}
}

// ModeName is the projection surface mode for the debug overlay.
func (p *Passthrough) ModeName() string {
	if p.mode == portal.UserDefined {
		return "user-defined"
	}
	return "reconstructed"
}

// Cutouts returns the current cutout surfaces.
func (p *Passthrough) Cutouts() []portal.Surface { return p.cutouts }

// Underlay reports whether the layer is drawn below the scene.
func (p *Passthrough) Underlay() bool { return p.underlay }

// Restarts counts Restart calls.
func (p *Passthrough) Restarts() int { return p.restarts }
