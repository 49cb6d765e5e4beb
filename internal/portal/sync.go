package portal

import (
	"reality-portal/internal/camera"
	"reality-portal/internal/tracking"
	"reality-portal/internal/xform"
)

// SyncPoses moves every portal camera to where the viewer's eye would be if the paired portal
// were the same opening as this one. Call it once per frame right before rendering, after
// input and teleports, so no camera lags the head by a frame.
func (s *System) SyncPoses() {
	for _, p := range s.portals {
		s.syncPortal(p)
	}
}

func (s *System) syncPortal(p *Portal) {
	if !p.isInit || !p.enabled || !p.node.Alive() {
		return
	}
	pair := s.pairOf(p)
	if pair == nil || !pair.node.Alive() {
		return
	}
	from, to := p.node.World(), pair.node.World()

	if !p.stereo {
		head, mirror := s.viewer.Heads.Center, p.mirrors[camera.Center]
		if head == nil || mirror == nil || !head.Node.Alive() {
			return
		}
		mirror.SetPose(xform.Through(from, to, head.Pose()))
		return
	}

	rig := xform.Identity()
	if s.viewer.Rig.Alive() {
		rig = s.viewer.Rig.World()
	}
	for _, eye := range []camera.Eye{camera.Center, camera.Left, camera.Right} {
		mirror := p.mirrors[eye]
		if mirror == nil {
			continue
		}
		eyeWorld := rig.Mul(tracking.Pose(s.tracker, eye))
		mirror.SetPose(xform.Through(from, to, eyeWorld))
	}
}
