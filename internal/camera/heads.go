package camera

// Heads is the set of head cameras that follow the viewer. Center is always required for
// portals to render; Left and Right are used only together.
type Heads struct {
	Left   *Camera
	Center *Camera
	Right  *Camera
}

// Stereo reports whether distinct left and right eye cameras exist.
func (h Heads) Stereo() bool {
	return h.Left != nil && h.Right != nil && h.Left != h.Right
}

// Get returns the head camera of eye, or nil.
func (h Heads) Get(e Eye) *Camera {
	switch e {
	case Left:
		return h.Left
	case Right:
		return h.Right
	}
	return h.Center
}

// Required lists the eyes that need a portal camera: center always, left and right in stereo.
func (h Heads) Required() []Eye {
	if h.Stereo() {
		return []Eye{Center, Left, Right}
	}
	return []Eye{Center}
}
