package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"reality-portal/internal/xform"
)

// Tag marks a node with a role so it can be looked up without a type-based scene search.
// A node carries at most one tag.
type Tag int

const (
	TagNone Tag = iota
	TagRig
	TagMainCamera
	TagHeadLeft
	TagHeadCenter
	TagHeadRight
)

func (t Tag) String() string {
	switch t {
	case TagRig:
		return "rig"
	case TagMainCamera:
		return "main-camera"
	case TagHeadLeft:
		return "head-left"
	case TagHeadCenter:
		return "head-center"
	case TagHeadRight:
		return "head-right"
	}
	return "none"
}

// Node is one transform in the hierarchy. Local is relative to Parent (or to the world when
// Parent is nil). World poses are computed on demand so a parent change is visible to its
// children immediately, with no dirty flags to get out of sync.
type Node struct {
	Name     string
	Local    xform.Pose
	tag      Tag
	parent   *Node
	children []*Node
	graph    *Graph
	removed  bool
}

// Graph owns the nodes of one scene and the tag-to-node mapping.
type Graph struct {
	nodes []*Node
	tags  map[Tag]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{tags: make(map[Tag]*Node)}
}

// Add creates a node under parent (nil = world root) with the given local pose.
func (g *Graph) Add(name string, parent *Node, local xform.Pose) *Node {
	n := &Node{Name: name, Local: local, graph: g}
	if parent != nil {
		n.parent = parent
		parent.children = append(parent.children, n)
	}
	g.nodes = append(g.nodes, n)
	return n
}

// SetTag assigns tag to n, replacing any previous holder of the same tag.
// Tags other than TagNone are unique per graph.
func (g *Graph) SetTag(n *Node, tag Tag) error {
	if n == nil || n.graph != g {
		return fmt.Errorf("scene: tag %s: node not in graph", tag)
	}
	if n.tag != TagNone {
		delete(g.tags, n.tag)
	}
	n.tag = tag
	if tag == TagNone {
		return nil
	}
	if prev, ok := g.tags[tag]; ok && prev != n {
		prev.tag = TagNone
	}
	g.tags[tag] = n
	return nil
}

// Tagged returns the node holding tag, or nil.
func (g *Graph) Tagged(tag Tag) *Node {
	n := g.tags[tag]
	if n == nil || n.removed {
		return nil
	}
	return n
}

// Find returns the first node with the given name in creation order, or nil.
func (g *Graph) Find(name string) *Node {
	for _, n := range g.nodes {
		if !n.removed && n.Name == name {
			return n
		}
	}
	return nil
}

// Remove detaches n and its subtree. Removed nodes report Alive() == false so holders of stale
// references can skip them.
func (g *Graph) Remove(n *Node) {
	if n == nil || n.graph != g || n.removed {
		return
	}
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		n.parent = nil
	}
	var mark func(*Node)
	mark = func(x *Node) {
		x.removed = true
		if x.tag != TagNone && g.tags[x.tag] == x {
			delete(g.tags, x.tag)
		}
		for _, c := range x.children {
			mark(c)
		}
	}
	mark(n)
	kept := g.nodes[:0]
	for _, x := range g.nodes {
		if !x.removed {
			kept = append(kept, x)
		}
	}
	g.nodes = kept
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Tag returns the node's tag.
func (n *Node) Tag() Tag {
	return n.tag
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Alive reports whether the node is still part of its graph.
func (n *Node) Alive() bool {
	return n != nil && !n.removed
}

// World returns the node's pose in world space.
func (n *Node) World() xform.Pose {
	if n.parent == nil {
		return n.Local
	}
	return n.parent.World().Mul(n.Local)
}

// SetWorld sets the local pose so that World() returns w.
func (n *Node) SetWorld(w xform.Pose) {
	if n.parent == nil {
		n.Local = w
		return
	}
	n.Local = n.parent.World().Inverse().Mul(w)
}

// Root walks up the parents and returns the topmost node.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// TransformPoint maps a point from the node's local space into world space.
func (n *Node) TransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return n.World().TransformPoint(v)
}

// InverseTransformPoint maps a world-space point into the node's local space.
func (n *Node) InverseTransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return n.World().InverseTransformPoint(v)
}
