package pathway

import (
	"github.com/go-gl/mathgl/mgl64"
)

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeMesh                      // indexed triangles with a material
	NodeTypeSprite                    // screen-aligned textured quad
	NodeTypeLine                      // polyline through world points
)

// Node is the scene graph element. A single flat struct is used for all node
// types, as in a retained 2D scene graph; type-specific fields are ignored by
// other types.
type Node struct {
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	Position Vec3
	Rotation mgl64.Quat
	Scale    Vec3

	Visible bool

	// Mesh fields (NodeTypeMesh)
	Mesh     *Mesh
	Material *Material

	// Sprite fields (NodeTypeSprite). Width and Height are world units; Roll
	// rotates the quad in screen space.
	Width, Height float64
	Roll          float64

	// Line fields (NodeTypeLine)
	Points    []Vec3
	LineWidth float64

	// WaypointIndex is the waypoint a marker stands for, or -1.
	WaypointIndex int
	// PickRadius is the marker's hit sphere radius in local units.
	PickRadius float64

	disposed bool
}

func nodeDefaults(n *Node) {
	n.Rotation = mgl64.QuatIdent()
	n.Scale = Vec3{1, 1, 1}
	n.Visible = true
	n.WaypointIndex = -1
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewMeshNode creates a node that renders mesh with mat.
func NewMeshNode(name string, mesh *Mesh, mat *Material) *Node {
	n := &Node{Name: name, Type: NodeTypeMesh, Mesh: mesh, Material: mat}
	nodeDefaults(n)
	return n
}

// NewSprite creates a camera-facing quad of w by h world units.
func NewSprite(name string, mat *Material, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Material: mat, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

// NewLine creates a polyline through points.
func NewLine(name string, points []Vec3, mat *Material) *Node {
	n := &Node{Name: name, Type: NodeTypeLine, Points: points, Material: mat, LineWidth: 2}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, detaching it from any
// previous parent. Panics if child is nil or would create a cycle.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("pathway: cannot add nil child")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("pathway: adding child would create a cycle")
		}
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("pathway: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Walk calls fn for n and every descendant, depth first. Returning false from
// fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Transform ---

// LocalMatrix returns Translate * Rotate * Scale.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl64.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// WorldMatrix composes the local matrices of n and its ancestors.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldRotation composes the rotations of n and its ancestors.
func (n *Node) WorldRotation() mgl64.Quat {
	q := n.Rotation
	for p := n.Parent; p != nil; p = p.Parent {
		q = p.Rotation.Mul(q)
	}
	return q
}

// LookAt rotates the node so its local +Z axis points at target. Parents are
// assumed unrotated.
func (n *Node) LookAt(target Vec3) {
	pos := n.WorldPosition()
	if target.Sub(pos).LenSqr() < 1e-12 {
		return
	}
	// Orient local -Z from target through the node, which leaves +Z facing target.
	n.Rotation = lookRotation(target, pos)
}

// --- Disposal ---

// Dispose detaches the node, releases its mesh and material, and recursively
// disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Mesh.Dispose()
	n.Material.Dispose()
	n.Mesh = nil
	n.Material = nil
	n.Points = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// lookRotation returns the orientation whose local -Z axis points from eye
// toward center with +Y as close to up as possible.
func lookRotation(eye, center Vec3) mgl64.Quat {
	dir := center.Sub(eye)
	up := worldUp
	if dir.Normalize().Cross(up).LenSqr() < 1e-10 {
		up = Vec3{0, 0, -1}
	}
	return mgl64.Mat4ToQuat(mgl64.LookAtV(eye, center, up)).Inverse().Normalize()
}
