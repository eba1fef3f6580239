package pathway

import (
	"slices"
)

// Hit is a ray intersection with a marker.
type Hit struct {
	Node     *Node
	Distance float64
}

// cursorSetter is the part of a Mount the picker drives.
type cursorSetter interface {
	SetCursor(CursorShape)
}

// PickingController maps pointer positions to marker hits, keeping the hover
// outline and cursor shape in step. It tests rays only against markers, so
// the cost is linear in the number of waypoints.
type PickingController struct {
	camera    *Camera
	selection *OutlineSelection
	cursor    cursorSetter

	markers []*Node
	hitBuf  []Hit
}

// NewPickingController returns a controller reading camera and writing
// selection and cursor. cursor may be nil.
func NewPickingController(camera *Camera, selection *OutlineSelection, cursor cursorSetter) *PickingController {
	return &PickingController{camera: camera, selection: selection, cursor: cursor}
}

// SetMarkers replaces the set of pickable marker nodes.
func (pc *PickingController) SetMarkers(markers []*Node) {
	pc.markers = append(pc.markers[:0], markers...)
}

// Markers returns the pickable set. The returned slice MUST NOT be mutated by the caller.
func (pc *PickingController) Markers() []*Node {
	return pc.markers
}

// pickable reports whether n can be hit: live, visible and with a positive
// pick radius.
func pickable(n *Node) bool {
	if n == nil || n.disposed || n.PickRadius <= 0 {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Intersect returns every marker hit by r, nearest first. Markers at equal
// distance keep their registration order. The returned slice is reused by
// the next call.
func (pc *PickingController) Intersect(r Ray) []Hit {
	pc.hitBuf = pc.hitBuf[:0]
	for _, m := range pc.markers {
		if !pickable(m) {
			continue
		}
		radius := m.PickRadius * maxComponent(m.Scale)
		if t, ok := r.IntersectSphere(m.WorldPosition(), radius); ok {
			pc.hitBuf = append(pc.hitBuf, Hit{Node: m, Distance: t})
		}
	}
	slices.SortStableFunc(pc.hitBuf, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return pc.hitBuf
}

// nearest returns the first hit along the ray through the NDC position.
func (pc *PickingController) nearest(ndcX, ndcY float64) (*Node, bool) {
	hits := pc.Intersect(pc.camera.Ray(ndcX, ndcY))
	if len(hits) == 0 {
		return nil, false
	}
	return hits[0].Node, true
}

// Move updates the hover state for a pointer at the NDC position: the
// nearest marker becomes the only outlined node and the cursor turns into a
// pointer, otherwise the outline clears and the cursor resets.
func (pc *PickingController) Move(ndcX, ndcY float64) *Node {
	n, ok := pc.nearest(ndcX, ndcY)
	if !ok {
		pc.Reset()
		return nil
	}
	pc.selection.Set(n)
	pc.setCursor(CursorPointer)
	return n
}

// Click returns the waypoint index of the nearest marker under the NDC
// position.
func (pc *PickingController) Click(ndcX, ndcY float64) (int, bool) {
	n, ok := pc.nearest(ndcX, ndcY)
	if !ok || n.WaypointIndex < 0 {
		return 0, false
	}
	return n.WaypointIndex, true
}

// Reset clears the outline and restores the default cursor.
func (pc *PickingController) Reset() {
	pc.selection.Clear()
	pc.setCursor(CursorDefault)
}

func (pc *PickingController) setCursor(c CursorShape) {
	if pc.cursor != nil {
		pc.cursor.SetCursor(c)
	}
}

func maxComponent(v Vec3) float64 {
	return max(v.X(), v.Y(), v.Z())
}
