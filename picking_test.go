package pathway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cursorRecorder struct {
	shapes []CursorShape
}

func (c *cursorRecorder) SetCursor(s CursorShape) { c.shapes = append(c.shapes, s) }

func (c *cursorRecorder) last() CursorShape {
	if len(c.shapes) == 0 {
		return CursorDefault
	}
	return c.shapes[len(c.shapes)-1]
}

func newMarker(i int, pos Vec3, radius float64) *Node {
	n := NewMeshNode("marker", NewSphereMesh(radius, 8, 4), NewMaterial(ColorWhite))
	n.Position = pos
	n.WaypointIndex = i
	n.PickRadius = radius
	return n
}

// pickingRig has a camera at the origin looking down -Z and two markers
// straight ahead, one behind the other, plus one off to the right.
func pickingRig() (*PickingController, *OutlineSelection, *cursorRecorder, []*Node) {
	cam := newTestCamera()
	sel := &OutlineSelection{}
	cur := &cursorRecorder{}
	markers := []*Node{
		newMarker(0, Vec3{0, 0, -20}, 1),
		newMarker(1, Vec3{0, 0, -10}, 1),
		newMarker(2, Vec3{8, 0, -10}, 1),
	}
	pc := NewPickingController(cam, sel, cur)
	pc.SetMarkers(markers)
	return pc, sel, cur, markers
}

func TestPickingNearestFirst(t *testing.T) {
	pc, _, _, markers := pickingRig()
	hits := pc.Intersect(Ray{Origin: Vec3{}, Direction: Vec3{0, 0, -1}})
	require.Len(t, hits, 2)
	assert.Same(t, markers[1], hits[0].Node)
	assert.Same(t, markers[0], hits[1].Node)
	assert.InDelta(t, 9.0, hits[0].Distance, 1e-9)
}

func TestPickingMoveSelectsNearest(t *testing.T) {
	pc, sel, cur, markers := pickingRig()
	n := pc.Move(0, 0)
	assert.Same(t, markers[1], n)
	assert.Equal(t, []*Node{markers[1]}, sel.Nodes())
	assert.Equal(t, CursorPointer, cur.last())
}

func TestPickingMoveMissClears(t *testing.T) {
	pc, sel, cur, _ := pickingRig()
	pc.Move(0, 0)
	require.Equal(t, 1, sel.Len())

	for _, ndc := range [][2]float64{{-1, 1}, {1, 1}, {-1, -1}, {0, 0.9}, {-0.6, 0}} {
		assert.Nil(t, pc.Move(ndc[0], ndc[1]), "ndc %v", ndc)
		assert.Zero(t, sel.Len(), "ndc %v", ndc)
		assert.Equal(t, CursorDefault, cur.last())
	}
}

func TestPickingClick(t *testing.T) {
	pc, sel, _, markers := pickingRig()
	sx, sy, _, ok := pc.camera.Project(markers[2].Position)
	require.True(t, ok)
	i, hit := pc.Click(pc.camera.NDC(sx, sy))
	assert.True(t, hit)
	assert.Equal(t, 2, i)
	assert.Zero(t, sel.Len(), "click must not change the hover outline")

	_, hit = pc.Click(-1, 1)
	assert.False(t, hit)
}

func TestPickingSkipsDisposedAndHidden(t *testing.T) {
	pc, _, _, markers := pickingRig()
	markers[1].Dispose()
	n := pc.Move(0, 0)
	assert.Same(t, markers[0], n)

	markers[0].Visible = false
	assert.Nil(t, pc.Move(0, 0))

	parent := NewContainer("group")
	parent.AddChild(markers[2])
	parent.Visible = false
	sx, sy, _, _ := pc.camera.Project(markers[2].Position)
	_, hit := pc.Click(pc.camera.NDC(sx, sy))
	assert.False(t, hit, "marker under hidden parent")
}

func TestPickingEmptyMarkerSet(t *testing.T) {
	pc, sel, _, _ := pickingRig()
	pc.SetMarkers(nil)
	assert.Nil(t, pc.Move(0, 0))
	assert.Zero(t, sel.Len())
	_, hit := pc.Click(0, 0)
	assert.False(t, hit)
}

func TestPickingScaledMarker(t *testing.T) {
	pc, _, _, markers := pickingRig()
	pc.SetMarkers(markers[2:])
	// Aim 2.5 units left of the marker centre, outside radius 1.
	r := Ray{Origin: Vec3{5.5, 0, 0}, Direction: Vec3{0, 0, -1}}
	assert.Empty(t, pc.Intersect(r))
	markers[2].Scale = Vec3{3, 3, 3}
	assert.Len(t, pc.Intersect(r), 1)
}

func TestPickingNilCursor(t *testing.T) {
	sel := &OutlineSelection{}
	pc := NewPickingController(newTestCamera(), sel, nil)
	pc.SetMarkers([]*Node{newMarker(0, Vec3{0, 0, -5}, 1)})
	assert.NotPanics(t, func() {
		pc.Move(0, 0)
		pc.Reset()
	})
}
