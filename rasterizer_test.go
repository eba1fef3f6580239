package pathway

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func planeNode(name string, z float64, mat *Material) *Node {
	n := NewMeshNode(name, NewPlaneMesh(2, 2), mat)
	n.Position = Vec3{0, 0, z}
	return n
}

func unlit(c Color) *Material {
	m := NewMaterial(c)
	m.Unlit = true
	return m
}

func TestProjectorCentre(t *testing.T) {
	p := newProjector(newTestCamera())
	sx, sy, depth, ok := p.project(Vec3{0, 0, -10})
	if !ok {
		t.Fatal("point ahead of the camera rejected")
	}
	if !approxEqual(sx, 400, 1e-6) || !approxEqual(sy, 300, 1e-6) {
		t.Errorf("project = (%f,%f), want (400,300)", sx, sy)
	}
	if !approxEqual(depth, 10, 1e-9) {
		t.Errorf("depth = %f, want 10", depth)
	}
	if _, _, _, ok := p.project(Vec3{0, 0, 5}); ok {
		t.Error("point behind the camera accepted")
	}
	if _, _, _, ok := p.project(Vec3{0, 0, -0.05}); ok {
		t.Error("point inside the near plane accepted")
	}
}

func TestCollectCullsBackFaces(t *testing.T) {
	r := NewRasterizer(nil, Fog{}, Color{})
	cam := newTestCamera()

	front := planeNode("front", -10, unlit(ColorWhite))
	if got := len(r.Collect(front, cam)); got != 2 {
		t.Errorf("front-facing plane: %d triangles, want 2", got)
	}

	back := planeNode("back", -10, unlit(ColorWhite))
	back.Rotation = mgl64.QuatRotate(math.Pi, Vec3{0, 1, 0})
	if got := len(r.Collect(back, cam)); got != 0 {
		t.Errorf("back-facing plane: %d triangles, want 0", got)
	}

	back.Material.DoubleSided = true
	if got := len(r.Collect(back, cam)); got != 2 {
		t.Errorf("double-sided back face: %d triangles, want 2", got)
	}

	back.Material.DoubleSided = false
	if got := len(r.CollectSilhouettes([]*Node{back}, cam)); got != 2 {
		t.Errorf("silhouette of back face: %d triangles, want 2", got)
	}
}

func TestCollectSortsFarToNear(t *testing.T) {
	r := NewRasterizer(nil, Fog{}, Color{})
	root := NewContainer("root")
	near := planeNode("near", -5, unlit(Color{1, 0, 0, 1}))
	far := planeNode("far", -20, unlit(Color{0, 0, 1, 1}))
	root.AddChild(near)
	root.AddChild(far)

	tris := r.Collect(root, newTestCamera())
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	for i := 1; i < len(tris); i++ {
		if tris[i].depth > tris[i-1].depth {
			t.Fatalf("triangle %d depth %f after %f, want far to near", i, tris[i].depth, tris[i-1].depth)
		}
	}
	if tris[0].verts[0].ColorB != 1 || tris[3].verts[0].ColorR != 1 {
		t.Error("far (blue) plane should come first and near (red) last")
	}
}

func TestCollectSkipsHiddenAndDisposed(t *testing.T) {
	r := NewRasterizer(nil, Fog{}, Color{})
	root := NewContainer("root")
	hiddenGroup := NewContainer("hidden")
	hiddenGroup.Visible = false
	hiddenGroup.AddChild(planeNode("child", -10, unlit(ColorWhite)))
	root.AddChild(hiddenGroup)

	gone := planeNode("gone", -10, unlit(ColorWhite))
	root.AddChild(gone)
	gone.disposed = true

	behind := planeNode("behind", 5, unlit(ColorWhite))
	root.AddChild(behind)
	root.AddChild(NewMeshNode("no material", NewPlaneMesh(1, 1), nil))

	if got := len(r.Collect(root, newTestCamera())); got != 0 {
		t.Errorf("got %d triangles, want 0", got)
	}
}

func TestCollectUnlitVertexColorPremultiplied(t *testing.T) {
	r := NewRasterizer(nil, Fog{Color: ColorWhite, Near: 0, Far: 1}, Color{})
	mat := unlit(Color{1, 0.5, 0, 1})
	mat.Opacity = 0.5
	tris := r.Collect(planeNode("p", -10, mat), newTestCamera())
	if len(tris) == 0 {
		t.Fatal("no triangles")
	}
	v := tris[0].verts[0]
	if !approxEqual(float64(v.ColorA), 0.5, 1e-6) || !approxEqual(float64(v.ColorR), 0.5, 1e-6) || !approxEqual(float64(v.ColorG), 0.25, 1e-6) {
		t.Errorf("vertex color = (%f,%f,%f,%f), want (0.5,0.25,0,0.5)", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
}

func TestCollectSpriteScalesWithDepth(t *testing.T) {
	r := NewRasterizer(nil, Fog{}, Color{})
	cam := newTestCamera()
	s := NewSprite("label", unlit(ColorWhite), 2, 1)
	s.Position = Vec3{0, 0, -10}

	tris := r.Collect(s, cam)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	ppu := 300 / math.Tan(mgl64.DegToRad(75)/2)
	wantW := 2 * ppu / 10
	gotW := float64(tris[0].verts[1].DstX - tris[0].verts[0].DstX)
	if !approxEqual(gotW, wantW, 1e-3) {
		t.Errorf("sprite width = %f px, want %f", gotW, wantW)
	}
	if tris[0].tex != nil {
		t.Error("untextured sprite has a texture")
	}
}

func TestCollectLineSegments(t *testing.T) {
	r := NewRasterizer(nil, Fog{}, Color{})
	line := NewLine("path", []Vec3{{-1, 0, -10}, {1, 0, -10}, {1, 0, 5}}, unlit(ColorWhite))
	line.LineWidth = 4

	tris := r.Collect(line, newTestCamera())
	// The second segment crosses behind the camera and is dropped.
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	thick := math.Abs(float64(tris[0].verts[1].DstY - tris[0].verts[0].DstY))
	if !approxEqual(thick, 4, 1e-3) {
		t.Errorf("line thickness = %f px, want 4", thick)
	}
}
