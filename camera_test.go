package pathway

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestCamera() *Camera {
	return NewCamera(CameraConfig{FOV: 75, Near: 0.1, Far: 1000}, 800, 600)
}

func TestCameraDefaults(t *testing.T) {
	cam := newTestCamera()
	if !approxEqual(cam.Aspect(), 800.0/600.0, epsilon) {
		t.Errorf("Aspect = %f, want %f", cam.Aspect(), 800.0/600.0)
	}
	w, h := cam.Viewport()
	if w != 800 || h != 600 {
		t.Errorf("Viewport = %dx%d, want 800x600", w, h)
	}
	if !vecApproxEqual(cam.Forward(), Vec3{0, 0, -1}, epsilon) {
		t.Errorf("Forward = %v, want (0,0,-1)", cam.Forward())
	}
}

func TestCameraDegenerateViewport(t *testing.T) {
	cam := NewCamera(CameraConfig{FOV: 60, Near: 0.1, Far: 100}, 0, 0)
	if cam.Aspect() != 1 {
		t.Errorf("Aspect = %f, want 1", cam.Aspect())
	}
	if x, y := cam.NDC(10, 10); x != 0 || y != 0 {
		t.Errorf("NDC without viewport = (%f, %f), want (0, 0)", x, y)
	}

	cam.SetViewport(400, 200)
	for _, size := range [][2]int{{0, 200}, {400, 0}, {-1, -1}} {
		if cam.SetViewport(size[0], size[1]) {
			t.Errorf("SetViewport(%d, %d) = true, want false", size[0], size[1])
		}
		if !approxEqual(cam.Aspect(), 2, epsilon) {
			t.Errorf("Aspect after %v = %f, want 2", size, cam.Aspect())
		}
	}
}

func TestCameraNDC(t *testing.T) {
	cam := newTestCamera()
	tests := []struct {
		px, py float64
		x, y   float64
	}{
		{400, 300, 0, 0},
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{600, 150, 0.5, 0.5},
	}
	for _, tt := range tests {
		x, y := cam.NDC(tt.px, tt.py)
		if !approxEqual(x, tt.x, epsilon) || !approxEqual(y, tt.y, epsilon) {
			t.Errorf("NDC(%v, %v) = (%f, %f), want (%f, %f)", tt.px, tt.py, x, y, tt.x, tt.y)
		}
	}
}

func TestCameraRayThroughCenter(t *testing.T) {
	cam := newTestCamera()
	cam.Pose = PoseLookingAt(Vec3{0, 3, 6}, Vec3{0, 1, 0})
	r := cam.Ray(0, 0)
	want := Vec3{0, -2, -6}.Normalize()
	if !vecApproxEqual(r.Direction, want, 1e-9) {
		t.Errorf("center ray = %v, want %v", r.Direction, want)
	}
	if r.Origin != cam.Position {
		t.Errorf("ray origin = %v, want %v", r.Origin, cam.Position)
	}
}

func TestCameraProjectRoundTrip(t *testing.T) {
	cam := newTestCamera()
	cam.Pose = PoseLookingAt(Vec3{2, 4, 8}, Vec3{0, 0, 0})
	p := Vec3{1, 0.5, -2}
	sx, sy, depth, ok := cam.Project(p)
	if !ok {
		t.Fatal("Project reported point behind camera")
	}
	if depth <= 0 {
		t.Errorf("depth = %f, want > 0", depth)
	}
	r := cam.Ray(cam.NDC(sx, sy))
	toPoint := p.Sub(r.Origin).Normalize()
	if !vecApproxEqual(r.Direction, toPoint, 1e-9) {
		t.Errorf("ray through projection = %v, want %v", r.Direction, toPoint)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	cam := newTestCamera()
	if _, _, _, ok := cam.Project(Vec3{0, 0, 5}); ok {
		t.Error("point behind camera projected")
	}
}

func TestPoseInterpolate(t *testing.T) {
	a := PoseLookingAt(Vec3{0, 0, 0}, Vec3{0, 0, -1})
	b := PoseLookingAt(Vec3{10, 0, 0}, Vec3{11, 0, 0})
	if got := a.Interpolate(b, 0); !got.ApproxEqual(a, 1e-9) {
		t.Errorf("Interpolate(0) = %v, want %v", got, a)
	}
	if got := a.Interpolate(b, 1); !got.ApproxEqual(b, 1e-9) {
		t.Errorf("Interpolate(1) = %v, want %v", got, b)
	}
	mid := a.Interpolate(b, 0.5)
	if !vecApproxEqual(mid.Position, Vec3{5, 0, 0}, 1e-9) {
		t.Errorf("mid position = %v, want (5,0,0)", mid.Position)
	}
	// Halfway between facing -Z and +X is facing the diagonal.
	want := Vec3{1, 0, -1}.Normalize()
	if !vecApproxEqual(mid.Forward(), want, 1e-9) {
		t.Errorf("mid forward = %v, want %v", mid.Forward(), want)
	}
}

func TestPoseInterpolateTakesShorterArc(t *testing.T) {
	a := Pose{Orientation: mgl64.QuatIdent()}
	// 350 degrees about Y is 10 degrees the other way, with W < 0.
	b := Pose{Orientation: mgl64.QuatRotate(mgl64.DegToRad(350), Vec3{0, 1, 0})}
	if a.Orientation.Dot(b.Orientation) >= 0 {
		t.Fatalf("fixture dot = %v, want negative", a.Orientation.Dot(b.Orientation))
	}
	mid := a.Interpolate(b, 0.5)
	want := mgl64.QuatRotate(mgl64.DegToRad(-5), Vec3{0, 1, 0}).Rotate(Vec3{0, 0, -1})
	if !vecApproxEqual(mid.Forward(), want, 1e-9) {
		t.Errorf("mid forward = %v, want %v", mid.Forward(), want)
	}

	neg := Pose{Orientation: mgl64.QuatIdent().Scale(-1)}
	for _, tt := range []float64{0.25, 0.5, 0.75} {
		if got := a.Interpolate(neg, tt); !got.ApproxEqual(a, 1e-9) {
			t.Errorf("Interpolate(-q, %v) = %v, want no rotation", tt, got.Orientation)
		}
	}
}

func TestPoseApproxEqualNegatedQuat(t *testing.T) {
	p := PoseLookingAt(Vec3{0, 1, 2}, Vec3{0, 0, 0})
	q := p
	q.Orientation = q.Orientation.Scale(-1)
	if !p.ApproxEqual(q, 1e-12) {
		t.Error("q and -q compared unequal")
	}
	q.Position[0] += 0.1
	if p.ApproxEqual(q, 1e-3) {
		t.Error("poses 0.1 apart compared equal")
	}
}

func TestPoseLookingAtStraightDown(t *testing.T) {
	p := PoseLookingAt(Vec3{0, 10, 0}, Vec3{0, 0, 0})
	if f := p.Forward(); !vecApproxEqual(f, Vec3{0, -1, 0}, 1e-9) {
		t.Errorf("Forward = %v, want (0,-1,0)", f)
	}
	if math.IsNaN(p.Orientation.W) {
		t.Error("orientation is NaN")
	}
}
