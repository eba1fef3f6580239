package pathway

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraConfig holds the projection parameters. FOV is vertical, in degrees.
type CameraConfig struct {
	FOV  float64 `toml:"fov"`
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`
}

// Pose is a camera placement: a position and an orientation whose local -Z
// axis is the view direction.
type Pose struct {
	Position    Vec3
	Orientation mgl64.Quat
}

// PoseLookingAt returns the pose at eye looking toward target with +Y up.
func PoseLookingAt(eye, target Vec3) Pose {
	return Pose{Position: eye, Orientation: lookRotation(eye, target)}
}

// Forward returns the unit view direction.
func (p Pose) Forward() Vec3 {
	return p.Orientation.Rotate(Vec3{0, 0, -1})
}

// Interpolate blends p toward to: position linearly, orientation by
// spherical interpolation along the shorter arc. t is not clamped.
func (p Pose) Interpolate(to Pose, t float64) Pose {
	q := to.Orientation
	if p.Orientation.Dot(q) < 0 {
		q = q.Scale(-1)
	}
	return Pose{
		Position:    lerpVec3(p.Position, to.Position, t),
		Orientation: mgl64.QuatSlerp(p.Orientation, q, t),
	}
}

// ApproxEqual reports whether both poses match within eps. Orientations q and
// -q are treated as equal.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	if !p.Position.ApproxEqualThreshold(o.Position, eps) {
		return false
	}
	return math.Abs(math.Abs(p.Orientation.Dot(o.Orientation))-1) <= eps
}

// Camera is a perspective camera. The aspect ratio follows the last viewport
// size with both dimensions positive.
type Camera struct {
	Pose
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64

	width, height int
	aspect        float64
}

// NewCamera creates a camera at the origin looking down -Z with the given
// viewport size. A degenerate size leaves the aspect at 1.
func NewCamera(cfg CameraConfig, width, height int) *Camera {
	c := &Camera{
		Pose:   Pose{Orientation: mgl64.QuatIdent()},
		FOV:    cfg.FOV,
		Near:   cfg.Near,
		Far:    cfg.Far,
		aspect: 1,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport records a new viewport size and updates the aspect ratio.
// Non-positive dimensions are ignored and false is returned.
func (c *Camera) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.width, c.height = width, height
	c.aspect = float64(width) / float64(height)
	return true
}

// Viewport returns the last valid viewport size.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// Aspect returns width / height of the last valid viewport.
func (c *Camera) Aspect() float64 {
	return c.aspect
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	p := c.Position
	return c.Orientation.Inverse().Mat4().Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// Projection returns the perspective matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// NDC converts a pixel position to normalized device coordinates, x right
// and y up in [-1, 1]. Before any valid viewport it returns (0, 0).
func (c *Camera) NDC(px, py float64) (x, y float64) {
	if c.width <= 0 || c.height <= 0 {
		return 0, 0
	}
	return px/float64(c.width)*2 - 1, 1 - py/float64(c.height)*2
}

// Ray returns the world-space ray through the given NDC position.
func (c *Camera) Ray(ndcX, ndcY float64) Ray {
	tan := math.Tan(mgl64.DegToRad(c.FOV) / 2)
	dir := Vec3{ndcX * tan * c.aspect, ndcY * tan, -1}
	return Ray{
		Origin:    c.Position,
		Direction: c.Orientation.Rotate(dir).Normalize(),
	}
}

// Project maps a world point to pixel coordinates. depth is the distance in
// front of the camera along the view axis; ok is false for points nearer
// than the near plane.
func (c *Camera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	pr := newProjector(c)
	return pr.project(p)
}
