package pathway

import (
	"errors"
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Vec3 is the 3D vector type used for positions, offsets and directions.
type Vec3 = mgl64.Vec3

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrNoMount         = errors.New("pathway: mount target is nil")
	ErrNoRenderContext = errors.New("pathway: render context unavailable")
	ErrInvalidCatalog  = errors.New("pathway: invalid waypoint catalog")
	ErrTooFewWaypoints = errors.New("pathway: at least two waypoints are required")
	ErrDepthOrder      = errors.New("pathway: waypoint depth must increase strictly")
	ErrNotRunning      = errors.New("pathway: controller is not running")
	ErrConstructed     = errors.New("pathway: controller already constructed")
	ErrSuperseded      = errors.New("pathway: transition superseded by a newer request")
	ErrDisposed        = errors.New("pathway: controller disposed")
	ErrUnknownFormat   = errors.New("pathway: unknown file format")
	ErrInvalidConfig   = errors.New("pathway: invalid configuration")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromRGB converts a 24-bit 0xRRGGBB value to an opaque Color.
func ColorFromRGB(rgb uint32) Color {
	return Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
		A: 1,
	}
}

// ParseHexColor parses "#rrggbb" (or the short "#rgb") into an opaque Color.
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// RGB packs the color channels back into a 24-bit value, dropping alpha.
func (c Color) RGB() uint32 {
	r, g, b := c.colorful().Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// Scale multiplies the color channels by k, leaving alpha untouched.
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k, c.A}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Blend mixes c toward o by t in RGB space. Alpha is interpolated linearly.
func (c Color) Blend(o Color, t float64) Color {
	m := c.colorful().BlendRgb(o.colorful(), t)
	return Color{m.R, m.G, m.B, c.A + (o.A-c.A)*t}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Random returns a uniformly distributed value in [Min, Max).
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max Vec3
}

// Contains reports whether p lies strictly inside the box.
func (b AABB) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] <= b.Min[i] || p[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Grow returns the box expanded by dx, dy, dz on every side.
func (b AABB) Grow(dx, dy, dz float64) AABB {
	d := Vec3{dx, dy, dz}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Size returns the box extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// BlendMode selects a compositing operation.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over
	BlendAdd                     // additive / lighter
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

// CursorShape is the pointer cursor the mount should display.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota // platform arrow
	CursorPointer                    // hand, shown over a marker
)

// Key is a navigation key the mount forwards to listeners.
type Key uint8

const (
	KeyNext     Key = iota // right arrow
	KeyPrevious            // left arrow
	KeyClose               // escape
)

var worldUp = Vec3{0, 1, 0}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpVec3(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
