package pathway

import (
	"github.com/chewxy/math32"
)

// LightKind selects how a Light contributes to shading.
type LightKind uint8

const (
	LightAmbient     LightKind = iota // uniform fill
	LightDirectional                  // parallel rays from Position toward the origin
	LightPoint                        // radial, fading to zero at Range
)

// Light is a scene light. Position is ignored by ambient lights.
type Light struct {
	Name      string
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  Vec3
	// Range is the distance at which a point light stops contributing.
	Range float64
}

// rgb is a float32 linear color accumulator matching ebiten vertex channels.
type rgb struct {
	r, g, b float32
}

func (c rgb) add(o rgb) rgb       { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }
func (c rgb) mul(o rgb) rgb       { return rgb{c.r * o.r, c.g * o.g, c.b * o.b} }
func (c rgb) scale(k float32) rgb { return rgb{c.r * k, c.g * k, c.b * k} }

func rgbOf(c Color) rgb {
	return rgb{float32(c.R), float32(c.G), float32(c.B)}
}

func (c rgb) mix(o rgb, t float32) rgb {
	return rgb{c.r + (o.r-c.r)*t, c.g + (o.g-c.g)*t, c.b + (o.b-c.b)*t}
}

func (c rgb) clamp() rgb {
	return rgb{
		math32.Min(math32.Max(c.r, 0), 1),
		math32.Min(math32.Max(c.g, 0), 1),
		math32.Min(math32.Max(c.b, 0), 1),
	}
}

// irradiance sums the light reaching a surface point with normal n (unit).
func irradiance(lights []*Light, p, n Vec3) rgb {
	var sum rgb
	for _, l := range lights {
		c := rgbOf(l.Color).scale(float32(l.Intensity))
		switch l.Kind {
		case LightAmbient:
			sum = sum.add(c)
		case LightDirectional:
			if l.Position.LenSqr() == 0 {
				continue
			}
			ndotl := math32.Max(float32(n.Dot(l.Position.Normalize())), 0)
			sum = sum.add(c.scale(ndotl))
		case LightPoint:
			d := l.Position.Sub(p)
			dist := float32(d.Len())
			if l.Range <= 0 || dist >= float32(l.Range) || dist == 0 {
				continue
			}
			ndotl := math32.Max(float32(n.Dot(d.Mul(1/float64(dist)))), 0)
			falloff := 1 - dist/float32(l.Range)
			sum = sum.add(c.scale(ndotl * falloff * falloff))
		}
	}
	return sum
}

// Fog fades colors toward Color between Near and Far view distance.
type Fog struct {
	Color     Color
	Near, Far float64
}

// factor returns 0 at or before Near and 1 at or beyond Far.
func (f Fog) factor(dist float32) float32 {
	if f.Far <= f.Near {
		return 0
	}
	t := (dist - float32(f.Near)) / float32(f.Far-f.Near)
	return math32.Min(math32.Max(t, 0), 1)
}
