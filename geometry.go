package pathway

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// GeometryConfig sizes the procedural path and waypoint furniture.
type GeometryConfig struct {
	// Samples is the number of curve divisions used to place rails and floor.
	Samples int `toml:"samples"`
	// RailEvery and FloorEvery decimate the samples.
	RailEvery  int     `toml:"rail_every"`
	FloorEvery int     `toml:"floor_every"`
	HalfWidth  float64 `toml:"half_width"`
	RailRadius float64 `toml:"rail_radius"`
	RailColor  string  `toml:"rail_color"`
	FloorColor string  `toml:"floor_color"`
	// PathColor tints the curve line; empty uses the first waypoint's accent.
	PathColor   string  `toml:"path_color"`
	PathOpacity float64 `toml:"path_opacity"`

	PlatformRadius   float64 `toml:"platform_radius"`
	PlatformSegments int     `toml:"platform_segments"`
	PlatformEmissive float64 `toml:"platform_emissive"`
	RingInner        float64 `toml:"ring_inner"`
	RingOuter        float64 `toml:"ring_outer"`
	// RingLift keeps the ring off the platform surface.
	RingLift    float64 `toml:"ring_lift"`
	RingOpacity float64 `toml:"ring_opacity"`

	LabelLift   float64 `toml:"label_lift"`
	LabelWidth  float64 `toml:"label_width"`
	LabelHeight float64 `toml:"label_height"`

	MarkerLift   float64 `toml:"marker_lift"`
	MarkerRadius float64 `toml:"marker_radius"`
	// MarkerColor is the sphere base color; the accent glows through Emissive.
	MarkerColor    string  `toml:"marker_color"`
	MarkerEmissive float64 `toml:"marker_emissive"`

	MarkerLightIntensity float64 `toml:"marker_light_intensity"`
	MarkerLightRange     float64 `toml:"marker_light_range"`
}

// BuildResult is the scene synthesized from a catalog. Nodes are not yet
// attached to any parent.
type BuildResult struct {
	Static  []*Node
	Markers []*Node
	Labels  []*Node
	Glyphs  *GlyphField
	Lights  []*Light
	// Path holds the curve samples.
	Path []Vec3
	// Corridor is the region kept free of glyphs.
	Corridor AABB
}

// GlyphNodes returns the halo and symbol sprites of every glyph.
func (r *BuildResult) GlyphNodes() []*Node {
	var out []*Node
	for _, g := range r.Glyphs.Glyphs() {
		halo, sym := g.Nodes()
		out = append(out, halo)
		if sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// GeometryBuilder turns a catalog into scene nodes. Given the same catalog,
// configuration and random source state, Build returns the same scene.
type GeometryBuilder struct {
	geo    GeometryConfig
	glyphs GlyphConfig
	raster *LabelRasterizer
	rng    *rand.Rand
}

// NewGeometryBuilder returns a builder drawing randomness from rng.
func NewGeometryBuilder(geo GeometryConfig, glyphs GlyphConfig, raster *LabelRasterizer, rng *rand.Rand) *GeometryBuilder {
	return &GeometryBuilder{geo: geo, glyphs: glyphs, raster: raster, rng: rng}
}

// Build synthesizes the path, per-waypoint furniture and background glyphs.
func (b *GeometryBuilder) Build(cat *Catalog) (*BuildResult, error) {
	if cat.Len() < 2 {
		return nil, fmt.Errorf("build geometry: %w", ErrTooFewWaypoints)
	}
	railColor, err := ParseHexColor(b.geo.RailColor)
	if err != nil {
		return nil, fmt.Errorf("build geometry: rail color: %w", err)
	}
	floorColor, err := ParseHexColor(b.geo.FloorColor)
	if err != nil {
		return nil, fmt.Errorf("build geometry: floor color: %w", err)
	}

	first, _ := cat.At(0)
	pathColor := first.AccentColor()
	if b.geo.PathColor != "" {
		if pathColor, err = ParseHexColor(b.geo.PathColor); err != nil {
			return nil, fmt.Errorf("build geometry: path color: %w", err)
		}
	}
	markerColor, err := ParseHexColor(b.geo.MarkerColor)
	if err != nil {
		return nil, fmt.Errorf("build geometry: marker color: %w", err)
	}

	res := &BuildResult{}
	res.Path = NewCurve(cat.Positions()).Samples(b.geo.Samples)
	res.Corridor = Bounds(res.Path).Grow(b.glyphs.CorridorMargin, b.glyphs.CorridorLift, b.glyphs.CorridorMargin)

	res.Static = append(res.Static, NewLine("path", res.Path, &Material{
		Color:   pathColor,
		Opacity: b.geo.PathOpacity,
		Unlit:   true,
	}))
	res.Static = append(res.Static, b.rails(res.Path, railColor)...)
	res.Static = append(res.Static, b.floor(res.Path, floorColor))

	for i, w := range cat.Waypoints() {
		static, label, marker, light := b.waypoint(i, w, markerColor)
		res.Static = append(res.Static, static...)
		res.Labels = append(res.Labels, label)
		res.Markers = append(res.Markers, marker)
		res.Lights = append(res.Lights, light)
	}

	res.Glyphs = newGlyphField(b.glyphs, b.rng, b.raster, res.Corridor)
	return res, nil
}

// railSegments returns the (start, end) sample pairs that carry rails and
// floor panels.
func railSegments(path []Vec3, every int) [][2]Vec3 {
	if every < 1 {
		every = 1
	}
	var out [][2]Vec3
	for i := 0; i+1 < len(path); i += every {
		out = append(out, [2]Vec3{path[i], path[i+1]})
	}
	return out
}

func (b *GeometryBuilder) rails(path []Vec3, c Color) []*Node {
	mat := NewMaterial(c)
	var out []*Node
	for _, seg := range railSegments(path, b.geo.RailEvery) {
		dir := seg[1].Sub(seg[0])
		length := dir.Len()
		if length == 0 {
			continue
		}
		side := sideVector(dir).Mul(b.geo.HalfWidth)
		mid := seg[0].Add(seg[1]).Mul(0.5)
		rot := mgl64.QuatBetweenVectors(worldUp, dir.Normalize())
		for _, offset := range [2]Vec3{side.Mul(-1), side} {
			n := NewMeshNode("rail", NewCylinderMesh(b.geo.RailRadius, length, 8), mat)
			n.Position = mid.Add(offset)
			n.Rotation = rot
			out = append(out, n)
		}
	}
	return out
}

func (b *GeometryBuilder) floor(path []Vec3, c Color) *Node {
	var quads [][4]Vec3
	for _, seg := range railSegments(path, b.geo.FloorEvery) {
		side := sideVector(seg[1].Sub(seg[0])).Mul(b.geo.HalfWidth)
		quads = append(quads, [4]Vec3{
			seg[0].Sub(side), seg[0].Add(side),
			seg[1].Sub(side), seg[1].Add(side),
		})
	}
	mat := NewMaterial(c)
	mat.DoubleSided = true
	return NewMeshNode("floor", NewStripMesh(quads), mat)
}

func (b *GeometryBuilder) waypoint(i int, w Waypoint, markerColor Color) (static []*Node, label, marker *Node, light *Light) {
	accent := w.AccentColor()
	p := w.Position

	platMat := NewMaterial(accent)
	platMat.Emissive = accent
	platMat.EmissiveIntensity = b.geo.PlatformEmissive
	platform := NewMeshNode(fmt.Sprintf("platform-%d", i), NewDiscMesh(b.geo.PlatformRadius, b.geo.PlatformSegments), platMat)
	platform.Position = p

	ringMat := &Material{Color: accent, Opacity: b.geo.RingOpacity, Unlit: true, DoubleSided: true}
	ring := NewMeshNode(fmt.Sprintf("ring-%d", i), NewRingMesh(b.geo.RingInner, b.geo.RingOuter, b.geo.PlatformSegments), ringMat)
	ring.Position = p.Add(Vec3{0, b.geo.RingLift, 0})

	labelMat := &Material{
		Color:       ColorWhite,
		Opacity:     1,
		Unlit:       true,
		DoubleSided: true,
		Texture:     NewTexture(b.raster.Label(w.Title, accent)),
	}
	label = NewMeshNode(fmt.Sprintf("label-%d", i), NewPlaneMesh(b.geo.LabelWidth, b.geo.LabelHeight), labelMat)
	label.Position = p.Add(Vec3{0, b.geo.LabelLift, 0})

	markerMat := NewMaterial(markerColor)
	markerMat.Emissive = accent
	markerMat.EmissiveIntensity = b.geo.MarkerEmissive
	marker = NewMeshNode(fmt.Sprintf("marker-%d", i), NewSphereMesh(b.geo.MarkerRadius, 32, 16), markerMat)
	marker.Position = p.Add(Vec3{0, b.geo.MarkerLift, 0})
	marker.WaypointIndex = i
	marker.PickRadius = b.geo.MarkerRadius

	light = &Light{
		Name:      fmt.Sprintf("marker-light-%d", i),
		Kind:      LightPoint,
		Color:     accent,
		Intensity: b.geo.MarkerLightIntensity,
		Position:  marker.Position,
		Range:     b.geo.MarkerLightRange,
	}
	return []*Node{platform, ring}, label, marker, light
}
