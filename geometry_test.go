package pathway

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, n int) *Catalog {
	t.Helper()
	wps := make([]Waypoint, n)
	for i := range wps {
		wps[i] = Waypoint{
			Position: Vec3{float64(i%2) * 3, float64(i) * 5, float64(-i) * 10},
			Title:    "Stop",
			Accent:   uint32(0x102030 * (i + 1) & 0xffffff),
		}
	}
	cat, err := NewCatalog(wps)
	require.NoError(t, err)
	return cat
}

func buildScene(t *testing.T, cat *Catalog, seed uint64) *BuildResult {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Glyphs.Count = 40
	b := NewGeometryBuilder(cfg.Geometry, cfg.Glyphs, newTestRaster(t), rand.New(rand.NewPCG(seed, seed)))
	res, err := b.Build(cat)
	require.NoError(t, err)
	return res
}

func TestBuildMarkerPerWaypoint(t *testing.T) {
	for _, n := range []int{2, 3, 5, 9} {
		res := buildScene(t, testCatalog(t, n), 1)
		require.Len(t, res.Markers, n)
		seen := make(map[int]bool)
		for _, m := range res.Markers {
			assert.GreaterOrEqual(t, m.WaypointIndex, 0)
			assert.Less(t, m.WaypointIndex, n)
			assert.False(t, seen[m.WaypointIndex], "duplicate index %d", m.WaypointIndex)
			seen[m.WaypointIndex] = true
			assert.Positive(t, m.PickRadius)
		}
		assert.Len(t, res.Labels, n)
		assert.Len(t, res.Lights, n)
	}
}

func TestBuildMarkersSitAboveWaypoints(t *testing.T) {
	cat := testCatalog(t, 3)
	res := buildScene(t, cat, 1)
	geo := DefaultConfig().Geometry
	for i, m := range res.Markers {
		w, _ := cat.At(i)
		assert.Equal(t, w.Position.Add(Vec3{0, geo.MarkerLift, 0}), m.Position)
		assert.Equal(t, m.Position, res.Lights[i].Position)
		assert.Equal(t, LightPoint, res.Lights[i].Kind)
		assert.Equal(t, w.Accent, res.Lights[i].Color.RGB())
	}
}

func TestBuildPathAndCorridor(t *testing.T) {
	cat := DefaultCatalog()
	res := buildScene(t, cat, 1)
	assert.Len(t, res.Path, DefaultConfig().Geometry.Samples+1)
	for i, p := range cat.Positions() {
		assert.True(t, res.Corridor.Contains(p), "waypoint %d outside corridor", i)
	}
}

func TestBuildStaticNodes(t *testing.T) {
	res := buildScene(t, DefaultCatalog(), 1)
	var lines, floors, rails int
	for _, n := range res.Static {
		switch {
		case n.Type == NodeTypeLine:
			lines++
			assert.Equal(t, ColorFromRGB(0x8da9ff), n.Material.Color)
			assert.InDelta(t, 0.8, n.Material.Opacity, 1e-9)
		case n.Name == "floor":
			floors++
			assert.True(t, n.Material.DoubleSided)
			assert.Positive(t, n.Mesh.TriangleCount())
		case n.Name == "rail":
			rails++
		}
	}
	assert.Equal(t, 1, lines)
	assert.Equal(t, 1, floors)
	assert.Positive(t, rails)
	assert.Zero(t, rails%2, "rails come in pairs")
}

func TestBuildDeterministic(t *testing.T) {
	cat := DefaultCatalog()
	a := buildScene(t, cat, 42)
	b := buildScene(t, cat, 42)
	c := buildScene(t, cat, 43)

	ga, gb, gc := a.Glyphs.Glyphs(), b.Glyphs.Glyphs(), c.Glyphs.Glyphs()
	require.Len(t, ga, 40)
	same := true
	for i := range ga {
		assert.Equal(t, ga[i].Position, gb[i].Position)
		assert.Equal(t, ga[i].SpinRate, gb[i].SpinRate)
		if ga[i].Position != gc[i].Position {
			same = false
		}
	}
	assert.False(t, same, "different seeds produced the same field")
}

func TestBuildTooFewWaypoints(t *testing.T) {
	cfg := DefaultConfig()
	b := NewGeometryBuilder(cfg.Geometry, cfg.Glyphs, nil, rand.New(rand.NewPCG(1, 1)))
	_, err := b.Build(nil)
	assert.ErrorIs(t, err, ErrTooFewWaypoints)
}

func TestRailSegments(t *testing.T) {
	path := make([]Vec3, 21)
	for i := range path {
		path[i] = Vec3{0, 0, float64(-i)}
	}
	segs := railSegments(path, 10)
	require.Len(t, segs, 2)
	assert.Equal(t, [2]Vec3{path[0], path[1]}, segs[0])
	assert.Equal(t, [2]Vec3{path[10], path[11]}, segs[1])
	assert.Len(t, railSegments(path, 0), 20)
}

func TestBuildPathColorFallsBackToAccent(t *testing.T) {
	cat := testCatalog(t, 3)
	cfg := DefaultConfig()
	cfg.Glyphs.Count = 0
	cfg.Geometry.PathColor = ""
	b := NewGeometryBuilder(cfg.Geometry, cfg.Glyphs, newTestRaster(t), rand.New(rand.NewPCG(1, 1)))
	res, err := b.Build(cat)
	require.NoError(t, err)
	first, _ := cat.At(0)
	for _, n := range res.Static {
		if n.Type == NodeTypeLine {
			assert.Equal(t, first.AccentColor(), n.Material.Color)
		}
	}
}

func TestBuildMarkersAreWhiteWithAccentGlow(t *testing.T) {
	cat := testCatalog(t, 3)
	res := buildScene(t, cat, 1)
	for i, m := range res.Markers {
		w, _ := cat.At(i)
		assert.Equal(t, ColorWhite, m.Material.Color, "marker %d", i)
		assert.Equal(t, w.AccentColor(), m.Material.Emissive, "marker %d", i)
		assert.InDelta(t, 0.8, m.Material.EmissiveIntensity, 1e-9, "marker %d", i)
	}
}
