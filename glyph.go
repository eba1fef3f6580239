package pathway

import (
	"math/rand/v2"
)

// DefaultSymbols is the background symbol set. Symbols the bundled font cannot
// render are skipped when the field is built.
var DefaultSymbols = []string{
	"∑", "∫", "∀", "∃", "∞", "≈", "≠", "≤", "≥", "⊂", "⊃",
	"₿", "Ξ", "$", "€", "¥", "⛓️", "🔑", "📄",
}

// GlyphConfig controls the drifting background symbols.
type GlyphConfig struct {
	Count int `toml:"count"`
	// Spread is the edge length of the spawn cube centred on the origin.
	Spread float64 `toml:"spread"`
	// Size is the base sprite size in world units, scaled by SizeJitter.
	Size       float64 `toml:"size"`
	SizeJitter Range   `toml:"size_jitter"`
	// TintChannel is the per-channel tint range on a 0-255 scale.
	TintChannel Range `toml:"tint_channel"`
	HaloAlpha   Range `toml:"halo_alpha"`
	SymbolAlpha Range `toml:"symbol_alpha"`
	// SpinRange is the width of the spin rate interval centred on zero.
	SpinRange float64 `toml:"spin_range"`
	// RiseSpeed is the upward drift in units per second.
	RiseSpeed float64 `toml:"rise_speed"`
	// SpinScale converts spin rate to radians per second.
	SpinScale float64 `toml:"spin_scale"`
	// Glyphs rising above WrapTop restart at WrapBottom.
	WrapTop    float64 `toml:"wrap_top"`
	WrapBottom float64 `toml:"wrap_bottom"`
	// WrapSpread is the horizontal/depth extent used when a glyph wraps.
	WrapSpread float64 `toml:"wrap_spread"`
	// CorridorMargin and CorridorLift grow the path bounds into the corridor
	// glyphs must stay out of, horizontally and vertically.
	CorridorMargin float64  `toml:"corridor_margin"`
	CorridorLift   float64  `toml:"corridor_lift"`
	Symbols        []string `toml:"symbols"`
}

// Glyph is one drifting background symbol: a halo sprite and a symbol sprite
// sharing a position.
type Glyph struct {
	Position Vec3
	SpinRate float64
	Roll     float64

	halo   *Node
	symbol *Node
}

// Nodes returns the halo and symbol sprites.
func (g *Glyph) Nodes() (halo, symbol *Node) {
	return g.halo, g.symbol
}

func (g *Glyph) sync() {
	for _, n := range [...]*Node{g.halo, g.symbol} {
		if n == nil {
			continue
		}
		n.Position = g.Position
		n.Roll = g.Roll
	}
}

// GlyphField owns the glyphs and the textures they share.
type GlyphField struct {
	cfg      GlyphConfig
	rng      *rand.Rand
	glyphs   []*Glyph
	textures []*Texture
}

// newGlyphField scatters cfg.Count glyphs in the spawn cube, keeping them out
// of corridor.
func newGlyphField(cfg GlyphConfig, rng *rand.Rand, raster *LabelRasterizer, corridor AABB) *GlyphField {
	f := &GlyphField{cfg: cfg, rng: rng}

	halo := NewTexture(raster.Halo())
	halo.shared = true
	f.textures = append(f.textures, halo)

	var symbols []*Texture
	for _, s := range cfg.Symbols {
		if !raster.Supports(s) {
			continue
		}
		t := NewTexture(raster.Glyph(s))
		t.shared = true
		symbols = append(symbols, t)
		f.textures = append(f.textures, t)
	}

	half := cfg.Spread / 2
	cube := Range{Min: -half, Max: half}
	corridorHeight := corridor.Size().Y()
	for i := 0; i < cfg.Count; i++ {
		g := &Glyph{
			Position: Vec3{cube.Random(rng), cube.Random(rng), cube.Random(rng)},
			SpinRate: (rng.Float64() - 0.5) * cfg.SpinRange,
		}
		if corridor.Contains(g.Position) {
			if rng.Float64() < 0.5 {
				g.Position[1] += corridorHeight
			} else {
				g.Position[1] -= corridorHeight
			}
		}

		tint := Color{
			R: cfg.TintChannel.Random(rng) / 255,
			G: cfg.TintChannel.Random(rng) / 255,
			B: cfg.TintChannel.Random(rng) / 255,
			A: 1,
		}
		size := cfg.Size * cfg.SizeJitter.Random(rng)

		haloMat := &Material{
			Color:   tint.WithAlpha(cfg.HaloAlpha.Random(rng)),
			Opacity: 1,
			Unlit:   true,
			Blend:   BlendAdd,
			Texture: halo,
		}
		g.halo = NewSprite("glyph-halo", haloMat, size*2, size*2)

		if len(symbols) > 0 {
			symMat := &Material{
				Color:   tint.WithAlpha(cfg.SymbolAlpha.Random(rng)),
				Opacity: 1,
				Unlit:   true,
				Blend:   BlendAdd,
				Texture: symbols[rng.IntN(len(symbols))],
			}
			g.symbol = NewSprite("glyph", symMat, size, size)
		}
		g.sync()
		f.glyphs = append(f.glyphs, g)
	}
	return f
}

// Glyphs returns the field's glyphs. The slice MUST NOT be mutated by the caller.
func (f *GlyphField) Glyphs() []*Glyph {
	if f == nil {
		return nil
	}
	return f.glyphs
}

// Update drifts every glyph upward and spins it by dt seconds of motion,
// wrapping glyphs that pass the top back to the bottom at a fresh
// horizontal/depth position.
func (f *GlyphField) Update(dt float64) {
	if f == nil || dt <= 0 {
		return
	}
	half := f.cfg.WrapSpread / 2
	spread := Range{Min: -half, Max: half}
	for _, g := range f.glyphs {
		g.Position[1] += dt * f.cfg.RiseSpeed
		g.Roll += dt * f.cfg.SpinScale * g.SpinRate
		if g.Position[1] > f.cfg.WrapTop {
			g.Position[1] = f.cfg.WrapBottom
			g.Position[0] = spread.Random(f.rng)
			g.Position[2] = spread.Random(f.rng)
		}
		g.sync()
	}
}

// Dispose releases the shared textures. Sprite nodes are disposed with the
// scene graph.
func (f *GlyphField) Dispose() {
	if f == nil {
		return
	}
	for _, t := range f.textures {
		t.release()
	}
	f.textures = nil
	f.glyphs = nil
}
