package pathway

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// WindowConfig sizes the host window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// LightConfig describes one global scene light. Kind is "ambient",
// "directional" or "point".
type LightConfig struct {
	Kind      string  `toml:"kind"`
	Color     string  `toml:"color"`
	Intensity float64 `toml:"intensity"`
	Position  Vec3    `toml:"position"`
	Range     float64 `toml:"range"`
}

// SceneConfig holds the backdrop, fog and global lights.
type SceneConfig struct {
	Background string        `toml:"background"`
	FogColor   string        `toml:"fog_color"`
	FogNear    float64       `toml:"fog_near"`
	FogFar     float64       `toml:"fog_far"`
	Lights     []LightConfig `toml:"lights"`
}

// Config is the full set of tunables. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// Seed feeds the random source of the scene build. Zero seeds from the clock.
	Seed  uint64 `toml:"seed"`
	Debug bool   `toml:"debug"`
	// MaxFrameDelta caps the per-frame glyph motion step, in seconds.
	MaxFrameDelta float64 `toml:"max_frame_delta"`

	Window     WindowConfig     `toml:"window"`
	Camera     CameraConfig     `toml:"camera"`
	Navigation NavigationConfig `toml:"navigation"`
	Geometry   GeometryConfig   `toml:"geometry"`
	Glyphs     GlyphConfig      `toml:"glyphs"`
	Scene      SceneConfig      `toml:"scene"`
	Outline    OutlineConfig    `toml:"outline"`
	Antialias  AntialiasConfig  `toml:"antialias"`
}

// DefaultConfig returns the stock look of the learning path.
func DefaultConfig() Config {
	return Config{
		MaxFrameDelta: 0.25,
		Window: WindowConfig{
			Title:  "Learning Path",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{FOV: 75, Near: 0.1, Far: 1000},
		Navigation: NavigationConfig{
			DurationMillis: 1500,
			EyeOffset:      Vec3{0, 3, 6},
			LookOffset:     Vec3{0, 1, 0},
		},
		Geometry: GeometryConfig{
			Samples:              200,
			RailEvery:            10,
			FloorEvery:           5,
			HalfWidth:            1.2,
			RailRadius:           0.05,
			RailColor:            "#ababab",
			FloorColor:           "#444444",
			PathColor:            "#8da9ff",
			PathOpacity:          0.8,
			PlatformRadius:       3,
			PlatformSegments:     64,
			PlatformEmissive:     0.2,
			RingInner:            3,
			RingOuter:            3.2,
			RingLift:             0.01,
			RingOpacity:          0.7,
			LabelLift:            2.2,
			LabelWidth:           5,
			LabelHeight:          1.25,
			MarkerLift:           1,
			MarkerRadius:         0.65,
			MarkerColor:          "#ffffff",
			MarkerEmissive:       0.8,
			MarkerLightIntensity: 1,
			MarkerLightRange:     5,
		},
		Glyphs: GlyphConfig{
			Count:          150,
			Spread:         80,
			Size:           1.2,
			SizeJitter:     Range{Min: 0.5, Max: 1.5},
			TintChannel:    Range{Min: 155, Max: 255},
			HaloAlpha:      Range{Min: 0.05, Max: 0.15},
			SymbolAlpha:    Range{Min: 0.2, Max: 0.7},
			SpinRange:      0.5,
			RiseSpeed:      0.5,
			SpinScale:      0.1,
			WrapTop:        30,
			WrapBottom:     -30,
			WrapSpread:     80,
			CorridorMargin: 10,
			CorridorLift:   5,
			Symbols:        append([]string(nil), DefaultSymbols...),
		},
		Scene: SceneConfig{
			Background: "#111111",
			FogColor:   "#111111",
			FogNear:    1,
			FogFar:     100,
			Lights: []LightConfig{
				{Kind: "ambient", Color: "#ffffff", Intensity: 0.7},
				{Kind: "directional", Color: "#ffffff", Intensity: 1.4, Position: Vec3{5, 10, 7.5}},
				{Kind: "point", Color: "#3677ac", Intensity: 1, Position: Vec3{-15, 10, 0}, Range: 50},
			},
		},
		Outline: OutlineConfig{
			Color:     "#ffffff",
			Thickness: 1.2,
			Strength:  3.5,
			Glow:      0.7,
		},
		Antialias: AntialiasConfig{Enabled: true},
	}
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadConfig decodes TOML from r over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteTo encodes the configuration as TOML.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return 0, fmt.Errorf("encode config: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Validate reports every out-of-range value, joined, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.MaxFrameDelta > 0, "max_frame_delta must be positive, got %v", c.MaxFrameDelta)
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far)
	check(c.Navigation.DurationMillis > 0, "navigation.duration_ms must be positive, got %d", c.Navigation.DurationMillis)

	g := c.Geometry
	check(g.Samples >= 2, "geometry.samples must be at least 2, got %d", g.Samples)
	check(g.RailEvery > 0 && g.FloorEvery > 0, "geometry.rail_every and floor_every must be positive")
	check(g.PlatformSegments >= 3, "geometry.platform_segments must be at least 3, got %d", g.PlatformSegments)
	check(g.RingOuter > g.RingInner, "geometry.ring_outer must exceed ring_inner")
	check(g.PathOpacity > 0 && g.PathOpacity <= 1, "geometry.path_opacity must be in (0, 1], got %v", g.PathOpacity)
	check(g.MarkerRadius > 0, "geometry.marker_radius must be positive, got %v", g.MarkerRadius)
	check(g.LabelWidth > 0 && g.LabelHeight > 0, "geometry label size must be positive")

	gl := c.Glyphs
	check(gl.Count >= 0, "glyphs.count must not be negative, got %d", gl.Count)
	check(gl.Spread > 0 && gl.Size > 0, "glyphs.spread and size must be positive")
	check(gl.WrapTop > gl.WrapBottom, "glyphs.wrap_top must exceed wrap_bottom")

	check(c.Outline.Thickness > 0 && c.Outline.Strength > 0, "outline thickness and strength must be positive")

	for name, hex := range map[string]string{
		"geometry.rail_color":   g.RailColor,
		"geometry.floor_color":  g.FloorColor,
		"geometry.marker_color": g.MarkerColor,
		"scene.background":      c.Scene.Background,
		"scene.fog_color":       c.Scene.FogColor,
		"outline.color":         c.Outline.Color,
	} {
		if _, err := ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if g.PathColor != "" {
		if _, err := ParseHexColor(g.PathColor); err != nil {
			errs = append(errs, fmt.Errorf("geometry.path_color: %w", err))
		}
	}
	for i, l := range c.Scene.Lights {
		if _, err := l.light(); err != nil {
			errs = append(errs, fmt.Errorf("scene.lights[%d]: %w", i, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (l LightConfig) light() (*Light, error) {
	c, err := ParseHexColor(l.Color)
	if err != nil {
		return nil, err
	}
	out := &Light{
		Name:      l.Kind,
		Color:     c,
		Intensity: l.Intensity,
		Position:  l.Position,
		Range:     l.Range,
	}
	switch strings.ToLower(l.Kind) {
	case "ambient":
		out.Kind = LightAmbient
	case "directional":
		out.Kind = LightDirectional
	case "point":
		out.Kind = LightPoint
	default:
		return nil, fmt.Errorf("unknown light kind %q", l.Kind)
	}
	return out, nil
}

// SceneLights converts the configured global lights. Invalid entries are
// skipped; Validate reports them.
func (c Config) SceneLights() []*Light {
	var out []*Light
	for _, lc := range c.Scene.Lights {
		if l, err := lc.light(); err == nil {
			out = append(out, l)
		}
	}
	return out
}

// Fog returns the configured fog.
func (c Config) Fog() Fog {
	col, _ := ParseHexColor(c.Scene.FogColor)
	return Fog{Color: col, Near: c.Scene.FogNear, Far: c.Scene.FogFar}
}

// BackgroundColor returns the clear color.
func (c Config) BackgroundColor() Color {
	col, _ := ParseHexColor(c.Scene.Background)
	return col
}
