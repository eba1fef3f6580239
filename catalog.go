package pathway

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Waypoint is a named, colored stop along the path.
type Waypoint struct {
	Position Vec3
	Title    string
	// Accent is a 24-bit 0xRRGGBB color.
	Accent uint32
}

// Depth is the distance travelled into the screen. The path runs toward -Z.
func (w Waypoint) Depth() float64 {
	return -w.Position.Z()
}

// AccentColor returns the accent as an opaque Color.
func (w Waypoint) AccentColor() Color {
	return ColorFromRGB(w.Accent)
}

// Catalog is an immutable, validated, ordered list of waypoints. The order
// defines both the spatial path and the navigation order.
type Catalog struct {
	waypoints []Waypoint
}

// NewCatalog validates and copies waypoints into a Catalog.
func NewCatalog(waypoints []Waypoint) (*Catalog, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrInvalidCatalog, ErrTooFewWaypoints, len(waypoints))
	}
	for i, w := range waypoints {
		if w.Accent > 0xffffff {
			return nil, fmt.Errorf("%w: waypoint %d accent %#x exceeds 24 bits", ErrInvalidCatalog, i, w.Accent)
		}
		if i > 0 && w.Depth() <= waypoints[i-1].Depth() {
			return nil, fmt.Errorf("%w: %w: waypoint %d depth %g follows %g",
				ErrInvalidCatalog, ErrDepthOrder, i, w.Depth(), waypoints[i-1].Depth())
		}
	}
	return &Catalog{waypoints: append([]Waypoint(nil), waypoints...)}, nil
}

// DefaultCatalog returns the five-chapter learning path.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Waypoint{
		{Position: Vec3{0, 0, 0}, Title: "Chapter 1: Intro to Blockchain", Accent: 0x6495ed},
		{Position: Vec3{0, 5, -10}, Title: "Chapter 2: Cryptography Basics", Accent: 0xffa500},
		{Position: Vec3{0, 10, -20}, Title: "Chapter 3: Consensus Mechanisms", Accent: 0x9370db},
		{Position: Vec3{0, 15, -30}, Title: "Chapter 4: Smart Contracts", Accent: 0x20b2aa},
		{Position: Vec3{0, 20, -40}, Title: "Chapter 5: DApps & Future", Accent: 0xff6347},
	})
	if err != nil {
		panic("pathway: default catalog: " + err.Error())
	}
	return c
}

// Len returns the number of waypoints. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.waypoints)
}

// At returns the waypoint at index i.
func (c *Catalog) At(i int) (Waypoint, bool) {
	if i < 0 || i >= c.Len() {
		return Waypoint{}, false
	}
	return c.waypoints[i], true
}

// Waypoints returns a copy of the ordered waypoints.
func (c *Catalog) Waypoints() []Waypoint {
	if c == nil {
		return nil
	}
	return append([]Waypoint(nil), c.waypoints...)
}

// Positions returns the waypoint positions in order.
func (c *Catalog) Positions() []Vec3 {
	out := make([]Vec3, c.Len())
	for i := range out {
		out[i] = c.waypoints[i].Position
	}
	return out
}

// Titles returns the waypoint titles in order.
func (c *Catalog) Titles() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.waypoints[i].Title
	}
	return out
}

// --- File formats ---

type waypointRecord struct {
	Title    string    `yaml:"title" toml:"title"`
	Position []float64 `yaml:"position" toml:"position"`
	Accent   string    `yaml:"accent" toml:"accent"`
}

type catalogFile struct {
	Waypoints []waypointRecord `yaml:"waypoints" toml:"waypoints"`
}

// LoadCatalog reads a YAML (.yaml, .yml) or TOML (.toml) catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var c *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err = ParseCatalogYAML(data)
	case ".toml":
		c, err = ParseCatalogTOML(data)
	default:
		return nil, fmt.Errorf("load catalog %s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalogYAML decodes a catalog from YAML.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return f.catalog()
}

// ParseCatalogTOML decodes a catalog from TOML.
func ParseCatalogTOML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return f.catalog()
}

func (f catalogFile) catalog() (*Catalog, error) {
	wps := make([]Waypoint, 0, len(f.Waypoints))
	for i, r := range f.Waypoints {
		if len(r.Position) != 3 {
			return nil, fmt.Errorf("%w: waypoint %d position has %d components, want 3",
				ErrInvalidCatalog, i, len(r.Position))
		}
		accent, err := ParseHexColor(r.Accent)
		if err != nil {
			return nil, fmt.Errorf("%w: waypoint %d accent %q: %w", ErrInvalidCatalog, i, r.Accent, err)
		}
		wps = append(wps, Waypoint{
			Position: Vec3{r.Position[0], r.Position[1], r.Position[2]},
			Title:    r.Title,
			Accent:   accent.RGB(),
		})
	}
	return NewCatalog(wps)
}
