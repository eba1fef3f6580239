package pathway

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// OutlineConfig styles the selection outline. The band width in pixels is
// Thickness * Strength.
type OutlineConfig struct {
	Color     string  `toml:"color"`
	Thickness float64 `toml:"thickness"`
	Strength  float64 `toml:"strength"`
	Glow      float64 `toml:"glow"`
}

// AntialiasConfig toggles the edge smoothing pass.
type AntialiasConfig struct {
	Enabled bool `toml:"enabled"`
}

// Frame is what a compositor needs to render one frame.
type Frame struct {
	Root      *Node
	Camera    *Camera
	Selection []*Node
}

// Compositor renders a frame through its passes into the screen.
type Compositor interface {
	// Resize re-derives size-dependent targets. Non-positive sizes are ignored.
	Resize(width, height int)
	Render(dst *ebiten.Image, f Frame)
	Dispose()
}

// PassCompositor renders the base scene into an offscreen target, draws the
// selection outline over it, then copies it to the screen through the
// anti-alias pass.
type PassCompositor struct {
	raster    *Rasterizer
	outline   *outlinePass
	antialias *antialiasPass

	pool          renderTargetPool
	base          *ebiten.Image
	width, height int
	disposed      bool
}

// NewPassCompositor compiles the post-processing shaders. A failure wraps
// ErrNoRenderContext.
func NewPassCompositor(raster *Rasterizer, oc OutlineConfig, ac AntialiasConfig) (*PassCompositor, error) {
	c, err := ParseHexColor(oc.Color)
	if err != nil {
		return nil, fmt.Errorf("outline color: %w", err)
	}
	outline, err := newOutlinePass(c, oc.Thickness*oc.Strength, oc.Glow)
	if err != nil {
		return nil, err
	}
	pc := &PassCompositor{raster: raster, outline: outline}
	if ac.Enabled {
		if pc.antialias, err = newAntialiasPass(); err != nil {
			outline.dispose()
			return nil, err
		}
	}
	return pc, nil
}

// Stats returns the rasterizer counters of the last frame.
func (pc *PassCompositor) Stats() FrameStats {
	return pc.raster.Stats()
}

// Resize replaces the base target and updates the resolution uniform.
func (pc *PassCompositor) Resize(width, height int) {
	if pc.disposed || width <= 0 || height <= 0 {
		return
	}
	if pc.base != nil && width == pc.width && height == pc.height {
		return
	}
	if pc.base != nil {
		pc.base.Deallocate()
	}
	// Pooled masks of the old size are no longer useful.
	pc.pool.Dispose()
	pc.width, pc.height = width, height
	pc.base = ebiten.NewImageWithOptions(image.Rect(0, 0, width, height), &ebiten.NewImageOptions{Unmanaged: true})
	if pc.antialias != nil {
		pc.antialias.SetResolution(width, height)
	}
}

// Render draws f into dst.
func (pc *PassCompositor) Render(dst *ebiten.Image, f Frame) {
	if pc.disposed || f.Root == nil || f.Camera == nil {
		return
	}
	if pc.base == nil {
		b := dst.Bounds()
		pc.Resize(b.Dx(), b.Dy())
		if pc.base == nil {
			return
		}
	}

	pc.base.Clear()
	pc.raster.Draw(pc.base, f.Root, f.Camera)

	if len(f.Selection) > 0 {
		mask := pc.pool.Acquire(pc.width, pc.height)
		pc.raster.DrawSilhouettes(mask, f.Selection, f.Camera)
		pc.outline.Apply(mask, pc.base)
		pc.pool.Release(mask)
	}

	if pc.antialias != nil {
		pc.antialias.Apply(pc.base, dst)
		return
	}
	dst.DrawImage(pc.base, nil)
}

// Dispose deallocates the targets and shaders. The compositor renders
// nothing afterwards.
func (pc *PassCompositor) Dispose() {
	if pc.disposed {
		return
	}
	pc.disposed = true
	if pc.base != nil {
		pc.base.Deallocate()
		pc.base = nil
	}
	pc.pool.Dispose()
	pc.outline.dispose()
	if pc.antialias != nil {
		pc.antialias.dispose()
	}
}
