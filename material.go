package pathway

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Material describes how a mesh or sprite is shaded.
type Material struct {
	Color Color
	// Emissive is added after lighting, scaled by EmissiveIntensity.
	Emissive          Color
	EmissiveIntensity float64
	// Opacity multiplies the final alpha.
	Opacity float64
	// Unlit skips lighting and fog; the color is used as is.
	Unlit       bool
	DoubleSided bool
	Blend       BlendMode
	// Texture, when set, is sampled with the mesh UVs and tinted by Color.
	Texture *Texture

	disposed bool
}

// NewMaterial returns an opaque, lit material of the given color.
func NewMaterial(c Color) *Material {
	return &Material{Color: c, Opacity: 1}
}

// Dispose releases the material and its texture.
func (m *Material) Dispose() {
	if m == nil || m.disposed {
		return
	}
	m.Texture.Dispose()
	m.Texture = nil
	m.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (m *Material) IsDisposed() bool {
	return m != nil && m.disposed
}

// Texture is CPU pixel data uploaded to the GPU on first use.
type Texture struct {
	source *image.RGBA
	img    *ebiten.Image
	// shared textures are owned elsewhere and survive Dispose on a material.
	shared   bool
	disposed bool
}

// NewTexture wraps CPU pixels. The GPU image is created lazily.
func NewTexture(src *image.RGBA) *Texture {
	return &Texture{source: src}
}

// Size returns the pixel dimensions.
func (t *Texture) Size() (int, int) {
	if t == nil || t.source == nil {
		return 0, 0
	}
	b := t.source.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the GPU image, uploading the pixels on first call.
func (t *Texture) Image() *ebiten.Image {
	if t == nil || t.disposed || t.source == nil {
		return nil
	}
	if t.img == nil {
		t.img = ebiten.NewImageFromImage(t.source)
	}
	return t.img
}

// Dispose deallocates the GPU image and drops the pixels. Shared textures
// ignore Dispose; their owner calls release.
func (t *Texture) Dispose() {
	if t == nil || t.shared {
		return
	}
	t.release()
}

func (t *Texture) release() {
	if t == nil || t.disposed {
		return
	}
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	t.source = nil
	t.disposed = true
}

// IsDisposed reports whether the texture has been released.
func (t *Texture) IsDisposed() bool {
	return t != nil && t.disposed
}
