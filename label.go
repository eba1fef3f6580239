package pathway

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// LabelStyle sizes the rasterized label and glyph canvases.
type LabelStyle struct {
	Width, Height int
	FontSize      float64
	// Margin is the horizontal padding kept free of text on each side.
	Margin     int
	ShadowBlur float64
	// BackgroundAlpha is the opacity of the gradient band.
	BackgroundAlpha float64

	GlyphCanvas   int
	GlyphFontSize float64
	HaloBlur      float64
}

// DefaultLabelStyle matches a 1024x256 label canvas with 72 px bold titles.
func DefaultLabelStyle() LabelStyle {
	return LabelStyle{
		Width:           1024,
		Height:          256,
		FontSize:        72,
		Margin:          48,
		ShadowBlur:      6,
		BackgroundAlpha: 0.85,
		GlyphCanvas:     128,
		GlyphFontSize:   80,
		HaloBlur:        14,
	}
}

// LabelRasterizer draws waypoint titles and background symbols into CPU
// images using the bundled Go fonts.
type LabelRasterizer struct {
	style     LabelStyle
	titleFont *opentype.Font
	glyphFont *opentype.Font
	titleFace font.Face
	glyphFace font.Face
	buf       sfnt.Buffer
}

// NewLabelRasterizer parses the bundled fonts and prepares faces.
func NewLabelRasterizer(style LabelStyle) (*LabelRasterizer, error) {
	titleFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse title font: %w", err)
	}
	glyphFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse glyph font: %w", err)
	}
	r := &LabelRasterizer{style: style, titleFont: titleFont, glyphFont: glyphFont}
	if r.titleFace, err = newFace(titleFont, style.FontSize); err != nil {
		return nil, err
	}
	if r.glyphFace, err = newFace(glyphFont, style.GlyphFontSize); err != nil {
		return nil, err
	}
	return r, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.0fpx face: %w", size, err)
	}
	return face, nil
}

// Close releases the font faces.
func (r *LabelRasterizer) Close() error {
	if err := r.titleFace.Close(); err != nil {
		return err
	}
	return r.glyphFace.Close()
}

// Label renders title over a horizontal black-accent-black band with a soft
// drop shadow. Titles wider than the canvas are drawn with a smaller face.
func (r *LabelRasterizer) Label(title string, accent Color) *image.RGBA {
	w, h := r.style.Width, r.style.Height
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	black := Color{0, 0, 0, 1}
	for x := 0; x < w; x++ {
		t := float64(x) / float64(max(w-1, 1))
		var c Color
		if t < 0.5 {
			c = black.Blend(accent, t*2)
		} else {
			c = accent.Blend(black, (t-0.5)*2)
		}
		px := c.WithAlpha(r.style.BackgroundAlpha).toRGBA()
		for y := 0; y < h; y++ {
			dst.SetRGBA(x, y, px)
		}
	}

	face := r.titleFace
	avail := w - 2*r.style.Margin
	if adv := font.MeasureString(face, title).Ceil(); adv > avail && adv > 0 {
		size := math.Floor(r.style.FontSize * float64(avail) / float64(adv))
		if smaller, err := newFace(r.titleFont, size); err == nil {
			defer smaller.Close()
			face = smaller
		}
	}
	dot := centeredDot(face, title, w, h)

	shadow := image.NewRGBA(dst.Bounds())
	drawString(shadow, face, title, dot.Add(fixed.P(3, 3)), color.Black)
	soft := blur.Gaussian(shadow, r.style.ShadowBlur)
	draw.Draw(dst, dst.Bounds(), soft, image.Point{}, draw.Over)

	drawString(dst, face, title, dot, color.White)
	return dst
}

// Supports reports whether every rune of symbol has a glyph in the symbol font.
func (r *LabelRasterizer) Supports(symbol string) bool {
	if symbol == "" {
		return false
	}
	for _, ch := range symbol {
		idx, err := r.glyphFont.GlyphIndex(&r.buf, ch)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// Glyph renders symbol in white, centred on a square transparent canvas.
// Callers tint it at draw time.
func (r *LabelRasterizer) Glyph(symbol string) *image.RGBA {
	n := r.style.GlyphCanvas
	dst := image.NewRGBA(image.Rect(0, 0, n, n))
	drawString(dst, r.glyphFace, symbol, centeredDot(r.glyphFace, symbol, n, n), color.White)
	return dst
}

// Halo renders a soft white disc used behind every glyph.
func (r *LabelRasterizer) Halo() *image.RGBA {
	n := r.style.GlyphCanvas
	disc := image.NewRGBA(image.Rect(0, 0, n, n))
	c := float64(n) / 2
	radius := float64(n) / 4
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if dx*dx+dy*dy <= radius*radius {
				disc.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return blur.Gaussian(disc, r.style.HaloBlur)
}

func centeredDot(face font.Face, s string, w, h int) fixed.Point26_6 {
	adv := font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	baseline := (h + m.Ascent.Ceil() - m.Descent.Ceil()) / 2
	return fixed.P((w-adv)/2, baseline)
}

func drawString(dst draw.Image, face font.Face, s string, dot fixed.Point26_6, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(s)
}
