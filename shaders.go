package pathway

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// All shaders use //kage:unit pixels. Ebitengine uses premultiplied alpha;
// colors passed as uniforms are premultiplied on the Go side.

// outlineShaderSrc draws a glow band around the opaque pixels of a
// silhouette mask. Pixels inside the silhouette stay transparent so the
// outlined object itself is not tinted.
const outlineShaderSrc = `//kage:unit pixels
package main

var OutlineColor vec4
var Thickness float
var Glow float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	if imageSrc0At(src).a > 0 {
		return vec4(0)
	}
	best := Thickness + 1.0
	for y := -6; y <= 6; y++ {
		for x := -6; x <= 6; x++ {
			o := vec2(float(x), float(y))
			d := length(o)
			if d <= Thickness && imageSrc0At(src+o).a > 0 {
				best = min(best, d)
			}
		}
	}
	if best > Thickness {
		return vec4(0)
	}
	edge := 1.0 - best/(Thickness+1.0)
	a := clamp(edge*(1.0+Glow), 0.0, 1.0)
	return OutlineColor * a
}
`

// antialiasShaderSrc smooths high-contrast edges: where the local luma range
// exceeds a threshold, the pixel is blended with its neighbors across the
// edge.
const antialiasShaderSrc = `//kage:unit pixels
package main

var Resolution vec2

func luma(c vec4) float {
	return dot(c.rgb, vec3(0.299, 0.587, 0.114))
}

func at(p vec2) vec4 {
	o := imageSrc0Origin()
	q := clamp(p, o, o+Resolution-vec2(1))
	return imageSrc0UnsafeAt(q)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := at(src)
	n := at(src + vec2(0, -1))
	s := at(src + vec2(0, 1))
	e := at(src + vec2(1, 0))
	w := at(src + vec2(-1, 0))

	lc := luma(c)
	ln := luma(n)
	ls := luma(s)
	le := luma(e)
	lw := luma(w)
	lmin := min(lc, min(min(ln, ls), min(le, lw)))
	lmax := max(lc, max(max(ln, ls), max(le, lw)))
	if lmax-lmin < max(0.0312, lmax*0.125) {
		return c
	}
	if abs(ln+ls-2.0*lc) >= abs(le+lw-2.0*lc) {
		return mix(c, (n+s)*0.5, 0.5)
	}
	return mix(c, (e+w)*0.5, 0.5)
}
`

// compileShader wraps ebiten.NewShader, reporting failures as a missing
// render context.
func compileShader(name, src string) (*ebiten.Shader, error) {
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w: %w", name, ErrNoRenderContext, err)
	}
	return s, nil
}

// outlinePass holds the outline shader and its uniforms.
type outlinePass struct {
	shader     *ebiten.Shader
	uniforms   map[string]any
	colorF32   [4]float32 // persistent buffer
	colorSlice []float32  // persistent slice header
	shaderOp   ebiten.DrawRectShaderOptions
}

func newOutlinePass(c Color, thickness, glow float64) (*outlinePass, error) {
	s, err := compileShader("outline", outlineShaderSrc)
	if err != nil {
		return nil, err
	}
	p := &outlinePass{shader: s, uniforms: make(map[string]any, 3)}
	p.colorF32 = [4]float32{
		float32(c.R * c.A),
		float32(c.G * c.A),
		float32(c.B * c.A),
		float32(c.A),
	}
	p.colorSlice = p.colorF32[:]
	p.uniforms["OutlineColor"] = p.colorSlice
	p.uniforms["Thickness"] = float32(thickness)
	p.uniforms["Glow"] = float32(glow)
	return p, nil
}

// Apply draws the outline of mask over dst.
func (p *outlinePass) Apply(mask, dst *ebiten.Image) {
	b := mask.Bounds()
	p.shaderOp.Images[0] = mask
	p.shaderOp.Uniforms = p.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), p.shader, &p.shaderOp)
}

func (p *outlinePass) dispose() {
	p.shader.Deallocate()
}

// antialiasPass holds the edge smoothing shader and its resolution uniform.
type antialiasPass struct {
	shader   *ebiten.Shader
	uniforms map[string]any
	resF32   [2]float32
	resSlice []float32
	shaderOp ebiten.DrawRectShaderOptions
}

func newAntialiasPass() (*antialiasPass, error) {
	s, err := compileShader("antialias", antialiasShaderSrc)
	if err != nil {
		return nil, err
	}
	p := &antialiasPass{shader: s, uniforms: make(map[string]any, 1)}
	p.resSlice = p.resF32[:]
	p.uniforms["Resolution"] = p.resSlice
	return p, nil
}

// SetResolution updates the Resolution uniform.
func (p *antialiasPass) SetResolution(w, h int) {
	p.resF32[0] = float32(w)
	p.resF32[1] = float32(h)
}

// Apply renders src into dst with edge smoothing.
func (p *antialiasPass) Apply(src, dst *ebiten.Image) {
	b := src.Bounds()
	p.shaderOp.Images[0] = src
	p.shaderOp.Uniforms = p.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), p.shader, &p.shaderOp)
}

func (p *antialiasPass) dispose() {
	p.shader.Deallocate()
}
