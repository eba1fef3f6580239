package pathway

import (
	"image"
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	whiteImage *ebiten.Image
	whiteSub   *ebiten.Image
)

// ensureWhiteSub returns a 1x1 white source region for untextured triangles.
// Sampling the centre of a 3x3 image avoids bleeding at the edges.
func ensureWhiteSub() *ebiten.Image {
	if whiteSub == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSub
}

// projector caches the matrices needed to map world points to pixels.
type projector struct {
	eye        Vec3
	view, proj mgl64.Mat4
	w, h       float64
	near       float64
	ppu        float64 // pixels per world unit at depth 1
}

func newProjector(c *Camera) projector {
	tan := math.Tan(mgl64.DegToRad(c.FOV) / 2)
	return projector{
		eye:  c.Position,
		view: c.View(),
		proj: c.Projection(),
		w:    float64(c.width),
		h:    float64(c.height),
		near: c.Near,
		ppu:  float64(c.height) / 2 / tan,
	}
}

func (p *projector) project(wp Vec3) (sx, sy, depth float64, ok bool) {
	v := p.view.Mul4x1(wp.Vec4(1))
	depth = -v.Z()
	if depth < p.near {
		return 0, 0, depth, false
	}
	clip := p.proj.Mul4x1(v)
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	return (nx + 1) / 2 * p.w, (1 - ny) / 2 * p.h, depth, true
}

// triangle is one screen-space triangle ready for submission.
type triangle struct {
	verts [3]ebiten.Vertex
	depth float32
	tex   *Texture
	blend BlendMode
}

// Rasterizer projects the scene graph on the CPU and submits it as batched
// DrawTriangles calls, back to front.
type Rasterizer struct {
	Lights     []*Light
	Fog        Fog
	Background Color

	tris  []triangle
	verts []ebiten.Vertex
	inds  []uint32
	stats FrameStats
}

// NewRasterizer returns a rasterizer shading with lights and fog.
func NewRasterizer(lights []*Light, fog Fog, background Color) *Rasterizer {
	return &Rasterizer{Lights: lights, Fog: fog, Background: background}
}

// Stats returns the counters of the last Draw.
func (r *Rasterizer) Stats() FrameStats {
	return r.stats
}

// Collect projects every visible node under root and returns the triangles
// sorted far to near. The slice is reused by the next call.
func (r *Rasterizer) Collect(root *Node, cam *Camera) []triangle {
	p := newProjector(cam)
	r.tris = r.tris[:0]
	root.Walk(func(n *Node) bool {
		if !n.Visible || n.disposed {
			return false
		}
		switch n.Type {
		case NodeTypeMesh:
			r.appendMesh(n, &p, false)
		case NodeTypeSprite:
			r.appendSprite(n, &p)
		case NodeTypeLine:
			r.appendLine(n, &p)
		}
		return true
	})
	r.sort()
	return r.tris
}

// CollectSilhouettes projects the given mesh nodes as flat opaque white.
func (r *Rasterizer) CollectSilhouettes(nodes []*Node, cam *Camera) []triangle {
	p := newProjector(cam)
	r.tris = r.tris[:0]
	for _, n := range nodes {
		if n == nil || n.disposed || !n.Visible || n.Type != NodeTypeMesh {
			continue
		}
		r.appendMesh(n, &p, true)
	}
	return r.tris
}

func (r *Rasterizer) sort() {
	slices.SortStableFunc(r.tris, func(a, b triangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
}

// Draw clears dst to the background and renders root through cam.
func (r *Rasterizer) Draw(dst *ebiten.Image, root *Node, cam *Camera) {
	t0 := time.Now()
	r.Collect(root, cam)
	t1 := time.Now()
	if r.Background.A > 0 {
		dst.Fill(r.Background.toRGBA())
	}
	r.submit(dst)
	r.stats.CollectTime = t1.Sub(t0)
	r.stats.SubmitTime = time.Since(t1)
}

// DrawSilhouettes renders nodes as a white mask into dst.
func (r *Rasterizer) DrawSilhouettes(dst *ebiten.Image, nodes []*Node, cam *Camera) {
	r.CollectSilhouettes(nodes, cam)
	r.submit(dst)
}

func (r *Rasterizer) submit(dst *ebiten.Image) {
	r.stats.Triangles = len(r.tris)
	r.stats.DrawCalls = 0
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]

	var cur *Texture
	var blend BlendMode
	for i := range r.tris {
		t := &r.tris[i]
		if len(r.verts) > 0 && (t.tex != cur || t.blend != blend) {
			r.flush(dst, cur, blend)
		}
		cur, blend = t.tex, t.blend
		base := uint32(len(r.verts))
		r.verts = append(r.verts, t.verts[0], t.verts[1], t.verts[2])
		r.inds = append(r.inds, base, base+1, base+2)
	}
	r.flush(dst, cur, blend)
}

func (r *Rasterizer) flush(dst *ebiten.Image, tex *Texture, blend BlendMode) {
	if len(r.verts) == 0 {
		return
	}
	src := ensureWhiteSub()
	if tex != nil {
		if img := tex.Image(); img != nil {
			src = img
		}
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = blend.EbitenBlend()
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(r.verts, r.inds, src, &op)
	r.stats.DrawCalls++
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// shade returns the lit, fogged vertex color and alpha for a surface point.
func (r *Rasterizer) shade(m *Material, wp, n Vec3, eye Vec3) (rgb, float32) {
	base := rgbOf(m.Color)
	alpha := float32(m.Color.A * m.Opacity)
	if m.Unlit {
		return base, alpha
	}
	lit := base.mul(irradiance(r.Lights, wp, n)).
		add(rgbOf(m.Emissive).scale(float32(m.EmissiveIntensity))).
		clamp()
	dist := float32(wp.Sub(eye).Len())
	return lit.mix(rgbOf(r.Fog.Color), r.Fog.factor(dist)), alpha
}

func vertex(x, y float64, c rgb, a, sx, sy float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   sx,
		SrcY:   sy,
		ColorR: c.r * a,
		ColorG: c.g * a,
		ColorB: c.b * a,
		ColorA: a,
	}
}

type projectedVertex struct {
	world  Vec3
	sx, sy float64
	depth  float64
}

func (r *Rasterizer) appendMesh(n *Node, p *projector, silhouette bool) {
	mesh, mat := n.Mesh, n.Material
	if mesh == nil || mat == nil || mesh.disposed || len(mesh.Indices) < 3 {
		return
	}
	world := n.WorldMatrix()
	rot := n.WorldRotation()
	tw, th := mat.Texture.Size()
	hasUV := mat.Texture != nil && len(mesh.UVs) == len(mesh.Positions)
	white := rgb{1, 1, 1}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		idx := [3]uint32{mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]}
		var pv [3]projectedVertex
		visible := true
		for k, vi := range idx {
			wp := world.Mul4x1(mesh.Positions[vi].Vec4(1)).Vec3()
			sx, sy, depth, ok := p.project(wp)
			if !ok {
				visible = false
				break
			}
			pv[k] = projectedVertex{world: wp, sx: sx, sy: sy, depth: depth}
		}
		if !visible {
			continue
		}

		// Screen y grows downward, so front faces have negative area.
		area := (pv[1].sx-pv[0].sx)*(pv[2].sy-pv[0].sy) - (pv[1].sy-pv[0].sy)*(pv[2].sx-pv[0].sx)
		if area == 0 {
			continue
		}
		back := area > 0
		if back && !mat.DoubleSided && !silhouette {
			continue
		}

		t := triangle{
			depth: float32((pv[0].depth + pv[1].depth + pv[2].depth) / 3),
			blend: mat.Blend,
		}
		if hasUV && !silhouette {
			t.tex = mat.Texture
		}
		for k, vi := range idx {
			c, a := white, float32(1)
			if !silhouette {
				normal := worldUp
				if len(mesh.Normals) == len(mesh.Positions) {
					normal = rot.Rotate(mesh.Normals[vi]).Normalize()
				}
				if back {
					normal = normal.Mul(-1)
				}
				c, a = r.shade(mat, pv[k].world, normal, p.eye)
			}
			sx, sy := float32(1), float32(1)
			if t.tex != nil {
				uv := mesh.UVs[vi]
				sx, sy = float32(uv.X()*float64(tw)), float32(uv.Y()*float64(th))
			}
			t.verts[k] = vertex(pv[k].sx, pv[k].sy, c, a, sx, sy)
		}
		r.tris = append(r.tris, t)
	}
}

// appendSprite emits a screen-aligned quad centred on the node, rolled by
// n.Roll.
func (r *Rasterizer) appendSprite(n *Node, p *projector) {
	mat := n.Material
	if mat == nil {
		return
	}
	cx, cy, depth, ok := p.project(n.WorldPosition())
	if !ok {
		return
	}
	scale := p.ppu / depth
	hw := float32(n.Width * scale / 2)
	hh := float32(n.Height * scale / 2)
	sin, cos := math32.Sincos(float32(n.Roll))

	c := rgbOf(mat.Color)
	a := float32(mat.Color.A * mat.Opacity)
	var tex *Texture
	su := [4]float32{1, 1, 1, 1}
	sv := su
	if w, h := mat.Texture.Size(); w > 0 && h > 0 {
		tex = mat.Texture
		tw, th := float32(w), float32(h)
		su = [4]float32{0, tw, 0, tw}
		sv = [4]float32{0, 0, th, th}
	}

	lx := [4]float32{-hw, hw, -hw, hw}
	ly := [4]float32{-hh, -hh, hh, hh}
	var q [4]ebiten.Vertex
	for i := range q {
		x := float64(lx[i]*cos - ly[i]*sin)
		y := float64(lx[i]*sin + ly[i]*cos)
		q[i] = vertex(cx+x, cy+y, c, a, su[i], sv[i])
	}
	d := float32(depth)
	r.tris = append(r.tris,
		triangle{verts: [3]ebiten.Vertex{q[0], q[1], q[2]}, depth: d, tex: tex, blend: mat.Blend},
		triangle{verts: [3]ebiten.Vertex{q[1], q[3], q[2]}, depth: d, tex: tex, blend: mat.Blend},
	)
}

// appendLine emits one screen-space quad per segment, LineWidth pixels wide.
func (r *Rasterizer) appendLine(n *Node, p *projector) {
	mat := n.Material
	if mat == nil || len(n.Points) < 2 {
		return
	}
	world := n.WorldMatrix()
	c := rgbOf(mat.Color)
	a := float32(mat.Color.A * mat.Opacity)
	half := n.LineWidth / 2

	for i := 0; i+1 < len(n.Points); i++ {
		x0, y0, d0, ok0 := p.project(world.Mul4x1(n.Points[i].Vec4(1)).Vec3())
		x1, y1, d1, ok1 := p.project(world.Mul4x1(n.Points[i+1].Vec4(1)).Vec3())
		if !ok0 || !ok1 {
			continue
		}
		dx, dy := x1-x0, y1-y0
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ox, oy := -dy/l*half, dx/l*half
		v0 := vertex(x0-ox, y0-oy, c, a, 1, 1)
		v1 := vertex(x0+ox, y0+oy, c, a, 1, 1)
		v2 := vertex(x1-ox, y1-oy, c, a, 1, 1)
		v3 := vertex(x1+ox, y1+oy, c, a, 1, 1)
		d := float32((d0 + d1) / 2)
		r.tris = append(r.tris,
			triangle{verts: [3]ebiten.Vertex{v0, v1, v2}, depth: d, blend: mat.Blend},
			triangle{verts: [3]ebiten.Vertex{v1, v3, v2}, depth: d, blend: mat.Blend},
		)
	}
}
