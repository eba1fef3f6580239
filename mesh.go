package pathway

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is indexed triangle geometry in local space. Triangles wind
// counter-clockwise when seen from their front side.
type Mesh struct {
	Positions []Vec3
	Normals   []Vec3
	// UVs are texture coordinates in [0, 1], v down. Empty for untextured meshes.
	UVs     []mgl64.Vec2
	Indices []uint32

	disposed bool
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Dispose drops the vertex data. A disposed mesh renders nothing.
func (m *Mesh) Dispose() {
	if m == nil {
		return
	}
	m.Positions = nil
	m.Normals = nil
	m.UVs = nil
	m.Indices = nil
	m.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (m *Mesh) IsDisposed() bool {
	return m != nil && m.disposed
}

// ComputeNormals replaces Normals with area-weighted vertex normals.
func (m *Mesh) ComputeNormals() {
	m.Normals = make([]Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		face := m.Positions[b].Sub(m.Positions[a]).Cross(m.Positions[c].Sub(m.Positions[a]))
		m.Normals[a] = m.Normals[a].Add(face)
		m.Normals[b] = m.Normals[b].Add(face)
		m.Normals[c] = m.Normals[c].Add(face)
	}
	for i, n := range m.Normals {
		if n.LenSqr() > 0 {
			m.Normals[i] = n.Normalize()
		}
	}
}

// --- Generators ---

// NewSphereMesh builds a UV sphere centred on the origin.
func NewSphereMesh(radius float64, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	m := &Mesh{}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			n := Vec3{-cosP * sinT, cosT, sinP * sinT}
			m.Positions = append(m.Positions, n.Mul(radius))
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, mgl64.Vec2{u, v})
		}
	}
	stride := widthSegments + 1
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y*stride + x + 1)
			b := uint32(y*stride + x)
			c := uint32((y+1)*stride + x)
			d := uint32((y+1)*stride + x + 1)
			if y != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// NewDiscMesh builds a filled circle in the XZ plane facing +Y.
func NewDiscMesh(radius float64, segments int) *Mesh {
	segments = max(segments, 3)
	m := &Mesh{
		Positions: []Vec3{{0, 0, 0}},
		Normals:   []Vec3{worldUp},
	}
	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		s, c := math.Sincos(a)
		m.Positions = append(m.Positions, Vec3{c * radius, 0, -s * radius})
		m.Normals = append(m.Normals, worldUp)
	}
	for i := 1; i <= segments; i++ {
		m.Indices = append(m.Indices, 0, uint32(i), uint32(i+1))
	}
	return m
}

// NewRingMesh builds a flat annulus in the XZ plane facing +Y.
func NewRingMesh(inner, outer float64, segments int) *Mesh {
	segments = max(segments, 3)
	m := &Mesh{}
	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		s, c := math.Sincos(a)
		m.Positions = append(m.Positions,
			Vec3{c * inner, 0, -s * inner},
			Vec3{c * outer, 0, -s * outer})
		m.Normals = append(m.Normals, worldUp, worldUp)
	}
	for i := 0; i < segments; i++ {
		i0 := uint32(i * 2)
		m.Indices = append(m.Indices, i0, i0+1, i0+3, i0, i0+3, i0+2)
	}
	return m
}

// NewCylinderMesh builds an open tube of the given length along +Y, centred
// on the origin.
func NewCylinderMesh(radius, length float64, radialSegments int) *Mesh {
	radialSegments = max(radialSegments, 3)
	m := &Mesh{}
	half := length / 2
	for i := 0; i <= radialSegments; i++ {
		a := float64(i) / float64(radialSegments) * 2 * math.Pi
		s, c := math.Sincos(a)
		n := Vec3{s, 0, c}
		m.Positions = append(m.Positions,
			Vec3{s * radius, half, c * radius},
			Vec3{s * radius, -half, c * radius})
		m.Normals = append(m.Normals, n, n)
	}
	for i := 0; i < radialSegments; i++ {
		top := uint32(i * 2)
		m.Indices = append(m.Indices, top, top+1, top+3, top, top+3, top+2)
	}
	return m
}

// NewPlaneMesh builds a w by h rectangle in the XY plane facing +Z, with UVs
// mapping the full texture.
func NewPlaneMesh(w, h float64) *Mesh {
	hw, hh := w/2, h/2
	n := Vec3{0, 0, 1}
	return &Mesh{
		Positions: []Vec3{{-hw, hh, 0}, {hw, hh, 0}, {hw, -hh, 0}, {-hw, -hh, 0}},
		Normals:   []Vec3{n, n, n, n},
		UVs:       []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 3, 2, 0, 2, 1},
	}
}

// NewStripMesh joins floor quads given as (startLeft, startRight, endLeft,
// endRight) corner sets. Each quad is split into (startLeft, startRight,
// endRight) and (endRight, endLeft, startLeft).
func NewStripMesh(quads [][4]Vec3) *Mesh {
	m := &Mesh{}
	for _, q := range quads {
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, q[0], q[1], q[2], q[3])
		m.Indices = append(m.Indices,
			base, base+1, base+3,
			base+3, base+2, base)
	}
	m.ComputeNormals()
	return m
}
