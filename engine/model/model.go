package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

var (
	// ErrEmptyMesh is returned when a mesh has no vertices or no indices.
	ErrEmptyMesh = errors.New("mesh has no geometry")
	// ErrIndexOutOfRange is returned when an index refers past the last vertex.
	ErrIndexOutOfRange = errors.New("mesh index out of range")
	// ErrNormalCount is returned when normals do not line up with positions.
	ErrNormalCount = errors.New("mesh normal count does not match positions")
	// ErrTopology is returned when the index count does not fit the primitive topology.
	ErrTopology = errors.New("mesh index count does not match topology")
)

// Topology is the primitive type the indices describe.
type Topology string

const (
	TopologyTriangles Topology = "triangles"
	TopologyLines     Topology = "lines"
)

// Mesh is static geometry as flat sequences: xyz positions, xyz normals and indices into them.
// The draw size of a mesh is always len(Indices); nothing else decides how much is drawn.
type Mesh struct {
	Name      string
	Topology  Topology
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// IndexCount returns the number of indices, the element count for an indexed draw.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// Validate checks the mesh is drawable.
//
// Returns:
//   - error: ErrEmptyMesh, ErrNormalCount, ErrTopology or ErrIndexOutOfRange, wrapped with detail
func (m *Mesh) Validate() error {
	if m == nil || len(m.Positions) == 0 || len(m.Indices) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrEmptyMesh, len(m.Positions))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrNormalCount, len(m.Normals)/3, m.VertexCount())
	}
	per := 3
	if m.Topology == TopologyLines {
		per = 2
	}
	if len(m.Indices)%per != 0 {
		return fmt.Errorf("%w: %d indices for %s", ErrTopology, len(m.Indices), m.topology())
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexOutOfRange, idx, i, n)
		}
	}
	return nil
}

func (m *Mesh) topology() Topology {
	if m.Topology == "" {
		return TopologyTriangles
	}
	return m.Topology
}

func (m *Mesh) position(i int) common.Vec3 {
	return common.V3(m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
}

func (m *Mesh) normal(i int) common.Vec3 {
	if len(m.Normals) < (i+1)*3 {
		return common.V3(0, 1, 0)
	}
	return common.V3(m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (lo, hi common.Vec3) {
	if m.VertexCount() == 0 {
		return
	}
	lo, hi = m.position(0), m.position(0)
	for i := 1; i < m.VertexCount(); i++ {
		p := m.position(i)
		lo = common.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = common.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	return lo, hi
}

// BoundingRadius returns the distance from the local origin to the farthest vertex.
func (m *Mesh) BoundingRadius() float32 {
	var r float32
	for i := 0; i < m.VertexCount(); i++ {
		r = max(r, m.position(i).Length())
	}
	return r
}

// NormalizeToSize centers the mesh on its bounding box and scales it uniformly so the
// largest extent equals size. Normals are unaffected by a uniform scale.
//
// Parameters:
//   - size: the target largest extent
//
// Returns:
//   - error: ErrEmptyMesh if there is nothing to normalize
func (m *Mesh) NormalizeToSize(size float32) error {
	if m.VertexCount() == 0 {
		return ErrEmptyMesh
	}
	lo, hi := m.Bounds()
	center := lo.Add(hi).Scale(0.5)
	ext := hi.Sub(lo)
	largest := max(ext.X, ext.Y, ext.Z)
	scale := float32(1)
	if largest > 0 {
		scale = size / largest
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := m.position(i).Sub(center).Scale(scale)
		m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2] = p.X, p.Y, p.Z
	}
	return nil
}

// ComputeNormals replaces the normals with area-weighted face normals averaged per vertex.
// Line meshes get an up normal for every vertex.
func (m *Mesh) ComputeNormals() {
	n := m.VertexCount()
	acc := make([]common.Vec3, n)
	if m.topology() == TopologyTriangles {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a, b, c := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
			face := m.position(b).Sub(m.position(a)).Cross(m.position(c).Sub(m.position(a)))
			acc[a] = acc[a].Add(face)
			acc[b] = acc[b].Add(face)
			acc[c] = acc[c].Add(face)
		}
	}
	m.Normals = make([]float32, 0, n*3)
	for _, v := range acc {
		v = v.Normalize()
		if v.IsZero() {
			v = common.V3(0, 1, 0)
		}
		m.Normals = append(m.Normals, v.X, v.Y, v.Z)
	}
}

// Transformed returns a copy of the mesh with positions carried by t and normals by its normal matrix.
func (m *Mesh) Transformed(t common.Mat4) *Mesh {
	nm := common.NormalMatrix(t)
	out := &Mesh{
		Name:      m.Name,
		Topology:  m.Topology,
		Positions: make([]float32, 0, len(m.Positions)),
		Normals:   make([]float32, 0, len(m.Positions)),
		Indices:   append([]uint32(nil), m.Indices...),
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := t.TransformPoint(m.position(i))
		nrm := nm.TransformDir(m.normal(i)).Normalize()
		out.Positions = append(out.Positions, p.X, p.Y, p.Z)
		out.Normals = append(out.Normals, nrm.X, nrm.Y, nrm.Z)
	}
	return out
}

// Append merges other into m, offsetting its indices. Both meshes must share a topology.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(m.VertexCount())
	if len(m.Normals) != len(m.Positions) {
		m.ComputeNormals()
	}
	m.Positions = append(m.Positions, other.Positions...)
	if len(other.Normals) == len(other.Positions) {
		m.Normals = append(m.Normals, other.Normals...)
	} else {
		for i := 0; i < other.VertexCount(); i++ {
			m.Normals = append(m.Normals, 0, 1, 0)
		}
	}
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Vertices interleaves positions and normals into GPU vertices.
func (m *Mesh) Vertices() []GPUVertex {
	out := make([]GPUVertex, m.VertexCount())
	for i := range out {
		out[i] = GPUVertex{Position: m.position(i).Array(), Normal: m.normal(i).Array()}
	}
	return out
}

// VertexBytes returns the interleaved vertex buffer contents.
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, 0, m.VertexCount()*GPUVertexSize)
	for _, v := range m.Vertices() {
		buf = v.AppendBytes(buf)
	}
	return buf
}

// IndexBytes returns the index buffer contents as little-endian uint32.
func (m *Mesh) IndexBytes() []byte {
	buf := make([]byte, 0, len(m.Indices)*4)
	for _, idx := range m.Indices {
		buf = append(buf, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24))
	}
	return buf
}

func sincos(a float64) (float32, float32) {
	s, c := math.Sincos(a)
	return float32(s), float32(c)
}
