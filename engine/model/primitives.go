package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// Cube builds an axis-aligned cube of edge length size centered at the origin,
// with flat per-face normals (24 vertices, 36 indices).
func Cube(size float32) *Mesh {
	h := size / 2
	faces := []struct{ n, u, v common.Vec3 }{
		{common.V3(1, 0, 0), common.V3(0, 0, -1), common.V3(0, 1, 0)},
		{common.V3(-1, 0, 0), common.V3(0, 0, 1), common.V3(0, 1, 0)},
		{common.V3(0, 1, 0), common.V3(1, 0, 0), common.V3(0, 0, -1)},
		{common.V3(0, -1, 0), common.V3(1, 0, 0), common.V3(0, 0, 1)},
		{common.V3(0, 0, 1), common.V3(1, 0, 0), common.V3(0, 1, 0)},
		{common.V3(0, 0, -1), common.V3(-1, 0, 0), common.V3(0, 1, 0)},
	}
	m := &Mesh{Name: "cube", Topology: TopologyTriangles}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range faces {
		for _, c := range corners {
			p := face.n.Add(face.u.Scale(c[0])).Add(face.v.Scale(c[1])).Scale(h)
			m.Positions = append(m.Positions, p.X, p.Y, p.Z)
			m.Normals = append(m.Normals, face.n.X, face.n.Y, face.n.Z)
		}
		base := uint32(f * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// UVSphere builds a latitude/longitude sphere with smooth normals.
//
// Parameters:
//   - radius: sphere radius
//   - rings: latitude subdivisions (>= 2)
//   - segments: longitude subdivisions (>= 3)
//
// Returns:
//   - *Mesh: the sphere mesh
func UVSphere(radius float32, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	m := &Mesh{Name: "sphere", Topology: TopologyTriangles}
	for r := 0; r <= rings; r++ {
		st, ct := sincos(math.Pi * float64(r) / float64(rings))
		for s := 0; s <= segments; s++ {
			sp, cp := sincos(2 * math.Pi * float64(s) / float64(segments))
			n := common.V3(st*cp, ct, st*sp)
			m.Positions = append(m.Positions, n.X*radius, n.Y*radius, n.Z*radius)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
		}
	}
	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// GroundGrid builds the reference grid on the y = 0 plane: lines every step from -half to +half
// along both axes, drawn with line topology.
//
// Parameters:
//   - half: half extent of the grid
//   - step: spacing between lines
//
// Returns:
//   - *Mesh: the grid mesh
func GroundGrid(half, step float32) *Mesh {
	m := &Mesh{Name: "grid", Topology: TopologyLines}
	if step <= 0 {
		step = 1
	}
	lines := int(math.Round(float64(2*half/step))) + 1
	for i := 0; i < lines; i++ {
		c := -half + float32(i)*step
		m.Positions = append(m.Positions,
			-half, 0, c, half, 0, c,
			c, 0, -half, c, 0, half,
		)
	}
	for i := 0; i < m.VertexCount(); i++ {
		m.Normals = append(m.Normals, 0, 1, 0)
		m.Indices = append(m.Indices, uint32(i))
	}
	return m
}

// Plane builds a square quad of edge length size on y = 0 facing up.
func Plane(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Name:      "plane",
		Topology:  TopologyTriangles,
		Positions: []float32{-h, 0, h, h, 0, h, h, 0, -h, -h, 0, -h},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Spoon builds the demo spoon: a slim handle along +Y ending in a shallow, flattened bowl.
func Spoon() *Mesh {
	handle := Cube(1).Transformed(common.ModelMatrix(
		common.V3(0, -0.05, 0), common.Vec3{}, common.V3(0.14, 1.1, 0.07),
	))
	bowl := UVSphere(1, 10, 16).Transformed(common.ModelMatrix(
		common.V3(0, 0.88, 0.02), common.Vec3{}, common.V3(0.25, 0.33, 0.07),
	))
	handle.Name = "spoon"
	handle.Append(bowl)
	return handle
}
