package material

import "github.com/Carmen-Shannon/oxy-chase/engine/model"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier draw calls use for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithSource is an option builder that sets the WGSL stages of the material.
// The source must not redeclare DrawUniforms or VertexInput; they are prepended.
//
// Parameters:
//   - source: WGSL containing the vertex and fragment entry points
//
// Returns:
//   - MaterialBuilderOption: a function that applies the source option to a material
func WithSource(source string) MaterialBuilderOption {
	return func(m *material) {
		m.source = source
	}
}

// WithEntryPoints is an option builder that overrides the vertex and fragment entry point names.
//
// Parameters:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
//
// Returns:
//   - MaterialBuilderOption: a function that applies the entry point option to a material
func WithEntryPoints(vertex, fragment string) MaterialBuilderOption {
	return func(m *material) {
		m.vertexEntry = vertex
		m.fragmentEntry = fragment
	}
}

// WithTopology is an option builder that sets the primitive topology.
//
// Parameters:
//   - topology: triangles or lines
//
// Returns:
//   - MaterialBuilderOption: a function that applies the topology option to a material
func WithTopology(topology model.Topology) MaterialBuilderOption {
	return func(m *material) {
		m.topology = topology
	}
}

// WithDepthWrite is an option builder that toggles depth writes.
func WithDepthWrite(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthWrite = enabled
	}
}

// WithCullBack is an option builder that toggles back-face culling.
func WithCullBack(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.cullBack = enabled
	}
}
