package model

import "fmt"

// ImportedMesh is the on-disk form of a mesh, as written in YAML or JSON asset files.
// It is the universal format that the loader decodes into before building a Mesh.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string `json:"name" yaml:"name"`

	// Topology is "triangles" (default) or "lines".
	Topology Topology `json:"topology,omitempty" yaml:"topology,omitempty"`

	// Positions are flat xyz triples.
	Positions []float32 `json:"positions" yaml:"positions"`

	// Normals are flat xyz triples; computed when omitted.
	Normals []float32 `json:"normals,omitempty" yaml:"normals,omitempty"`

	// Indices index into Positions/Normals.
	Indices []uint32 `json:"indices" yaml:"indices"`

	// TargetSize, when positive, normalizes the mesh so its largest extent equals it.
	TargetSize float32 `json:"targetSize,omitempty" yaml:"targetSize,omitempty"`
}

// Build converts the imported form into a validated Mesh.
//
// Parameters:
//   - fallbackSize: target size used when the file does not carry one; zero keeps the original scale
//
// Returns:
//   - *Mesh: the validated mesh
//   - error: a validation error from Mesh.Validate
func (im *ImportedMesh) Build(fallbackSize float32) (*Mesh, error) {
	m := &Mesh{
		Name:      im.Name,
		Topology:  im.Topology,
		Positions: append([]float32(nil), im.Positions...),
		Normals:   append([]float32(nil), im.Normals...),
		Indices:   append([]uint32(nil), im.Indices...),
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", im.Name, err)
	}
	if len(m.Normals) == 0 {
		m.ComputeNormals()
	}
	size := im.TargetSize
	if size <= 0 {
		size = fallbackSize
	}
	if size > 0 {
		if err := m.NormalizeToSize(size); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", im.Name, err)
		}
	}
	return m, nil
}
