package model

import (
	"encoding/binary"
	"math"
)

// GPUVertexSize is the stride of GPUVertex in a vertex buffer.
const GPUVertexSize = 24

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct: position at location 0, normal at location 1.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
}

// AppendBytes serializes the vertex into buf for GPU upload.
//
// Parameters:
//   - buf: destination buffer to append to
//
// Returns:
//   - []byte: buf extended by GPUVertexSize bytes
func (g GPUVertex) AppendBytes(buf []byte) []byte {
	for _, v := range g.Position {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	for _, v := range g.Normal {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
