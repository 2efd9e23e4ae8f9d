package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// UniformsSource is the canonical WGSL definition of DrawUniforms and the vertex input.
// Matches GPUUniforms and model.GPUVertex exactly.
//
//go:embed assets/uniforms.wgsl
var UniformsSource string

// GPUUniformsSize is the byte size of one DrawUniforms block.
const GPUUniformsSize = 288

// GPUUniforms is the per-draw uniform block.
// Matches the WGSL DrawUniforms struct layout exactly (see UniformsSource).
// Size: 288 bytes (three mat4x4<f32> followed by six vec4<f32>).
type GPUUniforms struct {
	Projection common.Mat4 // offset 0 (64 bytes)
	ModelView  common.Mat4 // offset 64 (64 bytes)
	Normal     common.Mat4 // offset 128 (64 bytes)
	LightDir   [4]float32  // offset 192: view-space direction toward the light
	LightColor [4]float32  // offset 208
	Ambient    [4]float32  // offset 224
	Specular   [4]float32  // offset 240: rgb specular color, w = shininess
	ViewPos    [4]float32  // offset 256: view-space camera position
	BaseColor  [4]float32  // offset 272
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 288-byte buffer ready for GPU upload.
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, 0, GPUUniformsSize)
	buf = g.Projection.AppendBytes(buf)
	buf = g.ModelView.AppendBytes(buf)
	buf = g.Normal.AppendBytes(buf)
	for _, v := range [][4]float32{g.LightDir, g.LightColor, g.Ambient, g.Specular, g.ViewPos, g.BaseColor} {
		for _, f := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// Vec4 widens a Vec3 with an explicit w.
func Vec4(v common.Vec3, w float32) [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, w}
}
