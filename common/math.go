package common

import (
	"encoding/binary"
	"math"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
// Element (row r, column c) lives at index c*4 + r.
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices.
// Result: a * b, so b is applied first when transforming a column vector.
//
// Parameters:
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[r*4+c] = m[c*4+r]
		}
	}
	return out
}

// Perspective creates a perspective projection matrix for WebGPU clip space, depth in [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	out := Identity()
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// Translation returns a matrix translating by t.
func Translation(t Vec3) Mat4 {
	out := Identity()
	out[12], out[13], out[14] = t.X, t.Y, t.Z
	return out
}

// ModelMatrix builds a model matrix from position, Euler rotation and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - Mat4: the model matrix
func ModelMatrix(pos, rot, scale Vec3) Mat4 {
	cx := float32(math.Cos(float64(rot.X)))
	sx := float32(math.Sin(float64(rot.X)))
	cy := float32(math.Cos(float64(rot.Y)))
	sy := float32(math.Sin(float64(rot.Y)))
	cz := float32(math.Cos(float64(rot.Z)))
	sz := float32(math.Sin(float64(rot.Z)))

	return Mat4{
		(cy*cz + sy*sx*sz) * scale.X, (cx * sz) * scale.X, (-sy*cz + cy*sx*sz) * scale.X, 0,
		(cy*-sz + sy*sx*cz) * scale.Y, (cx * cz) * scale.Y, (sy*sz + cy*sx*cz) * scale.Y, 0,
		(sy * cx) * scale.Z, (-sx) * scale.Z, (cy * cx) * scale.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// Invert computes the inverse of m with the cofactor method.
//
// Returns:
//   - Mat4: the inverse, or the identity if m is singular
//   - bool: false if the determinant is zero
func (m Mat4) Invert() (Mat4, bool) {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity(), false
	}
	inv := 1.0 / det

	return Mat4{
		(m[5]*c5 - m[6]*c4 + m[7]*c3) * inv,
		(-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv,
		(m[13]*s5 - m[14]*s4 + m[15]*s3) * inv,
		(-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv,

		(-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv,
		(m[0]*c5 - m[2]*c2 + m[3]*c1) * inv,
		(-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv,
		(m[8]*s5 - m[10]*s2 + m[11]*s1) * inv,

		(m[4]*c4 - m[5]*c2 + m[7]*c0) * inv,
		(-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv,
		(m[12]*s4 - m[13]*s2 + m[15]*s0) * inv,
		(-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv,

		(-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv,
		(m[0]*c3 - m[1]*c1 + m[2]*c0) * inv,
		(-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv,
		(m[8]*s3 - m[9]*s1 + m[10]*s0) * inv,
	}, true
}

// NormalMatrix returns transpose(inverse(mv)), the matrix that carries surface normals
// into view space. A singular or numerically broken model-view yields the identity so
// that NaN never reaches the shader.
//
// Parameters:
//   - mv: the model-view matrix
//
// Returns:
//   - Mat4: the normal matrix
func NormalMatrix(mv Mat4) Mat4 {
	inv, ok := mv.Invert()
	if !ok || !IsFinite(inv[:]...) {
		return Identity()
	}
	return inv.Transpose()
}

// LookAt creates a view matrix for a camera at eye looking at center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center).Normalize()
	if z.IsZero() {
		z = Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	if x.IsZero() {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// TransformPoint applies m to the point p (w = 1) and performs the perspective divide.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDir applies the upper 3x3 of m to the direction d.
func (m Mat4) TransformDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// AppendBytes appends the matrix to buf as 16 little-endian float32 values,
// the layout of a WGSL mat4x4<f32>.
func (m Mat4) AppendBytes(buf []byte) []byte {
	for _, v := range m {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
