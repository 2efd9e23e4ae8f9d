package common

import "math"

// Vec3 is a three component float32 vector used for positions, directions and Euler angles.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of the vector.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
//
// Returns:
//   - Vec3: the normalized vector, or the zero vector if v has no length
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float32 {
	return v.Sub(o).Length()
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ClampXZ clamps the X and Z components to [-bound, bound], leaving Y untouched.
//
// Parameters:
//   - bound: half extent of the square playable area
//
// Returns:
//   - Vec3: the clamped vector
func (v Vec3) ClampXZ(bound float32) Vec3 {
	return Vec3{Clamp(v.X, -bound, bound), v.Y, Clamp(v.Z, -bound, bound)}
}

// Array returns the vector as a [3]float32, the layout used by GPU uniform structs.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Ray is a half line starting at Origin and extending along Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// IntersectGround intersects the ray with the ground plane y = 0.
//
// Returns:
//   - Vec3: the intersection point
//   - bool: false if the ray is parallel to the plane or points away from it
func (r Ray) IntersectGround() (Vec3, bool) {
	if float32(math.Abs(float64(r.Dir.Y))) < 1e-6 {
		return Vec3{}, false
	}
	t := -r.Origin.Y / r.Dir.Y
	if t < 0 {
		return Vec3{}, false
	}
	p := r.Origin.Add(r.Dir.Scale(t))
	p.Y = 0
	return p, true
}
