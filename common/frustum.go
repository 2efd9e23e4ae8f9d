package common

// Plane is the set of points p with Normal·p + Distance = 0.
// Points with a positive signed distance lie on the side the normal points to.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane. Only meaningful for normalized planes.
func (p Plane) SignedDistance(pt Vec3) float32 {
	return p.Normal.Dot(pt) + p.Distance
}

// Frustum represents the six planes of a view frustum, oriented so the inside is positive.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// FrustumFromMatrix extracts the frustum planes from a view-projection matrix
// using the Gribb/Hartmann method, adapted to the [0, 1] depth range so the near plane is row 2 alone.
//
// Parameters:
//   - vp: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func FrustumFromMatrix(vp Mat4) Frustum {
	row := func(r int) (Vec3, float32) {
		return Vec3{vp[r], vp[4+r], vp[8+r]}, vp[12+r]
	}
	r0, w0 := row(0)
	r1, w1 := row(1)
	r2, w2 := row(2)
	r3, w3 := row(3)

	var f Frustum
	f.Planes[FrustumLeft] = Plane{r3.Add(r0), w3 + w0}
	f.Planes[FrustumRight] = Plane{r3.Sub(r0), w3 - w0}
	f.Planes[FrustumBottom] = Plane{r3.Add(r1), w3 + w1}
	f.Planes[FrustumTop] = Plane{r3.Sub(r1), w3 - w1}
	f.Planes[FrustumNear] = Plane{r2, w2}
	f.Planes[FrustumFar] = Plane{r3.Sub(r2), w3 - w2}

	for i := range f.Planes {
		p := &f.Planes[i]
		if l := p.Normal.Length(); l > 0 {
			p.Normal = p.Normal.Scale(1 / l)
			p.Distance /= l
		}
	}
	return f
}

// IntersectsSphere reports whether a bounding sphere is at least partially inside the frustum.
func (f Frustum) IntersectsSphere(center Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}
