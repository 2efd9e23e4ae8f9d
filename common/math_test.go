package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatInDelta(t *testing.T, want, got Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}

func TestMulIdentity(t *testing.T) {
	m := ModelMatrix(V3(1, 2, 3), V3(0.3, 0.7, -0.2), V3(2, 2, 2))
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}

func TestMulAppliesRightHandSideFirst(t *testing.T) {
	translate := Translation(V3(5, 0, 0))
	scale := ModelMatrix(Vec3{}, Vec3{}, V3(2, 2, 2))

	p := translate.Mul(scale).TransformPoint(V3(1, 0, 0))
	assert.InDelta(t, 7, p.X, 1e-6)
}

func TestInvertRoundTrip(t *testing.T) {
	m := ModelMatrix(V3(-4, 1, 9), V3(0.4, 1.1, 0.25), V3(1, 3, 0.5))
	inv, ok := m.Invert()
	require.True(t, ok)
	assertMatInDelta(t, Identity(), m.Mul(inv), 1e-5)
}

func TestInvertSingular(t *testing.T) {
	inv, ok := Mat4{}.Invert()
	assert.False(t, ok)
	assert.Equal(t, Identity(), inv)
}

func TestNormalMatrixFallsBackToIdentity(t *testing.T) {
	flat := ModelMatrix(V3(1, 2, 3), V3(0.5, 0.5, 0), V3(0, 0, 0))
	assert.Equal(t, Identity(), NormalMatrix(flat))
}

func TestNormalMatrixOfRotationIsRotation(t *testing.T) {
	rot := ModelMatrix(Vec3{}, V3(0.3, 1.2, -0.4), V3(1, 1, 1))
	assertMatInDelta(t, rot, NormalMatrix(rot), 1e-5)
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	mv := ModelMatrix(Vec3{}, Vec3{}, V3(2, 1, 1))
	n := NormalMatrix(mv)
	// a normal along X is shrunk, not stretched, under a stretch along X
	assert.InDelta(t, 0.5, n.TransformDir(V3(1, 0, 0)).X, 1e-6)
}

func TestTranspose(t *testing.T) {
	var m Mat4
	for i := range m {
		m[i] = float32(i)
	}
	tr := m.Transpose()
	assert.Equal(t, float32(1), tr[4])
	assert.Equal(t, float32(4), tr[1])
	assert.Equal(t, m, tr.Transpose())
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := V3(3, 4, 5)
	view := LookAt(eye, V3(0, 0, 0), V3(0, 1, 0))
	p := view.TransformPoint(eye)
	assert.InDelta(t, 0, p.Length(), 1e-5)

	// the target lies straight down -Z in view space
	target := view.TransformPoint(Vec3{})
	assert.InDelta(t, 0, target.X, 1e-5)
	assert.InDelta(t, 0, target.Y, 1e-5)
	assert.InDelta(t, -eye.Length(), target.Z, 1e-5)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(float32(math.Pi/4), 1, 0.1, 100)
	near := proj.TransformPoint(V3(0, 0, -0.1))
	far := proj.TransformPoint(V3(0, 0, -100))
	assert.InDelta(t, 0, near.Z, 1e-5)
	assert.InDelta(t, 1, far.Z, 1e-4)
}

func TestAppendBytesLittleEndian(t *testing.T) {
	buf := Identity().AppendBytes(nil)
	require.Len(t, buf, 64)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[4:8])
}

func TestRayIntersectGround(t *testing.T) {
	p, ok := Ray{Origin: V3(1, 10, 2), Dir: V3(0, -1, 0)}.IntersectGround()
	require.True(t, ok)
	assert.Equal(t, V3(1, 0, 2), p)

	_, ok = Ray{Origin: V3(0, 1, 0), Dir: V3(1, 0, 0)}.IntersectGround()
	assert.False(t, ok, "parallel ray")

	_, ok = Ray{Origin: V3(0, 1, 0), Dir: V3(0, 1, 0)}.IntersectGround()
	assert.False(t, ok, "ray pointing away")
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(2*math.Pi), 1e-6)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-6)
	assert.InDelta(t, 0.5, WrapAngle(0.5), 1e-6)
	assert.InDelta(t, math.Pi/2, WrapAngle(-3*math.Pi/2), 1e-6)
}

func TestClampAndNormalize(t *testing.T) {
	assert.Equal(t, float32(12), Clamp(float32(40), -12, 12))
	assert.Equal(t, V3(-12, 3, 12), V3(-20, 3, 13).ClampXZ(12))
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 1, V3(1, 0, 1).Normalize().Length(), 1e-6)
}

func TestScaleToFramebuffer(t *testing.T) {
	x, y := ScaleToFramebuffer(640, 360, 1280, 720, 2560, 1440)
	assert.Equal(t, float32(1280), x)
	assert.Equal(t, float32(720), y)

	x, y = ScaleToFramebuffer(100, 50, 1280, 720, 1280, 720)
	assert.Equal(t, float32(100), x)
	assert.Equal(t, float32(50), y)

	// minimised window
	x, y = ScaleToFramebuffer(10, 20, 0, 0, 0, 0)
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(20), y)
}

func TestFrustumIntersectsSphere(t *testing.T) {
	proj := Perspective(float32(math.Pi/4), 1, 0.1, 100)
	view := LookAt(V3(0, 0, 10), Vec3{}, V3(0, 1, 0))
	f := FrustumFromMatrix(proj.Mul(view))

	assert.True(t, f.IntersectsSphere(Vec3{}, 1))
	assert.False(t, f.IntersectsSphere(V3(0, 0, 20), 1), "behind the camera")
	assert.False(t, f.IntersectsSphere(V3(500, 0, 0), 1), "far to the side")
	assert.False(t, f.IntersectsSphere(V3(0, 0, -200), 1), "past the far plane")
}
