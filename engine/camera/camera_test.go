package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitchClampedStrictlyInsideHalfPi(t *testing.T) {
	cc := NewCameraController()

	cc.SetPitch(math.Pi)
	assert.Less(t, cc.Pitch(), float32(math.Pi/2))
	assert.InDelta(t, math.Pi/2-DefaultPitchEpsilon, cc.Pitch(), 1e-6)

	cc.SetPitch(-10)
	assert.Greater(t, cc.Pitch(), float32(-math.Pi/2))

	// the view never degenerates at the clamp
	view := cc.View()
	assert.True(t, common.IsFinite(view[:]...))
}

func TestPitchClampedFromBuilderOption(t *testing.T) {
	cc := NewCameraController(WithPitch(math.Pi / 2))
	assert.Less(t, cc.Pitch(), float32(math.Pi/2))
}

func TestYawWrapsFreely(t *testing.T) {
	cc := NewCameraController()
	cc.SetYaw(2.5 * math.Pi)
	assert.InDelta(t, 0.5*math.Pi, cc.Yaw(), 1e-5)

	before := cc.Eye()
	cc.SetYaw(cc.Yaw() + 2*math.Pi)
	after := cc.Eye()
	assert.InDelta(t, before.X, after.X, 1e-4)
	assert.InDelta(t, before.Z, after.Z, 1e-4)
}

func TestZoomClamped(t *testing.T) {
	cc := NewCameraController(WithZoomBounds(5, 40), WithDistance(10), WithZoomSpeed(1))

	cc.Zoom(100)
	assert.Equal(t, float32(5), cc.Distance())

	cc.Zoom(-100)
	assert.Equal(t, float32(40), cc.Distance())

	cc.SetDistance(1)
	assert.Equal(t, float32(5), cc.Distance())
}

func TestRotateAppliesSensitivity(t *testing.T) {
	cc := NewCameraController(WithYaw(0), WithPitch(0.2), WithMouseSensitivity(0.01))
	cc.Rotate(10, 5)
	assert.InDelta(t, -0.1, cc.Yaw(), 1e-6)
	assert.InDelta(t, 0.25, cc.Pitch(), 1e-6)
}

func TestEyeDistanceMatchesZoom(t *testing.T) {
	target := common.V3(1, 0, -2)
	cc := NewCameraController(WithTarget(target), WithDistance(12), WithYaw(0.7), WithPitch(0.4))
	assert.InDelta(t, 12, cc.Eye().Distance(target), 1e-4)
}

func TestFollowOnlyWhenEnabled(t *testing.T) {
	still := NewCameraController()
	still.Follow(common.V3(5, 0, 5))
	assert.Equal(t, common.Vec3{}, still.Target())

	follow := NewCameraController(WithFollow(true))
	follow.Follow(common.V3(5, 0, 5))
	assert.Equal(t, common.V3(5, 0, 5), follow.Target())
}

func TestFixedControllerTranslatesWorld(t *testing.T) {
	ctrl := NewFixedController(common.V3(0, 0, -6))
	cam := NewCamera(WithController(ctrl))

	mv := cam.ModelView(common.Identity())
	p := mv.TransformPoint(common.Vec3{})
	assert.Equal(t, common.V3(0, 0, -6), p)
	assert.Equal(t, common.V3(0, 0, 6), cam.Eye())

	// input does not move a fixed camera
	ctrl.Rotate(100, 100)
	ctrl.Zoom(3)
	cam.Update()
	assert.Equal(t, common.Translation(common.V3(0, 0, -6)), cam.ViewMatrix())
}

func TestNewControllerByMode(t *testing.T) {
	assert.Equal(t, ModeFixed, NewController(ModeFixed).Mode())
	assert.Equal(t, ModeOrbit, NewController(ModeOrbit).Mode())
	assert.Equal(t, ModeOrbit, NewController("").Mode())
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	before := cam.ProjectionMatrix()

	cam.SetAspect(2)
	after := cam.ProjectionMatrix()
	assert.Equal(t, float32(2), cam.Aspect())
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	cam.SetAspect(0)
	assert.Equal(t, float32(2), cam.Aspect(), "zero aspect from a minimised window is ignored")
}

func TestModelViewIsViewTimesModel(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController(WithYaw(0.3))))
	model := common.ModelMatrix(common.V3(2, 0, 1), common.V3(0, 1, 0), common.V3(1, 1, 1))
	assert.Equal(t, cam.ViewMatrix().Mul(model), cam.ModelView(model))
}

func TestScreenRayThroughCenterHitsTarget(t *testing.T) {
	target := common.V3(2, 0, -3)
	cam := NewCamera(
		WithAspect(16.0/9.0),
		WithController(NewCameraController(WithTarget(target), WithDistance(15), WithPitch(0.8))),
	)

	ray := cam.ScreenRay(640, 360, 1280, 720)
	hit, ok := ray.IntersectGround()
	require.True(t, ok)
	assert.InDelta(t, target.X, hit.X, 1e-2)
	assert.InDelta(t, target.Z, hit.Z, 1e-2)
}

func TestScreenRayOnHighDPIFramebuffer(t *testing.T) {
	target := common.V3(0, 0, 0)
	cam := NewCamera(
		WithAspect(16.0/9.0),
		WithController(NewCameraController(WithTarget(target), WithDistance(14))),
	)

	// window centre of a 1280x720 window backed by a 2560x1440 framebuffer
	x, y := common.ScaleToFramebuffer(640, 360, 1280, 720, 2560, 1440)
	hit, ok := cam.ScreenRay(x, y, 2560, 1440).IntersectGround()
	require.True(t, ok)
	assert.InDelta(t, target.X, hit.X, 1e-2)
	assert.InDelta(t, target.Z, hit.Z, 1e-2)

	// the same position in unscaled window units lands elsewhere
	miss, ok := cam.ScreenRay(640, 360, 2560, 1440).IntersectGround()
	require.True(t, ok)
	assert.Greater(t, miss.Sub(target).Length(), float32(1))
}
