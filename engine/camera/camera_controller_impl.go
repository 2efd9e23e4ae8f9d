package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// DefaultPitchEpsilon keeps pitch strictly inside (-π/2, π/2) so the look-at basis never degenerates.
const DefaultPitchEpsilon = 0.01

// OrbitController is a CameraController driven by yaw, pitch and zoom around a target.
type OrbitController interface {
	CameraController

	// Yaw returns the horizontal angle around the Y axis in radians, in [-π, π).
	//
	// Returns:
	//   - float32: the yaw
	Yaw() float32

	// SetYaw sets the horizontal angle. Values outside [-π, π) are wrapped.
	//
	// Parameters:
	//   - yaw: angle in radians
	SetYaw(yaw float32)

	// Pitch returns the vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: the pitch
	Pitch() float32

	// SetPitch sets the vertical angle, clamped to [-π/2+ε, π/2-ε] before it is stored.
	//
	// Parameters:
	//   - pitch: angle in radians
	SetPitch(pitch float32)

	// Distance returns the current zoom distance from the target.
	//
	// Returns:
	//   - float32: the distance
	Distance() float32

	// SetDistance sets the zoom distance, clamped to [MinZoom, MaxZoom].
	//
	// Parameters:
	//   - d: distance from the target
	SetDistance(d float32)

	// ZoomBounds returns the allowed zoom interval.
	//
	// Returns:
	//   - min, max: the zoom bounds
	ZoomBounds() (min, max float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target
	Target() common.Vec3
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	eye    common.Vec3
	target common.Vec3

	yaw      float32
	pitch    float32
	distance float32

	minZoom      float32
	maxZoom      float32
	pitchEpsilon float32

	mouseSensitivity float32
	zoomSpeed        float32
	followTarget     bool
}

var _ OrbitController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller framing the playable area.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewCameraController(options ...CameraControllerOption) OrbitController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		distance: 18.0,
		yaw:      0.0,
		pitch:    float32(math.Pi / 5),

		minZoom:      5.0,
		maxZoom:      40.0,
		pitchEpsilon: DefaultPitchEpsilon,

		mouseSensitivity: 0.005,
		zoomSpeed:        1.0,
	}

	for _, option := range options {
		option(cc)
	}

	// options may set raw values, so run them through the same clamps as the setters
	cc.yaw = common.WrapAngle(cc.yaw)
	cc.pitch = cc.clampPitch(cc.pitch)
	cc.distance = common.Clamp(cc.distance, cc.minZoom, cc.maxZoom)
	cc.updateEye()
	return cc
}

// updateEye recomputes the eye from spherical coordinates. Caller must hold the mutex.
func (cc *cameraControllerImpl) updateEye() {
	cp := float32(math.Cos(float64(cc.pitch)))
	sp := float32(math.Sin(float64(cc.pitch)))
	cy := float32(math.Cos(float64(cc.yaw)))
	sy := float32(math.Sin(float64(cc.yaw)))

	cc.eye = cc.target.Add(common.V3(cp*sy, sp, cp*cy).Scale(cc.distance))
}

func (cc *cameraControllerImpl) clampPitch(p float32) float32 {
	limit := float32(math.Pi/2) - cc.pitchEpsilon
	return common.Clamp(p, -limit, limit)
}

func (cc *cameraControllerImpl) Mode() Mode {
	return ModeOrbit
}

func (cc *cameraControllerImpl) Eye() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.eye
}

func (cc *cameraControllerImpl) View() common.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return common.LookAt(cc.eye, cc.target, common.V3(0, 1, 0))
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = common.WrapAngle(cc.yaw - dx*cc.mouseSensitivity)
	cc.pitch = cc.clampPitch(cc.pitch + dy*cc.mouseSensitivity)
	cc.updateEye()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	if delta == 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.distance = common.Clamp(cc.distance-delta*cc.zoomSpeed, cc.minZoom, cc.maxZoom)
	cc.updateEye()
}

func (cc *cameraControllerImpl) Follow(target common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.followTarget {
		return
	}
	cc.target = target
	cc.updateEye()
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) SetYaw(yaw float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = common.WrapAngle(yaw)
	cc.updateEye()
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetPitch(pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pitch = cc.clampPitch(pitch)
	cc.updateEye()
}

func (cc *cameraControllerImpl) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.distance
}

func (cc *cameraControllerImpl) SetDistance(d float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.distance = common.Clamp(d, cc.minZoom, cc.maxZoom)
	cc.updateEye()
}

func (cc *cameraControllerImpl) ZoomBounds() (min, max float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minZoom, cc.maxZoom
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}
