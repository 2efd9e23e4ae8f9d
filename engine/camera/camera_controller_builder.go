package camera

import "github.com/Carmen-Shannon/oxy-chase/common"

// CameraControllerOption is a functional option for configuring an orbit controller.
type CameraControllerOption func(*cameraControllerImpl)

// WithDistance sets the initial zoom distance from the target.
//
// Parameters:
//   - distance: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDistance(distance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.distance = distance
	}
}

// WithYaw sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}

// WithPitch sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - pitch: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitch = pitch
	}
}

// WithTarget sets the look-at point.
func WithTarget(target common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithZoomBounds sets the minimum and maximum zoom distance.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: functional option to set zoom bounds
func WithZoomBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minZoom = min
		cc.maxZoom = max
	}
}

// WithPitchEpsilon sets how far pitch stays away from straight up or down.
func WithPitchEpsilon(eps float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if eps > 0 {
			cc.pitchEpsilon = eps
		}
	}
}

// WithMouseSensitivity sets radians of rotation per pixel of drag.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets distance units per wheel step.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithFollow makes the controller track whatever target Follow is given.
func WithFollow(follow bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.followTarget = follow
	}
}
