package camera

import "github.com/Carmen-Shannon/oxy-chase/common"

// Mode selects how a controller derives the view matrix.
type Mode string

const (
	// ModeFixed keeps the camera at the origin and translates the world by a fixed offset.
	ModeFixed Mode = "fixed"
	// ModeOrbit places the camera on a sphere around a target using yaw, pitch and zoom.
	ModeOrbit Mode = "orbit"
)

// CameraController owns the positional state of a camera. The Camera reads the
// view matrix from its controller and combines it with its own projection.
type CameraController interface {
	// Mode reports which view model the controller implements.
	//
	// Returns:
	//   - Mode: ModeFixed or ModeOrbit
	Mode() Mode

	// Eye returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Eye() common.Vec3

	// View returns the world-to-view matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	View() common.Mat4

	// Rotate applies a pointer drag delta in pixels, scaled by the controller's sensitivity.
	// Controllers without a rotational degree of freedom ignore it.
	//
	// Parameters:
	//   - dx: horizontal drag delta
	//   - dy: vertical drag delta
	Rotate(dx, dy float32)

	// Zoom adjusts the distance to the target. Positive delta moves closer.
	//
	// Parameters:
	//   - delta: wheel delta, scaled by the controller's zoom speed
	Zoom(delta float32)

	// Follow moves the look-at target, keeping the relative offset.
	//
	// Parameters:
	//   - target: world-space point to follow
	Follow(target common.Vec3)
}

// NewController builds the controller for the given mode, defaulting to orbit.
//
// Parameters:
//   - mode: the controller mode
//   - options: orbit options, ignored for ModeFixed
//
// Returns:
//   - CameraController: the controller
func NewController(mode Mode, options ...CameraControllerOption) CameraController {
	if mode == ModeFixed {
		return NewFixedController(common.V3(0, 0, -6))
	}
	return NewCameraController(options...)
}
