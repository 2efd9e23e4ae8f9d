package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// fixedController models the early scene layout: the eye is implicitly at the origin
// and the whole world is pushed into view by a constant translation.
type fixedController struct {
	mu     *sync.Mutex
	offset common.Vec3
}

var _ CameraController = &fixedController{}

// NewFixedController creates a controller whose view is a pure translation by offset.
//
// Parameters:
//   - offset: world translation applied before projection, e.g. (0, 0, -6)
//
// Returns:
//   - CameraController: the fixed controller
func NewFixedController(offset common.Vec3) CameraController {
	return &fixedController{mu: &sync.Mutex{}, offset: offset}
}

func (f *fixedController) Mode() Mode {
	return ModeFixed
}

func (f *fixedController) Eye() common.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset.Scale(-1)
}

func (f *fixedController) View() common.Mat4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return common.Translation(f.offset)
}

func (f *fixedController) Rotate(dx, dy float32) {}

func (f *fixedController) Zoom(delta float32) {}

func (f *fixedController) Follow(target common.Vec3) {}
