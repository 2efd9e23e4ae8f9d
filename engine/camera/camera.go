package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix            common.Mat4
	projectionMatrix      common.Mat4
	viewProjectionMatrix  common.Mat4
	inverseViewProjection common.Mat4
	eye                   common.Vec3

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and combines them with the view matrix
// of an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Eye returns the world-space camera position from the last Update.
	//
	// Returns:
	//   - common.Vec3: the camera position
	Eye() common.Vec3

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - common.Mat4: the combined matrix
	ViewProjectionMatrix() common.Mat4

	// ModelView composes view * model for one entity.
	//
	// Parameters:
	//   - model: the entity's model matrix
	//
	// Returns:
	//   - common.Mat4: the model-view matrix
	ModelView(model common.Mat4) common.Mat4

	// ScreenRay unprojects a pointer position into a world-space ray.
	//
	// Parameters:
	//   - x, y: pointer position in pixels, origin at the top-left
	//   - width, height: drawing surface size in pixels
	//
	// Returns:
	//   - common.Ray: ray from the near plane through the pointer
	ScreenRay(x, y, width, height float32) common.Ray

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// Update reads the view from the controller and recomputes the matrices.
	// Should be called once per frame. Without a controller the view stays at identity.
	Update()

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 45 degree field of view, near 0.1 and far 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    45.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,

		viewMatrix: common.Identity(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ModelView(model common.Mat4) common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix.Mul(model)
}

func (c *cameraImpl) ScreenRay(x, y, width, height float32) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return common.Ray{Origin: c.eye, Dir: common.V3(0, 0, -1)}
	}
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	nearPt := c.inverseViewProjection.TransformPoint(common.V3(ndcX, ndcY, 0))
	farPt := c.inverseViewProjection.TransformPoint(common.V3(ndcX, ndcY, 1))
	return common.Ray{Origin: nearPt, Dir: farPt.Sub(nearPt).Normalize()}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates every derived matrix. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		c.viewMatrix = c.controller.View()
		c.eye = c.controller.Eye()
	}
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul(c.viewMatrix)
	c.inverseViewProjection, _ = c.viewProjectionMatrix.Invert()
}
