package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer/material"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeRecording selects the headless backend that records frames in memory.
	BackendTypeRecording
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

var (
	// ClearColor is the background until the success sentinel fires (#222222).
	ClearColor = Color{R: 0x22 / 255.0, G: 0x22 / 255.0, B: 0x22 / 255.0, A: 1}

	// SuccessColor replaces ClearColor once SuccessFrames frames rendered without a fatal error.
	SuccessColor = Color{R: 0.2, G: 0.8, B: 0.2, A: 1}
)

// SuccessFrames is the number of frames that must complete before the canvas is recolored.
const SuccessFrames = 10

var (
	ErrNotInitialized   = errors.New("renderer backend not initialized")
	ErrFrameInProgress  = errors.New("previous frame not yet ended")
	ErrNoFrame          = errors.New("no frame in progress")
	ErrUnknownMaterial  = errors.New("material not created")
	ErrUnknownMesh      = errors.New("mesh not uploaded")
	ErrIndexCount       = errors.New("draw index count does not match mesh")
	ErrTopologyMismatch = errors.New("mesh topology does not match material")
)

// DrawCall is one indexed draw of an uploaded mesh with a created material.
type DrawCall struct {
	// Slot is the draw's position within the frame; backends key per-draw resources by it.
	Slot       int
	EntityID   uint64
	Material   string
	Mesh       string
	IndexCount int
	Uniforms   material.GPUUniforms
}

// RendererBackend is the GPU API boundary of the Renderer. Calls arrive from a single
// goroutine in the order Init, then per frame BeginFrame, Draw*, EndFrame.
type RendererBackend interface {
	// Init prepares the backend for a surface of the given size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if the device or surface could not be configured
	Init(width, height int) error

	// Resize reconfigures the surface and the depth target.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if reconfiguration fails
	Resize(width, height int) error

	// CreateMaterial compiles m into a pipeline. Failures are returned as *material.ShaderError.
	//
	// Parameters:
	//   - m: the material to compile
	//
	// Returns:
	//   - error: a *material.ShaderError if the program could not be created
	CreateMaterial(m material.Material) error

	// UploadMesh creates or replaces the vertex and index buffers stored under key.
	//
	// Parameters:
	//   - key: the mesh identifier draw calls refer to
	//   - mesh: validated geometry
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadMesh(key string, mesh *model.Mesh) error

	// BeginFrame acquires the next surface image and begins a pass cleared to clear.
	BeginFrame(clear Color) error

	// Draw records one indexed draw in the current pass.
	Draw(call DrawCall) error

	// EndFrame ends the pass, submits and presents.
	EndFrame() error

	// Release frees every GPU resource held by the backend.
	Release()
}
