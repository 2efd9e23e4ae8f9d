package renderer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/light"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/Carmen-Shannon/oxy-chase/engine/window"
	"github.com/sirupsen/logrus"
)

// FrameStats summarizes one RenderFrame call.
type FrameStats struct {
	Frame   uint64 `json:"frame"`
	Draws   int    `json:"draws"`
	Skipped int    `json:"skipped"`
	Culled  int    `json:"culled"`
	Clear   Color  `json:"clear"`
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      logrus.FieldLogger
	library     *material.Library

	created       map[string]material.Material
	failed        map[string]error
	uploaded      map[string]uint64 // mesh key -> scene revision on the GPU
	uploadFailed  map[string]uint64 // mesh key -> revision that failed to upload
	frameCount    uint64
	recolored     bool
	initialized   bool
	frustumCull   bool
	width, height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer turns a scene into frames. Each frame clears the canvas, draws every visible
// entity in ascending ID order with its material and hands the result to the backend.
//
// After SuccessFrames frames have completed the clear color switches from ClearColor to
// SuccessColor and stays there, a visible signal that the pipeline is healthy.
type Renderer interface {
	// Init configures the backend for the given surface size and creates every material in
	// the library. A material whose program cannot be created is logged and recorded; entities
	// bound to it are skipped while the rest of the scene keeps rendering.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if the backend could not be initialized
	Init(width, height int) error

	// Resize configures the underlying backend to handle a new surface size.
	// Zero sizes, which a minimized window reports, are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the backend could not be reconfigured
	Resize(width, height int) error

	// RenderFrame draws one frame of sc as seen from cam. Meshes added or replaced in the
	// scene since the previous frame are uploaded first. A panic inside the frame is
	// recovered, logged and returned as an error.
	//
	// Parameters:
	//   - sc: the scene to draw
	//   - cam: the camera providing the view and projection matrices
	//   - lu: the light snapshot for this frame
	//
	// Returns:
	//   - FrameStats: counts for the frame
	//   - error: an error if the frame could not be completed
	RenderFrame(sc scene.Scene, cam camera.Camera, lu light.Uniforms) (FrameStats, error)

	// FrameCount returns the number of frames completed.
	FrameCount() uint64

	// Recolored reports whether the success sentinel has fired.
	Recolored() bool

	// FailedMaterials returns the names of materials whose programs could not be created, sorted.
	FailedMaterials() []string

	// Size returns the current surface size.
	Size() (width, height int)

	// Backend returns the backend frames are recorded to.
	Backend() RendererBackend

	// Release frees backend resources. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given backend type.
// BackendTypeWGPU renders to the surface of win; BackendTypeRecording ignores win and keeps frames in memory.
// WithBackend overrides both.
//
// Parameters:
//   - backendType: the backend to create
//   - win: the window providing the surface, may be nil for the recording backend
//   - options: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:           &sync.Mutex{},
		backendType:  backendType,
		logger:       logrus.StandardLogger(),
		created:      make(map[string]material.Material),
		failed:       make(map[string]error),
		uploaded:     make(map[string]uint64),
		uploadFailed: make(map[string]uint64),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.library == nil {
		r.library = material.NewLibrary(material.Defaults()...)
	}

	if r.backend != nil {
		return r, nil
	}

	switch backendType {
	case BackendTypeRecording:
		r.backend = NewRecordingBackend()
	case BackendTypeWGPU:
		if win == nil {
			return nil, errors.New("wgpu backend requires a window")
		}
		desc := win.SurfaceDescriptor()
		if desc == nil {
			return nil, errors.New("window has no surface")
		}
		sampleCount := MSAA4x
		if r.pendingMSAA != nil {
			sampleCount = *r.pendingMSAA
		}
		presentMode := PresentModeVSync
		if r.pendingPresentMode != nil {
			presentMode = *r.pendingPresentMode
		}
		b, err := newWGPURendererBackend(desc, r.forceFallbackAdapter, sampleCount, presentMode)
		if err != nil {
			return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("unknown renderer backend type %d", backendType)
	}
	return r, nil
}

func (r *renderer) Init(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.Init(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	r.initialized = true

	for _, m := range r.library.All() {
		if err := r.createMaterial(m); err != nil {
			r.failed[m.Name()] = err
			r.logger.WithField("material", m.Name()).WithError(err).Error("material unavailable, bound entities will be skipped")
			continue
		}
		r.created[m.Name()] = m
	}
	return nil
}

// createMaterial validates m and hands it to the backend. Caller must hold the lock.
func (r *renderer) createMaterial(m material.Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	err := r.backend.CreateMaterial(m)
	if err == nil {
		return nil
	}
	var se *material.ShaderError
	if errors.As(err, &se) {
		return err
	}
	return &material.ShaderError{Material: m.Name(), Stage: material.StageModule, Err: err}
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width && height == r.height {
		return nil
	}
	r.width, r.height = width, height
	if !r.initialized {
		return nil
	}
	return r.backend.Resize(width, height)
}

func (r *renderer) RenderFrame(sc scene.Scene, cam camera.Camera, lu light.Uniforms) (stats FrameStats, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render panic: %v", p)
			r.logger.WithField("frame", r.frameCount).WithError(err).Error("frame aborted")
		}
	}()

	if !r.initialized {
		return stats, ErrNotInitialized
	}
	if sc == nil || cam == nil {
		return stats, errors.New("render frame requires a scene and a camera")
	}

	bg := ClearColor
	if r.frameCount > SuccessFrames {
		bg = SuccessColor
		if !r.recolored {
			r.recolored = true
			r.logger.WithField("frame", r.frameCount+1).Infof("%d frames elapsed without fatal error, canvas recolored", r.frameCount)
		}
	}
	stats.Clear = bg

	r.syncMeshes(sc)

	if err := r.backend.BeginFrame(bg); err != nil {
		return stats, err
	}

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	var frustum common.Frustum
	if r.frustumCull {
		frustum = common.FrustumFromMatrix(cam.ViewProjectionMatrix())
	}

	base := material.GPUUniforms{
		Projection: proj,
		LightDir:   material.Vec4(view.TransformDir(lu.Direction).Normalize(), 0),
		LightColor: material.Vec4(lu.Color, 1),
		Ambient:    material.Vec4(lu.Ambient, 1),
		Specular:   material.Vec4(lu.Specular, lu.Shininess),
		ViewPos:    [4]float32{0, 0, 0, 1},
	}

	for _, obj := range sc.Objects() {
		if !obj.Enabled() || obj.Mesh() == "" {
			continue
		}
		key := obj.Mesh()
		mesh := sc.Mesh(key)
		if mesh == nil || r.uploaded[key] == 0 || r.uploaded[key] != sc.MeshRevision(key) {
			stats.Skipped++
			continue
		}
		mat, ok := r.created[obj.Material()]
		if !ok || meshTopology(mesh) != mat.Topology() {
			stats.Skipped++
			continue
		}

		t := obj.Transform()
		if r.frustumCull {
			scale := max(abs32(t.Scale.X), abs32(t.Scale.Y), abs32(t.Scale.Z))
			if !frustum.IntersectsSphere(t.Position, mesh.BoundingRadius()*scale) {
				stats.Culled++
				continue
			}
		}

		mv := view.Mul(t.Matrix())
		u := base
		u.ModelView = mv
		u.Normal = common.NormalMatrix(mv)
		u.BaseColor = obj.Color()

		call := DrawCall{
			Slot:       stats.Draws,
			EntityID:   obj.ID(),
			Material:   mat.Name(),
			Mesh:       key,
			IndexCount: mesh.IndexCount(),
			Uniforms:   u,
		}
		if err := r.backend.Draw(call); err != nil {
			r.logger.WithFields(logrus.Fields{"entity": obj.ID(), "material": mat.Name()}).WithError(err).Warn("draw rejected")
			stats.Skipped++
			continue
		}
		stats.Draws++
	}

	if err := r.backend.EndFrame(); err != nil {
		return stats, err
	}
	r.frameCount++
	stats.Frame = r.frameCount
	return stats, nil
}

// syncMeshes uploads every scene mesh whose revision is not yet on the backend.
// A revision that failed once is not retried. Caller must hold the lock.
func (r *renderer) syncMeshes(sc scene.Scene) {
	for _, key := range sc.MeshKeys() {
		rev := sc.MeshRevision(key)
		if r.uploaded[key] == rev || r.uploadFailed[key] == rev {
			continue
		}
		mesh := sc.Mesh(key)
		if mesh == nil {
			continue
		}
		err := mesh.Validate()
		if err == nil {
			err = r.backend.UploadMesh(key, mesh)
		}
		if err != nil {
			r.uploadFailed[key] = rev
			r.logger.WithField("mesh", key).WithError(err).Warn("mesh upload failed")
			continue
		}
		r.uploaded[key] = rev
	}
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

func (r *renderer) Recolored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recolored
}

func (r *renderer) FailedMaterials() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.failed))
	for name := range r.failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
	r.initialized = false
}

func meshTopology(m *model.Mesh) model.Topology {
	if m.Topology == "" {
		return model.TopologyTriangles
	}
	return m.Topology
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
