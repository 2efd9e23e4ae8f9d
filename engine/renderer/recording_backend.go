package renderer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer/material"
)

// RecordedFrame is one completed frame as seen by the RecordingBackend.
type RecordedFrame struct {
	Clear Color
	Draws []DrawCall
}

type recordedMesh struct {
	indexCount int
	topology   model.Topology
}

// RecordingBackend is a headless RendererBackend that validates draws the way a GPU
// backend would and keeps every completed frame in memory.
type RecordingBackend struct {
	mu *sync.Mutex

	width, height int
	initialized   bool
	released      bool

	materials   map[string]material.Material
	meshes      map[string]recordedMesh
	failShaders map[string]string
	uploads     int
	resizes     int

	current *RecordedFrame
	frames  []RecordedFrame
	keep    int
	total   int
}

var _ RendererBackend = &RecordingBackend{}

// NewRecordingBackend creates a backend that keeps the most recent 128 frames.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{
		mu:          &sync.Mutex{},
		materials:   make(map[string]material.Material),
		meshes:      make(map[string]recordedMesh),
		failShaders: make(map[string]string),
		keep:        128,
	}
}

// FailShader makes CreateMaterial fail for the named material with the given compiler log.
func (b *RecordingBackend) FailShader(name, log string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failShaders[name] = log
}

func (b *RecordingBackend) Init(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	b.width, b.height = width, height
	b.initialized = true
	return nil
}

func (b *RecordingBackend) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.current != nil {
		return ErrFrameInProgress
	}
	b.width, b.height = width, height
	b.resizes++
	return nil
}

func (b *RecordingBackend) CreateMaterial(m material.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if log, ok := b.failShaders[m.Name()]; ok {
		return &material.ShaderError{Material: m.Name(), Stage: material.StageModule, Log: log, Err: material.ErrCompile}
	}
	if err := m.Validate(); err != nil {
		return err
	}
	b.materials[m.Name()] = m
	return nil
}

func (b *RecordingBackend) UploadMesh(key string, mesh *model.Mesh) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if mesh == nil {
		return model.ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	b.meshes[key] = recordedMesh{indexCount: mesh.IndexCount(), topology: meshTopology(mesh)}
	b.uploads++
	return nil
}

func (b *RecordingBackend) BeginFrame(clear Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.current != nil {
		return ErrFrameInProgress
	}
	b.current = &RecordedFrame{Clear: clear}
	return nil
}

func (b *RecordingBackend) Draw(call DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return ErrNoFrame
	}
	m, ok := b.materials[call.Material]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, call.Material)
	}
	mesh, ok := b.meshes[call.Mesh]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMesh, call.Mesh)
	}
	if mesh.indexCount != call.IndexCount {
		return fmt.Errorf("%w: %d != %d", ErrIndexCount, call.IndexCount, mesh.indexCount)
	}
	if mesh.topology != m.Topology() {
		return ErrTopologyMismatch
	}
	b.current.Draws = append(b.current.Draws, call)
	return nil
}

func (b *RecordingBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return ErrNoFrame
	}
	b.frames = append(b.frames, *b.current)
	if len(b.frames) > b.keep {
		b.frames = b.frames[len(b.frames)-b.keep:]
	}
	b.current = nil
	b.total++
	return nil
}

func (b *RecordingBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.materials = make(map[string]material.Material)
	b.meshes = make(map[string]recordedMesh)
	b.current = nil
	b.initialized = false
	b.released = true
}

// FrameCount returns the number of frames ended since creation.
func (b *RecordingBackend) FrameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// LastFrame returns the most recently ended frame.
func (b *RecordingBackend) LastFrame() (RecordedFrame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return RecordedFrame{}, false
	}
	return b.frames[len(b.frames)-1], true
}

// Frames returns a copy of the retained frames, oldest first.
func (b *RecordingBackend) Frames() []RecordedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedFrame, len(b.frames))
	copy(out, b.frames)
	return out
}

// Materials returns the names of the created materials, sorted.
func (b *RecordingBackend) Materials() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.materials))
	for name := range b.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Uploads returns how many mesh uploads succeeded.
func (b *RecordingBackend) Uploads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

// Size returns the configured surface size and the number of resizes.
func (b *RecordingBackend) Size() (width, height, resizes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height, b.resizes
}

// Released reports whether Release was called.
func (b *RecordingBackend) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
