package material

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
)

//go:embed assets/lit.wgsl
var litSource string

//go:embed assets/unlit.wgsl
var unlitSource string

//go:embed assets/particle.wgsl
var particleSource string

// Built-in material names.
const (
	Lit      = "lit"
	Unlit    = "unlit"
	Particle = "particle"
)

// Default entry points for materials that do not name their own.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// material is the implementation of the Material interface.
type material struct {
	name          string
	topology      model.Topology
	source        string
	vertexEntry   string
	fragmentEntry string
	depthWrite    bool
	cullBack      bool
}

// Material describes one shader program and the fixed pipeline state it is drawn with.
// Every material shares the DrawUniforms binding declared in UniformsSource, so a draw
// slot's bind group can be reused across materials.
type Material interface {
	// Name retrieves the material identifier draw calls refer to.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Topology retrieves the primitive topology meshes drawn with this material must use.
	//
	// Returns:
	//   - model.Topology: triangles or lines
	Topology() model.Topology

	// Source retrieves the complete WGSL module: the shared uniforms followed by the material's stages.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexEntry retrieves the vertex stage entry point.
	VertexEntry() string

	// FragmentEntry retrieves the fragment stage entry point.
	FragmentEntry() string

	// DepthWrite reports whether the material writes depth.
	DepthWrite() bool

	// CullBack reports whether back faces are culled.
	CullBack() bool

	// Validate checks the source before it is handed to a GPU compiler.
	//
	// Returns:
	//   - error: a *ShaderError describing the first problem, or nil
	Validate() error
}

var _ Material = &material{}

// NewMaterial creates a new Material configured with the provided options.
// The given stage source is appended to UniformsSource.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		topology:      model.TopologyTriangles,
		vertexEntry:   DefaultVertexEntry,
		fragmentEntry: DefaultFragmentEntry,
		depthWrite:    true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Topology() model.Topology {
	return m.topology
}

func (m *material) Source() string {
	if m.source == "" {
		return ""
	}
	return UniformsSource + "\n" + m.source
}

func (m *material) VertexEntry() string {
	return m.vertexEntry
}

func (m *material) FragmentEntry() string {
	return m.fragmentEntry
}

func (m *material) DepthWrite() bool {
	return m.depthWrite
}

func (m *material) CullBack() bool {
	return m.cullBack
}

func (m *material) Validate() error {
	if m.name == "" {
		return &ShaderError{Stage: StageModule, Err: ErrNoName}
	}
	if m.source == "" {
		return &ShaderError{Material: m.name, Stage: StageModule, Err: ErrEmptySource}
	}
	declared := entryPoints(m.source)
	for _, stage := range []struct {
		stage ShaderStage
		attr  string
		entry string
	}{
		{StageVertex, "vertex", m.vertexEntry},
		{StageFragment, "fragment", m.fragmentEntry},
	} {
		if !slices.Contains(declared[stage.attr], stage.entry) {
			return &ShaderError{
				Material: m.name,
				Stage:    stage.stage,
				Log:      fmt.Sprintf("no @%s function named %q (found %v)", stage.attr, stage.entry, declared[stage.attr]),
				Err:      ErrMissingEntryPoint,
			}
		}
	}
	return nil
}

// Defaults returns the built-in materials: Phong-lit solids, flat-colored lines and particles.
func Defaults() []Material {
	return []Material{
		NewMaterial(WithName(Lit), WithSource(litSource), WithCullBack(true)),
		NewMaterial(WithName(Unlit), WithSource(unlitSource), WithTopology(model.TopologyLines)),
		NewMaterial(WithName(Particle), WithSource(particleSource)),
	}
}

// Library is a name-keyed set of materials. Safe for concurrent use.
type Library struct {
	mu        *sync.RWMutex
	materials map[string]Material
}

// NewLibrary creates a library holding materials. Later materials replace earlier ones of the same name.
func NewLibrary(materials ...Material) *Library {
	l := &Library{mu: &sync.RWMutex{}, materials: make(map[string]Material)}
	for _, m := range materials {
		l.Add(m)
	}
	return l
}

// Add registers or replaces m. Nil materials are ignored.
func (l *Library) Add(m Material) {
	if m == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.materials[m.Name()] = m
}

// Get returns the material with the given name.
func (l *Library) Get(name string) (Material, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.materials[name]
	return m, ok
}

// Names returns every registered name, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.materials))
	for name := range l.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the materials in name order.
func (l *Library) All() []Material {
	names := l.Names()
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Material, 0, len(names))
	for _, name := range names {
		out = append(out, l.materials[name])
	}
	return out
}

var (
	ErrNoName            = errors.New("material has no name")
	ErrEmptySource       = errors.New("shader source is empty")
	ErrMissingEntryPoint = errors.New("shader entry point not found")
	ErrCompile           = errors.New("shader module creation failed")
)

// ShaderStage names the part of a program a ShaderError refers to.
type ShaderStage string

const (
	StageModule   ShaderStage = "module"
	StageVertex   ShaderStage = "vertex"
	StageFragment ShaderStage = "fragment"
	StagePipeline ShaderStage = "pipeline"
)

// ShaderError reports that a material could not be turned into a GPU program.
// Log carries the compiler diagnostic when one is available.
type ShaderError struct {
	Material string
	Stage    ShaderStage
	Log      string
	Err      error
}

func (e *ShaderError) Error() string {
	msg := fmt.Sprintf("material %q: %s stage: %v", e.Material, e.Stage, e.Err)
	if e.Log != "" {
		msg += ": " + e.Log
	}
	return msg
}

func (e *ShaderError) Unwrap() error {
	return e.Err
}
