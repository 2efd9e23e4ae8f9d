package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// Kind tags what role an object plays in the scene. Exactly one kind-specific
// component is populated, matching the tag.
type Kind uint8

const (
	KindStatic Kind = iota
	KindPlayer
	KindPursuer
	KindDecoration
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindPursuer:
		return "pursuer"
	case KindDecoration:
		return "decoration"
	default:
		return "static"
	}
}

// Motion is the per-frame kinematic state written by the agent controller.
type Motion struct {
	Velocity       common.Vec3
	TargetPosition common.Vec3
}

// PlayerState is the component carried by KindPlayer objects.
type PlayerState struct {
	// Heading is the last non-zero movement direction, used for hops when no key is held.
	Heading common.Vec3
}

// PursuerState is the component carried by KindPursuer objects.
type PursuerState struct {
	Chasing bool
}

// DecorationState is the component carried by KindDecoration objects.
type DecorationState struct {
	// Life is the remaining lifetime in seconds for transient decorations.
	Life float32
	// Velocity drifts the decoration each frame.
	Velocity common.Vec3
}

type gameObject struct {
	mu *sync.Mutex

	id        uint64
	name      string
	kind      Kind
	enabled   atomic.Bool
	ephemeral bool

	mesh     string
	material string
	color    [4]float32
	radius   float32

	transform Transform
	start     Transform
	spin      common.Vec3
	motion    Motion

	player     *PlayerState
	pursuer    *PursuerState
	decoration *DecorationState
}

// GameObject defines the interface for a scene entity. Transform state is owned by the
// object and mutated in place by the agent controller; the renderer only reads it.
type GameObject interface {
	// ID returns the object's unique identifier. Zero until added to a scene.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID assigns the identifier. Called by the scene when the object is added.
	//
	// Parameters:
	//   - id: the new ID
	SetID(id uint64)

	// Name returns the object's human-readable name.
	Name() string

	// Kind returns the object's tag.
	//
	// Returns:
	//   - Kind: Player, Pursuer, Static or Decoration
	Kind() Kind

	// Enabled returns whether this object is enabled for update and rendering.
	Enabled() bool

	// SetEnabled toggles the object.
	SetEnabled(enabled bool)

	// Ephemeral returns whether this object is transient, such as a particle.
	Ephemeral() bool

	// Mesh returns the key of the mesh registered in the scene, or "" if none.
	Mesh() string

	// SetMesh binds the object to a mesh key.
	//
	// Parameters:
	//   - key: the scene mesh key
	SetMesh(key string)

	// Material returns the name of the material the object is drawn with.
	Material() string

	// Color returns the base RGBA color passed to the material.
	Color() [4]float32

	// Radius returns the bounding sphere radius used for view culling.
	Radius() float32

	// Transform returns a copy of the current transform.
	//
	// Returns:
	//   - Transform: position, rotation and scale
	Transform() Transform

	// SetTransform replaces the current transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// Position returns the world-space position.
	Position() common.Vec3

	// SetPosition moves the object.
	SetPosition(p common.Vec3)

	// SetRotation sets the Euler rotation in radians.
	SetRotation(r common.Vec3)

	// Spin returns the constant angular velocity in radians per second.
	Spin() common.Vec3

	// Animate advances rotation by Spin()*dt and drifts decorations by their velocity.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Animate(dt float32)

	// Motion returns the kinematic state.
	Motion() Motion

	// SetMotion replaces the kinematic state.
	SetMotion(m Motion)

	// StartTransform returns the transform the object is reset to.
	StartTransform() Transform

	// Reset restores the start transform and clears motion and component state.
	Reset()

	// Player returns the player component, or nil unless Kind() is KindPlayer.
	Player() *PlayerState

	// Pursuer returns the pursuer component, or nil unless Kind() is KindPursuer.
	Pursuer() *PursuerState

	// Decoration returns the decoration component, or nil unless Kind() is KindDecoration.
	Decoration() *DecorationState
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject. The kind-specific component is allocated to match WithKind.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:       &sync.Mutex{},
		material: "lit",
		color:    [4]float32{0.75, 0.75, 0.75, 1},
		radius:   1,
		start:    DefaultTransform(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.transform = obj.start
	obj.resetComponents()
	return obj
}

// resetComponents allocates the component matching the kind. Caller must hold the mutex or own the object.
func (g *gameObject) resetComponents() {
	var life float32
	var drift common.Vec3
	if g.decoration != nil {
		life, drift = g.decoration.Life, g.decoration.Velocity
	}
	g.player, g.pursuer, g.decoration = nil, nil, nil
	switch g.kind {
	case KindPlayer:
		g.player = &PlayerState{Heading: common.V3(0, 0, -1)}
	case KindPursuer:
		g.pursuer = &PursuerState{}
	case KindDecoration:
		g.decoration = &DecorationState{Life: life, Velocity: drift}
	}
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Kind() Kind {
	return g.kind
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Mesh() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mesh
}

func (g *gameObject) SetMesh(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mesh = key
}

func (g *gameObject) Material() string {
	return g.material
}

func (g *gameObject) Color() [4]float32 {
	return g.color
}

func (g *gameObject) Radius() float32 {
	return g.radius
}

func (g *gameObject) Transform() Transform {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transform
}

func (g *gameObject) SetTransform(t Transform) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transform = t
}

func (g *gameObject) Position() common.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transform.Position
}

func (g *gameObject) SetPosition(p common.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transform.Position = p
}

func (g *gameObject) SetRotation(r common.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transform.Rotation = r
}

func (g *gameObject) Spin() common.Vec3 {
	return g.spin
}

func (g *gameObject) Animate(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.spin.IsZero() {
		g.transform.Rotation = g.transform.Rotation.Add(g.spin.Scale(dt))
	}
	if g.decoration != nil && !g.decoration.Velocity.IsZero() {
		g.transform.Position = g.transform.Position.Add(g.decoration.Velocity.Scale(dt))
	}
}

func (g *gameObject) Motion() Motion {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.motion
}

func (g *gameObject) SetMotion(m Motion) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.motion = m
}

func (g *gameObject) StartTransform() Transform {
	return g.start
}

func (g *gameObject) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transform = g.start
	g.motion = Motion{}
	g.resetComponents()
}

func (g *gameObject) Player() *PlayerState {
	return g.player
}

func (g *gameObject) Pursuer() *PursuerState {
	return g.pursuer
}

func (g *gameObject) Decoration() *DecorationState {
	return g.decoration
}
