package light

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// Oscillator is a sine wave used for slow atmospheric variation of light parameters.
type Oscillator struct {
	Amplitude float32 `yaml:"amplitude"`
	Frequency float32 `yaml:"frequency"` // cycles per second
	Phase     float32 `yaml:"phase"`     // radians
}

// At returns the oscillator value at time t seconds.
func (o Oscillator) At(t float32) float32 {
	if o.Amplitude == 0 {
		return 0
	}
	return o.Amplitude * float32(math.Sin(2*math.Pi*float64(o.Frequency)*float64(t)+float64(o.Phase)))
}

// Uniforms are the per-frame lighting constants handed to the render pass.
type Uniforms struct {
	// Direction points from the surface toward the light, in world space, normalized.
	Direction common.Vec3
	Color     common.Vec3
	Ambient   common.Vec3
	Specular  common.Vec3
	Shininess float32
}

type rigImpl struct {
	mu *sync.Mutex

	direction common.Vec3
	color     common.Vec3
	ambient   common.Vec3
	specular  common.Vec3
	shininess float32

	sweep     Oscillator // rotation of the direction around Y, radians
	intensity Oscillator // relative change of the directional color
	glow      Oscillator // relative change of the ambient term
}

// Rig defines the scene lighting: one directional light with a Phong specular term and an
// ambient floor. Evaluate folds the time-based oscillators into a Uniforms snapshot.
type Rig interface {
	// Direction returns the base light direction, normalized.
	//
	// Returns:
	//   - common.Vec3: direction toward the light
	Direction() common.Vec3

	// SetDirection sets the base light direction. The zero vector is ignored.
	//
	// Parameters:
	//   - dir: direction toward the light, need not be normalized
	SetDirection(dir common.Vec3)

	// Shininess returns the specular exponent.
	Shininess() float32

	// Evaluate computes the uniforms for time t.
	//
	// Parameters:
	//   - t: elapsed time in seconds
	//
	// Returns:
	//   - Uniforms: the lighting constants for this frame
	Evaluate(t float32) Uniforms
}

var _ Rig = &rigImpl{}

// NewRig creates a light rig. Defaults: direction normalize(0.85, 0.8, 0.75), white light,
// ambient 0.3, white specular, shininess 32 and no oscillation.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		mu:        &sync.Mutex{},
		direction: common.V3(0.85, 0.8, 0.75).Normalize(),
		color:     common.V3(1, 1, 1),
		ambient:   common.V3(0.3, 0.3, 0.3),
		specular:  common.V3(1, 1, 1),
		shininess: 32,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *rigImpl) Direction() common.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direction
}

func (r *rigImpl) SetDirection(dir common.Vec3) {
	n := dir.Normalize()
	if n.IsZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direction = n
}

func (r *rigImpl) Shininess() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shininess
}

func (r *rigImpl) Evaluate(t float32) Uniforms {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := r.direction
	if a := r.sweep.At(t); a != 0 {
		s, c := float32(math.Sin(float64(a))), float32(math.Cos(float64(a)))
		dir = common.V3(c*dir.X+s*dir.Z, dir.Y, -s*dir.X+c*dir.Z)
	}

	colorScale := max(0, 1+r.intensity.At(t))
	glowScale := max(0, 1+r.glow.At(t))

	return Uniforms{
		Direction: dir.Normalize(),
		Color:     clampUnit(r.color.Scale(colorScale)),
		Ambient:   clampUnit(r.ambient.Scale(glowScale)),
		Specular:  r.specular,
		Shininess: r.shininess,
	}
}

func clampUnit(v common.Vec3) common.Vec3 {
	return common.V3(common.Clamp(v.X, 0, 1), common.Clamp(v.Y, 0, 1), common.Clamp(v.Z, 0, 1))
}
