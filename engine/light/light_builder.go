package light

import "github.com/Carmen-Shannon/oxy-chase/common"

// RigBuilderOption is a functional option for configuring a Rig.
type RigBuilderOption func(*rigImpl)

// WithDirection sets the direction toward the light. It is normalized; the zero vector is ignored.
//
// Parameters:
//   - dir: direction toward the light
//
// Returns:
//   - RigBuilderOption: functional option to set the direction
func WithDirection(dir common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		if n := dir.Normalize(); !n.IsZero() {
			r.direction = n
		}
	}
}

// WithColor sets the directional light color.
func WithColor(c common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		r.color = c
	}
}

// WithAmbient sets the ambient floor.
func WithAmbient(c common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		r.ambient = c
	}
}

// WithSpecular sets the specular color and exponent.
//
// Parameters:
//   - c: specular highlight color
//   - shininess: Phong exponent
//
// Returns:
//   - RigBuilderOption: functional option to set the specular term
func WithSpecular(c common.Vec3, shininess float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.specular = c
		r.shininess = shininess
	}
}

// WithSweep slowly swings the light direction around the Y axis.
func WithSweep(o Oscillator) RigBuilderOption {
	return func(r *rigImpl) {
		r.sweep = o
	}
}

// WithIntensity modulates the directional color by 1 + o(t).
func WithIntensity(o Oscillator) RigBuilderOption {
	return func(r *rigImpl) {
		r.intensity = o
	}
}

// WithGlow modulates the ambient floor by 1 + o(t).
func WithGlow(o Oscillator) RigBuilderOption {
	return func(r *rigImpl) {
		r.glow = o
	}
}
