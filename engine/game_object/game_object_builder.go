package game_object

import "github.com/Carmen-Shannon/oxy-chase/common"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the lookup name of the GameObject.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithKind tags the GameObject. The matching component is allocated by NewGameObject.
//
// Parameters:
//   - kind: the object's role
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the kind
func WithKind(kind Kind) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = kind
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithEphemeral marks the GameObject as transient. Ephemeral decorations are aged
// and removed by the effects system once their life runs out.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Ephemeral flag
func WithEphemeral(ephemeral bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.ephemeral = ephemeral
	}
}

// WithMesh binds the GameObject to a mesh registered in the scene under key.
func WithMesh(key string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = key
	}
}

// WithMaterial selects the material the GameObject is drawn with.
func WithMaterial(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.material = name
	}
}

// WithColor sets the base RGBA color.
func WithColor(r, g, b, a float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = [4]float32{r, g, b, a}
	}
}

// WithRadius sets the bounding sphere radius.
func WithRadius(radius float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.radius = radius
	}
}

// WithPosition sets the start position, which Reset returns to.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the start position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.start.Position = common.V3(x, y, z)
	}
}

// WithScale sets the start scale.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the start scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.start.Scale = common.V3(sx, sy, sz)
	}
}

// WithRotation sets the start rotation in radians.
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.start.Rotation = common.V3(rx, ry, rz)
	}
}

// WithRotationSpeed sets a constant angular velocity in radians per second.
//
// Parameters:
//   - rx: the x rotation speed
//   - ry: the y rotation speed
//   - rz: the z rotation speed
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.spin = common.V3(rx, ry, rz)
	}
}

// WithLife gives a decoration a finite lifetime in seconds and a drift velocity.
func WithLife(life float32, drift common.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.decoration = &DecorationState{Life: life, Velocity: drift}
	}
}
