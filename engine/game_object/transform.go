package game_object

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// TransformSize is the encoded size of a Transform: nine little-endian float32 values.
const TransformSize = 9 * 4

// ErrTransformSize is returned when decoding a buffer of the wrong length.
var ErrTransformSize = errors.New("transform: invalid encoded size")

// Transform is the spatial state of an object: position, Euler rotation (radians, Y*X*Z order) and scale.
type Transform struct {
	Position common.Vec3 `json:"position" yaml:"position"`
	Rotation common.Vec3 `json:"rotation" yaml:"rotation"`
	Scale    common.Vec3 `json:"scale" yaml:"scale"`
}

// DefaultTransform is the origin with unit scale.
func DefaultTransform() Transform {
	return Transform{Scale: common.V3(1, 1, 1)}
}

// Matrix composes the model matrix for the transform.
func (t Transform) Matrix() common.Mat4 {
	return common.ModelMatrix(t.Position, t.Rotation, t.Scale)
}

// MarshalBinary encodes the transform as raw IEEE-754 bits so that a decode reproduces
// the exact same floats, and therefore the exact same model matrix.
func (t Transform) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, TransformSize)
	for _, v := range []common.Vec3{t.Position, t.Rotation, t.Scale} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.X))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Y))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Z))
	}
	return buf, nil
}

// UnmarshalBinary decodes a transform written by MarshalBinary.
func (t *Transform) UnmarshalBinary(data []byte) error {
	if len(data) != TransformSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrTransformSize, len(data), TransformSize)
	}
	read := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	t.Position = common.V3(read(0), read(1), read(2))
	t.Rotation = common.V3(read(3), read(4), read(5))
	t.Scale = common.V3(read(6), read(7), read(8))
	return nil
}
