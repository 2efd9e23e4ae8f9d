package input

import "github.com/Carmen-Shannon/oxy-chase/common"

// Point is a pointer position in window pixels.
type Point struct {
	X, Y float32
}

// Intent is one frame's worth of player input.
// Held flags reflect the state at the time of sampling; deltas and requests
// are everything that accumulated since the previous sample.
type Intent struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Sprint  bool

	// HopPressed is true on the first sample after the hop key went down.
	HopPressed bool

	DragDX float32
	DragDY float32
	Wheel  float32

	// Pointer is the last known cursor position.
	Pointer Point

	// Dash is the pointer position of a pending dash request, or nil.
	Dash *Point

	Start   bool
	Restart bool
}

// Direction returns the raw movement direction on the ground plane implied by the held keys.
// Forward is -Z and right is +X. The result is not normalized; opposing keys cancel out.
//
// Returns:
//   - common.Vec3: the direction with Y always zero
func (i Intent) Direction() common.Vec3 {
	var d common.Vec3
	if i.Forward {
		d.Z -= 1
	}
	if i.Back {
		d.Z += 1
	}
	if i.Left {
		d.X -= 1
	}
	if i.Right {
		d.X += 1
	}
	return d
}

// Moving reports whether the held keys produce a non-zero direction.
func (i Intent) Moving() bool {
	return !i.Direction().IsZero()
}

// WithoutRequests returns a copy of the intent with the one-shot parts removed:
// the hop edge, the camera deltas and the dash, start and restart requests.
// Held flags are kept. Used when one sample drives several logic steps.
func (i Intent) WithoutRequests() Intent {
	return Intent{
		Forward: i.Forward,
		Back:    i.Back,
		Left:    i.Left,
		Right:   i.Right,
		Sprint:  i.Sprint,
		Pointer: i.Pointer,
	}
}
