package input

import (
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// EventSource is anything that delivers raw device events through callbacks.
// engine/window.Window satisfies it.
type EventSource interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseDownCallback(callback func(button int, x, y float32))
	SetMouseUpCallback(callback func(button int, x, y float32))
	SetMouseMoveCallback(callback func(x, y float32))
	SetScrollCallback(callback func(delta float32))
}

// Sampler turns raw device events into per-frame Intents.
// Event methods may be called from any goroutine. Every piece of state shared
// with Sample is a single atomic value, so a reader never sees a half-written update.
type Sampler interface {
	// KeyDown records a key press, resolving it through the sampler's bindings.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyDown(keyCode uint32)

	// KeyUp records a key release.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyUp(keyCode uint32)

	// Press records the start of an action directly, bypassing bindings.
	Press(action Action)

	// Release records the end of an action directly, bypassing bindings.
	Release(action Action)

	// MouseDown records a button press at the given pointer position.
	// The drag button starts a drag; the dash button queues a dash at the pointer.
	//
	// Parameters:
	//   - button: the mouse button index
	//   - x, y: pointer position in pixels
	MouseDown(button int, x, y float32)

	// MouseUp records a button release and ends a drag.
	MouseUp(button int, x, y float32)

	// MouseMove records a pointer move. While dragging, the delta accumulates.
	MouseMove(x, y float32)

	// Scroll accumulates a wheel delta.
	Scroll(delta float32)

	// Pointer returns the last known pointer position.
	Pointer() Point

	// Sample returns the current intent and consumes accumulated deltas and requests.
	// It never touches camera or game state.
	//
	// Returns:
	//   - Intent: the held flags plus everything accumulated since the previous sample
	Sample() Intent

	// Attach registers the sampler on every input callback of src.
	//
	// Parameters:
	//   - src: the event source, usually the window
	Attach(src EventSource)

	// Reset releases every held flag and drops accumulated input.
	Reset()
}

type sampler struct {
	bindings    Bindings
	dragButton  int
	dashButton  int
	dragEnabled bool

	forward atomic.Bool
	back    atomic.Bool
	left    atomic.Bool
	right   atomic.Bool
	sprint  atomic.Bool

	hopHeld    atomic.Bool
	hopLatched atomic.Bool

	start   atomic.Bool
	restart atomic.Bool

	dragging atomic.Bool
	dragDX   atomicFloat32
	dragDY   atomicFloat32
	wheel    atomicFloat32

	pointerX atomicFloat32
	pointerY atomicFloat32

	dash atomic.Pointer[Point]
}

var _ Sampler = &sampler{}

// NewSampler creates a Sampler with the default bindings.
// Right mouse drags the camera and left mouse queues a dash.
//
// Parameters:
//   - options: functional options to configure the sampler
//
// Returns:
//   - Sampler: the newly created sampler
func NewSampler(options ...SamplerBuilderOption) Sampler {
	s := &sampler{
		bindings:    DefaultBindings(),
		dragButton:  common.MouseButtonRight,
		dashButton:  common.MouseButtonLeft,
		dragEnabled: true,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sampler) KeyDown(keyCode uint32) {
	s.Press(s.bindings.Lookup(keyCode))
}

func (s *sampler) KeyUp(keyCode uint32) {
	s.Release(s.bindings.Lookup(keyCode))
}

func (s *sampler) Press(action Action) {
	switch action {
	case ActionForward:
		s.forward.Store(true)
	case ActionBack:
		s.back.Store(true)
	case ActionLeft:
		s.left.Store(true)
	case ActionRight:
		s.right.Store(true)
	case ActionSprint:
		s.sprint.Store(true)
	case ActionHop:
		// auto-repeat arrives as repeated presses; only the first one latches
		if !s.hopHeld.Swap(true) {
			s.hopLatched.Store(true)
		}
	case ActionStart:
		s.start.Store(true)
	case ActionRestart:
		s.restart.Store(true)
	}
}

func (s *sampler) Release(action Action) {
	switch action {
	case ActionForward:
		s.forward.Store(false)
	case ActionBack:
		s.back.Store(false)
	case ActionLeft:
		s.left.Store(false)
	case ActionRight:
		s.right.Store(false)
	case ActionSprint:
		s.sprint.Store(false)
	case ActionHop:
		s.hopHeld.Store(false)
	}
}

func (s *sampler) MouseDown(button int, x, y float32) {
	s.setPointer(x, y)
	if s.dragEnabled && button == s.dragButton {
		s.dragging.Store(true)
	}
	if button == s.dashButton {
		s.dash.Store(&Point{X: x, Y: y})
	}
}

func (s *sampler) MouseUp(button int, x, y float32) {
	s.setPointer(x, y)
	if button == s.dragButton {
		s.dragging.Store(false)
	}
}

func (s *sampler) MouseMove(x, y float32) {
	lastX, lastY := s.pointerX.Load(), s.pointerY.Load()
	s.setPointer(x, y)
	if s.dragging.Load() {
		s.dragDX.Add(x - lastX)
		s.dragDY.Add(y - lastY)
	}
}

func (s *sampler) Scroll(delta float32) {
	s.wheel.Add(delta)
}

func (s *sampler) Pointer() Point {
	return Point{X: s.pointerX.Load(), Y: s.pointerY.Load()}
}

func (s *sampler) Sample() Intent {
	return Intent{
		Forward:    s.forward.Load(),
		Back:       s.back.Load(),
		Left:       s.left.Load(),
		Right:      s.right.Load(),
		Sprint:     s.sprint.Load(),
		HopPressed: s.hopLatched.Swap(false),
		DragDX:     s.dragDX.Swap(0),
		DragDY:     s.dragDY.Swap(0),
		Wheel:      s.wheel.Swap(0),
		Pointer:    s.Pointer(),
		Dash:       s.dash.Swap(nil),
		Start:      s.start.Swap(false),
		Restart:    s.restart.Swap(false),
	}
}

func (s *sampler) Attach(src EventSource) {
	if src == nil {
		return
	}
	src.SetKeyDownCallback(s.KeyDown)
	src.SetKeyUpCallback(s.KeyUp)
	src.SetMouseDownCallback(s.MouseDown)
	src.SetMouseUpCallback(s.MouseUp)
	src.SetMouseMoveCallback(s.MouseMove)
	src.SetScrollCallback(s.Scroll)
}

func (s *sampler) Reset() {
	for _, flag := range []*atomic.Bool{&s.forward, &s.back, &s.left, &s.right, &s.sprint, &s.hopHeld, &s.hopLatched, &s.start, &s.restart, &s.dragging} {
		flag.Store(false)
	}
	s.dragDX.Store(0)
	s.dragDY.Store(0)
	s.wheel.Store(0)
	s.dash.Store(nil)
}

func (s *sampler) setPointer(x, y float32) {
	s.pointerX.Store(x)
	s.pointerY.Store(y)
}

// atomicFloat32 is a float32 stored in an atomic.Uint32.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (f *atomicFloat32) Load() float32 {
	return math.Float32frombits(f.bits.Load())
}

func (f *atomicFloat32) Store(v float32) {
	f.bits.Store(math.Float32bits(v))
}

func (f *atomicFloat32) Swap(v float32) float32 {
	return math.Float32frombits(f.bits.Swap(math.Float32bits(v)))
}

func (f *atomicFloat32) Add(delta float32) {
	for {
		old := f.bits.Load()
		next := math.Float32bits(math.Float32frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}
