package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	keyDown   func(uint32)
	keyUp     func(uint32)
	mouseDown func(int, float32, float32)
	mouseUp   func(int, float32, float32)
	mouseMove func(float32, float32)
	scroll    func(float32)
}

func (f *fakeSource) SetKeyDownCallback(cb func(uint32))                  { f.keyDown = cb }
func (f *fakeSource) SetKeyUpCallback(cb func(uint32))                    { f.keyUp = cb }
func (f *fakeSource) SetMouseDownCallback(cb func(int, float32, float32)) { f.mouseDown = cb }
func (f *fakeSource) SetMouseUpCallback(cb func(int, float32, float32))   { f.mouseUp = cb }
func (f *fakeSource) SetMouseMoveCallback(cb func(float32, float32))      { f.mouseMove = cb }
func (f *fakeSource) SetScrollCallback(cb func(float32))                  { f.scroll = cb }

func TestHeldFlagsFollowKeyEdges(t *testing.T) {
	s := NewSampler()
	s.KeyDown(common.KeyW)
	s.KeyDown(common.KeyRight)
	s.KeyDown(common.KeyLeftShift)

	in := s.Sample()
	assert.True(t, in.Forward)
	assert.True(t, in.Right)
	assert.True(t, in.Sprint)
	assert.False(t, in.Back)
	assert.Equal(t, common.V3(1, 0, -1), in.Direction())

	// held flags survive sampling
	assert.True(t, s.Sample().Forward)

	s.KeyUp(common.KeyW)
	s.KeyUp(common.KeyLeftShift)
	in = s.Sample()
	assert.False(t, in.Forward)
	assert.False(t, in.Sprint)
	assert.True(t, in.Right)
}

func TestOpposingKeysCancel(t *testing.T) {
	s := NewSampler()
	s.Press(ActionLeft)
	s.Press(ActionRight)
	in := s.Sample()
	assert.False(t, in.Moving())
	assert.True(t, in.Direction().IsZero())
}

func TestHopIsEdgeTriggered(t *testing.T) {
	s := NewSampler()
	s.KeyDown(common.KeySpace)
	assert.True(t, s.Sample().HopPressed)
	assert.False(t, s.Sample().HopPressed, "holding must not repeat the hop")

	// auto-repeat while held
	s.KeyDown(common.KeySpace)
	assert.False(t, s.Sample().HopPressed)

	s.KeyUp(common.KeySpace)
	assert.False(t, s.Sample().HopPressed)
	s.KeyDown(common.KeySpace)
	assert.True(t, s.Sample().HopPressed)
}

func TestHopTapBetweenSamplesStillFires(t *testing.T) {
	s := NewSampler()
	s.KeyDown(common.KeySpace)
	s.KeyUp(common.KeySpace)
	assert.True(t, s.Sample().HopPressed)
}

func TestSampleDrainsDeltas(t *testing.T) {
	s := NewSampler()
	s.MouseMove(100, 100)
	s.MouseDown(common.MouseButtonRight, 100, 100)
	s.MouseMove(110, 95)
	s.MouseMove(115, 90)
	s.Scroll(1)
	s.Scroll(0.5)

	in := s.Sample()
	assert.InDelta(t, 15, in.DragDX, 1e-6)
	assert.InDelta(t, -10, in.DragDY, 1e-6)
	assert.InDelta(t, 1.5, in.Wheel, 1e-6)
	assert.Equal(t, Point{X: 115, Y: 90}, in.Pointer)

	again := s.Sample()
	assert.Zero(t, again.DragDX)
	assert.Zero(t, again.DragDY)
	assert.Zero(t, again.Wheel)
}

func TestMoveWithoutDragDoesNotAccumulate(t *testing.T) {
	s := NewSampler()
	s.MouseMove(10, 10)
	s.MouseMove(50, 50)
	in := s.Sample()
	assert.Zero(t, in.DragDX)
	assert.Equal(t, Point{X: 50, Y: 50}, in.Pointer)

	s.MouseDown(common.MouseButtonRight, 50, 50)
	s.MouseUp(common.MouseButtonRight, 50, 50)
	s.MouseMove(60, 60)
	assert.Zero(t, s.Sample().DragDX)
}

func TestDragDisabled(t *testing.T) {
	s := NewSampler(WithDrag(false))
	s.MouseDown(common.MouseButtonRight, 0, 0)
	s.MouseMove(20, 0)
	assert.Zero(t, s.Sample().DragDX)
}

func TestDashRequestIsLatchedOnce(t *testing.T) {
	s := NewSampler()
	s.MouseDown(common.MouseButtonLeft, 320, 240)
	in := s.Sample()
	require.NotNil(t, in.Dash)
	assert.Equal(t, Point{X: 320, Y: 240}, *in.Dash)
	assert.Nil(t, s.Sample().Dash)
}

func TestStartAndRestartRequests(t *testing.T) {
	s := NewSampler()
	s.KeyDown(common.KeyEnter)
	s.KeyDown(common.KeyR)
	in := s.Sample()
	assert.True(t, in.Start)
	assert.True(t, in.Restart)
	in = s.Sample()
	assert.False(t, in.Start)
	assert.False(t, in.Restart)
}

func TestCustomBindings(t *testing.T) {
	s := NewSampler(WithBindings(Bindings{common.KeyC: ActionHop}), WithBinding(common.KeyUp, ActionBack))
	s.KeyDown(common.KeySpace)
	s.KeyDown(common.KeyUp)
	in := s.Sample()
	assert.False(t, in.HopPressed)
	assert.True(t, in.Back)

	s.KeyDown(common.KeyC)
	assert.True(t, s.Sample().HopPressed)
}

func TestDefaultBindingsAreNotShared(t *testing.T) {
	b := DefaultBindings()
	s := NewSampler(WithBindings(b))
	b[common.KeyW] = ActionNone
	s.KeyDown(common.KeyW)
	assert.True(t, s.Sample().Forward)
}

func TestAttachRoutesEvents(t *testing.T) {
	src := &fakeSource{}
	s := NewSampler()
	s.Attach(src)
	require.NotNil(t, src.keyDown)
	require.NotNil(t, src.scroll)

	src.keyDown(common.KeyA)
	src.mouseMove(5, 5)
	src.mouseDown(common.MouseButtonRight, 5, 5)
	src.mouseMove(8, 5)
	src.mouseUp(common.MouseButtonRight, 8, 5)
	src.scroll(-2)

	in := s.Sample()
	assert.True(t, in.Left)
	assert.InDelta(t, 3, in.DragDX, 1e-6)
	assert.InDelta(t, -2, in.Wheel, 1e-6)

	src.keyUp(common.KeyA)
	assert.False(t, s.Sample().Left)
}

func TestReset(t *testing.T) {
	s := NewSampler()
	s.Press(ActionForward)
	s.Press(ActionHop)
	s.Scroll(3)
	s.MouseDown(common.MouseButtonLeft, 1, 1)
	s.Reset()

	in := s.Sample()
	assert.False(t, in.Forward)
	assert.False(t, in.HopPressed)
	assert.Zero(t, in.Wheel)
	assert.Nil(t, in.Dash)
}

func TestConcurrentScrollAccumulates(t *testing.T) {
	s := NewSampler()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Scroll(1)
		}()
	}
	wg.Wait()
	assert.InDelta(t, 50, s.Sample().Wheel, 1e-6)
}

func TestWithoutRequestsKeepsHeldFlags(t *testing.T) {
	in := Intent{Forward: true, Sprint: true, HopPressed: true, Wheel: 2, Dash: &Point{}, Start: true}
	stripped := in.WithoutRequests()
	assert.True(t, stripped.Forward)
	assert.True(t, stripped.Sprint)
	assert.False(t, stripped.HopPressed)
	assert.Zero(t, stripped.Wheel)
	assert.Nil(t, stripped.Dash)
	assert.False(t, stripped.Start)
}

func TestActionNames(t *testing.T) {
	assert.Equal(t, "hop", ActionHop.String())
	assert.Equal(t, ActionSprint, ParseAction("sprint"))
	assert.Equal(t, ActionNone, ParseAction("fly"))
}
