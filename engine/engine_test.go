package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/debug"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGame captures every Update call.
type recordingGame struct {
	mu      sync.Mutex
	dts     []float32
	intents []input.Intent
}

var _ game.Controller = &recordingGame{}

func (g *recordingGame) Session() game.Session     { return game.Session{} }
func (g *recordingGame) Tuning() game.Tuning       { return game.DefaultTuning() }
func (g *recordingGame) Start() bool               { return true }
func (g *recordingGame) Restart() bool             { return false }
func (g *recordingGame) SetObserver(game.Observer) {}
func (g *recordingGame) Effects() game.Effects     { return nil }

func (g *recordingGame) Update(dt float32, in input.Intent) []game.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dts = append(g.dts, dt)
	g.intents = append(g.intents, in)
	return nil
}

// fakeWindow reports a resize on the second poll and closes after closeAt polls.
type fakeWindow struct {
	polls    int
	closeAt  int
	width    int
	height   int
	onResize func(width, height int)
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(func(delta float32))        {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))      {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}

func (w *fakeWindow) SetMouseDownCallback(func(button int, x, y float32)) {}
func (w *fakeWindow) SetMouseUpCallback(func(button int, x, y float32))   {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y float32))             {}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool                            { return w.polls < w.closeAt }
func (w *fakeWindow) Close() error                               { return nil }
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	if w.polls == 2 && w.onResize != nil {
		w.onResize(400, 200)
	}
	return w.polls < w.closeAt
}

// steppedClock advances by step every time it is read.
func steppedClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	rec := renderer.NewRecordingBackend()
	r, err := renderer.NewRenderer(renderer.BackendTypeRecording, nil, renderer.WithBackend(rec), renderer.WithLogger(nullLogger()))
	require.NoError(t, err)
	require.NoError(t, r.Init(640, 480))
	return r
}

func newChaseEngine(t *testing.T, options ...EngineBuilderOption) Engine {
	t.Helper()
	sc := scene.NewScene()
	game.PopulateScene(sc, game.DefaultTuning())
	cam := camera.NewCamera(camera.WithController(camera.NewController(camera.ModeOrbit)))
	opts := append([]EngineBuilderOption{
		WithLogger(nullLogger()),
		WithScene(sc),
		WithRenderer(newRenderer(t)),
		WithCamera(cam),
	}, options...)
	return NewEngine(opts...)
}

func TestFixedTimestepRunsWholeSteps(t *testing.T) {
	c := clock{policy: Fixed(60)}
	steps := c.advance(0.05)
	require.Len(t, steps, 3)
	for _, s := range steps {
		assert.InDelta(t, 1.0/60, s, 1e-7)
	}
	assert.InDelta(t, 0, c.remainder(), 1e-6)

	assert.Empty(t, c.advance(0.01))
	assert.InDelta(t, 0.01, c.remainder(), 1e-9)
	assert.Len(t, c.advance(0.01), 1)
}

func TestFrameDeltaIsClamped(t *testing.T) {
	c := clock{policy: Fixed(60)}
	assert.Len(t, c.advance(3), 15)

	v := clock{policy: Variable()}
	assert.Equal(t, []float32{0.25}, v.advance(10))
	assert.Equal(t, []float32{0}, v.advance(-1))
	assert.Equal(t, []float32{0.02}, v.advance(0.02))
}

func TestFixedDefaultsToSixtyHertz(t *testing.T) {
	assert.InDelta(t, 1.0/60, Fixed(0).Step, 1e-12)
	assert.Equal(t, "variable", Variable().Mode.String())
	assert.Equal(t, "fixed", Fixed(30).Mode.String())
}

func TestIntentAppliesToFirstStepOnly(t *testing.T) {
	g := &recordingGame{}
	s := input.NewSampler()
	e := NewEngine(WithGame(g), WithSampler(s), WithLogger(nullLogger()))

	s.Press(input.ActionForward)
	s.Press(input.ActionHop)
	s.Press(input.ActionStart)
	report, err := e.Step(0.05)
	require.NoError(t, err)

	assert.Equal(t, 3, report.LogicSteps)
	require.Len(t, g.intents, 3)
	assert.True(t, g.intents[0].Start)
	assert.True(t, g.intents[0].HopPressed)
	for _, in := range g.intents[1:] {
		assert.False(t, in.Start)
		assert.False(t, in.HopPressed)
		assert.True(t, in.Forward, "held keys carry over to later steps")
	}
}

func TestRequestsSurviveFramesWithoutSteps(t *testing.T) {
	g := &recordingGame{}
	s := input.NewSampler()
	e := NewEngine(WithGame(g), WithSampler(s), WithLogger(nullLogger()))

	_, err := e.Step(0.001)
	require.NoError(t, err)
	assert.Empty(t, g.intents)

	s.Press(input.ActionStart)
	_, err = e.Step(0.001)
	require.NoError(t, err)
	require.Len(t, g.intents, 1)
	assert.True(t, g.intents[0].Start)
	assert.Zero(t, g.dts[0])
}

func TestVariableTimestepUsesFrameDelta(t *testing.T) {
	g := &recordingGame{}
	e := NewEngine(WithGame(g), WithTimestep(Variable()), WithLogger(nullLogger()))
	_, err := e.Step(0.033)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.033}, g.dts)
}

func TestStepRendersAndRecolors(t *testing.T) {
	e := newChaseEngine(t)
	e.Sampler().Press(input.ActionStart)

	var report FrameReport
	var err error
	for i := 0; i < 12; i++ {
		report, err = e.Step(1.0 / 60)
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(12), e.Frame())
	assert.Equal(t, uint64(12), report.Frame)
	assert.Equal(t, game.PhasePlaying, e.Game().Session().Phase)
	assert.True(t, e.Renderer().Recolored())
	assert.Equal(t, renderer.SuccessColor, report.Render.Clear)
	assert.Positive(t, report.Render.Draws)
	assert.Zero(t, e.Failures())
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	e := newChaseEngine(t, WithRenderFrameLimit(5), WithClock(steppedClock(time.Second/60)))
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(5), e.Frame())
}

func TestRunRejectsSecondRunAndStops(t *testing.T) {
	e := newChaseEngine(t, WithClock(steppedClock(time.Millisecond)))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	require.Eventually(t, func() bool { return e.(*engine).running.Load() }, 2*time.Second, time.Millisecond)
	assert.ErrorIs(t, e.Run(context.Background()), ErrAlreadyRunning)

	e.Stop()
	e.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRunAgainAfterStop(t *testing.T) {
	e := newChaseEngine(t, WithClock(steppedClock(time.Millisecond)))

	runUntilStopped := func() {
		t.Helper()
		done := make(chan error, 1)
		from := e.Frame()
		go func() { done <- e.Run(context.Background()) }()
		require.Eventually(t, func() bool { return e.Frame() > from+2 }, 2*time.Second, time.Millisecond)
		e.Stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("engine did not stop")
		}
	}

	runUntilStopped()
	first := e.Frame()
	runUntilStopped()
	assert.Greater(t, e.Frame(), first+2)
}

func TestStopBeforeRunEndsNextRun(t *testing.T) {
	e := newChaseEngine(t, WithClock(steppedClock(time.Millisecond)))
	e.Stop()
	require.NoError(t, e.Run(context.Background()))

	// the pending stop was consumed
	e2 := e.(*engine)
	select {
	case <-e2.stopChannel():
		t.Fatal("stop channel still closed after Run returned")
	default:
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	e := newChaseEngine(t, WithClock(steppedClock(time.Millisecond)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWindowCloseEndsRunAndResizeIsWired(t *testing.T) {
	w := &fakeWindow{closeAt: 3, width: 800, height: 400}
	e := newChaseEngine(t, WithWindow(w), WithClock(steppedClock(time.Second/60)))

	width, height := e.Renderer().Size()
	assert.Equal(t, 800, width)
	assert.Equal(t, 400, height)
	assert.InDelta(t, 2, e.Camera().Aspect(), 1e-6)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(3), e.Frame())

	width, height = e.Renderer().Size()
	assert.Equal(t, 400, width)
	assert.Equal(t, 200, height)
	assert.InDelta(t, 2, e.Camera().Aspect(), 1e-6)
}

func TestResizeIgnoresZeroSizes(t *testing.T) {
	e := newChaseEngine(t)
	e.Resize(300, 100)
	e.Resize(0, 100)
	e.Resize(300, 0)

	width, height := e.Renderer().Size()
	assert.Equal(t, 300, width)
	assert.Equal(t, 100, height)
	assert.InDelta(t, 3, e.Camera().Aspect(), 1e-6)
}

func TestDebugHubReceivesSnapshots(t *testing.T) {
	hub := debug.NewHub(4)
	e := newChaseEngine(t, WithDebugHub(hub))
	e.Sampler().Press(input.ActionStart)
	_, err := e.Step(1.0 / 60)
	require.NoError(t, err)

	snap, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Equal(t, game.PhasePlaying, snap.Phase)
	assert.Equal(t, e.Scene().FirstOfKind(game_object.KindPlayer).Position(), snap.Player)
	assert.Equal(t, e.Scene().FirstOfKind(game_object.KindPursuer).Position(), snap.Pursuer)
	require.NotEmpty(t, snap.Events)
	assert.Equal(t, game.EventStart, snap.Events[0].Kind)
}

func TestScreenRayCasterNeedsSize(t *testing.T) {
	cam := camera.NewCamera(camera.WithController(camera.NewController(camera.ModeOrbit)))
	rc := ScreenRayCaster(cam, newRenderer(t))
	ray, ok := rc(input.Point{X: 320, Y: 240})
	require.True(t, ok)
	assert.InDelta(t, 1, ray.Dir.Length(), 1e-5)

	_, ok = ScreenRayCaster(cam, nil)(input.Point{})
	assert.False(t, ok)
}

func TestParseTimestep(t *testing.T) {
	ts, err := ParseTimestep("", 30)
	require.NoError(t, err)
	assert.Equal(t, Fixed(30), ts)

	ts, err = ParseTimestep("variable", 30)
	require.NoError(t, err)
	assert.Equal(t, TimestepVariable, ts.Mode)

	_, err = ParseTimestep("lockstep", 30)
	assert.Error(t, err)
}
