package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/debug"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/light"
	"github.com/Carmen-Shannon/oxy-chase/engine/profiler"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/Carmen-Shannon/oxy-chase/engine/window"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyRunning is returned by Run while another Run is active.
var ErrAlreadyRunning = errors.New("engine: already running")

// FrameReport describes one iteration of the frame loop.
type FrameReport struct {
	Frame      uint64
	LogicSteps int
	Events     []game.Event
	Render     renderer.FrameStats
}

// engine implements the Engine interface.
// All work happens on the goroutine that calls Run or Step.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	scene    scene.Scene
	camera   camera.Camera
	renderer renderer.Renderer
	sampler  input.Sampler
	game     game.Controller
	rig      light.Rig
	hub      debug.Hub
	logger   logrus.FieldLogger

	profiler         *profiler.Profiler
	profilingEnabled bool

	clock      clock
	now        func() time.Time
	frameLimit uint64
	frameCap   time.Duration

	frame    uint64
	failures uint64
	elapsed  float64
	closing  bool

	running atomic.Bool
	// stopCh is closed by Stop and replaced when the Run it ended returns.
	stopCh chan struct{}
}

// Engine drives the game: each iteration polls the window, samples input, moves the
// camera, advances game logic under the timestep policy and renders one frame.
type Engine interface {
	// Run loops until ctx is cancelled, Stop is called, the window closes or the render
	// frame limit is reached.
	//
	// Parameters:
	//   - ctx: cancelling it ends the loop
	//
	// Returns:
	//   - error: ErrAlreadyRunning if another Run is active, ctx.Err() on cancellation, otherwise nil
	Run(ctx context.Context) error

	// Stop ends the active Run, or the next one if none is active. Safe to call multiple
	// times and from any goroutine. The engine can be run again after a stopped Run returns.
	Stop()

	// Step performs exactly one iteration with an explicit delta.
	//
	// Parameters:
	//   - dt: the frame delta in seconds, clamped to MaxFrameDelta
	//
	// Returns:
	//   - FrameReport: what the iteration did
	//   - error: the render error, if any
	Step(dt float32) (FrameReport, error)

	// Resize propagates a new surface size to the renderer and camera. Zero sizes are ignored.
	Resize(width, height int)

	// Frame returns the number of completed iterations.
	Frame() uint64

	// Failures returns the number of iterations whose render returned an error.
	Failures() uint64

	// Remainder returns the real time the fixed timestep has not yet consumed.
	// Only meaningful on the frame goroutine.
	Remainder() float64

	Scene() scene.Scene
	Camera() camera.Camera
	Renderer() renderer.Renderer
	Game() game.Controller
	Sampler() input.Sampler
	Window() window.Window
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Missing parts get defaults: an empty scene, a perspective camera without a
// controller, the default light rig, a sampler and a game controller over the scene.
// Without a renderer the engine runs logic only.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:     &sync.Mutex{},
		logger: logrus.StandardLogger(),
		clock:  clock{policy: Fixed(60)},
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil {
		e.scene = scene.NewScene()
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.rig == nil {
		e.rig = light.NewRig()
	}
	if e.sampler == nil {
		e.sampler = input.NewSampler()
	}
	if e.game == nil {
		e.game = game.NewController(e.scene, game.WithLogger(e.logger))
	}
	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.sampler.Attach(e.window)
		e.window.SetResizeCallback(e.Resize)
		e.Resize(e.window.Width(), e.window.Height())
	}

	return e
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)
	defer e.rearm()
	stop := e.stopChannel()

	log := e.logger.WithField("timestep", e.clock.policy.Mode.String())
	log.Info("engine started")
	defer func() {
		log.WithFields(logrus.Fields{"frame": e.Frame(), "failures": e.Failures()}).Info("engine stopped")
	}()

	last := e.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		start := e.now()
		dt := start.Sub(last)
		last = start

		if _, err := e.Step(float32(dt.Seconds())); err != nil {
			log.WithError(err).WithField("frame", e.Frame()).Debug("frame failed")
		}

		if e.isClosing() {
			return nil
		}
		if e.frameLimit > 0 && e.Frame() >= e.frameLimit {
			return nil
		}

		if e.frameCap > 0 {
			if remaining := e.frameCap - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.stopCh:
	default:
		close(e.stopCh)
	}
}

func (e *engine) stopChannel() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopCh
}

// rearm replaces a closed stop channel so a later Run is not ended by an old Stop.
func (e *engine) rearm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.stopCh:
		e.stopCh = make(chan struct{})
	default:
	}
}

func (e *engine) Step(dt float32) (FrameReport, error) {
	if e.window != nil && !e.window.PollEvents() {
		e.mu.Lock()
		e.closing = true
		e.mu.Unlock()
	}

	intent := e.sampler.Sample()

	ctrl := e.camera.Controller()
	if ctrl != nil {
		if intent.DragDX != 0 || intent.DragDY != 0 {
			ctrl.Rotate(intent.DragDX, intent.DragDY)
		}
		if intent.Wheel != 0 {
			ctrl.Zoom(intent.Wheel)
		}
	}

	steps := e.clock.advance(float64(dt))
	report := FrameReport{LogicSteps: len(steps)}
	var frameDt float32
	for i, step := range steps {
		in := intent
		if i > 0 {
			in = intent.WithoutRequests()
		}
		report.Events = append(report.Events, e.game.Update(step, in)...)
		frameDt += step
	}
	if len(steps) == 0 && hasRequests(intent) {
		// One-shot requests are consumed by Sample and must not be lost on a frame without steps.
		report.Events = append(report.Events, e.game.Update(0, intent)...)
	}
	e.scene.Animate(frameDt)

	player := e.scene.FirstOfKind(game_object.KindPlayer)
	if ctrl != nil && player != nil {
		ctrl.Follow(player.Position())
	}
	e.camera.Update()

	e.mu.Lock()
	e.elapsed += float64(frameDt)
	elapsed := e.elapsed
	e.mu.Unlock()

	var err error
	if e.renderer != nil {
		report.Render, err = e.renderer.RenderFrame(e.scene, e.camera, e.rig.Evaluate(float32(elapsed)))
	}

	e.mu.Lock()
	e.frame++
	if err != nil {
		e.failures++
	}
	report.Frame = e.frame
	e.mu.Unlock()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(report.LogicSteps)
	}
	if e.hub != nil {
		e.hub.Publish(e.snapshot(report))
	}
	return report, err
}

func hasRequests(in input.Intent) bool {
	return in.HopPressed || in.Dash != nil || in.Start || in.Restart
}

func (e *engine) snapshot(report FrameReport) debug.Snapshot {
	s := debug.Snapshot{
		Session: e.game.Session(),
		Frame:   report.Frame,
		Events:  report.Events,
	}
	if p := e.scene.FirstOfKind(game_object.KindPlayer); p != nil {
		s.Player = p.Position()
	}
	if p := e.scene.FirstOfKind(game_object.KindPursuer); p != nil {
		s.Pursuer = p.Position()
	}
	return s
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{"width": width, "height": height}).Warn("resize failed")
		}
	}
	e.camera.SetAspect(float32(width) / float32(height))
}

func (e *engine) isClosing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closing
}

func (e *engine) Frame() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *engine) Failures() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failures
}

func (e *engine) Remainder() float64 {
	return e.clock.remainder()
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Game() game.Controller {
	return e.game
}

func (e *engine) Sampler() input.Sampler {
	return e.sampler
}

func (e *engine) Window() window.Window {
	return e.window
}

// ScreenRayCaster returns a game.RayCaster that projects the pointer through cam using
// the renderer's current surface size.
//
// Parameters:
//   - cam: the camera to cast through
//   - r: the renderer whose size defines the screen
//
// Returns:
//   - game.RayCaster: the caster; it reports false until the renderer has a size
func ScreenRayCaster(cam camera.Camera, r renderer.Renderer) game.RayCaster {
	return func(p input.Point) (common.Ray, bool) {
		if cam == nil || r == nil {
			return common.Ray{}, false
		}
		w, h := r.Size()
		if w <= 0 || h <= 0 {
			return common.Ray{}, false
		}
		return cam.ScreenRay(p.X, p.Y, float32(w), float32(h)), true
	}
}
