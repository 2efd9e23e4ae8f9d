package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/debug"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/light"
	"github.com/Carmen-Shannon/oxy-chase/engine/profiler"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/Carmen-Shannon/oxy-chase/engine/window"
	"github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, a profiler reports frame and memory statistics once per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler installs a preconfigured profiler and enables profiling.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
		e.profilingEnabled = p != nil
	}
}

// WithTickRate selects the fixed timestep at the given logic rate.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - hz: logic steps per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock{policy: Fixed(hz)}
	}
}

// WithTimestep sets the logic update policy.
//
// Parameters:
//   - ts: Fixed(hz) or Variable()
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTimestep(ts Timestep) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock{policy: ts}
	}
}

// WithWindow sets the window the engine polls, samples input from and follows resizes of.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene the engine animates and renders.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithCamera sets the camera.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRenderer sets an initialized renderer. Without one the engine runs logic only.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSampler sets the input sampler.
func WithSampler(s input.Sampler) EngineBuilderOption {
	return func(e *engine) {
		e.sampler = s
	}
}

// WithGame sets the game controller. It should operate on the same scene as the engine.
func WithGame(g game.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.game = g
	}
}

// WithLightRig sets the light rig evaluated every frame.
func WithLightRig(r light.Rig) EngineBuilderOption {
	return func(e *engine) {
		e.rig = r
	}
}

// WithDebugHub publishes a snapshot to hub after every frame.
func WithDebugHub(hub debug.Hub) EngineBuilderOption {
	return func(e *engine) {
		e.hub = hub
	}
}

// WithClock replaces time.Now for the Run loop.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine logger. It is also handed to the default game controller.
func WithLogger(logger logrus.FieldLogger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRenderFrameLimit makes Run return after n frames. Pass 0 for no limit (default).
//
// Parameters:
//   - n: number of frames to render
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(n uint64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit = n
	}
}

// WithMaxFPS sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxFPS(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameCap = 0
			return
		}
		e.frameCap = time.Duration(float64(time.Second) / fps)
	}
}
