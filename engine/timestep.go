package engine

import (
	"fmt"
	"time"
)

// MaxFrameDelta caps the wall time a single frame may feed into game logic, so a stall
// (debugger, dragged window) does not turn into a burst of catch-up steps.
const MaxFrameDelta = 250 * time.Millisecond

// TimestepMode selects how real time is converted into logic steps.
type TimestepMode int

const (
	// TimestepFixed runs zero or more steps of exactly Timestep.Step seconds per frame.
	TimestepFixed TimestepMode = iota
	// TimestepVariable runs exactly one step with the measured frame delta.
	TimestepVariable
)

func (m TimestepMode) String() string {
	if m == TimestepVariable {
		return "variable"
	}
	return "fixed"
}

// Timestep is a logic update policy.
type Timestep struct {
	Mode TimestepMode
	Step float64
}

// accumulatorEpsilon absorbs float rounding so that n*step of wall time yields n steps.
const accumulatorEpsilon = 1e-9

// Fixed returns a fixed-step policy running hz logic steps per second.
// Values <= 0 fall back to 60 Hz.
//
// Parameters:
//   - hz: logic steps per second
//
// Returns:
//   - Timestep: the fixed policy
func Fixed(hz float64) Timestep {
	if hz <= 0 {
		hz = 60
	}
	return Timestep{Mode: TimestepFixed, Step: 1 / hz}
}

// Variable returns the one-step-per-frame policy.
func Variable() Timestep {
	return Timestep{Mode: TimestepVariable}
}

// clock turns frame deltas into logic step durations under a Timestep.
type clock struct {
	policy      Timestep
	accumulator float64
}

// advance feeds dt seconds of real time and returns the step durations to run, in order.
// dt is clamped to [0, MaxFrameDelta].
func (c *clock) advance(dt float64) []float32 {
	if dt < 0 || dt != dt {
		dt = 0
	}
	if limit := MaxFrameDelta.Seconds(); dt > limit {
		dt = limit
	}

	if c.policy.Mode == TimestepVariable || c.policy.Step <= 0 {
		return []float32{float32(dt)}
	}

	c.accumulator += dt
	var steps []float32
	for c.accumulator+accumulatorEpsilon >= c.policy.Step {
		c.accumulator -= c.policy.Step
		steps = append(steps, float32(c.policy.Step))
	}
	if c.accumulator < accumulatorEpsilon {
		c.accumulator = 0
	}
	return steps
}

// remainder returns the real time not yet consumed by fixed steps.
func (c *clock) remainder() float64 {
	return c.accumulator
}

// ParseTimestep builds a policy from its configuration name.
//
// Parameters:
//   - mode: "fixed" or "variable"; empty means fixed
//   - hz: the logic rate for the fixed policy
//
// Returns:
//   - Timestep: the policy
//   - error: error if mode is unknown
func ParseTimestep(mode string, hz float64) (Timestep, error) {
	switch mode {
	case "", "fixed":
		return Fixed(hz), nil
	case "variable":
		return Variable(), nil
	default:
		return Timestep{}, fmt.Errorf("engine: unknown timestep %q", mode)
	}
}
