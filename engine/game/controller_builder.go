package game

import "github.com/sirupsen/logrus"

// ControllerBuilderOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerBuilderOption func(c *controller)

// WithTuning replaces the default gameplay constants.
//
// Parameters:
//   - t: the tuning to use
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithTuning(t Tuning) ControllerBuilderOption {
	return func(c *controller) {
		c.tuning = t
	}
}

// WithRayCaster sets how pointer positions become world rays for the dash.
// Without one every dash is rejected.
//
// Parameters:
//   - rc: the ray caster
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithRayCaster(rc RayCaster) ControllerBuilderOption {
	return func(c *controller) {
		c.rayCaster = rc
	}
}

// WithObserver installs an event hook.
func WithObserver(o Observer) ControllerBuilderOption {
	return func(c *controller) {
		c.observer = o
	}
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) ControllerBuilderOption {
	return func(c *controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithEffects replaces the particle spawner.
func WithEffects(e Effects) ControllerBuilderOption {
	return func(c *controller) {
		c.effects = e
	}
}
