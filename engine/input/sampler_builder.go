package input

// SamplerBuilderOption is a functional option for configuring a Sampler.
// Use the With* functions to create options.
type SamplerBuilderOption func(s *sampler)

// WithBindings replaces the default key bindings.
//
// Parameters:
//   - bindings: key code to action map; copied
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithBindings(bindings Bindings) SamplerBuilderOption {
	return func(s *sampler) {
		s.bindings = bindings.Clone()
	}
}

// WithBinding binds a single key, replacing any previous binding for it.
//
// Parameters:
//   - keyCode: the virtual key code
//   - action: the action to trigger
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithBinding(keyCode uint32, action Action) SamplerBuilderOption {
	return func(s *sampler) {
		if s.bindings == nil {
			s.bindings = Bindings{}
		}
		s.bindings[keyCode] = action
	}
}

// WithDragButton sets the mouse button that drags the camera.
func WithDragButton(button int) SamplerBuilderOption {
	return func(s *sampler) {
		s.dragButton = button
	}
}

// WithDashButton sets the mouse button that queues a dash.
func WithDashButton(button int) SamplerBuilderOption {
	return func(s *sampler) {
		s.dashButton = button
	}
}

// WithDrag enables or disables camera dragging. Fixed cameras have nothing to drag.
func WithDrag(enabled bool) SamplerBuilderOption {
	return func(s *sampler) {
		s.dragEnabled = enabled
	}
}
