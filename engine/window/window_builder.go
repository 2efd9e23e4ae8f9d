package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size in screen coordinates. Non-positive values keep the default.
//
// Parameters:
//   - width: initial width
//   - height: initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithMinSize sets the smallest size the user can shrink the window to.
// Zero keeps the default for that axis.
//
// Parameters:
//   - width: minimum width
//   - height: minimum height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = pickLimit(width, w.minWidth)
		w.minHeight = pickLimit(height, w.minHeight)
	}
}

// WithMaxSize sets the largest size the user can grow the window to.
// Zero keeps the default for that axis.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = pickLimit(width, w.maxWidth)
		w.maxHeight = pickLimit(height, w.maxHeight)
	}
}

func pickLimit(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
