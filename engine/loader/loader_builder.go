package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/sirupsen/logrus"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMesh is an option builder that pre-populates the mesh cache.
//
// Parameters:
//   - path: the cache key for the mesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(path string, m *model.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		if m != nil {
			l.meshCache[path] = m
		}
	}
}

// WithFS is an option builder that reads files from fsys instead of the operating system.
//
// Parameters:
//   - fsys: the file system paths are resolved against
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.readFile = func(path string) ([]byte, error) {
			return fs.ReadFile(fsys, path)
		}
	}
}

// WithTargetSize sets the largest extent meshes are normalized to when their file does not
// set one. Zero keeps the authored scale.
func WithTargetSize(size float32) LoaderBuilderOption {
	return func(l *loader) {
		if size >= 0 {
			l.targetSize = size
		}
	}
}

// WithWorkers sets the maximum number of pool workers decoding files.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger for load results.
func WithLogger(logger logrus.FieldLogger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
