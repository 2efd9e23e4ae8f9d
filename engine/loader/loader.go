package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no backend decodes.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrUnknownEntity is returned by LoadInto when the target entity is not in the scene.
	ErrUnknownEntity = errors.New("entity not in scene")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("loader closed")
)

// DefaultTargetSize is the largest extent a loaded mesh is normalized to when the file does not set one.
const DefaultTargetSize = 1.5

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	meshCache  map[string]*model.Mesh
	backends   map[string]loaderBackend
	readFile   func(path string) ([]byte, error)
	targetSize float32
	logger     logrus.FieldLogger

	workers int
	pool    worker.DynamicWorkerPool
	taskID  atomic.Int64
	closed  atomic.Bool
}

// Loader decodes mesh files off the frame goroutine and caches the results by path.
// Loading is never fatal to the caller: LoadInto leaves the scene untouched on any failure.
type Loader interface {
	// Load decodes, validates and normalizes the mesh at path. The format is chosen by
	// extension (.yaml, .yml or .json). Decoding runs on the worker pool; Load blocks until
	// the mesh is ready or ctx is done. A cached mesh is returned without touching the file.
	//
	// Parameters:
	//   - ctx: bounds the wait for the worker pool
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - *model.Mesh: the loaded mesh
	//   - error: error if loading fails
	Load(ctx context.Context, path string) (*model.Mesh, error)

	// LoadInto loads the mesh at path, registers it in sc under the path and binds entity
	// id to it. On failure a warning is logged, the scene is not modified and the error is
	// returned so the caller can carry on with the placeholder.
	//
	// Parameters:
	//   - ctx: bounds the wait for the worker pool
	//   - sc: the scene holding the entity
	//   - id: the entity to attach the mesh to
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - error: error if loading or attaching fails
	LoadInto(ctx context.Context, sc scene.Scene, id uint64, path string) error

	// Get retrieves a cached mesh by path. Returns nil if not found.
	Get(path string) *model.Mesh

	// Close stops the worker pool. Later loads return ErrClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with YAML and JSON backends and the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:        &sync.RWMutex{},
		meshCache: make(map[string]*model.Mesh),
		backends: map[string]loaderBackend{
			".yaml": yamlLoaderBackend{},
			".yml":  yamlLoaderBackend{},
			".json": jsonLoaderBackend{},
		},
		readFile:   os.ReadFile,
		targetSize: DefaultTargetSize,
		logger:     logrus.StandardLogger(),
		workers:    2,
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, time.Second)
	return l
}

type result struct {
	mesh *model.Mesh
	err  error
}

func (l *loader) Load(ctx context.Context, path string) (*model.Mesh, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	done := make(chan result, 1)
	l.pool.SubmitTask(worker.Task{
		ID:      int(l.taskID.Add(1)),
		Payload: path,
		Do: func() (any, error) {
			m, err := l.decode(backend, path)
			done <- result{mesh: m, err: err}
			return m, err
		},
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, res.err)
		}
		l.mu.Lock()
		if cached, ok := l.meshCache[path]; ok {
			res.mesh = cached
		} else {
			l.meshCache[path] = res.mesh
		}
		l.mu.Unlock()
		return res.mesh, nil
	}
}

// decode reads and builds the mesh. Runs on a pool worker.
func (l *loader) decode(backend loaderBackend, path string) (*model.Mesh, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	imported, err := backend.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if imported.Name == "" {
		imported.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return imported.Build(l.targetSize)
}

func (l *loader) LoadInto(ctx context.Context, sc scene.Scene, id uint64, path string) error {
	log := l.logger.WithFields(logrus.Fields{"path": path, "entity": id})

	if sc == nil || sc.Get(id) == nil {
		log.Warn("mesh load skipped, entity not in scene")
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}

	m, err := l.Load(ctx, path)
	if err != nil {
		log.WithError(err).Warn("mesh load failed, keeping placeholder")
		return err
	}

	obj := sc.Get(id)
	if obj == nil {
		log.Warn("entity removed while loading, mesh discarded")
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	sc.AddMesh(path, m)
	obj.SetMesh(path)
	log.WithField("indices", m.IndexCount()).Info("mesh loaded")
	return nil
}

func (l *loader) Get(path string) *model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[path]
}

func (l *loader) Close() {
	if l.closed.Swap(true) {
		return
	}
	l.pool.Stop()
}

// resolveBackend selects the backend for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if b, ok := l.backends[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
