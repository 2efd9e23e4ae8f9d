package scene

import (
	"slices"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
)

// Scene is a flat registry of GameObjects keyed by ID plus the meshes they reference by key.
// Iteration is always in ascending ID order so that update and draw order are stable
// from frame to frame. Thread-safe for concurrent access; the asset loader attaches
// meshes from worker goroutines while the frame driver reads.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Add adds a GameObject to the scene. Objects without an ID are assigned the next free one.
	//
	// Parameters:
	//   - obj: the object to add; nil is ignored
	//
	// Returns:
	//   - uint64: the object's ID, or 0 for nil
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Find returns the first object with the given name in ID order, or nil.
	Find(name string) game_object.GameObject

	// FirstOfKind returns the lowest-ID object of the given kind, or nil.
	//
	// Parameters:
	//   - kind: the tag to look for
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	FirstOfKind(kind game_object.Kind) game_object.GameObject

	// Remove deletes the object with the given ID. Unknown IDs are ignored.
	Remove(id uint64)

	// Clear removes every object. Meshes are kept.
	Clear()

	// Count returns the number of persistent objects.
	Count() int

	// CountEphemeral returns the number of ephemeral objects such as particles.
	CountEphemeral() int

	// Objects returns a snapshot of all objects in ascending ID order.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// AddMesh registers or replaces a mesh under key and bumps its revision.
	//
	// Parameters:
	//   - key: the lookup key objects refer to
	//   - m: the mesh
	AddMesh(key string, m *model.Mesh)

	// Mesh returns the mesh registered under key, or nil.
	Mesh(key string) *model.Mesh

	// MeshRevision returns a counter that increases every time the mesh under key is replaced.
	// Zero means no such mesh.
	MeshRevision(key string) uint64

	// MeshKeys returns all registered mesh keys, sorted.
	MeshKeys() []string

	// Animate advances the constant spin and drift of every enabled object.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Animate(dt float32)
}

type meshEntry struct {
	mesh     *model.Mesh
	revision uint64
}

type scene struct {
	mu *sync.RWMutex

	name    string
	nextID  uint64
	objects map[uint64]game_object.GameObject
	order   []uint64

	meshes       map[string]meshEntry
	meshRevision uint64
}

var _ Scene = &scene{}

// NewScene creates an empty scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:      &sync.RWMutex{},
		name:    "main",
		nextID:  1,
		objects: make(map[uint64]game_object.GameObject),
		meshes:  make(map[string]meshEntry),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add registers obj. Caller must hold the write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	if _, exists := s.objects[id]; !exists {
		i, _ := slices.BinarySearch(s.order, id)
		s.order = slices.Insert(s.order, i, id)
	}
	s.objects[id] = obj
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[id]
}

func (s *scene) Find(name string) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if obj := s.objects[id]; obj.Name() == name {
			return obj
		}
	}
	return nil
}

func (s *scene) FirstOfKind(kind game_object.Kind) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if obj := s.objects[id]; obj.Kind() == kind {
			return obj
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[uint64]game_object.GameObject)
	s.order = nil
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countPersistent()
}

func (s *scene) CountEphemeral() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects) - s.countPersistent()
}

// countPersistent counts non-ephemeral objects. Caller must hold a lock.
func (s *scene) countPersistent() int {
	n := 0
	for _, obj := range s.objects {
		if !obj.Ephemeral() {
			n++
		}
	}
	return n
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id])
	}
	return out
}

func (s *scene) AddMesh(key string, m *model.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshRevision++
	s.meshes[key] = meshEntry{mesh: m, revision: s.meshRevision}
}

func (s *scene) Mesh(key string) *model.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meshes[key].mesh
}

func (s *scene) MeshRevision(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meshes[key].revision
}

func (s *scene) MeshKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.meshes))
	for k := range s.meshes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *scene) Animate(dt float32) {
	for _, obj := range s.Objects() {
		if obj.Enabled() {
			obj.Animate(dt)
		}
	}
}
