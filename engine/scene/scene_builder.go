package scene

import (
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs in argument order.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj != nil {
				s.add(obj)
			}
		}
	}
}

// WithMesh registers a mesh under key.
func WithMesh(key string, m *model.Mesh) SceneBuilderOption {
	return func(s *scene) {
		s.meshRevision++
		s.meshes[key] = meshEntry{mesh: m, revision: s.meshRevision}
	}
}
