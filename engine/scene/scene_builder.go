package scene

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is advanced by the engine.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithComputeWorkers sets the number of worker goroutines used by PrepareFrame.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithInstancesPerAnimator sets how many instances of one Model share an Animator
// before the scene opens another. Smaller groups spread a crowd over more workers.
//
// Parameters:
//   - n: the instances per animator (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInstancesPerAnimator(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.instancesPerAnimator = n
	}
}

// WithObjects adds initial objects to the scene through Add, so each one is wired to an
// Animator instance. Every object must carry a Model.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.pending = append(s.pending, objects...)
	}
}
