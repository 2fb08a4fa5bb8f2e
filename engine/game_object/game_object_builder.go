package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled.
//
// Parameters:
//   - enabled: true to animate the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithEphemeral marks the GameObject as ephemeral. Ephemeral objects are not
// persisted in the scene's registry when added via Scene.Add. The scene only
// ensures the object's animator instance is created.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Ephemeral flag
func WithEphemeral(ephemeral bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.ephemeral = ephemeral
	}
}

// WithModel sets the Model for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithPosition sets the initial position of the GameObject before it is added to a Scene.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialTransform.Translation = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the initial scale of the GameObject before it is added to a Scene.
//
// Parameters:
//   - sx: the x scale
//   - sy: the y scale
//   - sz: the z scale
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialTransform.Scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithOrientation sets the initial orientation of the GameObject before it is added to a Scene.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial orientation
func WithOrientation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialTransform.Orientation = q
	}
}

// WithClip sets the clip the Scene starts playing when the object is added.
// The name is resolved against the object's Model at that time.
//
// Parameters:
//   - name: the clip name
//   - loop: whether playback loops
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial clip
func WithClip(name string, loop bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialClip = name
		obj.initialLoop = loop
	}
}

// WithSpeed sets the initial playback speed multiplier.
//
// Parameters:
//   - speed: the speed multiplier
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial speed
func WithSpeed(speed float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialSpeed = speed
	}
}
