package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id                 uint64
	enabled            atomic.Bool
	ephemeral          bool
	mdl                model.Model
	animator           animator.Animator
	animatorInstanceID int

	// state used before the object is added to a Scene
	initialTransform skeleton.Transform
	initialClip      string
	initialLoop      bool
	initialSpeed     float32
}

// GameObject defines the interface for an animated entity bound to an Animator instance.
// The world transform and playback state live in the Animator and are reached through
// the animatorInstanceID; before the object joins a Scene they are buffered locally.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral returns whether this object is ephemeral.
	// Ephemeral objects are not persisted in the scene's registry when added.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Animator returns the Animator associated with this object.
	//
	// Returns:
	//   - animator.Animator: the associated Animator, or nil
	Animator() animator.Animator

	// AnimatorInstanceID returns the instance index within the Animator.
	//
	// Returns:
	//   - int: the instance index, or -1 if unset
	AnimatorInstanceID() int

	// Transform returns the object's world transform.
	//
	// Returns:
	//   - skeleton.Transform: the world transform
	Transform() skeleton.Transform

	// SetTransform replaces the object's world transform.
	//
	// Parameters:
	//   - t: the new world transform
	SetTransform(t skeleton.Transform)

	// Position returns the world translation.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition updates the world translation, preserving orientation and scale.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Orientation returns the world orientation.
	//
	// Returns:
	//   - mgl32.Quat: the orientation
	Orientation() mgl32.Quat

	// SetOrientation updates the world orientation, preserving translation and scale.
	//
	// Parameters:
	//   - q: the new orientation
	SetOrientation(q mgl32.Quat)

	// Scale returns the world scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetScale updates the world scale, preserving translation and orientation.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// WorldMatrix returns the object's world transform as a matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Play starts the named clip. Before the object joins a Scene the request is recorded
	// and applied when the Scene adds the instance.
	//
	// Parameters:
	//   - clip: the clip name
	//   - loop: whether playback loops
	//
	// Returns:
	//   - bool: false if the object's model has no clip with that name
	Play(clip string, loop bool) bool

	// BlendTo cross-fades into the named clip over the given number of seconds.
	//
	// Parameters:
	//   - clip: the clip name
	//   - seconds: the blend duration
	//
	// Returns:
	//   - bool: false if the object is not animated yet or the clip does not exist
	BlendTo(clip string, seconds float32) bool

	// InitialPlayback returns the playback request recorded before the object joined a Scene.
	//
	// Returns:
	//   - clip: the clip name, empty if none
	//   - loop: the loop flag
	//   - speed: the speed multiplier
	InitialPlayback() (clip string, loop bool, speed float32)

	// Palette returns the skinning matrices computed for this object by the last frame.
	//
	// Returns:
	//   - []mgl32.Mat4: the palette, or nil if the object is not animated
	Palette() []mgl32.Mat4

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetAnimator sets the Animator associated with this object.
	//
	// Parameters:
	//   - anim: the Animator to associate
	SetAnimator(anim animator.Animator)

	// SetAnimatorInstanceID sets the instance index within the Animator.
	//
	// Parameters:
	//   - instanceID: the instance index
	SetAnimatorInstanceID(instanceID int)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		animatorInstanceID: -1,
		initialTransform:   skeleton.Identity(),
		initialSpeed:       1,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Animator() animator.Animator {
	return g.animator
}

func (g *gameObject) AnimatorInstanceID() int {
	return g.animatorInstanceID
}

func (g *gameObject) Transform() skeleton.Transform {
	if !g.bound() {
		return g.initialTransform
	}
	return g.animator.InstanceTransform(uint32(g.animatorInstanceID))
}

func (g *gameObject) SetTransform(t skeleton.Transform) {
	if !g.bound() {
		g.initialTransform = t
		return
	}
	g.animator.SetInstanceTransform(uint32(g.animatorInstanceID), t)
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.Transform().Translation.Elem()
}

func (g *gameObject) SetPosition(x, y, z float32) {
	t := g.Transform()
	t.Translation = mgl32.Vec3{x, y, z}
	g.SetTransform(t)
}

func (g *gameObject) Orientation() mgl32.Quat {
	return g.Transform().Orientation
}

func (g *gameObject) SetOrientation(q mgl32.Quat) {
	t := g.Transform()
	t.Orientation = q
	g.SetTransform(t)
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	return g.Transform().Scale.Elem()
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	t := g.Transform()
	t.Scale = mgl32.Vec3{sx, sy, sz}
	g.SetTransform(t)
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	return g.Transform().ToMatrix()
}

func (g *gameObject) Play(clip string, loop bool) bool {
	if g.mdl == nil {
		return false
	}
	idx := g.mdl.ClipIndex(clip)
	if idx < 0 {
		return false
	}
	if !g.bound() {
		g.initialClip = clip
		g.initialLoop = loop
		return true
	}
	g.animator.PlayAnimation(uint32(g.animatorInstanceID), uint32(idx), loop)
	return true
}

func (g *gameObject) BlendTo(clip string, seconds float32) bool {
	if !g.bound() || g.mdl == nil {
		return false
	}
	idx := g.mdl.ClipIndex(clip)
	if idx < 0 {
		return false
	}
	g.animator.BlendToAnimation(uint32(g.animatorInstanceID), uint32(idx), seconds)
	return true
}

func (g *gameObject) InitialPlayback() (clip string, loop bool, speed float32) {
	return g.initialClip, g.initialLoop, g.initialSpeed
}

func (g *gameObject) Palette() []mgl32.Mat4 {
	if !g.bound() {
		return nil
	}
	return g.animator.Palette(uint32(g.animatorInstanceID))
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
}

func (g *gameObject) SetAnimator(anim animator.Animator) {
	g.animator = anim
}

func (g *gameObject) SetAnimatorInstanceID(instanceID int) {
	g.animatorInstanceID = instanceID
}

// bound reports whether the object is attached to an Animator instance.
func (g *gameObject) bound() bool {
	return g.animator != nil && g.animatorInstanceID >= 0
}
