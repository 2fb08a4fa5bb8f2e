package animator

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// defaultMaxInstances is the initial instance capacity before auto-grow.
const defaultMaxInstances = 200

// ErrNoModel is returned by AddInstance when the animator has no Model assigned.
var ErrNoModel = errors.New("animator: no model assigned")

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	model model.Model

	maxInstances, instanceCount uint32
	instances                   []instanceState
}

// Animator drives playback of one Model's clips for a set of instances.
//
// Each frame PrepareFrame advances every instance's playback cursor, samples its clip
// (cross-fading into a blend target when one is set) over the rest pose, and resolves the
// result into a matrix palette ready for skinning. Instances without an active clip
// resolve from the rest pose. All methods are safe for concurrent use; methods taking an
// out-of-range instance index are no-ops.
type Animator interface {
	// MaxInstances returns the current instance capacity.
	//
	// Returns:
	//   - uint32: the capacity before the next auto-grow
	MaxInstances() uint32

	// AddInstance registers a new instance in the rest pose.
	// If the current capacity is exceeded, the capacity is doubled.
	//
	// Returns:
	//   - uint32: the index of the newly registered instance
	//   - error: ErrNoModel if no model is assigned
	AddInstance() (uint32, error)

	// Grow increases the instance capacity to newMax, preserving all existing state.
	// No-op if newMax is less than or equal to the current capacity.
	//
	// Parameters:
	//   - newMax: the new capacity
	Grow(newMax uint32)

	// RemoveInstance removes the instance at the given index using a swap-remove strategy.
	// Returns the old last index that was swapped and whether a swap occurred.
	//
	// Parameters:
	//   - index: the instance index to remove
	//
	// Returns:
	//   - uint32: the old last index that was swapped into the removed slot (only meaningful when bool is true)
	//   - bool: true if the last instance was swapped into the removed slot
	RemoveInstance(index uint32) (uint32, bool)

	// InstanceCount returns the current number of registered instances.
	//
	// Returns:
	//   - uint32: the number of active instances
	InstanceCount() uint32

	// PrepareFrame advances playback by deltaTime and resolves every instance's palette.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// PlayAnimation starts playback of a clip from time 0 at normal speed, cancelling any blend.
	// An out-of-range clip index is ignored.
	//
	// Parameters:
	//   - instanceIndex: the instance to animate
	//   - clipIndex: the model clip to play
	//   - loop: whether playback wraps at the clip duration or holds the last frame
	PlayAnimation(instanceIndex, clipIndex uint32, loop bool)

	// StopAnimation clears the active clip so the instance returns to the rest pose.
	//
	// Parameters:
	//   - instanceIndex: the instance to stop
	StopAnimation(instanceIndex uint32)

	// BlendToAnimation cross-fades an instance from its current clip into targetClipIndex.
	// The target starts at time 0 and becomes the active clip once the blend completes.
	// A non-positive duration switches immediately.
	//
	// Parameters:
	//   - instanceIndex: the instance to blend
	//   - targetClipIndex: the clip to blend to
	//   - blendDuration: the transition time in seconds
	BlendToAnimation(instanceIndex, targetClipIndex uint32, blendDuration float32)

	// SetAnimationTime sets the playback position of the active clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to update
	//   - time: the playback time in seconds
	SetAnimationTime(instanceIndex uint32, time float32)

	// AnimationTime returns the playback position of the active clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - float32: the playback time in seconds
	AnimationTime(instanceIndex uint32) float32

	// SetAnimationSpeed sets the playback speed multiplier. Negative speeds play backwards.
	//
	// Parameters:
	//   - instanceIndex: the instance to update
	//   - speed: the speed multiplier (1.0 = normal, 0.5 = half speed)
	SetAnimationSpeed(instanceIndex uint32, speed float32)

	// ActiveClip returns the clip index the instance is playing.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - uint32: the active clip index
	//   - bool: false if the instance is in the rest pose
	ActiveClip(instanceIndex uint32) (uint32, bool)

	// IsBlending returns whether an instance is currently cross-fading between clips.
	//
	// Parameters:
	//   - instanceIndex: the instance to check
	//
	// Returns:
	//   - bool: true if the instance is blending
	IsBlending(instanceIndex uint32) bool

	// BlendProgress returns the current blend progress for an instance.
	//
	// Parameters:
	//   - instanceIndex: the instance to check
	//
	// Returns:
	//   - float32: blend progress from 0.0 (start) to 1.0 (complete), 0 when not blending
	BlendProgress(instanceIndex uint32) float32

	// CancelBlend stops an in-progress blend and keeps the current primary clip.
	//
	// Parameters:
	//   - instanceIndex: the instance to cancel blending for
	CancelBlend(instanceIndex uint32)

	// Pose returns a copy of the local pose computed by the last PrepareFrame.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - *skeleton.Pose: the pose copy, or nil for an invalid index
	Pose(instanceIndex uint32) *skeleton.Pose

	// Palette returns a copy of the skinning matrices computed by the last PrepareFrame,
	// indexed like the skeleton's joints.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - []mgl32.Mat4: the palette copy, or nil for an invalid index
	Palette(instanceIndex uint32) []mgl32.Mat4

	// PaletteBytes returns a copy of the instance palette packed for a GPU bone matrix buffer.
	//
	// Parameters:
	//   - instanceIndex: the instance to query
	//
	// Returns:
	//   - []byte: column-major float32 matrices, or nil for an invalid index
	PaletteBytes(instanceIndex uint32) []byte

	// SetInstanceTransform sets the world transform of an instance.
	//
	// Parameters:
	//   - index: the instance index to update
	//   - t: the world transform
	SetInstanceTransform(index uint32, t skeleton.Transform)

	// InstanceTransform returns the world transform of an instance.
	//
	// Parameters:
	//   - index: the instance index to query
	//
	// Returns:
	//   - skeleton.Transform: the world transform, identity for an invalid index
	InstanceTransform(index uint32) skeleton.Transform

	// Model retrieves the Model associated with this animator, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model. Every existing instance is stopped and reset to the new
	// skeleton's rest pose, since clip indices refer to the previous model.
	//
	// Parameters:
	//   - m: the Model to associate with this animator
	SetModel(m model.Model)
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator configured with the provided options.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new Animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:           &sync.Mutex{},
		maxInstances: defaultMaxInstances,
	}
	for _, opt := range options {
		opt(a)
	}
	a.instances = make([]instanceState, 0, a.maxInstances)
	return a
}

func (a *animator) MaxInstances() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxInstances
}

func (a *animator) AddInstance() (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return 0, ErrNoModel
	}
	if a.instanceCount >= a.maxInstances {
		a.grow(max(a.maxInstances*2, 8))
	}
	idx := a.instanceCount
	a.instances = append(a.instances, newInstanceState(a.model.Skeleton()))
	a.instanceCount++
	return idx, nil
}

func (a *animator) Grow(newMax uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grow(newMax)
}

// grow must be called with the lock held.
func (a *animator) grow(newMax uint32) {
	if newMax <= a.maxInstances {
		return
	}
	instances := make([]instanceState, len(a.instances), newMax)
	copy(instances, a.instances)
	a.instances = instances
	a.maxInstances = newMax
}

func (a *animator) RemoveInstance(index uint32) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.instanceCount == 0 || index >= a.instanceCount {
		return 0, false
	}

	last := a.instanceCount - 1
	swapped := index != last
	if swapped {
		a.instances[index] = a.instances[last]
	}
	a.instances[last] = instanceState{}
	a.instances = a.instances[:last]
	a.instanceCount--

	return last, swapped
}

func (a *animator) InstanceCount() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instanceCount
}

func (a *animator) PrepareFrame(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return
	}
	deltaTime = common.FiniteOr(deltaTime, 0)
	skel := a.model.Skeleton()

	for i := range a.instances {
		st := &a.instances[i]
		a.advance(st, deltaTime)
		a.sample(st, skel)
		st.palette = st.resolver.Resolve(st.palette, st.pose, skel)
	}
}

// advance moves the playback cursors of st forward and completes finished blends.
func (a *animator) advance(st *instanceState, deltaTime float32) {
	if clip := a.model.Clip(st.clip); clip != nil {
		st.time = advanceTime(st.time, deltaTime*st.speed, clip.Duration(), st.loop)
	}
	if !st.blending {
		return
	}

	target := a.model.Clip(st.blendTo)
	if target == nil {
		st.cancelBlend()
		return
	}
	st.blendElapsed += deltaTime
	st.blendToTime = advanceTime(st.blendToTime, deltaTime*st.speed, target.Duration(), st.loop)
	if st.blendElapsed >= st.blendDuration {
		st.clip = st.blendTo
		st.time = st.blendToTime
		st.cancelBlend()
	}
}

// sample writes the instance's local pose: rest pose, overlaid by the active clip,
// cross-faded towards the blend target.
func (a *animator) sample(st *instanceState, skel *skeleton.Skeleton) {
	if skel == nil || skel.RestPose == nil {
		return
	}
	st.pose.CopyFrom(skel.RestPose)
	if clip := a.model.Clip(st.clip); clip != nil {
		sampleClip(clip, st.pose, st.time, st.loop)
	}
	if !st.blending {
		return
	}
	target := a.model.Clip(st.blendTo)
	if target == nil {
		return
	}
	st.blendPose.CopyFrom(skel.RestPose)
	sampleClip(target, st.blendPose, st.blendToTime, st.loop)
	w := st.progress()
	for j := range st.pose.Joints {
		st.pose.Joints[j] = st.pose.Joints[j].Mix(st.blendPose.Joints[j], w)
	}
}

func (a *animator) PlayAnimation(instanceIndex, clipIndex uint32, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.instance(instanceIndex)
	if st == nil || !a.validClip(clipIndex) {
		return
	}
	st.cancelBlend()
	st.clip = int(clipIndex)
	st.time = 0
	st.speed = 1
	st.loop = loop
}

func (a *animator) StopAnimation(instanceIndex uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		st.stop()
	}
}

func (a *animator) BlendToAnimation(instanceIndex, targetClipIndex uint32, blendDuration float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.instance(instanceIndex)
	if st == nil || !a.validClip(targetClipIndex) {
		return
	}
	if blendDuration <= 0 || !common.IsFinite(blendDuration) {
		st.cancelBlend()
		st.clip = int(targetClipIndex)
		st.time = 0
		return
	}
	st.blending = true
	st.blendTo = int(targetClipIndex)
	st.blendToTime = 0
	st.blendDuration = blendDuration
	st.blendElapsed = 0
}

func (a *animator) SetAnimationTime(instanceIndex uint32, time float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		st.time = common.FiniteOr(time, 0)
	}
}

func (a *animator) AnimationTime(instanceIndex uint32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		return st.time
	}
	return 0
}

func (a *animator) SetAnimationSpeed(instanceIndex uint32, speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		st.speed = common.FiniteOr(speed, 1)
	}
}

func (a *animator) ActiveClip(instanceIndex uint32) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.instance(instanceIndex)
	if st == nil || st.clip == noClip {
		return 0, false
	}
	return uint32(st.clip), true
}

func (a *animator) IsBlending(instanceIndex uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.instance(instanceIndex)
	return st != nil && st.blending
}

func (a *animator) BlendProgress(instanceIndex uint32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		return st.progress()
	}
	return 0
}

func (a *animator) CancelBlend(instanceIndex uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		st.cancelBlend()
	}
}

func (a *animator) Pose(instanceIndex uint32) *skeleton.Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		return st.pose.Clone()
	}
	return nil
}

func (a *animator) Palette(instanceIndex uint32) []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		return append([]mgl32.Mat4(nil), st.palette...)
	}
	return nil
}

func (a *animator) PaletteBytes(instanceIndex uint32) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(instanceIndex); st != nil {
		return append([]byte(nil), model.GPUBoneMatrices(st.palette)...)
	}
	return nil
}

func (a *animator) SetInstanceTransform(index uint32, t skeleton.Transform) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(index); st != nil {
		st.world = t
	}
}

func (a *animator) InstanceTransform(index uint32) skeleton.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st := a.instance(index); st != nil {
		return st.world
	}
	return skeleton.Identity()
}

func (a *animator) Model() model.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *animator) SetModel(m model.Model) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model = m
	if m == nil {
		return
	}
	if !m.Skinned() {
		log.Printf("[Animator] model %q has no skeleton, instances will have empty palettes", m.Name())
	}
	for i := range a.instances {
		a.instances[i].stop()
		a.instances[i].reset(m.Skeleton())
	}
}

// --- Helper Functions ---

// instance returns the state at index, or nil when index is out of range. Lock must be held.
func (a *animator) instance(index uint32) *instanceState {
	if index >= a.instanceCount {
		return nil
	}
	return &a.instances[index]
}

// validClip reports whether clipIndex names a clip of the model. Lock must be held.
func (a *animator) validClip(clipIndex uint32) bool {
	if a.model == nil || int(clipIndex) >= a.model.ClipCount() {
		log.Printf("[Animator] clip index %d out of range", clipIndex)
		return false
	}
	return true
}

// advanceTime moves a playback cursor by step seconds, wrapping looped playback into
// [0, duration) and clamping one-shot playback to [0, duration].
func advanceTime(time, step, duration float32, loop bool) float32 {
	time = common.FiniteOr(time+step, 0)
	if loop {
		return common.WrapTime(time, duration)
	}
	return common.Clamp(time, 0, max(duration, 0))
}

// sampleClip samples clip into pose with the wrapping or clamping rule for the loop mode.
func sampleClip(clip *animation.Clip, pose *skeleton.Pose, time float32, loop bool) {
	if loop {
		clip.Sample(pose, time)
	} else {
		clip.SampleClamped(pose, time)
	}
}
